package version

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

// TestGitHelperProcess stands in for git when run as a child process. It
// answers "git describe" from FAKE_GIT_COMMIT and FAKE_GIT_TAG; the value
// "fail" makes it exit non-zero.
func TestGitHelperProcess(t *testing.T) {
	if os.Getenv("TSFORECAST_FAKE_GIT") != "1" {
		return
	}
	defer os.Exit(0)

	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]
			break
		}
	}
	if len(args) < 3 || args[0] != "git" || args[1] != "describe" {
		os.Exit(2)
	}

	key := "FAKE_GIT_COMMIT"
	if args[2] == "--tags" {
		key = "FAKE_GIT_TAG"
	}
	out := os.Getenv(key)
	if out == "fail" {
		os.Exit(1)
	}
	fmt.Fprintln(os.Stdout, out)
}

// fakeGit routes git calls to TestGitHelperProcess for the rest of the test.
func fakeGit(t *testing.T, commit, tag string) {
	t.Helper()
	orig := execCommand
	t.Cleanup(func() {
		execCommand = orig
		Reset()
	})

	execCommand = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cs := append([]string{"-test.run=TestGitHelperProcess", "--", name}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = []string{
			"TSFORECAST_FAKE_GIT=1",
			"FAKE_GIT_COMMIT=" + commit,
			"FAKE_GIT_TAG=" + tag,
		}
		return cmd
	}
	Reset()
}

func TestInfo_FromGit(t *testing.T) {
	tests := []struct {
		name       string
		commit     string
		tag        string
		wantVer    string
		wantCommit string
	}{
		{"tagged release", "3f9c2e1", "v0.3.0", "v0.3.0", "3f9c2e1"},
		{"dirty tree", "3f9c2e1-dirty", "v0.3.0", "v0.3.0", "3f9c2e1-dirty"},
		{"no tags yet", "3f9c2e1", "fail", "dev", "3f9c2e1"},
		{"empty tag output", "3f9c2e1", "", "dev", "3f9c2e1"},
		{"not a repository", "fail", "fail", "dev", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeGit(t, tt.commit, tt.tag)

			if got := GetVersion(); got != tt.wantVer {
				t.Errorf("GetVersion() = %q, want %q", got, tt.wantVer)
			}
			if got := GetCommit(); got != tt.wantCommit {
				t.Errorf("GetCommit() = %q, want %q", got, tt.wantCommit)
			}

			want := fmt.Sprintf("%s %s (commit: %s", Name, tt.wantVer, tt.wantCommit)
			if info := Info(); !strings.HasPrefix(info, want) {
				t.Errorf("Info() = %q, want prefix %q", info, want)
			}
		})
	}
}

func TestGetDate_DefaultsToToday(t *testing.T) {
	fakeGit(t, "3f9c2e1", "v0.3.0")

	if _, err := time.Parse("2006-01-02", GetDate()); err != nil {
		t.Errorf("GetDate() = %q is not YYYY-MM-DD: %v", GetDate(), err)
	}
}

func TestInfo_Ldflags(t *testing.T) {
	Reset()
	defer Reset()

	Version = "2.1.0"
	Commit = "abc1234"
	Date = "2026-01-15"

	info := Info()
	want := "tsforecast 2.1.0 (commit: abc1234, built: 2026-01-15"
	if !strings.HasPrefix(info, want) {
		t.Errorf("Info() = %q, want prefix %q", info, want)
	}
}
