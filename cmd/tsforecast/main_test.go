package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/tsforecast-tui/internal/version"
)

// isolate keeps .env files and the environment out of the test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"DATABASE_PATH", "FORECAST_HORIZON", "WATCH_DATABASE", "FORECAST_ALERT_ABOVE", "LOG_FILE", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	t.Chdir(home)
	return filepath.Join(home, "series.db")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := (&cli{}).execute(args, &out, &out)
	return out.String(), err
}

func TestAddListDelete(t *testing.T) {
	dbPath := isolate(t)

	out, err := execute(t, "--db", dbPath, "add", "2024-01", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "Added 2024-01 = 100")

	_, err = execute(t, "--db", dbPath, "add", "2024-02", "112.5")
	require.NoError(t, err)

	out, err = execute(t, "--db", dbPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Date")
	assert.Regexp(t, `2024-02\s+│\s+112\.5`, out)
	assert.Less(t, strings.Index(out, "2024-01"), strings.Index(out, "2024-02"))

	out, err = execute(t, "--db", dbPath, "update", "2024-02", "110")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated 2024-02 = 110")

	out, err = execute(t, "--db", dbPath, "delete-last")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 2024-02 = 110")

	out, err = execute(t, "--db", dbPath, "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "2024-02")
}

func TestAdd_Errors(t *testing.T) {
	dbPath := isolate(t)

	_, err := execute(t, "--db", dbPath, "add", "2024-01", "1")
	require.NoError(t, err)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"duplicate", []string{"add", "2024-01", "2"}, "already exists"},
		{"bad date", []string{"add", "2024-1", "2"}, "must be YYYY-MM"},
		{"bad value", []string{"add", "2024-02", "abc"}, "not a number"},
		{"infinite value", []string{"add", "2024-02", "Inf"}, "must be finite"},
		{"missing month", []string{"update", "2030-01", "2"}, "no observation for 2030-01"},
		{"missing argument", []string{"add", "2024-02"}, "accepts 2 arg(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"--db", dbPath}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDeleteLast_Empty(t *testing.T) {
	dbPath := isolate(t)

	out, err := execute(t, "--db", dbPath, "delete-last")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to delete")
}

func TestList_Empty(t *testing.T) {
	dbPath := isolate(t)

	out, err := execute(t, "--db", dbPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No observations yet")
}

func TestForecast(t *testing.T) {
	dbPath := isolate(t)

	for i, v := range []string{"100", "108", "113", "121", "126", "135"} {
		date := "2024-0" + string(rune('1'+i))
		_, err := execute(t, "--db", dbPath, "add", date, v)
		require.NoError(t, err)
	}

	out, err := execute(t, "--db", dbPath, "forecast", "--steps", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Forecast")
	for _, month := range []string{"2024-07", "2024-08", "2024-09"} {
		assert.Contains(t, out, month)
	}
	assert.NotContains(t, out, "2024-10")

	// default horizon from the environment
	t.Setenv("FORECAST_HORIZON", "2")
	out, err = execute(t, "--db", dbPath, "forecast")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-08")
	assert.NotContains(t, out, "2024-09")
}

func TestForecast_Errors(t *testing.T) {
	dbPath := isolate(t)

	out, err := execute(t, "--db", dbPath, "forecast")
	require.NoError(t, err)
	assert.Contains(t, out, "No observations yet")

	_, err = execute(t, "--db", dbPath, "add", "2024-01", "1")
	require.NoError(t, err)

	_, err = execute(t, "--db", dbPath, "forecast")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not enough data")

	_, err = execute(t, "--db", dbPath, "forecast", "--steps", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--steps must be at least 1")
}

func TestVersion(t *testing.T) {
	isolate(t)

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, version.Name)

	out, err = execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, version.GetVersion())
}

func TestHelpListsShortcuts(t *testing.T) {
	isolate(t)

	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Keyboard Shortcuts")
	assert.Contains(t, out, "delete-last")
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"Month", "Forecast"}, [][]string{{"2024-07", "5"}, {"2024-08", "1234.5"}})

	// top border, header, header rule, two rows, bottom border
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[1], "Month")
	assert.Contains(t, lines[1], "Forecast")

	// values are right aligned
	assert.Equal(t, strings.Index(lines[4], "1234.5 │")+5, strings.Index(lines[3], "5 │"))
}

func TestExecute_ClosesLogFileOnFailure(t *testing.T) {
	dbPath := isolate(t)
	logPath := filepath.Join(t.TempDir(), "tsforecast.log")
	t.Setenv("LOG_FILE", logPath)

	c := &cli{}
	var out bytes.Buffer
	err := c.execute([]string{"--db", dbPath, "update", "2024-01", "5"}, &out, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no observation for 2024-01")

	assert.FileExists(t, logPath)
	assert.Nil(t, c.logFile, "the log file should be closed after a failed command")
}
