package app

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/tsforecast-tui/internal/config"
	"github.com/j-veylop/tsforecast-tui/internal/db"
	"github.com/j-veylop/tsforecast-tui/internal/services"
)

func newTestManager(t *testing.T) *services.Manager {
	t.Helper()

	cfg := &config.Config{
		DatabasePath:   filepath.Join(t.TempDir(), "app.db"),
		DefaultHorizon: 2,
		LogLevel:       "info",
	}
	mgr, err := services.NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr
}

func TestDefaultTickCmd(t *testing.T) {
	if cmd := defaultTickCmd(); cmd == nil {
		t.Error("defaultTickCmd returned nil")
	}
}

func TestNotifyCmds(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) tea.Cmd
		want NotificationType
	}{
		{"Success", notifySuccessCmd, NotificationSuccess},
		{"Error", notifyErrorCmd, NotificationError},
		{"Warning", notifyWarningCmd, NotificationWarning},
		{"Info", NewCommands().NotifyInfo, NotificationInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.fn("msg")()

			addMsg, ok := msg.(AddNotificationMsg)
			if !ok {
				t.Fatalf("Expected AddNotificationMsg, got %T", msg)
			}
			if addMsg.Type != tt.want {
				t.Errorf("Type = %v, want %v", addMsg.Type, tt.want)
			}
			if addMsg.Message != "msg" {
				t.Errorf("Message = %q, want msg", addMsg.Message)
			}
			if addMsg.Duration <= 0 {
				t.Error("Duration should be positive")
			}
		})
	}
}

func TestCommands_Requests(t *testing.T) {
	cmds := NewCommands()

	if msg, ok := cmds.AddObservation("2024-01", 5)().(AddObservationMsg); !ok || msg.Date != "2024-01" || msg.Value != 5 {
		t.Errorf("AddObservation produced %+v", msg)
	}
	if msg, ok := cmds.UpdateObservation("2024-02", 7)().(UpdateObservationMsg); !ok || msg.Date != "2024-02" || msg.Value != 7 {
		t.Errorf("UpdateObservation produced %+v", msg)
	}
	if _, ok := cmds.DeleteLast()().(DeleteLastMsg); !ok {
		t.Error("DeleteLast should produce DeleteLastMsg")
	}
	if msg, ok := cmds.SetHorizon(6)().(SetHorizonMsg); !ok || msg.Steps != 6 {
		t.Errorf("SetHorizon produced %+v", msg)
	}
	if _, ok := cmds.Reload()().(RefreshMsg); !ok {
		t.Error("Reload should produce RefreshMsg")
	}
	if msg, ok := cmds.CopyToClipboard("/tmp/x.db")().(CopyToClipboardMsg); !ok || msg.Text != "/tmp/x.db" {
		t.Errorf("CopyToClipboard produced %+v", msg)
	}
}

func TestCommands_StoreRoundTrip(t *testing.T) {
	mgr := newTestManager(t)

	added, ok := addObservationCmd(mgr, "2024-01", 100)().(ObservationAddedMsg)
	if !ok {
		t.Fatal("expected ObservationAddedMsg")
	}
	if added.Error != nil || added.Observation == nil || added.Observation.ID == 0 {
		t.Fatalf("add failed: %+v", added)
	}

	dup := addObservationCmd(mgr, "2024-01", 1)().(ObservationAddedMsg)
	if !errors.Is(dup.Error, db.ErrDuplicateDate) {
		t.Errorf("duplicate add error = %v, want ErrDuplicateDate", dup.Error)
	}

	upd := updateObservationCmd(mgr, "2024-01", 120)().(ObservationUpdatedMsg)
	if upd.Error != nil {
		t.Errorf("update failed: %v", upd.Error)
	}

	loaded := loadObservationsCmd(mgr)().(ObservationsLoadedMsg)
	if loaded.Error != nil || len(loaded.Observations) != 1 || loaded.Observations[0].Value != 120 {
		t.Errorf("load = %+v", loaded)
	}

	del := deleteLastCmd(mgr)().(ObservationDeletedMsg)
	if del.Error != nil || del.Observation == nil || del.Observation.Date.String() != "2024-01" {
		t.Errorf("delete = %+v", del)
	}

	empty := deleteLastCmd(mgr)().(ObservationDeletedMsg)
	if empty.Error != nil || empty.Observation != nil {
		t.Errorf("delete on empty table = %+v", empty)
	}
}

func TestCommands_LoadForecast(t *testing.T) {
	mgr := newTestManager(t)
	for i, d := range []string{"2024-01", "2024-02", "2024-03", "2024-04"} {
		if msg := addObservationCmd(mgr, d, float64(10*(i+1)))().(ObservationAddedMsg); msg.Error != nil {
			t.Fatalf("add %s: %v", d, msg.Error)
		}
	}

	msg := loadForecastCmd(mgr, 2, 7)().(ForecastLoadedMsg)
	if msg.Error != nil {
		t.Fatalf("forecast failed: %v", msg.Error)
	}
	if msg.Seq != 7 {
		t.Errorf("Seq = %d, want 7", msg.Seq)
	}
	if len(msg.Result.Points) != 2 {
		t.Fatalf("got %d points, want 2", len(msg.Result.Points))
	}
	if msg.Result.Points[0].Date.String() != "2024-05" {
		t.Errorf("first forecast month = %s, want 2024-05", msg.Result.Points[0].Date)
	}
}

func TestWaitForServiceEventCmd_Closed(t *testing.T) {
	ch := make(chan services.ServiceEvent)
	close(ch)

	if msg := waitForServiceEventCmd(ch)(); msg != nil {
		t.Errorf("closed channel should yield nil, got %T", msg)
	}
}

func TestWaitForServiceEventCmd_Event(t *testing.T) {
	ch := make(chan services.ServiceEvent, 1)
	ch <- services.DataChangedEvent{Path: "x.db"}

	msg, ok := waitForServiceEventCmd(ch)().(ServiceEventMsg)
	if !ok {
		t.Fatal("expected ServiceEventMsg")
	}
	if ev, ok := msg.Event.(services.DataChangedEvent); !ok || ev.Path != "x.db" {
		t.Errorf("event = %+v", msg.Event)
	}
}

func TestCopyToClipboardCmd(t *testing.T) {
	orig := writeClipboard
	t.Cleanup(func() { writeClipboard = orig })

	var copied string
	writeClipboard = func(text string) error {
		copied = text
		return nil
	}
	msg := copyToClipboardCmd("/data/x.db")().(AddNotificationMsg)
	if copied != "/data/x.db" || msg.Type != NotificationSuccess {
		t.Errorf("copied %q, notification %+v", copied, msg)
	}

	writeClipboard = func(string) error { return errors.New("no display") }
	msg = copyToClipboardCmd("x")().(AddNotificationMsg)
	if msg.Type != NotificationWarning || !strings.Contains(msg.Message, "no display") {
		t.Errorf("notification = %+v", msg)
	}
}
