package app

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/tsforecast-tui/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second

	// operationTimeout bounds a single store round trip.
	operationTimeout = 10 * time.Second
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// reloadCmd reloads observations and recomputes the forecast.
func reloadCmd(mgr *services.Manager, horizon int, seq uint64) tea.Cmd {
	return tea.Batch(
		loadObservationsCmd(mgr),
		loadForecastCmd(mgr, horizon, seq),
	)
}

// loadObservationsCmd returns a command that reads all observations.
func loadObservationsCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
		defer cancel()

		obs, err := mgr.Observations(ctx)
		return ObservationsLoadedMsg{Observations: obs, Error: err}
	}
}

// loadForecastCmd returns a command that recomputes the forecast for the
// request numbered seq.
func loadForecastCmd(mgr *services.Manager, horizon int, seq uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
		defer cancel()

		result, err := mgr.Forecast(ctx, horizon)
		return ForecastLoadedMsg{Seq: seq, Result: result, Error: err}
	}
}

// addObservationCmd returns a command that stores a new observation.
func addObservationCmd(mgr *services.Manager, date string, value float64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
		defer cancel()

		obs, err := mgr.AddObservation(ctx, date, value)
		return ObservationAddedMsg{Date: date, Observation: obs, Error: err}
	}
}

// updateObservationCmd returns a command that changes an existing value.
func updateObservationCmd(mgr *services.Manager, date string, value float64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
		defer cancel()

		err := mgr.UpdateObservation(ctx, date, value)
		return ObservationUpdatedMsg{Date: date, Value: value, Error: err}
	}
}

// deleteLastCmd returns a command that deletes the last inserted observation.
func deleteLastCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
		defer cancel()

		obs, err := mgr.DeleteLastObservation(ctx)
		return ObservationDeletedMsg{Observation: obs, Error: err}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// copyToClipboardCmd writes text to the system clipboard and reports the outcome.
func copyToClipboardCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if err := writeClipboard(text); err != nil {
			return AddNotificationMsg{
				Type:     NotificationWarning,
				Message:  "Clipboard unavailable: " + err.Error(),
				Duration: DefaultNotificationDuration,
			}
		}
		return AddNotificationMsg{
			Type:     NotificationSuccess,
			Message:  "Copied " + text,
			Duration: QuickNotificationDuration,
		}
	}
}

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

func notifyCmd(t NotificationType, message string, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     t,
			Message:  message,
			Duration: d,
		}
	}
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return notifyCmd(NotificationSuccess, message, DefaultNotificationDuration)
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return notifyCmd(NotificationError, message, LongNotificationDuration)
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return notifyCmd(NotificationWarning, message, DefaultNotificationDuration)
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return notifyCmd(NotificationInfo, message, QuickNotificationDuration)
}

// Commands is how tabs ask the root model for work. Every request travels
// as a message so that state changes stay in the root model.
type Commands struct{}

// NewCommands creates a new Commands instance.
func NewCommands() *Commands {
	return &Commands{}
}

// Reload requests a full re-read of observations and the forecast.
func (c *Commands) Reload() tea.Cmd {
	return func() tea.Msg {
		return RefreshMsg{}
	}
}

// AddObservation requests an insert through the root model.
func (c *Commands) AddObservation(date string, value float64) tea.Cmd {
	return func() tea.Msg {
		return AddObservationMsg{Date: date, Value: value}
	}
}

// UpdateObservation requests an update through the root model.
func (c *Commands) UpdateObservation(date string, value float64) tea.Cmd {
	return func() tea.Msg {
		return UpdateObservationMsg{Date: date, Value: value}
	}
}

// DeleteLast requests deleting the last inserted observation.
func (c *Commands) DeleteLast() tea.Cmd {
	return func() tea.Msg {
		return DeleteLastMsg{}
	}
}

// SetHorizon requests a forecast with a new horizon.
func (c *Commands) SetHorizon(steps int) tea.Cmd {
	return func() tea.Msg {
		return SetHorizonMsg{Steps: steps}
	}
}

// CopyToClipboard requests copying text to the system clipboard.
func (c *Commands) CopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return CopyToClipboardMsg{Text: text}
	}
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}
