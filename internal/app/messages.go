package app

import (
	"time"

	"github.com/j-veylop/tsforecast-tui/internal/models"
	"github.com/j-veylop/tsforecast-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// ObservationsLoadedMsg contains the full observation list.
type ObservationsLoadedMsg struct {
	Observations []models.Observation
	Error        error
}

// ForecastLoadedMsg contains a recomputed forecast. Result carries the
// observations even when Error is set. Seq identifies the request; results
// of superseded requests are dropped.
type ForecastLoadedMsg struct {
	Seq    uint64
	Result *models.ForecastResult
	Error  error
}

// AddObservationMsg requests inserting a new observation.
type AddObservationMsg struct {
	Date  string
	Value float64
}

// ObservationAddedMsg contains the result of an insert.
type ObservationAddedMsg struct {
	Date        string
	Observation *models.Observation
	Error       error
}

// UpdateObservationMsg requests changing the value of an existing month.
type UpdateObservationMsg struct {
	Date  string
	Value float64
}

// ObservationUpdatedMsg contains the result of an update.
type ObservationUpdatedMsg struct {
	Date  string
	Value float64
	Error error
}

// DeleteLastMsg requests deleting the most recently inserted observation.
type DeleteLastMsg struct{}

// ObservationDeletedMsg contains the result of a delete. Observation is nil
// when there was nothing to delete.
type ObservationDeletedMsg struct {
	Observation *models.Observation
	Error       error
}

// SetHorizonMsg changes the number of forecast months.
type SetHorizonMsg struct {
	Steps int
}

// RefreshMsg requests reloading observations and the forecast.
type RefreshMsg struct{}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// CopyToClipboardMsg requests copying text to the system clipboard.
type CopyToClipboardMsg struct {
	Text string
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
