// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"errors"
	"sync"
	"time"

	"github.com/j-veylop/tsforecast-tui/internal/forecast"
	"github.com/j-veylop/tsforecast-tui/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"

	maxNotifications = 10
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	case NotificationLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Initial      bool
	Observations bool
	Forecast     bool
}

// State is shared between the root model and the tabs. Tabs read from it
// while rendering; only the root model writes to it.
type State struct {
	mu sync.RWMutex

	Observations []models.Observation
	Forecast     *models.ForecastResult
	ForecastErr  error
	Horizon      int

	Loading LoadingState

	LastUpdated time.Time

	// revision increases on every observation or forecast change so tabs
	// can tell when to rebuild derived views.
	revision uint64

	// forecastSeq numbers forecast requests. Only the result of the newest
	// request is stored.
	forecastSeq uint64

	notifications   []Notification
	notificationSeq int
}

// NewState creates the shared state with the given default horizon.
func NewState(horizon int) *State {
	if horizon < 1 {
		horizon = 1
	}
	return &State{
		Observations:  make([]models.Observation, 0),
		Horizon:       horizon,
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "observations":
		s.Loading.Observations = loading
	case "forecast":
		s.Loading.Forecast = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial ||
		s.Loading.Observations ||
		s.Loading.Forecast
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// GetLoadingResources returns a list of currently loading resources.
func (s *State) GetLoadingResources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var resources []string
	if s.Loading.Initial {
		resources = append(resources, "initial")
	}
	if s.Loading.Observations {
		resources = append(resources, "observations")
	}
	if s.Loading.Forecast {
		resources = append(resources, "forecast")
	}
	return resources
}

// SetObservations replaces the observation list.
func (s *State) SetObservations(obs []models.Observation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Observations = obs
	s.LastUpdated = time.Now()
	s.revision++
}

// GetObservations returns a copy of the observation list.
func (s *State) GetObservations() []models.Observation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obs := make([]models.Observation, len(s.Observations))
	copy(obs, s.Observations)
	return obs
}

// ObservationCount returns the number of loaded observations.
func (s *State) ObservationCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.Observations)
}

// SetForecast stores the latest forecast and the error that came with it.
func (s *State) SetForecast(result *models.ForecastResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Forecast = result
	s.ForecastErr = err
	s.LastUpdated = time.Now()
	s.revision++
}

// NextForecastRequest marks the forecast as loading and returns the sequence
// number its result must carry to be accepted.
func (s *State) NextForecastRequest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.forecastSeq++
	s.Loading.Forecast = true
	return s.forecastSeq
}

// IsLatestForecast reports whether seq belongs to the newest forecast request.
func (s *State) IsLatestForecast(seq uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return seq == s.forecastSeq
}

// GetForecast returns the latest forecast and its error.
func (s *State) GetForecast() (*models.ForecastResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Forecast, s.ForecastErr
}

// ForecastUnavailable reports whether the last forecast failed for a reason
// the user can fix by entering more data or a different horizon.
func (s *State) ForecastUnavailable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return errors.Is(s.ForecastErr, forecast.ErrInsufficientData) ||
		errors.Is(s.ForecastErr, forecast.ErrInvalidHorizon)
}

// GetHorizon returns the number of months to forecast.
func (s *State) GetHorizon() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Horizon
}

// SetHorizon updates the forecast horizon. Values below 1 are ignored.
func (s *State) SetHorizon(steps int) bool {
	if steps < 1 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Horizon = steps
	return true
}

// Revision returns a counter that changes whenever data changes.
func (s *State) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	notification := Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	if len(s.notifications) > maxNotifications {
		s.notifications = s.notifications[len(s.notifications)-maxNotifications:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}

	return active
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// GetLastUpdated returns the last time the state was updated.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
