package app

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/j-veylop/tsforecast-tui/internal/forecast"
	"github.com/j-veylop/tsforecast-tui/internal/models"
)

func TestNewState(t *testing.T) {
	s := NewState(12)
	if s == nil {
		t.Fatal("NewState returned nil")
	}
	if len(s.Observations) != 0 {
		t.Error("Observations should be empty")
	}
	if s.Loading.Initial != true {
		t.Error("Initial loading should be true")
	}
	if s.GetHorizon() != 12 {
		t.Errorf("GetHorizon = %d, want 12", s.GetHorizon())
	}

	if got := NewState(0).GetHorizon(); got != 1 {
		t.Errorf("NewState(0) horizon = %d, want 1", got)
	}
}

func TestState_SetLoading(t *testing.T) {
	s := NewState(12)

	s.SetLoading("observations", true)
	if !s.Loading.Observations {
		t.Error("Observations loading should be true")
	}
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true")
	}

	s.SetLoading("observations", false)
	// Initial is still true
	if !s.AnyLoading() {
		t.Error("AnyLoading should be true (Initial is true)")
	}
	if !s.IsInitialLoading() {
		t.Error("IsInitialLoading should be true")
	}

	s.SetLoading("initial", false)
	if s.AnyLoading() {
		t.Error("AnyLoading should be false")
	}

	resources := s.GetLoadingResources()
	if len(resources) != 0 {
		t.Errorf("GetLoadingResources should be empty, got %v", resources)
	}

	s.SetLoading("forecast", true)
	resources = s.GetLoadingResources()
	if len(resources) != 1 || resources[0] != "forecast" {
		t.Errorf("GetLoadingResources should contain forecast, got %v", resources)
	}
}

func TestState_Observations(t *testing.T) {
	s := NewState(12)
	rev := s.Revision()

	obs := []models.Observation{
		{ID: 1, Date: models.MustParseMonth("2024-01"), Value: 100},
		{ID: 2, Date: models.MustParseMonth("2024-02"), Value: 110},
	}
	s.SetObservations(obs)

	if s.ObservationCount() != 2 {
		t.Errorf("ObservationCount = %d, want 2", s.ObservationCount())
	}
	if s.Revision() == rev {
		t.Error("Revision should change after SetObservations")
	}

	got := s.GetObservations()
	if len(got) != 2 || got[1].Value != 110 {
		t.Errorf("GetObservations = %v", got)
	}

	// callers get a copy
	got[0].Value = -1
	if s.GetObservations()[0].Value != 100 {
		t.Error("GetObservations should return a copy")
	}
	if s.GetLastUpdated().IsZero() {
		t.Error("LastUpdated should be set")
	}
}

func TestState_Forecast(t *testing.T) {
	s := NewState(12)

	result := &models.ForecastResult{Horizon: 2}
	s.SetForecast(result, nil)

	got, err := s.GetForecast()
	if got != result || err != nil {
		t.Errorf("GetForecast = %v, %v", got, err)
	}
	if s.ForecastUnavailable() {
		t.Error("ForecastUnavailable should be false without error")
	}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"insufficient", &forecast.InsufficientDataError{Count: 2, Reason: "too few observations"}, true},
		{"wrapped insufficient", fmt.Errorf("forecast: %w", forecast.ErrInsufficientData), true},
		{"horizon", forecast.ErrInvalidHorizon, true},
		{"other", errors.New("disk gone"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.SetForecast(result, tt.err)
			if got := s.ForecastUnavailable(); got != tt.want {
				t.Errorf("ForecastUnavailable = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestState_SetHorizon(t *testing.T) {
	s := NewState(12)

	if !s.SetHorizon(3) {
		t.Error("SetHorizon(3) should succeed")
	}
	if s.GetHorizon() != 3 {
		t.Errorf("GetHorizon = %d, want 3", s.GetHorizon())
	}

	for _, bad := range []int{0, -4} {
		if s.SetHorizon(bad) {
			t.Errorf("SetHorizon(%d) should fail", bad)
		}
	}
	if s.GetHorizon() != 3 {
		t.Errorf("horizon changed to %d after invalid input", s.GetHorizon())
	}
}

func TestState_Notifications(t *testing.T) {
	s := NewState(12)

	id := s.AddNotification(NotificationInfo, "test", time.Minute)
	if id == "" {
		t.Error("AddNotification returned empty ID")
	}

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("GetNotifications len = %d, want 1", len(notifs))
	}
	if notifs[0].Message != "test" {
		t.Errorf("Notification message = %s, want test", notifs[0].Message)
	}

	s.RemoveNotification(id)
	if len(s.GetNotifications()) != 0 {
		t.Error("Notification should be removed")
	}
}

func TestState_ClearExpiredNotifications(t *testing.T) {
	s := NewState(12)

	s.notifications = append(s.notifications, Notification{
		ID:        "expired",
		CreatedAt: time.Now().Add(-2 * time.Minute),
		Duration:  time.Minute,
	})
	s.notifications = append(s.notifications, Notification{
		ID:        "active",
		CreatedAt: time.Now(),
		Duration:  time.Minute,
	})

	s.ClearExpiredNotifications()

	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifs))
	}
	if notifs[0].ID != "active" {
		t.Errorf("Expected active notification, got %s", notifs[0].ID)
	}
}

func TestState_LoadingNotification(t *testing.T) {
	s := NewState(12)

	s.SetLoadingNotification("loading...")
	notifs := s.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifs))
	}
	if notifs[0].ID != LoadingNotificationID {
		t.Errorf("Expected ID %s, got %s", LoadingNotificationID, notifs[0].ID)
	}

	s.SetLoadingNotification("still loading...")
	notifs = s.GetNotifications()
	if len(notifs) != 1 {
		t.Errorf("Expected 1 notification after update")
	}
	if notifs[0].Message != "still loading..." {
		t.Errorf("Expected message still loading..., got %s", notifs[0].Message)
	}

	s.ClearLoadingNotification()
	if len(s.GetNotifications()) != 0 {
		t.Error("Loading notification should be cleared")
	}
}

func TestState_TimeSinceUpdate(t *testing.T) {
	s := NewState(12)
	if s.TimeSinceUpdate() != 0 {
		t.Error("TimeSinceUpdate should be 0 before any data")
	}

	s.SetObservations(nil)
	time.Sleep(time.Millisecond)
	if s.TimeSinceUpdate() == 0 {
		t.Error("TimeSinceUpdate should be > 0")
	}
}

func TestNotificationType_String(t *testing.T) {
	tests := []struct {
		t    NotificationType
		want string
	}{
		{NotificationSuccess, "success"},
		{NotificationError, "error"},
		{NotificationWarning, "warning"},
		{NotificationInfo, "info"},
		{NotificationLoading, "loading"},
		{NotificationType(999), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestState_ForecastRequests(t *testing.T) {
	s := NewState(12)
	s.SetLoading("initial", false)

	first := s.NextForecastRequest()
	if !s.Loading.Forecast {
		t.Error("a forecast request should mark the forecast as loading")
	}
	second := s.NextForecastRequest()
	if second <= first {
		t.Errorf("sequence did not advance: %d then %d", first, second)
	}
	if s.IsLatestForecast(first) {
		t.Error("the first request should be superseded")
	}
	if !s.IsLatestForecast(second) {
		t.Error("the second request should be the latest")
	}
}
