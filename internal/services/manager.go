// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/j-veylop/tsforecast-tui/internal/config"
	"github.com/j-veylop/tsforecast-tui/internal/db"
	"github.com/j-veylop/tsforecast-tui/internal/forecast"
	"github.com/j-veylop/tsforecast-tui/internal/logger"
	"github.com/j-veylop/tsforecast-tui/internal/models"
	"github.com/j-veylop/tsforecast-tui/internal/services/watcher"
)

type (
	// DataChangedEvent is emitted when the database file was modified
	// outside the running session.
	DataChangedEvent struct {
		Path string
	}

	// ForecastAlertEvent is emitted when a forecast first rises above the
	// configured threshold.
	ForecastAlertEvent struct {
		Threshold float64
		Peak      models.ForecastPoint
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (DataChangedEvent) isServiceEvent()   {}
func (ForecastAlertEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()         {}

// Store is the persistence the manager needs. *db.DB implements it.
type Store interface {
	AddObservation(ctx context.Context, obs *models.Observation) error
	UpdateObservation(ctx context.Context, date models.Month, value float64) error
	DeleteLastObservation(ctx context.Context) (*models.Observation, error)
	GetObservation(ctx context.Context, date models.Month) (*models.Observation, error)
	ListObservations(ctx context.Context) ([]models.Observation, error)
	CountObservations(ctx context.Context) (int, error)
	Path() string
	Close() error
}

// Notifier delivers desktop notifications.
type Notifier func(title, body string) error

func beeepNotify(title, body string) error {
	return beeep.Notify(title, body, "")
}

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	cfg         *config.Config
	store       Store
	watcher     *watcher.Watcher
	notify      Notifier
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent
	closeOnce   sync.Once

	alertMu    sync.Mutex
	alertKnown bool
	wasAbove   bool
}

// NewManager opens the database and, if enabled, starts watching it.
func NewManager(cfg *config.Config) (*Manager, error) {
	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m := NewManagerWithStore(cfg, database)

	if cfg.WatchDatabase {
		w, err := watcher.New(cfg.DatabasePath, cfg.WatchDebounce)
		if err != nil {
			// The dashboard still works without live reload.
			logger.Warn("database watcher disabled", "error", err)
		} else {
			m.watcher = w
			go m.routeEvents()
		}
	}

	return m, nil
}

// NewManagerWithStore creates a manager over an already opened store.
// No watcher is started.
func NewManagerWithStore(cfg *config.Config, store Store) *Manager {
	return &Manager{
		cfg:      cfg,
		store:    store,
		notify:   beeepNotify,
		stopChan: make(chan struct{}),
	}
}

// SetNotifier replaces the desktop notification function.
func (m *Manager) SetNotifier(n Notifier) {
	m.alertMu.Lock()
	defer m.alertMu.Unlock()
	m.notify = n
}

// routeEvents routes watcher events to subscribers.
func (m *Manager) routeEvents() {
	for {
		select {
		case event := <-m.watcher.Events():
			m.handleWatcherEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleWatcherEvent(event watcher.Event) {
	switch event.Type {
	case watcher.EventChanged:
		logger.Debug("database changed on disk", "path", event.Path)
		m.broadcast(DataChangedEvent{Path: event.Path})

	case watcher.EventError:
		m.broadcast(ErrorEvent{
			Service: "watcher",
			Error:   event.Error,
		})
	}
}

// Observations returns every stored observation ordered by date.
func (m *Manager) Observations(ctx context.Context) ([]models.Observation, error) {
	return m.store.ListObservations(ctx)
}

// Count returns the number of stored observations.
func (m *Manager) Count(ctx context.Context) (int, error) {
	return m.store.CountObservations(ctx)
}

// GetObservation looks up the observation for a YYYY-MM date.
func (m *Manager) GetObservation(ctx context.Context, date string) (*models.Observation, error) {
	month, err := models.ValidateDate(date)
	if err != nil {
		return nil, err
	}
	return m.store.GetObservation(ctx, month)
}

// AddObservation validates and stores a new observation.
func (m *Manager) AddObservation(ctx context.Context, date string, value float64) (*models.Observation, error) {
	obs, err := models.NewObservation(date, value)
	if err != nil {
		return nil, err
	}
	if err := m.store.AddObservation(ctx, &obs); err != nil {
		return nil, err
	}
	logger.Info("observation added", "date", obs.Date.String(), "value", obs.Value)
	return &obs, nil
}

// UpdateObservation replaces the value of an existing month.
func (m *Manager) UpdateObservation(ctx context.Context, date string, value float64) error {
	month, err := models.ValidateDate(date)
	if err != nil {
		return err
	}
	if err := models.ValidateValue(value); err != nil {
		return err
	}
	if err := m.store.UpdateObservation(ctx, month, value); err != nil {
		return err
	}
	logger.Info("observation updated", "date", month.String(), "value", value)
	return nil
}

// DeleteLastObservation removes the most recently inserted observation.
// It returns nil when there was nothing to delete.
func (m *Manager) DeleteLastObservation(ctx context.Context) (*models.Observation, error) {
	deleted, err := m.store.DeleteLastObservation(ctx)
	if err != nil {
		return nil, err
	}
	if deleted != nil {
		logger.Info("observation deleted", "date", deleted.Date.String())
	}
	return deleted, nil
}

// Forecast reads the full series and projects it steps months ahead.
// The returned result always carries the observations, even when the
// forecast itself fails, so callers can still show the actual data.
// An empty series yields a result without points and no error.
func (m *Manager) Forecast(ctx context.Context, steps int) (*models.ForecastResult, error) {
	if steps < 1 {
		return nil, fmt.Errorf("%w: %d", forecast.ErrInvalidHorizon, steps)
	}

	observations, err := m.store.ListObservations(ctx)
	if err != nil {
		return nil, err
	}

	result := &models.ForecastResult{
		Observations: observations,
		Horizon:      steps,
	}
	if len(observations) == 0 {
		return result, nil
	}

	values, err := forecast.Forecast(models.Values(observations), steps)
	if err != nil {
		return result, err
	}

	last, _ := models.LastMonth(observations)
	result.Points = models.NewForecastPoints(last, values)

	m.checkAlert(result.Points)
	return result, nil
}

// checkAlert notifies when the forecast peak crosses above the configured
// threshold. Only the upward transition notifies; the first forecast only
// establishes the baseline.
func (m *Manager) checkAlert(points []models.ForecastPoint) {
	if m.cfg == nil || !m.cfg.AlertEnabled || len(points) == 0 {
		return
	}

	peak := points[0]
	for _, p := range points[1:] {
		if p.Value > peak.Value {
			peak = p
		}
	}
	above := peak.Value > m.cfg.ForecastAlertAbove

	m.alertMu.Lock()
	crossed := m.alertKnown && above && !m.wasAbove
	m.alertKnown = true
	m.wasAbove = above
	notify := m.notify
	m.alertMu.Unlock()

	if !crossed {
		return
	}

	title := "Forecast above threshold"
	body := fmt.Sprintf("Forecast reaches %.2f in %s (threshold %.2f)",
		peak.Value, peak.Date.Label(), m.cfg.ForecastAlertAbove)
	if notify != nil {
		if err := notify(title, body); err != nil {
			logger.Warn("failed to send desktop notification", "error", err)
		}
	}

	m.broadcast(ForecastAlertEvent{
		Threshold: m.cfg.ForecastAlertAbove,
		Peak:      peak,
	})
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd that waits for the next event on ch.
// It yields nil once ch is closed.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() *config.Config {
	return m.cfg
}

// DatabasePath returns the path of the open database.
func (m *Manager) DatabasePath() string {
	return m.store.Path()
}

// Watching reports whether live reload is active.
func (m *Manager) Watching() bool {
	return m.watcher != nil
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	var errs []error

	m.closeOnce.Do(func() {
		close(m.stopChan)

		m.mu.Lock()
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if m.watcher != nil {
			if err := m.watcher.Close(); err != nil {
				errs = append(errs, err)
			}
		}

		if m.store != nil {
			if err := m.store.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})

	return errors.Join(errs...)
}
