// Package watcher reports changes made to the database file by other
// processes.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/tsforecast-tui/internal/logger"
)

// DefaultDebounce is used when New is given a non-positive interval.
const DefaultDebounce = 150 * time.Millisecond

// EventType defines the type of watcher event.
type EventType int

const (
	EventChanged EventType = iota
	EventError
)

// Event represents a watcher event.
type Event struct {
	Type  EventType
	Path  string
	Error error
}

// Watcher watches a SQLite database file and its write-ahead log.
type Watcher struct {
	mu            sync.Mutex
	path          string
	names         map[string]struct{}
	debounce      time.Duration
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
	closeOnce     sync.Once
}

// New starts watching the directory containing path.
func New(path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	base := filepath.Base(path)
	w := &Watcher{
		path: path,
		names: map[string]struct{}{
			base:          {},
			base + "-wal": {},
		},
		debounce:  debounce,
		eventChan: make(chan Event, 16),
		stopChan:  make(chan struct{}),
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.watcher = fw

	// Watch the directory; SQLite may recreate the -wal file at any time.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		if closeErr := fw.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	go w.watchLoop()
	return w, nil
}

// Events returns the channel on which change notifications are delivered.
func (w *Watcher) Events() <-chan Event {
	return w.eventChan
}

// Path returns the watched database path.
func (w *Watcher) Path() string {
	return w.path
}

// watchLoop handles file system events with debouncing.
func (w *Watcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if _, tracked := w.names[filepath.Base(event.Name)]; !tracked {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendEvent(Event{Type: EventError, Path: w.path, Error: err})

		case <-w.stopChan:
			return
		}
	}
}

// schedule collapses a burst of writes into a single EventChanged.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.stopChan:
			return
		default:
		}
		w.sendEvent(Event{Type: EventChanged, Path: w.path})
	})
}

// sendEvent sends an event to the event channel non-blocking.
func (w *Watcher) sendEvent(event Event) {
	select {
	case w.eventChan <- event:
	default:
		// Channel full, drop oldest event
		select {
		case <-w.eventChan:
		default:
		}
		select {
		case w.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher and cleans up resources.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.stopChan)

		w.mu.Lock()
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
		}
		w.mu.Unlock()

		err = w.watcher.Close()
	})
	return err
}
