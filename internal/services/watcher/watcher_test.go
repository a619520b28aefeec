package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDebounce = 30 * time.Millisecond

func newTestWatcher(t *testing.T) (*Watcher, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "series.db")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	w, err := New(path, testDebounce)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w, path
}

func waitEvent(t *testing.T, w *Watcher, timeout time.Duration) (Event, bool) {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev, true
	case <-time.After(timeout):
		return Event{}, false
	}
}

func TestWatcher_DatabaseWrite(t *testing.T) {
	w, path := newTestWatcher(t)

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	ev, ok := waitEvent(t, w, 2*time.Second)
	require.True(t, ok, "expected a change event")
	assert.Equal(t, EventChanged, ev.Type)
	assert.Equal(t, path, ev.Path)
}

func TestWatcher_WALWrite(t *testing.T) {
	w, path := newTestWatcher(t)

	require.NoError(t, os.WriteFile(path+"-wal", []byte("x"), 0o600))

	ev, ok := waitEvent(t, w, 2*time.Second)
	require.True(t, ok, "expected a change event for the -wal file")
	assert.Equal(t, EventChanged, ev.Type)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	w, path := newTestWatcher(t)

	other := filepath.Join(filepath.Dir(path), "notes.txt")
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o600))

	_, ok := waitEvent(t, w, 10*testDebounce)
	assert.False(t, ok, "writes to unrelated files must not produce events")
}

func TestWatcher_Debounce(t *testing.T) {
	w, path := newTestWatcher(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte{byte(i)}, 0o600))
	}

	_, ok := waitEvent(t, w, 2*time.Second)
	require.True(t, ok)

	_, ok = waitEvent(t, w, 10*testDebounce)
	assert.False(t, ok, "a burst of writes should collapse into one event")
}

func TestWatcher_CloseIdempotent(t *testing.T) {
	w, _ := newTestWatcher(t)

	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "x.db"), 0)
	assert.Error(t, err)
}

func TestNew_DefaultDebounce(t *testing.T) {
	dir := t.TempDir()
	w, err := New(filepath.Join(dir, "x.db"), 0)
	require.NoError(t, err)
	defer w.Close()

	assert.Equal(t, DefaultDebounce, w.debounce)
	assert.Equal(t, filepath.Join(dir, "x.db"), w.Path())
}
