package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for File Watcher:
// - Fire the callback with changed files after the debounce window
// - Coalesce a burst of writes into a single callback
// - Ignore files whose extension is not monitored
// - Stop cleanly, including repeated Stop calls

type recorder struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recorder) callback(files []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, files)
}

func (r *recorder) snapshot() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]string, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *recorder) waitForCall(t *testing.T, timeout time.Duration) [][]string {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if calls := r.snapshot(); len(calls) > 0 {
			return calls
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("watcher callback never fired")
	return nil
}

func TestWatcher_FiresOnChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	w, err := New([]string{dir}, []string{".c", ".h"})
	require.NoError(t, err)
	defer w.Stop()

	rec := &recorder{}
	require.NoError(t, w.Start(context.Background(), rec.callback))

	target := filepath.Join(dir, "structs.c")
	require.NoError(t, os.WriteFile(target, []byte("struct point { int x; };"), 0o644))

	calls := rec.waitForCall(t, 5*time.Second)
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0], target)
}

func TestWatcher_CoalescesBurst(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	w, err := New([]string{dir}, []string{".c"})
	require.NoError(t, err)
	defer w.Stop()

	rec := &recorder{}
	require.NoError(t, w.Start(context.Background(), rec.callback))

	first := filepath.Join(dir, "a.c")
	second := filepath.Join(dir, "b.c")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(first, []byte("struct a { int x; };"), 0o644))
		require.NoError(t, os.WriteFile(second, []byte("struct b { int y; };"), 0o644))
	}

	calls := rec.waitForCall(t, 5*time.Second)
	require.Len(t, calls, 1, "a write burst should debounce into one callback")
	assert.ElementsMatch(t, []string{first, second}, calls[0])
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	w, err := New([]string{dir}, []string{".c"})
	require.NoError(t, err)
	defer w.Stop()

	rec := &recorder{}
	require.NoError(t, w.Start(context.Background(), rec.callback))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("notes"), 0o644))

	time.Sleep(1 * time.Second)
	assert.Empty(t, rec.snapshot(), "non-monitored extensions must not trigger the callback")
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	t.Parallel()

	w, err := New([]string{t.TempDir()}, []string{".c"})
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background(), func([]string) {}))
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}

func TestWatcher_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := New([]string{filepath.Join(t.TempDir(), "absent")}, []string{".c"})
	assert.Error(t, err)
}
