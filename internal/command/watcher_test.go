package command

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitFor polls cond until it returns true or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(50 * time.Millisecond)
	}
	return cond()
}

func TestWatcher_NoDirectories(t *testing.T) {
	r := NewRegistry(filepath.Join(t.TempDir(), "nope"), "")

	w, err := NewWatcher(r, filepath.Join(t.TempDir(), "also-missing"))
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestWatcher_ReloadsOnNewFile(t *testing.T) {
	dir := t.TempDir()
	r := NewRegistry(dir, "")
	r.Reload(context.Background())
	require.Empty(t, r.Names())

	w, err := NewWatcher(r, dir)
	require.NoError(t, err)
	require.NotNil(t, w)
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "fresh.md"),
		[]byte(defFile("fresh", "body")), 0644))

	ok := waitFor(t, 5*time.Second, func() bool {
		_, found := r.Lookup("fresh")
		return found
	})
	assert.True(t, ok, "registry never picked up the new file")
}

func TestWatcher_ReloadsOnRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gone.md")
	require.NoError(t, os.WriteFile(path, []byte(defFile("gone", "body")), 0644))

	r := NewRegistry(dir, "")
	r.Reload(context.Background())
	_, found := r.Lookup("gone")
	require.True(t, found)

	w, err := NewWatcher(r, dir)
	require.NoError(t, err)
	w.Start()
	defer w.Stop()

	require.NoError(t, os.Remove(path))

	ok := waitFor(t, 5*time.Second, func() bool {
		_, found := r.Lookup("gone")
		return !found
	})
	assert.True(t, ok, "registry never dropped the removed file")
}

func TestWatcher_StopTwice(t *testing.T) {
	dir := t.TempDir()
	r := NewRegistry(dir, "")

	w, err := NewWatcher(r, dir)
	require.NoError(t, err)
	w.Start()

	require.NoError(t, w.Stop())
	// Second stop must not panic or block.
	_ = w.Stop()
}
