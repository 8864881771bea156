package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsSpecEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	target := filepath.Join(dir, "arena.yaml")
	require.NoError(t, os.WriteFile(target, []byte("width: 1"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, target, name)
	case <-time.After(2 * time.Second):
		t.Fatal("no event for arena.yaml")
	}
}

func TestWatcherCloseClosesChannels(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, ok := <-w.Events
	assert.False(t, ok)
	_, ok = <-w.Errors
	assert.False(t, ok)
}

func TestWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestIsWatchedFile(t *testing.T) {
	assert.True(t, isSpecFile("fighters/durov.yaml"))
	assert.True(t, isSpecFile("x.YML"))
	assert.True(t, isScriptFile("stalker.tengo"))
	assert.False(t, isScriptFile("stalker.lua"))
	assert.False(t, isSpecFile("notes.txt"))
}
