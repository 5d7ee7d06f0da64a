package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, paths ...string) <-chan string {
	t.Helper()
	w, err := New(20*time.Millisecond, nil)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	require.NoError(t, w.Add(paths...))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	changes := make(chan string, 16)
	go w.Run(ctx, func(path string) { changes <- path })
	return changes
}

func TestReportsWrittenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "part.stl")
	require.NoError(t, os.WriteFile(path, []byte("solid a"), 0o644))

	changes := startWatcher(t, path)
	require.NoError(t, os.WriteFile(path, []byte("solid b"), 0o644))

	select {
	case got := <-changes:
		assert.Equal(t, path, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestDirectoryIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	changes := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	stlPath := filepath.Join(dir, "NEW.STL")
	require.NoError(t, os.WriteFile(stlPath, []byte("solid"), 0o644))

	select {
	case got := <-changes:
		assert.Equal(t, stlPath, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestAddMissingPath(t *testing.T) {
	w, err := New(time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()
	assert.Error(t, w.Add(filepath.Join(t.TempDir(), "missing.stl")))
}
