package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerCoalesces(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(100*time.Millisecond, func() { calls.Add(1) })

	for i := 0; i < 5; i++ {
		d.Trigger()
		time.Sleep(5 * time.Millisecond)
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDebouncerStop(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { calls.Add(1) })
	d.Trigger()
	d.Stop()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestDebouncerDefaultDuration(t *testing.T) {
	d := NewDebouncer(0, func() {})
	assert.Equal(t, DefaultDebounce, d.duration)
}

func TestRelevant(t *testing.T) {
	w := New("/tmp/x/template.yaml", func() {})
	assert.True(t, w.relevant(fsnotify.Event{Name: "/tmp/x/template.yaml", Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: "/tmp/x/./template.yaml", Op: fsnotify.Create}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/tmp/x/template.yaml", Op: fsnotify.Chmod}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/tmp/x/other.yaml", Op: fsnotify.Write}))
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "template.yaml")
	require.NoError(t, os.WriteFile(path, []byte("xl: []\n"), 0644))

	changed := make(chan struct{}, 8)
	w := New(path, func() { changed <- struct{}{} }, WithDebounce(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.yaml"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("lg: []\n"), 0644))

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}
