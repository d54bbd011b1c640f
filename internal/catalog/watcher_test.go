// ABOUTME: Tests for the feed watcher
// ABOUTME: Writes to a temp feed file and waits for debounced reloads
package catalog

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type countingReloader struct {
	calls  atomic.Int32
	signal chan struct{}
}

func newCountingReloader() *countingReloader {
	return &countingReloader{signal: make(chan struct{}, 16)}
}

func (r *countingReloader) Load(ctx context.Context) error {
	r.calls.Add(1)
	r.signal <- struct{}{}
	return nil
}

func startWatcher(t *testing.T, path string, reloader Reloader) (cancel func()) {
	t.Helper()

	w, err := NewWatcher(path, reloader, 30*time.Millisecond, nil)
	require.NoError(t, err)

	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case <-w.Ready():
	case err := <-done:
		stop()
		t.Fatalf("watcher exited early: %v", err)
	case <-time.After(5 * time.Second):
		stop()
		t.Fatal("watcher never became ready")
	}

	return func() {
		stop()
		require.NoError(t, <-done)
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	feed := filepath.Join(dir, "papersV2.json")
	require.NoError(t, os.WriteFile(feed, []byte(`[]`), 0o644))

	reloader := newCountingReloader()
	stop := startWatcher(t, feed, reloader)
	defer stop()

	require.NoError(t, os.WriteFile(feed, []byte(`[{"id":"p1","title":"T"}]`), 0o644))

	select {
	case <-reloader.signal:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a reload after the feed was written")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	feed := filepath.Join(dir, "papersV2.json")
	require.NoError(t, os.WriteFile(feed, []byte(`[]`), 0o644))

	reloader := newCountingReloader()
	stop := startWatcher(t, feed, reloader)
	defer stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case <-reloader.signal:
		t.Fatal("unrelated file should not trigger a reload")
	case <-time.After(300 * time.Millisecond):
	}
	assert.Equal(t, int32(0), reloader.calls.Load())
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "nope", "feed.json"), newCountingReloader(), 0, nil)
	require.NoError(t, err)

	err = w.Run(context.Background())
	assert.Error(t, err)
}
