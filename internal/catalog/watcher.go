// ABOUTME: Watcher rebuilds the library when the local feed file changes
// ABOUTME: Watches the feed's directory with fsnotify and debounces bursts of writes
package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce collapses editor save bursts into one reload
const DefaultDebounce = 250 * time.Millisecond

// Reloader reloads the feed; *core.Library satisfies it
type Reloader interface {
	Load(ctx context.Context) error
}

// Watcher triggers a reload whenever the feed file is written or recreated
type Watcher struct {
	path     string
	reloader Reloader
	debounce time.Duration
	logger   *zap.Logger

	readyOnce sync.Once
	ready     chan struct{}
}

// NewWatcher creates a watcher for the feed file at path
func NewWatcher(path string, reloader Reloader, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve feed path %q: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		path:     abs,
		reloader: reloader,
		debounce: debounce,
		logger:   logger,
		ready:    make(chan struct{}),
	}, nil
}

// Ready is closed once the directory watch is in place
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run blocks until ctx is done. The directory is watched rather than the
// file so atomic replace-by-rename saves are seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.readyOnce.Do(func() { close(w.ready) })
	w.logger.Info("watching feed", zap.String("path", w.path))

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.logger.Debug("feed changed", zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Stop()
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("feed watcher error", zap.Error(err))

		case <-timerC:
			timerC = nil
			if err := w.reloader.Load(ctx); err != nil {
				w.logger.Error("feed reload failed; keeping previous index", zap.Error(err))
				continue
			}
			w.logger.Info("feed reloaded", zap.String("path", w.path))
		}
	}
}
