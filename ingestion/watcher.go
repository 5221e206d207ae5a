package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/poiesic/saarthi/core"
)

// DefaultDebounce is how long the watcher waits for filesystem events to
// settle before rebuilding.
const DefaultDebounce = 500 * time.Millisecond

const rebuildOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// RebuildFunc is called after every rebuild triggered by the watcher.
type RebuildFunc func(stats *core.IndexStats, err error)

// Watcher rebuilds the index when source files in a directory change.
type Watcher struct {
	pipeline  *Pipeline
	dir       string
	debounce  time.Duration
	onRebuild RebuildFunc
	logger    *slog.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher) error

// WithDebounce sets the quiet period before a rebuild.
// Default is DefaultDebounce.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) error {
		if d < 0 {
			d = 0
		}
		w.debounce = d
		return nil
	}
}

// WithRebuildFunc registers a callback for rebuild outcomes.
func WithRebuildFunc(fn RebuildFunc) WatcherOption {
	return func(w *Watcher) error {
		w.onRebuild = fn
		return nil
	}
}

// WithWatcherLogger sets a custom logger.
// Default is slog.Default().
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		w.logger = logger
		return nil
	}
}

// NewWatcher creates a watcher over dir.
func NewWatcher(pipeline *Pipeline, dir string, opts ...WatcherOption) (*Watcher, error) {
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}
	w := &Watcher{
		pipeline: pipeline,
		dir:      dir,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	w.logger = w.logger.With("component", "source-watcher", "dir", dir)
	return w, nil
}

// Run watches the directory until ctx is canceled. Rebuild failures are
// logged and reported to the rebuild callback; they do not stop the watcher.
// Rebuilds use RebuildIfChanged, so touching a file without changing its
// contents does not re-embed the corpus.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching source files")

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watcher stopped")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&rebuildOps == 0 {
				continue
			}
			if !w.pipeline.Matches(event.Name) {
				continue
			}
			w.logger.Debug("source file changed", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "err", err)

		case <-fire:
			fire = nil
			stats, err := w.pipeline.RebuildIfChanged(ctx, w.dir)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				w.logger.Warn("rebuild failed", "err", err)
			}
			if w.onRebuild != nil {
				w.onRebuild(stats, err)
			}
		}
	}
}
