// Package watcher runs a callback whenever a single file changes.
//
// The parent directory is watched rather than the file itself so that editors
// and tools which replace files by rename are still noticed. Bursts of events
// are collapsed: the callback runs once the file has been quiet for the
// debounce interval.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ChangeFunc is invoked after the watched file changed. An error is logged and
// watching continues.
type ChangeFunc func(ctx context.Context) error

// Watcher watches one file for changes.
type Watcher struct {
	fsw       *fsnotify.Watcher
	path      string
	debounce  time.Duration
	logger    zerolog.Logger
	closeOnce sync.Once
}

// New creates a watcher for path. The file does not have to exist yet, but its
// directory does.
func New(path string, debounce time.Duration, logger zerolog.Logger) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(absPath), err)
	}

	return &Watcher{
		fsw:      fsw,
		path:     absPath,
		debounce: debounce,
		logger:   logger.With().Str("component", "watcher").Str("path", absPath).Logger(),
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run dispatches change notifications to onChange until ctx is cancelled.
// Callbacks run on the Run goroutine, one at a time. Run closes the watcher
// before returning.
func (w *Watcher) Run(ctx context.Context, onChange ChangeFunc) error {
	defer func() { _ = w.Close() }()

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

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug().Str("op", event.Op.String()).Msg("change detected")
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			if err := onChange(ctx); err != nil {
				w.logger.Error().Err(err).Msg("change handler failed")
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("file watcher error")
		}
	}
}

// relevant reports whether event may have changed the watched file's content.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// Close stops the watcher and releases resources. It is safe to call more
// than once.
func (w *Watcher) Close() error {
	var closeErr error
	w.closeOnce.Do(func() {
		if err := w.fsw.Close(); err != nil {
			closeErr = fmt.Errorf("failed to close watcher: %w", err)
		}
	})
	return closeErr
}
