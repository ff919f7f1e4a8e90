// Package watch re-runs a callback whenever a file's contents change.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce collapses the bursts of events editors produce on save.
const DefaultDebounce = 200 * time.Millisecond

// Handler receives the file contents after each change.
type Handler func(content string)

// Watcher watches a single file.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   zerolog.Logger
}

// New creates a Watcher for path.
func New(path string, logger zerolog.Logger) *Watcher {
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
		logger:   logger.With().Str("path", path).Logger(),
	}
}

// SetDebounce overrides DefaultDebounce.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run calls fn with the current contents, then again after every change,
// until ctx is done. The parent directory is watched so that editors which
// replace the file on save are still seen.
func (w *Watcher) Run(ctx context.Context, fn Handler) error {
	if err := w.emit(fn); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}
	w.logger.Info().Msg("watching file for changes")

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.logger.Debug().Str("op", event.Op.String()).Msg("file changed")
				debounce = time.After(w.debounce)
			}

		case <-debounce:
			debounce = nil
			if err := w.emit(fn); err != nil {
				w.logger.Warn().Err(err).Msg("reading changed file failed")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) emit(fn Handler) error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return fmt.Errorf("read %s: %w", w.path, err)
	}
	fn(string(data))
	return nil
}
