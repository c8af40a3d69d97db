// Package watch reloads an answers file whenever it changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/dshills/riskscore/internal/answer"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events an editor produces on save.
const DefaultDebounce = 100 * time.Millisecond

// Handler receives each reload of the answers file. err is set when the
// file could not be read or parsed; f is nil in that case.
type Handler func(f *answer.File, err error)

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher watches a single answers file. It watches the parent directory
// so that editors replacing the file by rename are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
	handler  Handler
	fs       *fsnotify.Watcher
}

// New creates a watcher for path. Call Run to start it.
func New(path string, handler Handler, opts Options) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch.New: %w", err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch.New: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch.New: %w", err)
	}

	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Watcher{
		path:     abs,
		debounce: opts.Debounce,
		logger:   opts.Logger.With("path", abs),
		handler:  handler,
		fs:       fsw,
	}, nil
}

// Run loads the file once, then reloads it after every change until ctx
// is cancelled. The underlying watcher is closed on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	w.reload()
	w.logger.Debug("Started watching answers file")

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Answers watcher error", "error", err)

		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			w.logger.Debug("Answers watcher stopping")
			return nil
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create) != 0
}

func (w *Watcher) reload() {
	f, err := answer.Load(w.path)
	if err != nil {
		w.logger.Warn("Failed to load answers", "error", err)
		w.handler(nil, err)
		return
	}
	w.logger.Info("Answers loaded", "hash", f.Hash, "answers", len(f.Answers))
	w.handler(f, nil)
}
