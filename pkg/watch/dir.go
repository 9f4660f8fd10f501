// Package watch re-runs work when files appear in a directory.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/fsnotify.v1"
)

// DirWatcher triggers a callback after files in a directory are created or
// written. Bursts of events are coalesced into one call once the directory
// has been quiet for the debounce period.
type DirWatcher struct {
	dir      string
	debounce time.Duration
	match    func(name string) bool
	onChange func(ctx context.Context) error
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
}

// DirOptions configures a DirWatcher.
type DirOptions struct {
	// Debounce is the quiet period before OnChange runs.
	Debounce time.Duration

	// Match filters event paths. Nil matches everything.
	Match func(name string) bool

	// OnChange runs after a burst of matching events. Errors are logged and
	// watching continues.
	OnChange func(ctx context.Context) error

	Logger *slog.Logger
}

// NewDirWatcher starts watching dir. Call Run to process events.
func NewDirWatcher(dir string, opts DirOptions) (*DirWatcher, error) {
	if dir == "" {
		return nil, fmt.Errorf("no directory configured for watching")
	}
	if opts.OnChange == nil {
		return nil, fmt.Errorf("no change handler configured")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching directory %s: %w", dir, err)
	}

	w := &DirWatcher{
		dir:      dir,
		debounce: opts.Debounce,
		match:    opts.Match,
		onChange: opts.OnChange,
		logger:   opts.Logger,
		watcher:  watcher,
	}
	if w.match == nil {
		w.match = func(string) bool { return true }
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w, nil
}

// Run processes events until ctx is done, then releases the watcher.
func (w *DirWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.match(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			w.logger.Debug("input changed", "path", event.Name, "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := w.onChange(ctx); err != nil {
				w.logger.Error("change handler failed", "dir", w.dir, "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "dir", w.dir, "error", err)
		}
	}
}
