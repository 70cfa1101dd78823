// Package watch reloads coverage when the tracefile changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"covlens/internal/logger"
)

// Watcher observes one tracefile and invokes a callback per change burst.
// The containing directory is watched rather than the file itself because
// most coverage tools replace the file by rename, which would detach a
// file-level watch.
type Watcher struct {
	path     string
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

// New creates a watcher for the tracefile at path. Debounce coalesces the
// write bursts coverage tools produce into a single reload.
func New(path string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}
	return &Watcher{path: path, debounce: debounce, fsw: fsw}, nil
}

// Run blocks until ctx is done, calling onChange after each debounced burst
// of events touching the tracefile. onChange runs on the watch goroutine,
// which serializes reloads.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	defer w.fsw.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("Tracefile event: %s", ev)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		case <-fire:
			timer = nil
			fire = nil
			onChange()
		}
	}
}
