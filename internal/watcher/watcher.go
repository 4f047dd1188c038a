// Package watcher provides debounced change notification for a single file.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of writes into one notification.
const DefaultDebounce = 100 * time.Millisecond

// Watcher watches one file and invokes a callback after it changes.
//
// The parent directory is watched rather than the file itself, so the
// watch survives editors and tools that replace the file by rename.
type Watcher struct {
	fsw      *fsnotify.Watcher
	name     string
	delay    time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
}

// New creates a Watcher for path. A zero delay uses DefaultDebounce.
func New(path string, delay time.Duration, callback func()) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Watcher{
		fsw:      fsw,
		name:     filepath.Base(abs),
		delay:    delay,
		callback: callback,
	}, nil
}

// Run starts the watch loop. It blocks until the context is canceled.
// Errors from the underlying watcher are passed to the optional errFn callback.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != w.name {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.debounce()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if errFn != nil {
				errFn(err)
			}
		}
	}
}

// Close stops the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) debounce() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.callback)
}
