// Package watcher notifies the review tool when the suggestion backing file
// is rewritten by another process, with debouncing to coalesce write bursts.
package watcher

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a single backing file and invokes a callback, debounced,
// whenever the file is created, written, or replaced.
type Watcher struct {
	fw        *fsnotify.Watcher
	debouncer *Debouncer
	path      string
	done      chan struct{}
}

// Watch starts watching path. The watch is placed on the parent directory
// because whole-file rewrites and renames would otherwise drop an inode-level
// watch. onChange runs on the watcher goroutine after the debounce window.
func Watch(path string, debounce time.Duration, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	clean := filepath.Clean(path)
	if err := fw.Add(filepath.Dir(clean)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(clean), err)
	}

	w := &Watcher{
		fw:        fw,
		debouncer: NewDebouncer(debounce),
		path:      clean,
		done:      make(chan struct{}),
	}

	go w.loop(onChange)
	return w, nil
}

func (w *Watcher) loop(onChange func()) {
	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.debouncer.Trigger(onChange)
		case _, ok := <-w.fw.Errors:
			// Watch errors are transient on most platforms; the next
			// event still arrives, so there is nothing useful to do here.
			if !ok {
				return
			}
		case <-w.done:
			return
		}
	}
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher and cancels any pending debounced callback.
func (w *Watcher) Close() error {
	close(w.done)
	w.debouncer.Cancel()
	return w.fw.Close()
}
