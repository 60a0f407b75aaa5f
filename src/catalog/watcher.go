package catalog

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aiminilabs0/pingponglab/src/applog"
)

// Watcher invokes a callback when the catalog file changes on disk. Editors
// often emit several write/rename events for one save, so events are
// debounced and the callback runs once per burst.
type Watcher struct {
	path    string
	fw      *fsnotify.Watcher
	onWrite func()

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
}

const watchDebounce = 250 * time.Millisecond

// WatchFile watches path and calls onWrite (debounced) after each change.
// The parent directory is watched rather than the file itself so atomic
// save-via-rename still delivers events.
func WatchFile(path string, onWrite func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	w := &Watcher{path: path, fw: fw, onWrite: onWrite, done: make(chan struct{})}
	go w.loop()
	applog.Debugf("watching %s for changes", path)
	return w, nil
}

func (w *Watcher) loop() {
	want := filepath.Clean(w.path)
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != want {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.bump()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			applog.Warnf("catalog watcher: %v", err)
		}
	}
}

func (w *Watcher) bump() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(watchDebounce, func() {
		applog.Infof("catalog changed on disk, reloading")
		w.onWrite()
	})
}

// Close stops watching. Pending debounced callbacks are cancelled.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	close(w.done)
	return w.fw.Close()
}
