package watch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an editor save produces
const DefaultDebounce = 300 * time.Millisecond

// Watcher monitors a single file and calls back after it changes. The
// callback runs on a background goroutine.
type Watcher struct {
	watcher  *fsnotify.Watcher
	onChange func(path string)
	debounce time.Duration

	mu    sync.Mutex
	path  string // absolute path of the watched file, "" when idle
	dir   string
	timer *time.Timer

	stopChan chan struct{}
	done     chan struct{}
}

// New creates a watcher. Nothing is watched until Watch is called.
func New(onChange func(path string), debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		watcher:  fw,
		onChange: onChange,
		debounce: debounce,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.watchLoop()
	return w, nil
}

// Watch switches the watcher to path. An empty path stops watching.
func (w *Watcher) Watch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var abs, dir string
	if path != "" {
		var err error
		abs, err = filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		dir = filepath.Dir(abs)
	}

	if abs == w.path {
		return nil
	}

	// The directory is watched rather than the file so that editors which
	// save by rename keep being tracked.
	if w.dir != "" && w.dir != dir {
		if err := w.watcher.Remove(w.dir); err != nil {
			slog.Debug("Failed to stop watching directory", "dir", w.dir, "error", err)
		}
	}
	if dir != "" && dir != w.dir {
		if err := w.watcher.Add(dir); err != nil {
			w.path, w.dir = "", ""
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}

	w.path, w.dir = abs, dir
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	if abs != "" {
		slog.Debug("Watching document", "path", abs)
	}
	return nil
}

// Path returns the file being watched
func (w *Watcher) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// Close stops the watcher. Pending callbacks are dropped.
func (w *Watcher) Close() error {
	close(w.stopChan)
	err := w.watcher.Close()
	<-w.done

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.path, w.dir = "", ""
	w.mu.Unlock()
	return err
}

// watchLoop monitors file system events
func (w *Watcher) watchLoop() {
	defer close(w.done)

	for {
		select {
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.trigger(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Document watcher error", "error", err)
		}
	}
}

// trigger starts or resets the debounce timer if name is the watched file
func (w *Watcher) trigger(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.path == "" || filepath.Clean(name) != w.path {
		return
	}

	path := w.path
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case <-w.stopChan:
			return
		default:
		}
		if w.Path() == path {
			w.onChange(path)
		}
	})
}
