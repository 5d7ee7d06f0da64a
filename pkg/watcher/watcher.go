package watcher

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/philipparndt/stlvol/pkg/stl"
)

// Watcher reports changed STL files. Files are watched through their parent
// directory so that editors saving by rename are still picked up.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *log.Logger
	debounce time.Duration

	mu     sync.Mutex
	files  map[string]bool // explicitly watched files
	dirs   map[string]bool // directories whose STL files are all watched
	timers map[string]*time.Timer
}

// New creates a watcher that coalesces bursts of events per file
func New(debounce time.Duration, logger *log.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Watcher{
		watcher:  w,
		logger:   logger,
		debounce: debounce,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Add starts watching paths. A directory covers every STL file in it.
func (w *Watcher) Add(paths ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", path, err)
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", absPath, err)
		}

		dir := absPath
		if info.IsDir() {
			w.dirs[absPath] = true
		} else {
			w.files[absPath] = true
			dir = filepath.Dir(absPath)
		}
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return nil
}

// Run delivers debounced changes to onChange until ctx is done or the
// watcher is closed. onChange runs on timer goroutines.
func (w *Watcher) Run(ctx context.Context, onChange func(path string)) {
	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule(event.Name, onChange)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Printf("watcher error: %v", err)
		}
	}
}

func (w *Watcher) matches(path string) bool {
	if w.files[path] {
		return true
	}
	return stl.HasSTLExt(path) && w.dirs[filepath.Dir(path)]
}

func (w *Watcher) schedule(path string, onChange func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.matches(path) {
		return
	}
	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		// renamed-away files have nothing to re-read
		if _, err := os.Stat(path); err != nil {
			return
		}
		onChange(path)
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
}

// Close stops the watcher
func (w *Watcher) Close() error {
	w.stopTimers()
	return w.watcher.Close()
}
