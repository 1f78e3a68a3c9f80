package command

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// reloadDebounce coalesces bursts of file events into one registry reload.
const reloadDebounce = 500 * time.Millisecond

// Watcher reloads the registry when command definition files change under
// the watched directories.
type Watcher struct {
	watcher  *fsnotify.Watcher
	registry *Registry
	stopCh   chan struct{}
	doneCh   chan struct{}
	started  bool
	mu       sync.Mutex
}

// NewWatcher creates a watcher over the given command directories. Missing
// directories are skipped; if none exist the watcher is disabled and nil is
// returned.
func NewWatcher(registry *Registry, dirs ...string) (*Watcher, error) {
	var existing []string
	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			existing = append(existing, dir)
		}
	}
	if len(existing) == 0 {
		log.Debug().Msg("no command directories exist, watcher disabled")
		return nil, nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range existing {
		if err := addRecursive(w, dir); err != nil {
			w.Close()
			return nil, err
		}
	}

	log.Info().Strs("dirs", existing).Msg("command watcher initialized")

	return &Watcher{
		watcher:  w,
		registry: registry,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// addRecursive watches dir and all non-hidden subdirectories. fsnotify
// watches are not recursive on their own.
func addRecursive(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			return w.Add(path)
		}
		return nil
	})
}

// Start begins watching for command file changes.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()
	go w.run()
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			// New subdirectories need their own watch
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addRecursive(w.watcher, ev.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				timerCh = timer.C
			} else {
				timer.Reset(reloadDebounce)
			}
		case <-timerCh:
			timer = nil
			timerCh = nil
			log.Debug().Msg("command files changed, reloading registry")
			w.registry.Reload(context.Background())
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("command watcher error")
		}
	}
}

// relevant reports whether an event should trigger a reload.
func relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if strings.HasSuffix(ev.Name, ".md") {
		return true
	}
	// Directory events matter too; extension-less names are likely dirs
	return filepath.Ext(ev.Name) == ""
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()

	select {
	case <-w.stopCh:
		// Already stopped
	default:
		close(w.stopCh)
	}

	if started {
		<-w.doneCh
	}

	return w.watcher.Close()
}
