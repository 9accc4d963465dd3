// Package watch rebuilds static pages when their files change on disk.
package watch

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/promokit/pkg/pagestore"
	"github.com/gnana997/promokit/pkg/util"
)

// DefaultDebounce groups the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// DefaultIgnore lists base-name patterns never treated as pages.
var DefaultIgnore = []string{".*", "*.tmp", "*~"}

// Handler reacts to page changes. Methods are called from timer goroutines.
type Handler interface {
	PageChanged(slug string)
	PageRemoved(slug string)
}

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	// Ignore holds doublestar patterns matched against base names.
	Ignore []string
}

// Watcher watches a page store directory tree.
//
//	w, err := watch.New(store, handler, watch.Options{}, logger)
//	if err != nil { ... }
//	if err := w.Start(); err != nil { ... }
//	defer w.Stop()
type Watcher struct {
	watcher *fsnotify.Watcher
	store   *pagestore.Store
	handler Handler
	logger  *slog.Logger
	options Options

	// Debouncing
	timers  map[string]*time.Timer
	timerMu sync.Mutex

	// Lifecycle
	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// New creates a watcher for store.
func New(store *pagestore.Store, handler Handler, options Options, logger *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if options.Debounce <= 0 {
		options.Debounce = DefaultDebounce
	}
	if options.Ignore == nil {
		options.Ignore = DefaultIgnore
	}
	for _, p := range options.Ignore {
		if !doublestar.ValidatePattern(p) {
			fw.Close()
			return nil, fmt.Errorf("invalid ignore pattern %q", p)
		}
	}
	return &Watcher{
		watcher:  fw,
		store:    store,
		handler:  handler,
		logger:   util.OrDefault(logger),
		options:  options,
		timers:   make(map[string]*time.Timer),
		stopChan: make(chan struct{}),
	}, nil
}

// Start adds watches for the store directory and its subdirectories and
// begins processing events in the background.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return errors.New("watcher already stopped")
	}
	w.mu.Unlock()

	if err := w.addTree(w.store.Dir()); err != nil {
		return err
	}
	w.logger.Info("watching pages", "dir", w.store.Dir(), "debounce", w.options.Debounce)

	go w.eventLoop()
	return nil
}

// Stop ends watching. It is safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopChan)

	w.timerMu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.timers = make(map[string]*time.Timer)
	w.timerMu.Unlock()

	return w.watcher.Close()
}

// Pending returns the number of debounced changes not yet handled.
func (w *Watcher) Pending() int {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	return len(w.timers)
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.ignored(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if w.ignored(path) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addTree(path); err != nil {
				w.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
			return
		}
	}

	slug, ok := w.store.SlugFor(path)
	if !ok {
		return
	}
	w.logger.Debug("page event", "op", event.Op.String(), "slug", slug)

	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		w.debounce(slug, func() { w.handler.PageChanged(slug) })
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		// A rename is also how atomic saves land; only report a removal
		// when the file is really gone.
		w.debounce(slug, func() {
			if w.store.Exists(slug) {
				w.handler.PageChanged(slug)
				return
			}
			w.handler.PageRemoved(slug)
		})
	}
}

// debounce runs fn after the debounce window, replacing any pending call
// for the same slug.
func (w *Watcher) debounce(slug string, fn func()) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if t, ok := w.timers[slug]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(w.options.Debounce, func() {
		w.timerMu.Lock()
		current := w.timers[slug] == t
		if current {
			delete(w.timers, slug)
		}
		w.timerMu.Unlock()
		if current {
			fn()
		}
	})
	w.timers[slug] = t
}

func (w *Watcher) ignored(path string) bool {
	base := filepath.Base(path)
	for _, p := range w.options.Ignore {
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
	}
	return false
}
