// Package watcher reloads a configuration file when it changes on disk.
//
// The parent directory is watched rather than the file itself so that
// editors which save by writing a temporary file and renaming it over the
// original are still seen. Bursts of events are debounced into one reload.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/sabrevga/internal/config"
	"github.com/dshills/sabrevga/internal/logging"
)

// DefaultDebounce is the quiet period before a reload.
const DefaultDebounce = 100 * time.Millisecond

// ErrWatcherClosed is returned by Run after Close.
var ErrWatcherClosed = errors.New("watcher closed")

// Handler receives the result of each reload. err is non-nil when the file
// could not be loaded or failed validation; cfg is nil in that case.
type Handler func(cfg *config.Config, err error)

// LoadFunc loads and validates a configuration file.
type LoadFunc func(path string) (*config.Config, error)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithLoader replaces config.Resolve as the reload function.
func WithLoader(fn LoadFunc) Option {
	return func(w *Watcher) {
		if fn != nil {
			w.load = fn
		}
	}
}

// Watcher monitors one configuration file.
type Watcher struct {
	path     string
	debounce time.Duration
	load     LoadFunc
	logger   *logging.Logger

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	closed  bool
	reloads int
}

// New watches the directory holding path. The file itself need not exist
// yet; creating it triggers a reload.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		load:     config.Resolve,
		logger:   logging.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithComponent("config-watcher").WithField("path", abs)

	dir := filepath.Dir(abs)
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	w.fsw = fsw
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Reloads returns the number of reloads delivered so far.
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

// Run delivers reloads to handler until ctx is done or the watcher is
// closed. It returns ctx.Err() or ErrWatcherClosed.
func (w *Watcher) Run(ctx context.Context, handler Handler) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.mu.Unlock()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return ErrWatcherClosed
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("config event %s", ev.Op)
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return ErrWatcherClosed
			}
			w.logger.Warn("watch error: %v", err)

		case <-timer.C:
			w.reload(handler)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)
}

func (w *Watcher) reload(handler Handler) {
	cfg, err := w.load(w.path)
	if err != nil {
		w.logger.Error("reload failed: %v", err)
		cfg = nil
	} else {
		w.logger.Info("config reloaded")
	}

	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()

	if handler != nil {
		handler(cfg, err)
	}
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()
	return w.fsw.Close()
}
