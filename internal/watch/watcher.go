// Package watch reloads a deadline file when it changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/Collaborne/task-scheduler/internal/deadlines"
	"github.com/Collaborne/task-scheduler/internal/logging"
	"github.com/Collaborne/task-scheduler/internal/models"
)

// Watcher errors.
var (
	ErrWatcherAlreadyRunning = errors.New("watcher already running")
	ErrWatcherNotRunning     = errors.New("watcher not running")
)

// DefaultDebounce is how long a burst of writes may settle before the file
// is reloaded.
const DefaultDebounce = 100 * time.Millisecond

// LoadFunc reads a deadline file.
type LoadFunc func(path string) ([]models.Deadline, error)

// Update is one reload result. Err is set when the changed file could not
// be loaded; the previous list stays in effect.
type Update struct {
	Path      string
	Deadlines []models.Deadline
	Err       error
}

// Watcher follows the directory holding a deadline file and publishes a
// fresh list after each settled change to that file. Watching the directory
// keeps editors that save by rename-replace in view.
type Watcher struct {
	path     string
	dir      string
	debounce time.Duration
	load     LoadFunc
	logger   zerolog.Logger
	updates  chan Update

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLoader replaces deadlines.Load.
func WithLoader(load LoadFunc) Option {
	return func(w *Watcher) { w.load = load }
}

// NewWatcher follows path. Changes closer together than debounce are
// coalesced into one reload.
func NewWatcher(path string, debounce time.Duration, opts ...Option) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	path = filepath.Clean(path)
	w := &Watcher{
		path:     path,
		dir:      filepath.Dir(path),
		debounce: debounce,
		load:     deadlines.Load,
		logger:   logging.Component("watch"),
		updates:  make(chan Update, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Path returns the cleaned absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Updates delivers reload results. Only the newest pending update is kept.
func (w *Watcher) Updates() <-chan Update {
	return w.updates
}

// Start subscribes to filesystem events until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return ErrWatcherAlreadyRunning
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := fw.Close(); err != nil {
				w.logger.Warn().Err(err).Msg("watcher close failed")
			}
		})
	}
	if err := fw.Add(w.dir); err != nil {
		closeWatcher()
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.running = true

	w.logger.Debug().Str("path", w.path).Dur("debounce", w.debounce).Msg("watching deadline file")

	w.wg.Add(1)
	go w.runLoop(ctx, fw, closeWatcher)
	return nil
}

// Stop halts the event loop and waits for it to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return ErrWatcherNotRunning
	}
	w.cancel()
	w.running = false
	w.mu.Unlock()

	w.wg.Wait()
	return nil
}

// IsRunning reports whether the event loop is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) runLoop(ctx context.Context, fw *fsnotify.Watcher, closeWatcher func()) {
	defer w.wg.Done()
	defer closeWatcher()

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Str("path", w.path).Msg("watcher error")
		case evt, ok := <-fw.Events:
			if !ok {
				return
			}
			if !w.concerns(evt) {
				continue
			}
			settle = time.After(w.debounce)
		case <-settle:
			settle = nil
			if u, ok := w.Reload(); ok {
				w.deliver(u)
			}
		}
	}
}

// concerns reports whether evt may have changed the watched file.
func (w *Watcher) concerns(evt fsnotify.Event) bool {
	if filepath.Clean(evt.Name) != w.path {
		return false
	}
	return evt.Has(fsnotify.Write) || evt.Has(fsnotify.Create) || evt.Has(fsnotify.Rename)
}

// Reload reads the file once. ok is false while the file is missing, which
// happens between the two halves of a rename-replace save.
func (w *Watcher) Reload() (Update, bool) {
	list, err := w.load(w.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			w.logger.Debug().Str("path", w.path).Msg("deadline file missing, waiting")
			return Update{}, false
		}
		w.logger.Warn().Err(err).Str("path", w.path).Msg("reload failed")
		return Update{Path: w.path, Err: err}, true
	}
	w.logger.Info().Str("path", w.path).Int("deadlines", len(list)).Msg("deadline file reloaded")
	return Update{Path: w.path, Deadlines: list}, true
}

// deliver replaces any unread update with u.
func (w *Watcher) deliver(u Update) {
	for {
		select {
		case w.updates <- u:
			return
		default:
		}
		select {
		case <-w.updates:
		default:
		}
	}
}
