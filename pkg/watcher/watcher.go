// Package watcher reports changes to the local input documents so the
// viewer can reload them. It uses fsnotify on the containing directories
// and falls back to polling file stats when notifications are unavailable.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/castgraph/pkg/debug"
)

// Defaults.
const (
	DefaultDebounce     = 200 * time.Millisecond
	DefaultPollInterval = 2 * time.Second
)

// EnvForcePoll forces polling mode when set to a true value.
const EnvForcePoll = "CASTGRAPH_FORCE_POLL"

// Common errors.
var (
	ErrNoFiles        = errors.New("no files to watch")
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the watcher waits for writes to settle before
// reporting a change.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithPollInterval sets the stat interval for polling mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithForcePoll skips fsnotify.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) { w.forcePoll = force }
}

// WithOnError sets the callback invoked for watch errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

type fileState struct {
	mtime time.Time
	size  int64
}

// Watcher monitors a set of files. Bursts of changes across any of them
// are reported once on Changed.
type Watcher struct {
	paths        []string
	debounce     time.Duration
	pollInterval time.Duration
	forcePoll    bool
	onError      func(error)

	mu      sync.Mutex
	started bool
	polling bool
	states  map[string]fileState
	timer   *time.Timer
	fsw     *fsnotify.Watcher
	cancel  context.CancelFunc

	changed chan struct{}
}

// New creates a watcher for paths. Remote sources and duplicates should be
// filtered out by the caller; every path is made absolute.
func New(paths []string, opts ...Option) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}
	w := &Watcher{
		debounce:     DefaultDebounce,
		pollInterval: DefaultPollInterval,
		onError:      func(error) {},
		states:       make(map[string]fileState, len(paths)),
		changed:      make(chan struct{}, 1),
	}
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		if !seen[abs] {
			seen[abs] = true
			w.paths = append(w.paths, abs)
		}
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Paths returns the watched files.
func (w *Watcher) Paths() []string {
	return append([]string(nil), w.paths...)
}

// Changed receives once per settled burst of changes.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// Polling reports whether the watcher fell back to stat polling.
func (w *Watcher) Polling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polling
}

// Start begins watching until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return ErrAlreadyStarted
	}

	ctx, w.cancel = context.WithCancel(ctx)
	for _, p := range w.paths {
		w.states[p] = stat(p)
	}

	w.polling = w.forcePoll || envBool(EnvForcePoll)
	if !w.polling {
		fsw, err := w.newNotifier()
		if err != nil {
			debug.Log("watcher: fsnotify unavailable, polling: %v", err)
			w.polling = true
		} else {
			w.fsw = fsw
			go w.watchEvents(ctx, fsw)
		}
	}
	if w.polling {
		go w.watchPolling(ctx)
	}

	w.started = true
	return nil
}

func (w *Watcher) newNotifier() (*fsnotify.Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch directories: editors and downloads replace files by rename.
	dirs := make(map[string]bool)
	for _, p := range w.paths {
		dir := filepath.Dir(p)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return fsw, nil
}

// Stop ends watching. The Changed channel stays open.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	w.cancel()
	if w.fsw != nil {
		w.fsw.Close()
		w.fsw = nil
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.started = false
}

func (w *Watcher) watched(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	for _, p := range w.paths {
		if p == abs {
			return true
		}
	}
	return false
}

func (w *Watcher) watchEvents(ctx context.Context, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.watched(ev.Name) {
				continue
			}
			switch {
			case ev.Has(fsnotify.Remove):
				w.onError(ErrFileRemoved)
			case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create), ev.Has(fsnotify.Rename):
				w.trigger()
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) watchPolling(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if w.poll() {
				w.trigger()
			}
		}
	}
}

// poll compares every file against its last stat.
func (w *Watcher) poll() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	changed := false
	for _, p := range w.paths {
		cur := stat(p)
		prev := w.states[p]
		if cur.mtime.IsZero() && !prev.mtime.IsZero() {
			w.onError(ErrFileRemoved)
		}
		if cur != prev {
			w.states[p] = cur
			changed = changed || !cur.mtime.IsZero()
		}
	}
	return changed
}

// trigger restarts the debounce timer.
func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.notify)
}

func (w *Watcher) notify() {
	debug.Log("watcher: input changed")
	select {
	case w.changed <- struct{}{}:
	default:
	}
}

func stat(path string) fileState {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}
	}
	return fileState{mtime: info.ModTime(), size: info.Size()}
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
