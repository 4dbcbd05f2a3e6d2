// Package watcher reports debounced changes to the files of a board.
package watcher

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is how long the watcher waits after the last event before
// reporting. A burst of writes (an import, a save's temp file and rename)
// arrives as one Batch.
const DefaultDelay = 100 * time.Millisecond

// Filter decides whether a changed path is reported.
type Filter func(path string) bool

// IgnoreHidden skips dot files, which covers the store's lock and temp files.
func IgnoreHidden(path string) bool {
	return !strings.HasPrefix(filepath.Base(path), ".")
}

// Batch lists the paths that changed within one debounce window, sorted.
type Batch []string

// Touches reports whether a file with the given base name is in the batch.
func (b Batch) Touches(name string) bool {
	return slices.ContainsFunc(b, func(p string) bool { return filepath.Base(p) == name })
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithFilter replaces IgnoreHidden.
func WithFilter(f Filter) Option {
	return func(w *Watcher) { w.filter = f }
}

// WithDelay replaces DefaultDelay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) { w.delay = d }
}

// Watcher watches directories and hands each debounced batch of changed
// paths to a callback.
type Watcher struct {
	fsw      *fsnotify.Watcher
	filter   Filter
	delay    time.Duration
	onChange func(Batch)

	// cbMu keeps a slow callback from overlapping the next flush.
	cbMu sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]struct{}
}

// New starts watching paths. onChange runs on its own goroutine once events
// have been quiet for the delay. Calls to onChange never overlap.
func New(paths []string, onChange func(Batch), opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if err := fsw.Add(p); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fsw:      fsw,
		filter:   IgnoreHidden,
		delay:    DefaultDelay,
		onChange: onChange,
		pending:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run consumes events until ctx is canceled or the watcher is closed.
// Errors from fsnotify go to errFn when it is non-nil.
func (w *Watcher) Run(ctx context.Context, errFn func(error)) {
	const relevant = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename
	for {
		select {
		case <-ctx.Done():
			w.stop()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&relevant == 0 || !w.filter(event.Name) {
				continue
			}
			w.record(event.Name)
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

func (w *Watcher) record(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	batch := make(Batch, 0, len(w.pending))
	for p := range w.pending {
		batch = append(batch, p)
	}
	clear(w.pending)
	w.mu.Unlock()

	if len(batch) == 0 {
		return
	}
	slices.Sort(batch)

	w.cbMu.Lock()
	defer w.cbMu.Unlock()
	w.onChange(batch)
}

func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
