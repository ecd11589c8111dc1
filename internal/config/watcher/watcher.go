// Package watcher reports changes to configuration files for live reload.
//
// Files are watched through their parent directory so editors that save by
// renaming a temporary file over the original are still seen.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/pagewright/internal/logging"
)

// ErrClosed is returned when using a stopped watcher.
var ErrClosed = errors.New("watcher is closed")

// Event represents a file change event.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	// Op is the operation that triggered the event.
	Op Operation

	// Time is when the event occurred.
	Time time.Time
}

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates a new file was created.
	OpCreate

	// OpRemove indicates the file was deleted.
	OpRemove

	// OpRename indicates the file was renamed.
	OpRename
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Handler is called when a file change is detected.
type Handler func(event Event)

// Watcher monitors files for changes.
type Watcher struct {
	mu sync.Mutex

	fsw      *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]bool
	handlers []Handler
	log      *logging.Logger

	debounce time.Duration
	timers   map[string]*time.Timer

	done    chan struct{}
	wg      sync.WaitGroup
	started bool
	closed  bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce collapses bursts of events per file. Zero delivers every
// event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for watch errors.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// New creates a watcher.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		log:      logging.Discard(),
		debounce: 100 * time.Millisecond,
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch adds a file. The file need not exist yet; its directory must.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}

	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}
	w.files[abs] = true
	return nil
}

// OnChange registers a handler for file change events.
func (w *Watcher) OnChange(h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// Start begins delivering events.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started || w.closed {
		return
	}
	w.started = true
	w.wg.Add(1)
	go w.loop()
}

// Stop stops watching and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.done)
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()

	w.wg.Wait()
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error: %v", err)
		}
	}
}

func (w *Watcher) handle(fe fsnotify.Event) {
	op, ok := convertOp(fe.Op)
	if !ok {
		return
	}
	path := filepath.Clean(fe.Name)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.files[path] || w.closed {
		return
	}

	ev := Event{Path: path, Op: op, Time: time.Now()}
	if w.debounce == 0 {
		go w.emit(ev)
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		closed := w.closed
		w.mu.Unlock()
		if !closed {
			w.emit(ev)
		}
	})
}

func (w *Watcher) emit(ev Event) {
	w.mu.Lock()
	handlers := append([]Handler(nil), w.handlers...)
	w.mu.Unlock()
	for _, h := range handlers {
		h(ev)
	}
}

// convertOp maps fsnotify operations; chmod is ignored.
func convertOp(op fsnotify.Op) (Operation, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	case op.Has(fsnotify.Remove):
		return OpRemove, true
	case op.Has(fsnotify.Rename):
		return OpRename, true
	default:
		return 0, false
	}
}
