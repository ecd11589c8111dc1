package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/pagewright/internal/document"
	"github.com/dshills/pagewright/internal/logging"
)

// DefaultTimeout bounds a single script run.
const DefaultTimeout = 10 * time.Second

// Runner executes scripts against one document.
//
// gopher-lua states are not goroutine-safe; Runner serializes runs.
type Runner struct {
	mu sync.Mutex

	L      *lua.LState
	doc    *document.Document
	out    io.Writer
	clock  *Clock
	log    *logging.Logger
	limit  time.Duration
	closed bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput redirects print.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.out = w
		}
	}
}

// WithClock enables doc.advance. The document must have been created with
// the same clock.
func WithClock(c *Clock) Option {
	return func(r *Runner) {
		r.clock = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithTimeout sets the per-run deadline. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.limit = d
	}
}

// NewRunner creates a runner bound to d.
func NewRunner(d *document.Document, opts ...Option) *Runner {
	r := &Runner{
		doc:   d,
		out:   os.Stdout,
		log:   logging.Discard(),
		limit: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.WithComponent("script")

	r.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(r.L)
	lua.OpenTable(r.L)
	lua.OpenString(r.L)
	lua.OpenMath(r.L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		r.L.SetGlobal(name, lua.LNil)
	}
	r.L.SetGlobal("print", r.L.NewFunction(r.print))
	r.register()
	return r
}

// Run executes src. name labels errors.
func (r *Runner) Run(ctx context.Context, name, src string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if r.limit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.limit)
		defer cancel()
	}
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()

	fn, err := r.L.Load(strings.NewReader(src), name)
	if err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}

	start := time.Now()
	err = r.protect(func() error {
		r.L.Push(fn)
		return r.L.PCall(0, lua.MultRet, nil)
	})
	r.L.SetTop(0)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%s: %w", name, ErrTimeout)
		}
		return fmt.Errorf("run %s: %w", name, err)
	}
	r.log.Debug("ran %s in %v", name, time.Since(start))
	return nil
}

// RunFile executes the script at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return r.Run(ctx, path, string(src))
}

// Close releases the Lua state.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.L.Close()
}

func (r *Runner) protect(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("lua panic: %v", rec)
		}
	}()
	return fn()
}

func (r *Runner) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(r.out, strings.Join(parts, "\t"))
	return 0
}
