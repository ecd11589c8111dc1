package paginate

import (
	"github.com/dshills/pagewright/internal/logging"
	"github.com/dshills/pagewright/internal/page"
)

// DefaultMaxPages bounds how many pages overflow may create.
const DefaultMaxPages = 10000

// Option configures an Engine during creation.
type Option func(*Engine)

// WithGeometry sets the page geometry.
func WithGeometry(g page.Geometry) Option {
	return func(e *Engine) {
		e.geom = g
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l.WithComponent("paginate")
		}
	}
}

// WithDeferredContinuations leaves queued continuations for the host to run
// with Step or Flush instead of draining them inside each call.
func WithDeferredContinuations() Option {
	return func(e *Engine) {
		e.deferred = true
	}
}

// WithMaxPages caps the number of pages overflow may create.
func WithMaxPages(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxPages = n
		}
	}
}
