package document

import (
	"time"

	"github.com/dshills/pagewright/internal/logging"
	"github.com/dshills/pagewright/internal/notify"
	"github.com/dshills/pagewright/internal/page"
	"github.com/dshills/pagewright/internal/region"
)

// Option configures a Document during creation.
type Option func(*Document)

// WithGeometry sets the starting page geometry.
func WithGeometry(g page.Geometry) Option {
	return func(d *Document) {
		d.geom = g
	}
}

// WithLogger sets the logger shared with the engine and history log.
func WithLogger(l *logging.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.log = l
		}
	}
}

// WithHub publishes events on a caller-owned hub. Close leaves it open.
func WithHub(h *notify.Hub) Option {
	return func(d *Document) {
		if h != nil {
			d.hub = h
		}
	}
}

// WithSurface uses caller-provided region handles.
func WithSurface(s *region.Surface) Option {
	return func(d *Document) {
		if s != nil {
			d.surface = s
		}
	}
}

// WithMaxPages caps the number of pages overflow may create.
func WithMaxPages(n int) Option {
	return func(d *Document) {
		d.maxPages = n
	}
}

// WithMaxHistory bounds the undo stack.
func WithMaxHistory(n int) Option {
	return func(d *Document) {
		d.maxHistory = n
	}
}

// WithBatchWindow sets how close TEXT saves must be to coalesce.
func WithBatchWindow(w time.Duration) Option {
	return func(d *Document) {
		d.batchWindow = w
	}
}

// WithClock sets the history time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(d *Document) {
		d.clock = now
	}
}

// WithDeferredPagination leaves pagination continuations queued until
// Settle runs, as a host that re-renders between passes would.
func WithDeferredPagination() Option {
	return func(d *Document) {
		d.deferred = true
	}
}
