package history

import (
	"time"

	"github.com/dshills/pagewright/internal/logging"
)

// DefaultMaxEntries bounds the undo stack, floor included.
const DefaultMaxEntries = 1000

// minEntries keeps room for the floor and one state above it.
const minEntries = 2

// Option configures a Log during creation.
type Option func(*Log)

// WithMaxEntries sets the undo stack bound.
func WithMaxEntries(n int) Option {
	return func(l *Log) {
		l.maxEntries = clampEntries(n)
	}
}

// WithBatchWindow sets how close TEXT saves must be to coalesce.
func WithBatchWindow(d time.Duration) Option {
	return func(l *Log) {
		if d >= 0 {
			l.policy.Window = d
		}
	}
}

// WithClock sets the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(lg *logging.Logger) Option {
	return func(l *Log) {
		if lg != nil {
			l.log = lg.WithComponent("history")
		}
	}
}

func clampEntries(n int) int {
	if n <= 0 {
		return DefaultMaxEntries
	}
	if n < minEntries {
		return minEntries
	}
	return n
}
