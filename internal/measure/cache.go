package measure

import (
	"sync"

	"github.com/dshills/pagewright/internal/markup"
)

// DefaultCacheSize is the number of measurements a Cached oracle keeps.
const DefaultCacheSize = 4096

type cacheKey struct {
	m     markup.Markup
	width float64
}

// Cached memoizes a deterministic oracle.
// Errors are never cached, so an unavailable oracle is retried on every call.
type Cached struct {
	mu    sync.Mutex
	inner Oracle
	size  int
	items map[cacheKey]float64

	hits   uint64
	misses uint64
}

// NewCached wraps inner with a cache of at most size entries.
// When the cache fills it is cleared wholesale.
func NewCached(inner Oracle, size int) *Cached {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cached{
		inner: inner,
		size:  size,
		items: make(map[cacheKey]float64),
	}
}

// MeasureHeight implements Oracle.
func (c *Cached) MeasureHeight(m markup.Markup, widthPx float64) (float64, error) {
	key := cacheKey{m: m, width: widthPx}

	c.mu.Lock()
	if h, ok := c.items[key]; ok {
		c.hits++
		c.mu.Unlock()
		return h, nil
	}
	c.misses++
	c.mu.Unlock()

	h, err := c.inner.MeasureHeight(m, widthPx)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	if len(c.items) >= c.size {
		c.items = make(map[cacheKey]float64)
	}
	c.items[key] = h
	c.mu.Unlock()
	return h, nil
}

// Stats returns cache hits and misses.
func (c *Cached) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Reset drops every cached measurement.
func (c *Cached) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[cacheKey]float64)
}
