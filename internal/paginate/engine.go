package paginate

import (
	"sort"

	"github.com/dshills/pagewright/internal/logging"
	"github.com/dshills/pagewright/internal/markup"
	"github.com/dshills/pagewright/internal/measure"
	"github.com/dshills/pagewright/internal/page"
)

// Result describes what an edit did to its page.
type Result struct {
	// Order is the page the edit was applied to.
	Order int

	// Applied is false if the page did not exist.
	Applied bool

	// Held is true if measurement was unavailable and the markup was
	// committed unsplit, to be retried on the next edit.
	Held bool

	// Split is true if the page overflowed and content moved forward.
	Split bool

	// Prefix and Overflow are the two halves of a split.
	Prefix   markup.Markup
	Overflow markup.Markup

	// CreatedPage is true if the overflow needed a new tail page.
	CreatedPage bool
}

// Merge describes a backspace merge.
type Merge struct {
	// Order and PageID identify the surviving (previous) page.
	Order  int
	PageID int

	// RemovedID is the ID of the page that was merged away.
	RemovedID int

	// Boundary is the text offset, in runes, between the old content of the
	// surviving page and the appended content. The caret belongs here.
	Boundary int
}

// continuation asks for the target page to be measured again.
type continuation struct {
	source int // page ID whose edit produced this work
	target int // page ID to reflow
	seq    uint64
}

// Engine reflows content across the pages of a store.
// It is not safe for concurrent use; callers serialize edit events.
type Engine struct {
	store  *page.Store
	oracle measure.Oracle
	geom   page.Geometry
	log    *logging.Logger

	deferred bool
	maxPages int

	queue   []continuation
	pending map[int]continuation // by target page ID
	seq     uint64
	stale   map[int]bool // page IDs whose measurement was unavailable
}

// New creates an engine over store using oracle for measurements.
func New(store *page.Store, oracle measure.Oracle, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		oracle:   oracle,
		geom:     page.DefaultGeometry(),
		log:      logging.Discard(),
		maxPages: DefaultMaxPages,
		pending:  make(map[int]continuation),
		stale:    make(map[int]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Geometry returns the current page geometry.
func (e *Engine) Geometry() page.Geometry {
	return e.geom
}

// SetGeometry replaces the page geometry. It does not reflow; call ReflowAll.
func (e *Engine) SetGeometry(g page.Geometry) {
	e.geom = g
}

// OnContentEdited commits new markup for the content region of the page at
// order, splitting overflow onto following pages as needed.
func (e *Engine) OnContentEdited(order int, m markup.Markup) Result {
	p, ok := e.store.Get(order)
	if !ok {
		e.log.Debug("edit for missing page %d ignored", order)
		return Result{Order: order}
	}

	e.retryStale(p.ID)
	superseded := e.cancelFrom(p.ID)

	res := e.apply(order, m)

	// Work the fresh edit cancelled is reissued against current content
	// unless the edit already queued newer work for that page.
	for _, target := range superseded {
		if _, queued := e.pending[target]; queued {
			continue
		}
		if _, exists := e.store.ByID(target); exists {
			e.schedule(p.ID, target)
		}
	}

	if !e.deferred {
		e.Flush()
	}
	return res
}

// OnBackspaceAtPageStart merges the page at order onto the tail of the
// previous page and removes it. It reports false, doing nothing, for the
// first page or a missing page.
func (e *Engine) OnBackspaceAtPageStart(order int) (Merge, bool) {
	if order <= 1 {
		return Merge{}, false
	}
	cur, ok := e.store.Get(order)
	if !ok {
		return Merge{}, false
	}
	prev, ok := e.store.Get(order - 1)
	if !ok {
		return Merge{}, false
	}

	merged := prev.Content.Concat(cur.Content)
	if err := e.store.SetContent(prev.Order, merged); err != nil {
		e.log.Warn("merge into page %d: %v", prev.Order, err)
		return Merge{}, false
	}
	if err := e.store.Remove(cur.Order); err != nil {
		_ = e.store.SetContent(prev.Order, prev.Content)
		e.log.Warn("remove page %d: %v", cur.Order, err)
		return Merge{}, false
	}

	delete(e.pending, cur.ID)
	delete(e.stale, cur.ID)

	result := Merge{
		Order:     prev.Order,
		PageID:    prev.ID,
		RemovedID: cur.ID,
		Boundary:  prev.Content.TextLen(),
	}

	// The merge itself is exact; an overfull result is split by a follow-up.
	h, err := e.oracle.MeasureHeight(merged, e.geom.ContentWidth())
	switch {
	case err != nil:
		e.stale[prev.ID] = true
	case h > e.geom.MaxContentHeight():
		e.schedule(prev.ID, prev.ID)
	}

	if !e.deferred {
		e.Flush()
	}
	return result, true
}

// Reflow re-runs pagination on the current content of the page at order.
func (e *Engine) Reflow(order int) Result {
	p, ok := e.store.Get(order)
	if !ok {
		return Result{Order: order}
	}
	return e.OnContentEdited(order, p.Content)
}

// ReflowAll re-runs pagination over every page, front to back.
// Used after the geometry changes.
func (e *Engine) ReflowAll() {
	for order := 1; order <= e.store.Len(); order++ {
		p, ok := e.store.Get(order)
		if !ok {
			break
		}
		delete(e.pending, p.ID)
		e.apply(order, p.Content)
	}
	if !e.deferred {
		e.Flush()
	}
}

// Step runs the next live continuation. It returns false when none remain.
func (e *Engine) Step() bool {
	for len(e.queue) > 0 {
		c := e.queue[0]
		e.queue = e.queue[1:]

		cur, ok := e.pending[c.target]
		if !ok || cur.seq != c.seq {
			// Superseded by newer work for the same page.
			continue
		}
		delete(e.pending, c.target)

		order, ok := e.store.OrderOf(c.target)
		if !ok {
			e.log.Debug("continuation target page id=%d vanished, discarded", c.target)
			return true
		}
		p, _ := e.store.Get(order)
		e.apply(order, p.Content)
		return true
	}
	return false
}

// Flush runs continuations until none remain and returns how many ran.
func (e *Engine) Flush() int {
	n := 0
	for e.Step() {
		n++
	}
	return n
}

// Pending returns the number of live continuations.
func (e *Engine) Pending() int {
	return len(e.pending)
}

// Held returns the IDs of pages waiting for measurement, in ascending order.
func (e *Engine) Held() []int {
	ids := make([]int, 0, len(e.stale))
	for id := range e.stale {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Reset drops all queued and held work, as when the page list is replaced.
func (e *Engine) Reset() {
	e.queue = nil
	e.pending = make(map[int]continuation)
	e.stale = make(map[int]bool)
}

// apply measures m for the page at order and commits it, splitting overflow
// forward onto the next page.
func (e *Engine) apply(order int, m markup.Markup) Result {
	res := Result{Order: order}
	p, ok := e.store.Get(order)
	if !ok {
		return res
	}
	res.Applied = true

	maxHeight := e.geom.MaxContentHeight()
	width := e.geom.ContentWidth()

	h, err := e.oracle.MeasureHeight(m, width)
	if err != nil {
		e.hold(p, m, err)
		res.Held = true
		return res
	}
	delete(e.stale, p.ID)

	if h <= maxHeight {
		_ = e.store.SetContent(order, m)
		return res
	}

	prefix, overflow, carries, err := e.split(m, maxHeight, width)
	if err != nil {
		e.hold(p, m, err)
		res.Held = true
		return res
	}
	if !carries {
		// Nothing visible would move; trailing spaces and close tags stay.
		_ = e.store.SetContent(order, m)
		return res
	}

	next, ok := e.store.Get(order + 1)
	if !ok {
		if e.store.Len() >= e.maxPages {
			e.log.Warn("page limit %d reached, page %d left overfull", e.maxPages, order)
			_ = e.store.SetContent(order, m)
			return res
		}
		next = e.store.Append()
		res.CreatedPage = true
	}

	_ = e.store.SetContent(order, prefix)
	_ = e.store.SetContent(next.Order, overflow.Concat(next.Content))

	res.Split = true
	res.Prefix = prefix
	res.Overflow = overflow

	e.log.Debug("page %d split at byte %d of %d, carry to page %d", order, len(prefix), len(m), next.Order)
	e.schedule(p.ID, next.ID)
	return res
}

// split finds the longest unit-aligned prefix of m that fits maxHeight.
// The prefix always holds at least one content unit so that every split
// makes progress, even when a single word or image is taller than a page.
// carries reports whether the overflow holds any content unit.
func (e *Engine) split(m markup.Markup, maxHeight, width float64) (prefix, overflow markup.Markup, carries bool, err error) {
	units := markup.Tokenize(m)
	ends := markup.PrefixEnds(units)

	fit := 0
	for i := range units {
		h, err := e.oracle.MeasureHeight(m[:ends[i]], width)
		if err != nil {
			return "", "", false, err
		}
		if h > maxHeight {
			break
		}
		fit = i + 1
	}

	if !hasContent(units[:fit]) {
		for fit < len(units) {
			fit++
			if units[fit-1].IsContent() {
				break
			}
		}
	}

	cut := 0
	if fit > 0 {
		cut = ends[fit-1]
	}
	return m[:cut], m[cut:], hasContent(units[fit:]), nil
}

func hasContent(units []markup.Unit) bool {
	for _, u := range units {
		if u.IsContent() {
			return true
		}
	}
	return false
}

// hold commits markup unsplit and remembers the page for a retry.
func (e *Engine) hold(p page.Page, m markup.Markup, err error) {
	_ = e.store.SetContent(p.Order, m)
	e.stale[p.ID] = true
	e.log.Debug("page %d held unsplit: %v", p.Order, err)
}

// schedule queues a reflow of target, superseding any queued work for it.
func (e *Engine) schedule(source, target int) {
	e.seq++
	c := continuation{source: source, target: target, seq: e.seq}
	e.pending[target] = c
	e.queue = append(e.queue, c)
}

// cancelFrom supersedes work targeting id and work that id's previous edit
// queued for other pages. It returns the other pages, in ascending order.
func (e *Engine) cancelFrom(id int) []int {
	delete(e.pending, id)

	var targets []int
	for target, c := range e.pending {
		if c.source == id {
			delete(e.pending, target)
			targets = append(targets, target)
		}
	}
	sort.Ints(targets)
	return targets
}

// retryStale queues a reflow for every held page except the one being edited.
func (e *Engine) retryStale(except int) {
	for _, id := range e.Held() {
		if id == except {
			continue
		}
		if _, ok := e.store.ByID(id); !ok {
			delete(e.stale, id)
			continue
		}
		e.schedule(id, id)
	}
}
