package document

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/pagewright/internal/history"
	"github.com/dshills/pagewright/internal/logging"
	"github.com/dshills/pagewright/internal/markup"
	"github.com/dshills/pagewright/internal/measure"
	"github.com/dshills/pagewright/internal/notify"
	"github.com/dshills/pagewright/internal/page"
	"github.com/dshills/pagewright/internal/paginate"
	"github.com/dshills/pagewright/internal/region"
	"github.com/dshills/pagewright/internal/selection"
)

// Availability is the undo/redo state UI controls enable themselves from.
type Availability struct {
	CanUndo bool
	CanRedo bool
}

// capture is a SaveHistoryDeferred request waiting for Settle.
type capture struct {
	action history.ActionType
	area   region.Kind
}

// Document is a paginated, undoable document.
type Document struct {
	mu sync.Mutex

	id      uuid.UUID
	store   *page.Store
	engine  *paginate.Engine
	history *history.Log
	surface *region.Surface
	hub     *notify.Hub
	ownHub  bool
	log     *logging.Logger
	geom    page.Geometry

	deferred bool
	captures []capture

	// creation settings
	maxPages    int
	maxHistory  int
	batchWindow time.Duration
	clock       func() time.Time
}

// New creates a document of one empty page measured by oracle.
func New(oracle measure.Oracle, opts ...Option) *Document {
	d := &Document{
		id:    uuid.New(),
		store: page.NewStore(),
		log:   logging.Discard(),
		geom:  page.DefaultGeometry(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.hub == nil {
		d.hub = notify.New()
		d.ownHub = true
	}
	if d.surface == nil {
		d.surface = region.NewSurface()
	}
	d.log = d.log.WithField("doc", d.id.String()[:8])

	engineOpts := []paginate.Option{
		paginate.WithGeometry(d.geom),
		paginate.WithLogger(d.log),
	}
	if d.maxPages > 0 {
		engineOpts = append(engineOpts, paginate.WithMaxPages(d.maxPages))
	}
	if d.deferred {
		engineOpts = append(engineOpts, paginate.WithDeferredContinuations())
	}
	d.engine = paginate.New(d.store, oracle, engineOpts...)

	historyOpts := []history.Option{history.WithLogger(d.log)}
	if d.maxHistory > 0 {
		historyOpts = append(historyOpts, history.WithMaxEntries(d.maxHistory))
	}
	if d.batchWindow > 0 {
		historyOpts = append(historyOpts, history.WithBatchWindow(d.batchWindow))
	}
	if d.clock != nil {
		historyOpts = append(historyOpts, history.WithClock(d.clock))
	}

	d.refreshSurface()
	d.history = history.New(d.captureLocked("", region.Content), historyOpts...)
	return d
}

// ID returns the document's session ID.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// Events returns the hub change events are published on.
func (d *Document) Events() *notify.Hub {
	return d.hub
}

// Close releases the document's hub if it created it.
func (d *Document) Close() {
	if d.ownHub {
		d.hub.Close()
	}
}

// Pages returns every page in order.
func (d *Document) Pages() []page.Page {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.Pages()
}

// Page returns the page at order.
func (d *Document) Page(order int) (page.Page, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.Get(order)
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.Len()
}

// Label returns the footer label for the page at order, "Page N of M".
func (d *Document) Label(order int) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return page.Label(order, d.store.Len())
}

// Geometry returns the current page geometry.
func (d *Document) Geometry() page.Geometry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.geom
}

// Availability returns the undo/redo flags.
func (d *Document) Availability() Availability {
	return Availability{CanUndo: d.history.CanUndo(), CanRedo: d.history.CanRedo()}
}

// CanUndo returns true if Undo would change the document.
func (d *Document) CanUndo() bool {
	return d.history.CanUndo()
}

// CanRedo returns true if Redo would change the document.
func (d *Document) CanRedo() bool {
	return d.history.CanRedo()
}

// Active returns the page order and region that have focus.
func (d *Document) Active() (int, region.Kind) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.surface.Page(), d.surface.ActiveKind()
}

// OnContentEdited commits new markup for the content of the page at order
// and reflows overflow onto following pages.
func (d *Document) OnContentEdited(order int, m markup.Markup) paginate.Result {
	b := d.hub.NewBatch()
	defer b.Commit()
	d.mu.Lock()
	defer d.mu.Unlock()

	before := d.store.Pages()
	res := d.engine.OnContentEdited(order, m)
	if !res.Applied {
		return res
	}
	d.focusLocked(order, region.Content)
	d.refreshSurface()

	if res.Split {
		b.Add(notify.Event{Topic: notify.TopicSplit, Kind: notify.KindChanged, Page: order, Value: res, Source: "edit"})
	}
	diffPages(b, before, d.store.Pages(), "edit")
	return res
}

// OnBackspaceAtPageStart merges the page at order into the previous page
// and puts the caret at the join. It returns false for the first page.
func (d *Document) OnBackspaceAtPageStart(order int) bool {
	b := d.hub.NewBatch()
	defer b.Commit()
	d.mu.Lock()
	defer d.mu.Unlock()

	before := d.store.Pages()
	merge, ok := d.engine.OnBackspaceAtPageStart(order)
	if !ok {
		return false
	}

	target := merge.Order
	if o, ok := d.store.OrderOf(merge.PageID); ok {
		target = o
	}
	d.focusLocked(target, region.Content)

	h := d.surface.Handle(region.Content)
	if pt, ok := selection.At(h.Root(), merge.Boundary); ok {
		h.SetSelection(selection.Caret(pt))
	} else {
		h.SetSelection(selection.Start(h.Root()))
	}

	b.Add(notify.Event{Topic: notify.TopicMerge, Kind: notify.KindRemoved, Page: order, Value: merge, Source: "backspace"})
	diffPages(b, before, d.store.Pages(), "backspace")
	return true
}

// OnHeaderEdited stores plain text as the header of the page at order.
func (d *Document) OnHeaderEdited(order int, text string) error {
	return d.setRegion(order, region.Header, text)
}

// OnFooterEdited stores plain text as the footer of the page at order.
func (d *Document) OnFooterEdited(order int, text string) error {
	return d.setRegion(order, region.Footer, text)
}

func (d *Document) setRegion(order int, kind region.Kind, text string) error {
	b := d.hub.NewBatch()
	defer b.Commit()
	d.mu.Lock()
	defer d.mu.Unlock()

	m := markup.FromText(text)
	var err error
	if kind == region.Header {
		err = d.store.SetHeader(order, m)
	} else {
		err = d.store.SetFooter(order, m)
	}
	if err != nil {
		return fmt.Errorf("edit %s: %w", kind, err)
	}
	d.focusLocked(order, kind)
	b.Add(notify.Event{Topic: notify.TopicRegion, Kind: notify.KindChanged, Page: order, Value: kind, Source: string(kind)})
	return nil
}

// Focus moves focus to a region of the page at order.
func (d *Document) Focus(order int, kind region.Kind) error {
	b := d.hub.NewBatch()
	defer b.Commit()
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := region.ParseKind(string(kind)); err != nil {
		return err
	}
	if !d.store.Exists(order) {
		return fmt.Errorf("focus: %w: order %d", page.ErrPageNotFound, order)
	}
	d.focusLocked(order, kind)
	b.Add(notify.Event{Topic: notify.TopicSelection, Kind: notify.KindChanged, Page: order, Value: kind, Source: "focus"})
	return nil
}

// Select sets the selection in the focused region from two rune offsets
// into its text. It returns false if the offsets are out of range.
func (d *Document) Select(start, end int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	h := d.surface.Active()
	r, ok := selection.Select(h.Root(), start, end)
	if !ok {
		return false
	}
	h.SetSelection(r)
	return true
}

// Selection returns the focused region's selection as rune offsets.
func (d *Document) Selection() (start, end int, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	h := d.surface.Active()
	r := h.Selection()
	if r.IsZero() {
		return 0, 0, false
	}
	s, ok1 := selection.Offset(h.Root(), r.Start)
	e, ok2 := selection.Offset(h.Root(), r.End)
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	return s, e, true
}

// SetZoom changes the zoom percentage and reflows every page.
// An invalid zoom returns an error and changes nothing.
func (d *Document) SetZoom(percent float64) error {
	b := d.hub.NewBatch()
	defer b.Commit()
	d.mu.Lock()
	defer d.mu.Unlock()

	g, err := d.geom.WithZoom(percent)
	if err != nil {
		return err
	}
	d.applyGeometryLocked(g, b, notify.TopicZoom, percent)
	return nil
}

// SetMargins switches to a named margin preset and reflows every page.
// An unknown preset returns an error and changes nothing.
func (d *Document) SetMargins(name string) error {
	b := d.hub.NewBatch()
	defer b.Commit()
	d.mu.Lock()
	defer d.mu.Unlock()

	p, err := page.ParsePreset(name)
	if err != nil {
		return err
	}
	d.applyGeometryLocked(d.geom.WithPreset(p), b, notify.TopicMargins, p)
	return nil
}

func (d *Document) applyGeometryLocked(g page.Geometry, b *notify.Batch, topic string, value any) {
	before := d.store.Pages()
	d.geom = g
	d.engine.SetGeometry(g)
	d.engine.ReflowAll()
	d.refreshSurface()

	d.log.Debug("geometry now %v%% %s, %d pages", g.Zoom, g.Preset, d.store.Len())
	b.Add(notify.Event{Topic: topic, Kind: notify.KindChanged, Value: value, Source: "geometry"})
	diffPages(b, before, d.store.Pages(), "geometry")
}

// Settle runs queued pagination continuations, then takes any deferred
// history captures against the settled state.
func (d *Document) Settle() int {
	b := d.hub.NewBatch()
	defer b.Commit()
	d.mu.Lock()
	defer d.mu.Unlock()

	before := d.store.Pages()
	n := d.engine.Flush()
	d.refreshSurface()
	diffPages(b, before, d.store.Pages(), "settle")

	captures := d.captures
	d.captures = nil
	for _, c := range captures {
		d.saveLocked(c.action, c.area, b)
	}
	return n
}

// Pending returns the number of queued pagination continuations.
func (d *Document) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.engine.Pending()
}

// SetHistoryLimits changes the undo bound and batch window.
// Zero values leave a setting unchanged.
func (d *Document) SetHistoryLimits(maxEntries int, window time.Duration) {
	if maxEntries > 0 {
		d.history.SetMaxEntries(maxEntries)
	}
	if window > 0 {
		d.history.SetBatchWindow(window)
	}
}

// focusLocked shows the page at order on the surface and focuses kind.
func (d *Document) focusLocked(order int, kind region.Kind) {
	if p, ok := d.store.Get(order); ok {
		d.surface.Load(p)
	}
	_ = d.surface.Focus(kind)
}

// refreshSurface reloads the surface's page, falling back to the last page
// if it no longer exists.
func (d *Document) refreshSurface() {
	order := d.surface.Page()
	if order > d.store.Len() {
		order = d.store.Len()
	}
	if order < 1 {
		order = 1
	}
	if p, ok := d.store.Get(order); ok {
		d.surface.Load(p)
	}
}
