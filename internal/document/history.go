package document

import (
	"github.com/dshills/pagewright/internal/history"
	"github.com/dshills/pagewright/internal/notify"
	"github.com/dshills/pagewright/internal/region"
	"github.com/dshills/pagewright/internal/selection"
)

// SaveHistory records the current document as a history entry. An empty
// area means the focused region. It returns true if the entry was batched
// into the previous one.
func (d *Document) SaveHistory(action history.ActionType, area region.Kind) bool {
	b := d.hub.NewBatch()
	defer b.Commit()
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.saveLocked(action, area, b)
}

// SaveHistoryDeferred records the document at the next Settle, after
// pending pagination has run, so the entry holds the post-edit state.
func (d *Document) SaveHistoryDeferred(action history.ActionType, area region.Kind) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.captures = append(d.captures, capture{action: action, area: area})
}

func (d *Document) saveLocked(action history.ActionType, area region.Kind, b *notify.Batch) bool {
	if area == "" {
		area = d.surface.ActiveKind()
	}
	batched := d.history.Save(d.captureLocked(action, area))
	b.Add(notify.Event{Topic: notify.TopicSave, Kind: notify.KindChanged, Value: d.availability(), Source: string(action)})
	return batched
}

// captureLocked snapshots every page plus the surface's regions, focus and
// selection.
func (d *Document) captureLocked(action history.ActionType, area region.Kind) history.Snapshot {
	s := history.Snapshot{
		Content:      d.surface.Handle(region.Content).Markup(),
		Header:       d.surface.Handle(region.Header).Markup(),
		Footer:       d.surface.Handle(region.Footer).Markup(),
		Pages:        d.store.Pages(),
		ActivePage:   d.surface.Page(),
		ActiveRegion: d.surface.ActiveKind(),
		Action:       action,
		Area:         area,
	}
	if ref, ok := selection.Capture(d.surface.Active().Selection()); ok {
		s.Selection = &ref
	}
	return s
}

// Undo restores the state before the last history entry. It returns false,
// changing nothing, at the floor.
func (d *Document) Undo() bool {
	b := d.hub.NewBatch()
	defer b.Commit()
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.history.Undo()
	if !ok {
		return false
	}
	d.restoreLocked(s)
	b.Add(notify.Event{Kind: notify.KindReset, Source: "undo"})
	b.Add(notify.Event{Topic: notify.TopicUndo, Kind: notify.KindChanged, Value: d.availability(), Source: "undo"})
	return true
}

// Redo reapplies the last undone entry. It returns false when there is
// nothing to redo.
func (d *Document) Redo() bool {
	b := d.hub.NewBatch()
	defer b.Commit()
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.history.Redo()
	if !ok {
		return false
	}
	d.restoreLocked(s)
	b.Add(notify.Event{Kind: notify.KindReset, Source: "redo"})
	b.Add(notify.Event{Topic: notify.TopicRedo, Kind: notify.KindChanged, Value: d.availability(), Source: "redo"})
	return true
}

// restoreLocked replaces the live document with s, refocuses and puts the
// selection back where it can be found.
func (d *Document) restoreLocked(s history.Snapshot) {
	d.store.Replace(s.Pages)
	d.engine.Reset()
	d.captures = nil

	order := s.ActivePage
	if order < 1 || order > d.store.Len() {
		order = 1
	}
	d.focusLocked(order, s.ActiveRegion)

	// The active page's regions are authoritative for the surface.
	for _, kind := range region.Kinds() {
		h := d.surface.Handle(kind)
		h.SetMarkup(s.Region(kind))
	}

	h := d.surface.Active()
	if s.Selection == nil {
		h.SetSelection(selection.Start(h.Root()))
		return
	}
	r, ok := selection.Restore(h.Root(), *s.Selection)
	if !ok {
		d.log.Debug("selection anchor %q not found, caret at region start", s.Selection.StartAnchor)
	}
	h.SetSelection(r)
}

// UndoInfo summarizes the undo stack, oldest first.
func (d *Document) UndoInfo() []history.Info {
	return d.history.UndoInfo()
}

// RedoInfo summarizes the redo stack, oldest first.
func (d *Document) RedoInfo() []history.Info {
	return d.history.RedoInfo()
}

// Group runs fn with history grouping on, so every save inside it becomes
// one undo step.
func (d *Document) Group(name string, fn func()) {
	d.history.BeginGroup(name)
	defer d.history.EndGroup()
	fn()
}

func (d *Document) availability() Availability {
	return Availability{CanUndo: d.history.CanUndo(), CanRedo: d.history.CanRedo()}
}
