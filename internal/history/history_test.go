package history

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/pagewright/internal/markup"
	"github.com/dshills/pagewright/internal/page"
	"github.com/dshills/pagewright/internal/region"
	"github.com/dshills/pagewright/internal/selection"
)

// fakeClock advances only when told to.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func snap(content string, action ActionType, area region.Kind) Snapshot {
	return Snapshot{
		Content:      markup.Markup(content),
		Pages:        []page.Page{{ID: 1, Order: 1, Content: markup.Markup(content)}},
		ActivePage:   1,
		ActiveRegion: area,
		Action:       action,
		Area:         area,
	}
}

func newTestLog(clock *fakeClock, opts ...Option) *Log {
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return New(snap("", "", region.Content), opts...)
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		in   string
		want ActionType
		err  bool
	}{
		{"TEXT", Text, false},
		{"format", Format, false},
		{" Structure ", Structure, false},
		{"paste", Paste, false},
		{"DELETE", Delete, false},
		{"typing", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAction(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("ParseAction(%q) err = %v", tt.in, err)
			continue
		}
		if tt.err && !errors.Is(err, ErrUnknownAction) {
			t.Errorf("ParseAction(%q) err = %v, want ErrUnknownAction", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseAction(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPolicyShouldBatch(t *testing.T) {
	p := DefaultPolicy()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		prevAction ActionType
		prevArea   region.Kind
		prevTime   time.Time
		action     ActionType
		area       region.Kind
		gap        time.Duration
		want       bool
	}{
		{"text within window", Text, region.Content, t0, Text, region.Content, 500 * time.Millisecond, true},
		{"text at window edge", Text, region.Content, t0, Text, region.Content, time.Second, false},
		{"different area", Text, region.Content, t0, Text, region.Header, 10 * time.Millisecond, false},
		{"different action", Text, region.Content, t0, Format, region.Content, 10 * time.Millisecond, false},
		{"format never batches", Format, region.Content, t0, Format, region.Content, 10 * time.Millisecond, false},
		{"paste never batches", Paste, region.Content, t0, Paste, region.Content, 10 * time.Millisecond, false},
		{"no previous save", Text, region.Content, time.Time{}, Text, region.Content, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := t0.Add(tt.gap)
			if got := p.ShouldBatch(tt.prevAction, tt.prevArea, tt.prevTime, tt.action, tt.area, now); got != tt.want {
				t.Errorf("ShouldBatch() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTextSavesBatch(t *testing.T) {
	clock := newFakeClock()
	l := newTestLog(clock)

	for i, s := range []string{"H", "He", "Hel"} {
		batched := l.Save(snap(s, Text, region.Content))
		if batched != (i > 0) {
			t.Errorf("save %d batched = %v", i, batched)
		}
		clock.Advance(300 * time.Millisecond)
	}

	if l.UndoCount() != 2 {
		t.Fatalf("UndoCount() = %d, want floor + 1", l.UndoCount())
	}
	if got := l.Top().Content; got != "Hel" {
		t.Errorf("top = %q, want the latest keystroke", got)
	}

	prev, ok := l.Undo()
	if !ok || prev.Content != "" {
		t.Errorf("Undo() = %q, %v; want the state before the batch", prev.Content, ok)
	}
}

func TestDiscreteActionsPush(t *testing.T) {
	for _, action := range []ActionType{Format, Structure, Paste, Delete} {
		t.Run(string(action), func(t *testing.T) {
			l := newTestLog(newFakeClock())
			for i := 0; i < 4; i++ {
				if l.Save(snap("x", action, region.Content)) {
					t.Errorf("save %d batched", i)
				}
			}
			if l.UndoCount() != 5 {
				t.Errorf("UndoCount() = %d, want 5", l.UndoCount())
			}
		})
	}
}

func TestBatchWindowExpires(t *testing.T) {
	clock := newFakeClock()
	l := newTestLog(clock)

	l.Save(snap("a", Text, region.Content))
	clock.Advance(DefaultBatchWindow)
	l.Save(snap("ab", Text, region.Content))

	if l.UndoCount() != 3 {
		t.Errorf("UndoCount() = %d, want 3", l.UndoCount())
	}
}

func TestUndoAtFloor(t *testing.T) {
	l := newTestLog(newFakeClock())
	if l.CanUndo() {
		t.Error("CanUndo() = true with only the floor")
	}
	if _, ok := l.Undo(); ok {
		t.Error("Undo() succeeded at the floor")
	}
	if _, ok := l.Redo(); ok {
		t.Error("Redo() succeeded with nothing undone")
	}
	if l.UndoCount() != 1 {
		t.Errorf("UndoCount() = %d", l.UndoCount())
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	clock := newFakeClock()
	l := newTestLog(clock)

	saved := []Snapshot{l.Top()}
	for _, c := range []string{"one", "two", "three"} {
		l.Save(snap(c, Format, region.Content))
		saved = append(saved, l.Top())
		clock.Advance(10 * time.Millisecond)
	}

	for i := len(saved) - 2; i >= 0; i-- {
		got, ok := l.Undo()
		if !ok {
			t.Fatalf("Undo() to %d failed", i)
		}
		if !got.Equal(saved[i]) || got.ID != saved[i].ID || !got.Time.Equal(saved[i].Time) {
			t.Errorf("undo to %d = %+v, want %+v", i, got, saved[i])
		}
	}
	if l.CanUndo() {
		t.Error("CanUndo() at floor")
	}

	for i := 1; i < len(saved); i++ {
		got, ok := l.Redo()
		if !ok {
			t.Fatalf("Redo() to %d failed", i)
		}
		if !got.Equal(saved[i]) || got.ID != saved[i].ID {
			t.Errorf("redo to %d = %+v, want %+v", i, got, saved[i])
		}
	}
	if l.CanRedo() {
		t.Error("CanRedo() after redoing everything")
	}
}

func TestSaveAfterUndoClearsRedo(t *testing.T) {
	clock := newFakeClock()
	l := newTestLog(clock)

	l.Save(snap("a", Text, region.Content))
	clock.Advance(2 * time.Second)
	l.Save(snap("ab", Text, region.Content))
	l.Undo()
	if !l.CanRedo() {
		t.Fatal("CanRedo() = false after undo")
	}

	// Within the window of the last save, but undo ended the batch.
	batched := l.Save(snap("ax", Text, region.Content))
	if batched {
		t.Error("save after undo was batched")
	}
	if l.CanRedo() {
		t.Error("redo stack survived a new save")
	}
	if l.UndoCount() != 3 {
		t.Errorf("UndoCount() = %d, want 3", l.UndoCount())
	}
}

func TestCapacityDropsOldest(t *testing.T) {
	l := newTestLog(newFakeClock(), WithMaxEntries(3))

	for _, c := range []string{"1", "2", "3", "4"} {
		l.Save(snap(c, Structure, region.Content))
	}
	if l.UndoCount() != 3 {
		t.Fatalf("UndoCount() = %d, want 3", l.UndoCount())
	}

	l.Undo()
	floor, ok := l.Undo()
	if !ok || floor.Content != "2" {
		t.Errorf("floor = %q, %v; want 2", floor.Content, ok)
	}
	if _, ok := l.Undo(); ok {
		t.Error("Undo() went past the new floor")
	}
}

func TestSetMaxEntries(t *testing.T) {
	l := newTestLog(newFakeClock())
	for i := 0; i < 5; i++ {
		l.Save(snap("x", Delete, region.Content))
	}
	l.SetMaxEntries(1)
	if l.MaxEntries() != 2 || l.UndoCount() != 2 {
		t.Errorf("MaxEntries() = %d UndoCount() = %d, want 2 and 2", l.MaxEntries(), l.UndoCount())
	}
	l.SetMaxEntries(0)
	if l.MaxEntries() != DefaultMaxEntries {
		t.Errorf("MaxEntries() = %d, want default", l.MaxEntries())
	}
}

func TestGroupCollapsesSaves(t *testing.T) {
	clock := newFakeClock()
	l := newTestLog(clock)

	l.BeginGroup("Replace All")
	l.BeginGroup("nested")
	for _, c := range []string{"a", "b", "c"} {
		l.Save(snap(c, Format, region.Content))
		clock.Advance(5 * time.Second)
	}
	l.EndGroup()

	if l.IsGrouping() {
		t.Error("still grouping after EndGroup")
	}
	if l.UndoCount() != 2 || l.Top().Content != "c" {
		t.Errorf("UndoCount() = %d top = %q", l.UndoCount(), l.Top().Content)
	}

	l.Save(snap("d", Text, region.Content))
	if l.UndoCount() != 3 {
		t.Errorf("save after group UndoCount() = %d, want 3", l.UndoCount())
	}
}

func TestUndoInsideGroup(t *testing.T) {
	clock := newFakeClock()
	l := newTestLog(clock)

	l.Save(snap("a", Text, region.Content))
	l.BeginGroup("edit")
	l.Save(snap("b", Format, region.Content))
	l.Undo()
	l.Undo()

	batched := l.Save(snap("c", Format, region.Content))
	l.EndGroup()

	if batched {
		t.Error("save after undo inside a group replaced the top")
	}
	if l.CanRedo() {
		t.Errorf("RedoCount() = %d after new save, want 0", l.RedoCount())
	}
	info := l.UndoInfo()
	if len(info) != 2 {
		t.Fatalf("UndoCount() = %d, want 2", len(info))
	}
	if got := l.Top().Content; got != "c" {
		t.Errorf("Top().Content = %q, want %q", got, "c")
	}
	l.Undo()
	if got := l.Top().Content; got != "" {
		t.Errorf("floor Content = %q, want empty", got)
	}
}

func TestRedoInsideGroupStartsNewEntry(t *testing.T) {
	clock := newFakeClock()
	l := newTestLog(clock)

	l.BeginGroup("edit")
	l.Save(snap("a", Format, region.Content))
	l.Save(snap("ab", Format, region.Content))
	l.Undo()
	l.Redo()
	l.Save(snap("abc", Format, region.Content))
	l.EndGroup()

	if l.UndoCount() != 3 {
		t.Errorf("UndoCount() = %d, want 3", l.UndoCount())
	}
	l.Undo()
	if got := l.Top().Content; got != "ab" {
		t.Errorf("after undo Top().Content = %q, want %q", got, "ab")
	}
}

func TestInfoAndPeek(t *testing.T) {
	clock := newFakeClock()
	l := newTestLog(clock)

	if _, ok := l.PeekUndo(); ok {
		t.Error("PeekUndo() at floor")
	}

	l.Save(snap("a", Paste, region.Header))
	info, ok := l.PeekUndo()
	if !ok || info.Action != Paste || info.Area != region.Header || !info.Time.Equal(clock.Now()) {
		t.Errorf("PeekUndo() = %+v, %v", info, ok)
	}
	if info.ID == uuid.Nil {
		t.Error("snapshot has no ID")
	}

	l.Undo()
	if r, ok := l.PeekRedo(); !ok || r.ID != info.ID {
		t.Errorf("PeekRedo() = %+v, %v", r, ok)
	}
	if len(l.UndoInfo()) != 1 || len(l.RedoInfo()) != 1 {
		t.Errorf("UndoInfo %d RedoInfo %d", len(l.UndoInfo()), len(l.RedoInfo()))
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	l := newTestLog(newFakeClock())

	s := snap("a", Format, region.Content)
	s.Selection = &selection.Ref{StartOffset: 1, EndOffset: 1, StartAnchor: "a", EndAnchor: "a"}
	l.Save(s)

	s.Pages[0].Content = "mutated"
	s.Selection.StartOffset = 9

	top := l.Top()
	if top.Pages[0].Content != "a" || top.Selection.StartOffset != 1 {
		t.Errorf("log shares memory with caller: %+v", top)
	}

	top.Pages[0].Content = "again"
	if l.Top().Pages[0].Content != "a" {
		t.Error("Top() shares memory with the log")
	}
}

func TestReset(t *testing.T) {
	l := newTestLog(newFakeClock())
	l.Save(snap("a", Format, region.Content))
	l.Undo()

	l.Reset(snap("fresh", "", region.Content))
	if l.UndoCount() != 1 || l.RedoCount() != 0 || l.Top().Content != "fresh" {
		t.Errorf("after Reset: undo %d redo %d top %q", l.UndoCount(), l.RedoCount(), l.Top().Content)
	}
}

func TestSnapshotRegion(t *testing.T) {
	s := Snapshot{Content: "c", Header: "h", Footer: "f"}
	for kind, want := range map[region.Kind]markup.Markup{
		region.Content: "c",
		region.Header:  "h",
		region.Footer:  "f",
	} {
		if got := s.Region(kind); got != want {
			t.Errorf("Region(%q) = %q, want %q", kind, got, want)
		}
	}
}
