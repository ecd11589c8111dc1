package history

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/pagewright/internal/logging"
	"github.com/dshills/pagewright/internal/region"
)

// Log is the two-stack undo/redo history.
type Log struct {
	mu sync.Mutex

	undo []Snapshot
	redo []Snapshot

	policy     Policy
	maxEntries int
	now        func() time.Time
	log        *logging.Logger

	// Batch chain: the previous save, valid until undo, redo or reset.
	chain      bool
	lastAction ActionType
	lastArea   region.Kind
	lastTime   time.Time

	// Grouping state
	grouping     bool
	groupName    string
	groupStarted bool
}

// New creates a log whose undo stack holds only floor.
func New(floor Snapshot, opts ...Option) *Log {
	l := &Log{
		policy:     DefaultPolicy(),
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
		log:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.undo = []Snapshot{l.stamp(floor)}
	return l
}

// Save records s. It returns true if s replaced the top of the undo stack
// instead of pushing.
func (l *Log) Save(s Snapshot) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	s = l.stamp(s)

	if l.grouping {
		if l.groupStarted && len(l.undo) > 1 {
			l.undo[len(l.undo)-1] = s
			return true
		}
		l.groupStarted = true
		l.pushLocked(s)
		return false
	}

	batched := l.chain && len(l.undo) > 1 &&
		l.policy.ShouldBatch(l.lastAction, l.lastArea, l.lastTime, s.Action, s.Area, s.Time)
	if batched {
		l.undo[len(l.undo)-1] = s
	} else {
		l.pushLocked(s)
	}

	l.chain = true
	l.lastAction = s.Action
	l.lastArea = s.Area
	l.lastTime = s.Time
	return batched
}

func (l *Log) stamp(s Snapshot) Snapshot {
	s = s.Clone()
	s.Time = l.now()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return s
}

// pushLocked adds s, clears redo and enforces the bound.
func (l *Log) pushLocked(s Snapshot) {
	l.undo = append(l.undo, s)
	l.redo = nil
	l.trimLocked()
}

func (l *Log) trimLocked() {
	if len(l.undo) <= l.maxEntries {
		return
	}
	// The oldest retained snapshot becomes the new floor.
	excess := len(l.undo) - l.maxEntries
	l.undo = append([]Snapshot(nil), l.undo[excess:]...)
	l.log.Debug("dropped %d oldest history entries", excess)
}

// Undo moves the top snapshot to the redo stack and returns the new top,
// which the caller restores. It reports false at the floor.
func (l *Log) Undo() (Snapshot, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.undo) < 2 {
		return Snapshot{}, false
	}
	top := l.undo[len(l.undo)-1]
	l.undo = l.undo[:len(l.undo)-1]
	l.redo = append(l.redo, top)
	l.chain = false
	// A grouped save after undo starts a fresh entry.
	l.groupStarted = false
	return l.undo[len(l.undo)-1].Clone(), true
}

// Redo moves the top of the redo stack back onto the undo stack and
// returns it for the caller to restore. It reports false when there is
// nothing to redo.
func (l *Log) Redo() (Snapshot, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.redo) == 0 {
		return Snapshot{}, false
	}
	s := l.redo[len(l.redo)-1]
	l.redo = l.redo[:len(l.redo)-1]
	l.undo = append(l.undo, s)
	l.trimLocked()
	l.chain = false
	l.groupStarted = false
	return s.Clone(), true
}

// Top returns the current state, the top of the undo stack.
func (l *Log) Top() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.undo[len(l.undo)-1].Clone()
}

// CanUndo returns true if undo would do something.
func (l *Log) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.undo) >= 2
}

// CanRedo returns true if redo would do something.
func (l *Log) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.redo) > 0
}

// UndoCount returns the size of the undo stack, floor included.
func (l *Log) UndoCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.undo)
}

// RedoCount returns the size of the redo stack.
func (l *Log) RedoCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.redo)
}

// UndoInfo returns summaries of the undo stack, oldest first.
func (l *Log) UndoInfo() []Info {
	l.mu.Lock()
	defer l.mu.Unlock()
	return infos(l.undo)
}

// RedoInfo returns summaries of the redo stack, oldest first.
func (l *Log) RedoInfo() []Info {
	l.mu.Lock()
	defer l.mu.Unlock()
	return infos(l.redo)
}

func infos(stack []Snapshot) []Info {
	out := make([]Info, len(stack))
	for i, s := range stack {
		out[i] = s.Info()
	}
	return out
}

// PeekUndo describes the entry the next undo would revert.
func (l *Log) PeekUndo() (Info, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.undo) < 2 {
		return Info{}, false
	}
	return l.undo[len(l.undo)-1].Info(), true
}

// PeekRedo describes the entry the next redo would restore.
func (l *Log) PeekRedo() (Info, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.redo) == 0 {
		return Info{}, false
	}
	return l.redo[len(l.redo)-1].Info(), true
}

// BeginGroup starts a group. Saves until EndGroup collapse into one entry.
func (l *Log) BeginGroup(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.grouping {
		// Already grouping, ignore nested calls
		return
	}
	l.grouping = true
	l.groupName = name
	l.groupStarted = false
}

// EndGroup closes the current group. The next save starts a new entry.
func (l *Log) EndGroup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.grouping {
		return
	}
	if l.groupStarted {
		l.log.Debug("group %q recorded as one entry", l.groupName)
	}
	l.grouping = false
	l.groupName = ""
	l.groupStarted = false
	l.chain = false
}

// IsGrouping returns true if a group is open.
func (l *Log) IsGrouping() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.grouping
}

// Reset discards all history and starts again from floor.
func (l *Log) Reset(floor Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.undo = []Snapshot{l.stamp(floor)}
	l.redo = nil
	l.chain = false
	l.grouping = false
	l.groupStarted = false
}

// SetMaxEntries changes the undo stack bound, dropping the oldest entries
// if the stack is larger.
func (l *Log) SetMaxEntries(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.maxEntries = clampEntries(n)
	l.trimLocked()
}

// MaxEntries returns the undo stack bound.
func (l *Log) MaxEntries() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.maxEntries
}

// SetBatchWindow changes the batch window.
func (l *Log) SetBatchWindow(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if d >= 0 {
		l.policy.Window = d
	}
}

// BatchWindow returns the batch window.
func (l *Log) BatchWindow() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.policy.Window
}
