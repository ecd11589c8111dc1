// Package history provides undo/redo over whole-document snapshots.
//
// A Snapshot is a full copy of every editable region plus selection
// metadata, not a diff. The Log keeps two stacks of them.
//
// # Stacks
//
// The undo stack is seeded with a floor snapshot of the starting document,
// so there is always a state to return to:
//
//	log := history.New(floor, history.WithMaxEntries(1000))
//
//	log.Save(snap)          // push, or replace the top when batched
//	prev, ok := log.Undo()  // restore prev
//	next, ok := log.Redo()  // restore next
//
// Undo never pops the floor. Any push clears the redo stack.
//
// # Batching
//
// Consecutive TEXT saves to the same region within the batch window
// replace the top of the stack instead of pushing, so a burst of keystrokes
// undoes as one step. FORMAT, STRUCTURE, PASTE and DELETE always push.
// Undo and redo end the current batch.
//
// # Grouping
//
// Saves between BeginGroup and EndGroup collapse into one entry:
//
//	log.BeginGroup("Replace All")
//	// ... several saves ...
//	log.EndGroup()
package history
