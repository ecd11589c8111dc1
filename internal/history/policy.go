package history

import (
	"time"

	"github.com/dshills/pagewright/internal/region"
)

// DefaultBatchWindow is how close two TEXT saves must be to coalesce.
const DefaultBatchWindow = 1000 * time.Millisecond

// Policy decides whether a save replaces the top of the undo stack.
type Policy struct {
	Window time.Duration
}

// DefaultPolicy returns the policy with the default window.
func DefaultPolicy() Policy {
	return Policy{Window: DefaultBatchWindow}
}

// ShouldBatch returns true if a save of action to area at now coalesces
// with the previous save, described by prevAction, prevArea and prevTime.
func (p Policy) ShouldBatch(prevAction ActionType, prevArea region.Kind, prevTime time.Time, action ActionType, area region.Kind, now time.Time) bool {
	if !action.Batchable() || action != prevAction || area != prevArea {
		return false
	}
	if prevTime.IsZero() {
		return false
	}
	return now.Sub(prevTime) < p.Window
}
