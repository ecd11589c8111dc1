package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/pagewright/internal/markup"
	"github.com/dshills/pagewright/internal/page"
	"github.com/dshills/pagewright/internal/region"
	"github.com/dshills/pagewright/internal/selection"
)

// Snapshot is an immutable capture of the document.
type Snapshot struct {
	ID uuid.UUID

	// Content, Header and Footer are the regions of the active page.
	Content markup.Markup
	Header  markup.Markup
	Footer  markup.Markup

	// Pages holds every page so restore can rebuild the page list.
	Pages []page.Page

	// ActivePage and ActiveRegion locate focus.
	ActivePage   int
	ActiveRegion region.Kind

	// Selection is nil when nothing was selected in the active region.
	Selection *selection.Ref

	Action ActionType
	Area   region.Kind
	Time   time.Time
}

// Region returns the markup captured for kind on the active page.
func (s Snapshot) Region(kind region.Kind) markup.Markup {
	switch kind {
	case region.Header:
		return s.Header
	case region.Footer:
		return s.Footer
	default:
		return s.Content
	}
}

// Clone returns a deep copy. Callers never share slices with the log.
func (s Snapshot) Clone() Snapshot {
	if s.Pages != nil {
		s.Pages = append([]page.Page(nil), s.Pages...)
	}
	if s.Selection != nil {
		ref := *s.Selection
		s.Selection = &ref
	}
	return s
}

// Equal reports whether two snapshots capture the same document state.
// ID and Time are ignored.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.Content != o.Content || s.Header != o.Header || s.Footer != o.Footer {
		return false
	}
	if s.ActivePage != o.ActivePage || s.ActiveRegion != o.ActiveRegion {
		return false
	}
	if s.Action != o.Action || s.Area != o.Area {
		return false
	}
	if (s.Selection == nil) != (o.Selection == nil) {
		return false
	}
	if s.Selection != nil && *s.Selection != *o.Selection {
		return false
	}
	if len(s.Pages) != len(o.Pages) {
		return false
	}
	for i := range s.Pages {
		if s.Pages[i] != o.Pages[i] {
			return false
		}
	}
	return true
}

// Info summarizes a snapshot for menus.
type Info struct {
	ID     uuid.UUID
	Action ActionType
	Area   region.Kind
	Time   time.Time
}

// Info returns the summary of s.
func (s Snapshot) Info() Info {
	return Info{ID: s.ID, Action: s.Action, Area: s.Area, Time: s.Time}
}
