// Package region models the three independently editable areas of a page
// as explicit handles, so that nothing in the core looks up a rendering
// surface ambiently.
package region

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/pagewright/internal/markup"
	"github.com/dshills/pagewright/internal/page"
	"github.com/dshills/pagewright/internal/selection"
)

// Kind names a region.
type Kind string

// Regions of a page.
const (
	Content Kind = "content"
	Header  Kind = "header"
	Footer  Kind = "footer"
)

// Kinds returns every region kind.
func Kinds() []Kind {
	return []Kind{Content, Header, Footer}
}

// ParseKind resolves a region name, ignoring case.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Content, Header, Footer:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRegion, s)
}

// String returns the region name.
func (k Kind) String() string {
	return string(k)
}

// Handle is a live editable region.
type Handle interface {
	// Kind returns which region this is.
	Kind() Kind

	// Markup returns the committed markup.
	Markup() markup.Markup

	// SetMarkup replaces the markup and rebuilds the tree. The selection is
	// cleared because it pointed into the old tree.
	SetMarkup(m markup.Markup)

	// Root returns the region's tree.
	Root() *html.Node

	// Selection returns the live selection, which may be unset.
	Selection() selection.Range

	// SetSelection moves the selection.
	SetSelection(r selection.Range)
}

// Buffer is an in-memory Handle.
type Buffer struct {
	kind Kind
	src  markup.Markup
	root *html.Node
	sel  selection.Range
}

// NewBuffer creates a handle holding m.
func NewBuffer(kind Kind, m markup.Markup) *Buffer {
	b := &Buffer{kind: kind}
	b.SetMarkup(m)
	return b
}

// Kind implements Handle.
func (b *Buffer) Kind() Kind { return b.kind }

// Markup implements Handle.
func (b *Buffer) Markup() markup.Markup { return b.src }

// SetMarkup implements Handle.
func (b *Buffer) SetMarkup(m markup.Markup) {
	b.src = m
	b.root = markup.Parse(m)
	b.sel = selection.Range{}
}

// Root implements Handle.
func (b *Buffer) Root() *html.Node { return b.root }

// Selection implements Handle.
func (b *Buffer) Selection() selection.Range { return b.sel }

// SetSelection implements Handle.
func (b *Buffer) SetSelection(r selection.Range) { b.sel = r }

// Surface is the set of handles for the page being edited, plus focus.
type Surface struct {
	handles map[Kind]Handle
	active  Kind
	page    int
}

// NewSurface creates a surface of in-memory buffers focused on the content
// region of page 1.
func NewSurface() *Surface {
	return NewSurfaceWith(
		NewBuffer(Content, ""),
		NewBuffer(Header, ""),
		NewBuffer(Footer, ""),
	)
}

// NewSurfaceWith creates a surface over caller-provided handles. Missing
// kinds get in-memory buffers.
func NewSurfaceWith(handles ...Handle) *Surface {
	s := &Surface{
		handles: make(map[Kind]Handle, 3),
		active:  Content,
		page:    1,
	}
	for _, h := range handles {
		if h != nil {
			s.handles[h.Kind()] = h
		}
	}
	for _, k := range Kinds() {
		if _, ok := s.handles[k]; !ok {
			s.handles[k] = NewBuffer(k, "")
		}
	}
	return s
}

// Handle returns the handle for kind.
func (s *Surface) Handle(kind Kind) Handle {
	return s.handles[kind]
}

// Active returns the focused handle.
func (s *Surface) Active() Handle {
	return s.handles[s.active]
}

// ActiveKind returns the focused region kind.
func (s *Surface) ActiveKind() Kind {
	return s.active
}

// Page returns the order of the page on the surface.
func (s *Surface) Page() int {
	return s.page
}

// Focus moves focus to kind on the current page.
func (s *Surface) Focus(kind Kind) error {
	if _, ok := s.handles[kind]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRegion, kind)
	}
	s.active = kind
	return nil
}

// Load shows p on the surface. When p is already shown, regions whose
// markup is unchanged keep their tree and selection.
func (s *Surface) Load(p page.Page) {
	force := p.Order != s.page
	s.page = p.Order
	s.sync(Content, p.Content, force)
	s.sync(Header, p.Header, force)
	s.sync(Footer, p.Footer, force)
}

func (s *Surface) sync(kind Kind, m markup.Markup, force bool) {
	h := s.handles[kind]
	if force || h.Markup() != m {
		h.SetMarkup(m)
	}
}
