// Package selection captures a caret or range so it can be found again after
// the region's tree has been rebuilt from markup.
//
// Offsets alone are meaningless once a tree is rebuilt, so a Ref records the
// literal text of the start and end containers alongside the offsets. Restore
// looks those texts up again by depth-first search. Restoration is best
// effort: when an anchor cannot be found the caret falls back to the start of
// the region and the caller carries on.
package selection

import (
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/dshills/pagewright/internal/markup"
)

// Point is a boundary inside a tree. For a text node Offset counts runes of
// its data; for an element it counts children.
type Point struct {
	Node   *html.Node
	Offset int
}

// IsZero returns true if the point refers to no node.
func (p Point) IsZero() bool {
	return p.Node == nil
}

// Range is a live selection within one tree.
// A collapsed range is a caret.
type Range struct {
	Start Point
	End   Point
}

// Caret returns a collapsed range at p.
func Caret(p Point) Range {
	return Range{Start: p, End: p}
}

// IsZero returns true if the range is unset.
func (r Range) IsZero() bool {
	return r.Start.IsZero()
}

// IsCollapsed returns true if the range is a caret.
func (r Range) IsCollapsed() bool {
	return r.Start == r.End
}

// Ref is a tree-independent record of a Range.
type Ref struct {
	StartOffset int
	EndOffset   int
	StartAnchor string
	EndAnchor   string
}

// Capture records r. It reports false for an unset range.
func Capture(r Range) (Ref, bool) {
	if r.IsZero() || r.End.IsZero() {
		return Ref{}, false
	}
	return Ref{
		StartOffset: r.Start.Offset,
		EndOffset:   r.End.Offset,
		StartAnchor: markup.TextContent(r.Start.Node),
		EndAnchor:   markup.TextContent(r.End.Node),
	}, true
}

// Restore resolves ref against root.
//
// The start anchor is the first text node, in depth-first order, whose text
// equals ref.StartAnchor. The end anchor is searched from the start node on,
// so a restored range never runs backward. If either anchor is missing or an
// offset falls outside its node, Restore returns a caret at the start of the
// region and false.
func Restore(root *html.Node, ref Ref) (Range, bool) {
	nodes := markup.TextNodes(root)

	si := indexOf(nodes, 0, ref.StartAnchor)
	if si < 0 || !inBounds(nodes[si], ref.StartOffset) {
		return Start(root), false
	}
	ei := indexOf(nodes, si, ref.EndAnchor)
	if ei < 0 || !inBounds(nodes[ei], ref.EndOffset) {
		return Start(root), false
	}
	if ei == si && ref.EndOffset < ref.StartOffset {
		return Start(root), false
	}

	return Range{
		Start: Point{Node: nodes[si], Offset: ref.StartOffset},
		End:   Point{Node: nodes[ei], Offset: ref.EndOffset},
	}, true
}

func indexOf(nodes []*html.Node, from int, text string) int {
	for i := from; i < len(nodes); i++ {
		if nodes[i].Data == text {
			return i
		}
	}
	return -1
}

func inBounds(n *html.Node, offset int) bool {
	return offset >= 0 && offset <= utf8.RuneCountInString(n.Data)
}

// Start returns a caret at the start of the region: offset 0 of the first
// text node, or of root itself when there is no text.
func Start(root *html.Node) Range {
	nodes := markup.TextNodes(root)
	if len(nodes) == 0 {
		return Caret(Point{Node: root})
	}
	return Caret(Point{Node: nodes[0]})
}

// At maps a rune offset into the region's text onto a point. An offset on
// the border of two text nodes lands at the end of the earlier one.
func At(root *html.Node, textOffset int) (Point, bool) {
	if textOffset < 0 {
		return Point{}, false
	}
	nodes := markup.TextNodes(root)
	if len(nodes) == 0 {
		if textOffset == 0 {
			return Point{Node: root}, true
		}
		return Point{}, false
	}

	pos := 0
	for _, n := range nodes {
		l := utf8.RuneCountInString(n.Data)
		if textOffset <= pos+l {
			return Point{Node: n, Offset: textOffset - pos}, true
		}
		pos += l
	}
	return Point{}, false
}

// Offset is the inverse of At for points in text nodes.
func Offset(root *html.Node, p Point) (int, bool) {
	if p.Node == root && p.Offset == 0 {
		return 0, true
	}
	pos := 0
	for _, n := range markup.TextNodes(root) {
		if n == p.Node {
			return pos + p.Offset, true
		}
		pos += utf8.RuneCountInString(n.Data)
	}
	return 0, false
}

// Select builds a range from two rune offsets into the region's text.
func Select(root *html.Node, start, end int) (Range, bool) {
	if end < start {
		start, end = end, start
	}
	s, ok := At(root, start)
	if !ok {
		return Range{}, false
	}
	e, ok := At(root, end)
	if !ok {
		return Range{}, false
	}
	return Range{Start: s, End: e}, true
}
