package markup

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse builds a tree for m rooted at a synthetic <div> container.
// The root itself is not part of the markup; Render emits only its children.
// Malformed markup is repaired the way a browser would repair it.
func Parse(m Markup) *html.Node {
	root := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	}
	if m == "" {
		return root
	}

	nodes, err := html.ParseFragment(strings.NewReader(string(m)), root)
	if err != nil {
		// ParseFragment only fails on reader errors; fall back to plain text.
		root.AppendChild(&html.Node{Type: html.TextNode, Data: m.Text()})
		return root
	}
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		root.AppendChild(n)
	}
	return root
}

// Render serializes the children of root back into markup.
func Render(root *html.Node) Markup {
	if root == nil {
		return ""
	}
	var sb strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&sb, c); err != nil {
			break
		}
	}
	return Markup(sb.String())
}

// TextContent returns the concatenated text of n and its descendants,
// matching the DOM textContent property.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// TextNodes returns every text node under root in document order.
func TextNodes(root *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}
