package main

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/pagewright/internal/document"
	"github.com/dshills/pagewright/internal/page"
)

const excerptLen = 60

// pageSummary is one page as printed by the CLI.
type pageSummary struct {
	Order   int    `yaml:"order"`
	ID      int    `yaml:"id"`
	Label   string `yaml:"label"`
	Chars   int    `yaml:"chars"`
	Header  string `yaml:"header,omitempty"`
	Footer  string `yaml:"footer,omitempty"`
	Excerpt string `yaml:"excerpt"`
	Content string `yaml:"content,omitempty"`
}

type docSummary struct {
	Pages   []pageSummary `yaml:"pages"`
	Zoom    float64       `yaml:"zoom"`
	Margins string        `yaml:"margins"`
	CanUndo bool          `yaml:"can_undo"`
	CanRedo bool          `yaml:"can_redo"`
}

func summarize(d *document.Document, full bool) docSummary {
	pages := d.Pages()
	g := d.Geometry()
	s := docSummary{
		Zoom:    g.Zoom,
		Margins: string(g.Preset),
		CanUndo: d.CanUndo(),
		CanRedo: d.CanRedo(),
	}
	for _, p := range pages {
		text := strings.Join(strings.Fields(p.Content.Text()), " ")
		ps := pageSummary{
			Order:   p.Order,
			ID:      p.ID,
			Label:   page.Label(p.Order, len(pages)),
			Chars:   p.Content.TextLen(),
			Header:  p.Header.Text(),
			Footer:  p.Footer.Text(),
			Excerpt: excerpt(text),
		}
		if full {
			ps.Content = string(p.Content)
		}
		s.Pages = append(s.Pages, ps)
	}
	return s
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) <= excerptLen {
		return s
	}
	return string(r[:excerptLen-3]) + "..."
}

func printSummary(w io.Writer, s docSummary, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(s)
	case "text", "":
		fmt.Fprintf(w, "%d pages, zoom %v%%, margins %s\n", len(s.Pages), s.Zoom, s.Margins)
		for _, p := range s.Pages {
			fmt.Fprintf(w, "\n%s (id %d, %d chars)\n", p.Label, p.ID, p.Chars)
			if p.Header != "" {
				fmt.Fprintf(w, "  header: %s\n", p.Header)
			}
			fmt.Fprintf(w, "  %s\n", p.Excerpt)
			if p.Content != "" {
				fmt.Fprintf(w, "  markup: %s\n", p.Content)
			}
			if p.Footer != "" {
				fmt.Fprintf(w, "  footer: %s\n", p.Footer)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
