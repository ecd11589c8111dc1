package search

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/pagewright/internal/markup"
)

// run is one text token of the raw markup, unescaped.
type run struct {
	start, end int
	text       []rune
	dirty      bool
}

type tokens struct {
	src  string
	runs []run
}

// scan tokenizes m and records where each text token sits in it.
func scan(m markup.Markup) *tokens {
	d := &tokens{src: string(m)}
	z := html.NewTokenizer(strings.NewReader(d.src))
	off := 0
	for off < len(d.src) {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		n := min(len(z.Raw()), len(d.src)-off)
		if tt == html.TextToken && n > 0 {
			d.runs = append(d.runs, run{
				start: off,
				end:   off + n,
				text:  []rune(html.UnescapeString(d.src[off : off+n])),
			})
		}
		off += n
	}
	if off < len(d.src) {
		d.runs = append(d.runs, run{start: off, end: len(d.src), text: []rune(html.UnescapeString(d.src[off:]))})
	}
	return d
}

func (d *tokens) text() []rune {
	var out []rune
	for _, r := range d.runs {
		out = append(out, r.text...)
	}
	return out
}

// splice rewrites the runs covering [index, index+length). The replacement
// goes into the first run touched; later runs lose only the covered part.
func (d *tokens) splice(index, length int, repl string) error {
	total := 0
	for _, r := range d.runs {
		total += len(r.text)
	}
	end := index + length
	if index < 0 || length <= 0 || end > total {
		return fmt.Errorf("%w: %d+%d of %d", ErrNotFound, index, length, total)
	}

	pos := 0
	ins := []rune(repl)
	for i := range d.runs {
		r := &d.runs[i]
		start, stop := pos, pos+len(r.text)
		pos = stop
		if stop <= index {
			continue
		}
		if start >= end {
			break
		}

		from := max(index-start, 0)
		to := min(end-start, len(r.text))
		next := make([]rune, 0, from+len(ins)+len(r.text)-to)
		next = append(next, r.text[:from]...)
		next = append(next, ins...)
		next = append(next, r.text[to:]...)
		r.text = next
		r.dirty = true
		ins = nil
	}
	return nil
}

// render writes the source back with dirty runs re-escaped.
func (d *tokens) render() markup.Markup {
	var sb strings.Builder
	off := 0
	for _, r := range d.runs {
		if !r.dirty {
			continue
		}
		sb.WriteString(d.src[off:r.start])
		sb.WriteString(html.EscapeString(string(r.text)))
		off = r.end
	}
	sb.WriteString(d.src[off:])
	return markup.Markup(sb.String())
}
