// Package search finds and replaces text in page content. Matching is
// case-insensitive over the text content, so a match may span formatting
// tags. Replacement works on the raw token stream: tags and untouched text
// are kept byte for byte, so a page holding half of a split element stays
// half open. Text runs a replacement touches are re-escaped.
package search

import (
	"unicode"

	"github.com/dshills/pagewright/internal/markup"
	"github.com/dshills/pagewright/internal/page"
)

// Match is one occurrence of a query. Index and Length count runes of the
// page's text content.
type Match struct {
	Page   int
	Index  int
	Length int
}

// Find returns every non-overlapping match of query in the content of
// pages, in page order.
func Find(pages []page.Page, query string) ([]Match, error) {
	q := []rune(query)
	if len(q) == 0 {
		return nil, ErrEmptyQuery
	}
	var out []Match
	for _, p := range pages {
		for _, i := range indexAll(scan(p.Content).text(), q) {
			out = append(out, Match{Page: p.Order, Index: i, Length: len(q)})
		}
	}
	return out, nil
}

// Count returns the number of matches of query in m.
func Count(m markup.Markup, query string) int {
	q := []rune(query)
	if len(q) == 0 {
		return 0
	}
	return len(indexAll(scan(m).text(), q))
}

func indexAll(text, q []rune) []int {
	var out []int
	for i := 0; i+len(q) <= len(text); {
		if hasPrefixFold(text[i:], q) {
			out = append(out, i)
			i += len(q)
			continue
		}
		i++
	}
	return out
}

func hasPrefixFold(s, prefix []rune) bool {
	for j, r := range prefix {
		if !equalFold(s[j], r) {
			return false
		}
	}
	return true
}

func equalFold(a, b rune) bool {
	return a == b || unicode.ToLower(a) == unicode.ToLower(b) || unicode.ToUpper(a) == unicode.ToUpper(b)
}

// Replace substitutes repl for length runes of m's text starting at index.
func Replace(m markup.Markup, index, length int, repl string) (markup.Markup, error) {
	d := scan(m)
	if err := d.splice(index, length, repl); err != nil {
		return m, err
	}
	return d.render(), nil
}

// ReplaceAll substitutes repl for every match of query in m and returns the
// new markup and the number of replacements.
func ReplaceAll(m markup.Markup, query, repl string) (markup.Markup, int, error) {
	q := []rune(query)
	if len(q) == 0 {
		return m, 0, ErrEmptyQuery
	}
	d := scan(m)
	idx := indexAll(d.text(), q)
	if len(idx) == 0 {
		return m, 0, nil
	}
	// Back to front so earlier offsets stay valid.
	for i := len(idx) - 1; i >= 0; i-- {
		if err := d.splice(idx[i], len(q), repl); err != nil {
			return m, 0, err
		}
	}
	return d.render(), len(idx), nil
}
