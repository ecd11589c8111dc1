package markup

import (
	"strings"
	"unicode/utf8"

	nethtml "golang.org/x/net/html"
)

// Markup is a fragment of rich text expressed as HTML.
// The zero value is an empty fragment.
type Markup string

// String returns the raw markup.
func (m Markup) String() string {
	return string(m)
}

// Len returns the length of the markup in bytes.
func (m Markup) Len() int {
	return len(m)
}

// IsEmpty returns true if the markup has no bytes at all.
func (m Markup) IsEmpty() bool {
	return len(m) == 0
}

// IsBlank returns true if the markup is empty or whitespace only.
// Tags are not whitespace, so "<br>" is not blank.
func (m Markup) IsBlank() bool {
	return strings.TrimSpace(string(m)) == ""
}

// Concat returns m followed by other.
func (m Markup) Concat(other Markup) Markup {
	return m + other
}

// Slice returns the bytes in [start, end).
// Bounds are clamped to the markup length.
func (m Markup) Slice(start, end int) Markup {
	if start < 0 {
		start = 0
	}
	if end > len(m) {
		end = len(m)
	}
	if start >= end {
		return ""
	}
	return m[start:end]
}

// FromText escapes plain text into markup.
func FromText(text string) Markup {
	return Markup(nethtml.EscapeString(text))
}

// Text returns the text content of the markup with entities decoded.
// Tags and comments contribute nothing.
func (m Markup) Text() string {
	if m == "" {
		return ""
	}

	var sb strings.Builder
	z := nethtml.NewTokenizer(strings.NewReader(string(m)))
	for {
		tt := z.Next()
		switch tt {
		case nethtml.ErrorToken:
			// io.EOF or a tokenizer failure; either way nothing more decodes.
			return sb.String()
		case nethtml.TextToken:
			sb.Write(z.Text())
		}
	}
}

// TextLen returns the number of runes in the text content.
func (m Markup) TextLen() int {
	return utf8.RuneCountInString(m.Text())
}
