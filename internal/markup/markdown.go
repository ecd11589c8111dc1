package markup

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

// FromMarkdown converts Markdown source into markup.
func FromMarkdown(src []byte) (Markup, error) {
	if len(bytes.TrimSpace(src)) == 0 {
		return "", ErrEmptySource
	}

	var buf bytes.Buffer
	md := goldmark.New()
	if err := md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return Markup(buf.String()), nil
}
