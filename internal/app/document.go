package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/pagewright/internal/markup"
)

// Open loads an HTML or Markdown file into the document's first page and
// lets pagination spread it across as many pages as it needs.
func (a *Application) Open(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &FileError{Op: "open", Path: path, Err: err}
	}

	m, err := ToMarkup(path, data)
	if err != nil {
		return &FileError{Op: "convert", Path: path, Err: err}
	}

	a.doc.OnContentEdited(1, m)
	a.doc.Settle()
	a.log.Info("opened %s: %d pages", filepath.Base(path), a.doc.PageCount())
	return nil
}

// ToMarkup converts file contents to markup by extension. Markdown is
// rendered to HTML; anything else is taken as HTML already.
func ToMarkup(path string, data []byte) (markup.Markup, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return markup.FromMarkdown(data)
	case ".txt":
		return markup.FromText(string(data)), nil
	default:
		return markup.Markup(data), nil
	}
}
