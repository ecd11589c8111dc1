package document

import (
	"fmt"

	"github.com/dshills/pagewright/internal/history"
	"github.com/dshills/pagewright/internal/markup"
	"github.com/dshills/pagewright/internal/notify"
	"github.com/dshills/pagewright/internal/region"
	"github.com/dshills/pagewright/internal/search"
)

// Find returns every case-insensitive match of query in page content.
func (d *Document) Find(query string) ([]search.Match, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return search.Find(d.store.Pages(), query)
}

// Replace substitutes repl for one match, reflows its page and records a
// TEXT history entry for the content region.
func (d *Document) Replace(m search.Match, repl string) error {
	b := d.hub.NewBatch()
	defer b.Commit()
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.store.Get(m.Page)
	if !ok {
		return fmt.Errorf("replace on page %d: %w", m.Page, search.ErrNotFound)
	}
	next, err := search.Replace(p.Content, m.Index, m.Length, repl)
	if err != nil {
		return fmt.Errorf("replace on page %d: %w", m.Page, err)
	}

	before := d.store.Pages()
	d.engine.OnContentEdited(m.Page, next)
	d.refreshSurface()
	diffPages(b, before, d.store.Pages(), "replace")
	d.saveLocked(history.Text, region.Content, b)
	return nil
}

// ReplaceAll substitutes repl for every match of query across all pages,
// reflows once and records a single TEXT history entry. It returns the
// number of replacements.
func (d *Document) ReplaceAll(query, repl string) (int, error) {
	b := d.hub.NewBatch()
	defer b.Commit()
	d.mu.Lock()
	defer d.mu.Unlock()

	before := d.store.Pages()
	rewritten := make(map[int]markup.Markup)
	total := 0
	for _, p := range before {
		next, n, err := search.ReplaceAll(p.Content, query, repl)
		if err != nil {
			return 0, err
		}
		if n > 0 {
			rewritten[p.Order] = next
			total += n
		}
	}
	if total == 0 {
		return 0, nil
	}

	// Rewrite every page before reflowing so carried text is never
	// searched twice.
	for order, m := range rewritten {
		if err := d.store.SetContent(order, m); err != nil {
			return 0, err
		}
	}
	d.engine.ReflowAll()
	d.refreshSurface()

	d.log.Debug("replaced %d occurrences of %q", total, query)
	b.Add(notify.Event{Topic: notify.TopicPages, Kind: notify.KindChanged, Value: total, Source: "replace_all"})
	diffPages(b, before, d.store.Pages(), "replace_all")
	d.saveLocked(history.Text, region.Content, b)
	return total, nil
}
