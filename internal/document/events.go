package document

import (
	"github.com/dshills/pagewright/internal/notify"
	"github.com/dshills/pagewright/internal/page"
)

// diffPages queues one event per page created, removed or changed between
// two page lists. Pages are matched by ID.
func diffPages(b *notify.Batch, before, after []page.Page, source string) {
	old := make(map[int]page.Page, len(before))
	for _, p := range before {
		old[p.ID] = p
	}

	for _, p := range after {
		prev, ok := old[p.ID]
		switch {
		case !ok:
			b.Add(notify.Event{Topic: notify.TopicPages, Kind: notify.KindCreated, Page: p.Order, Value: p.ID, Source: source})
		case prev != p:
			b.Add(notify.Event{Topic: notify.TopicPages, Kind: notify.KindChanged, Page: p.Order, Value: p.ID, Source: source})
		}
		delete(old, p.ID)
	}
	for _, p := range before {
		if _, gone := old[p.ID]; gone {
			b.Add(notify.Event{Topic: notify.TopicPages, Kind: notify.KindRemoved, Page: p.Order, Value: p.ID, Source: source})
		}
	}
}
