package page

import (
	"fmt"
	"sync"

	"github.com/dshills/pagewright/internal/markup"
)

// Page is one fixed-size visual page. Content, Header and Footer are
// independent documents.
type Page struct {
	ID      int
	Order   int
	Content markup.Markup
	Header  markup.Markup
	Footer  markup.Markup
}

// Store is the ordered collection of pages.
// It always holds at least one page.
type Store struct {
	mu     sync.RWMutex
	pages  []*Page
	nextID int
}

// NewStore creates a store holding one empty page.
func NewStore() *Store {
	s := &Store{nextID: 1}
	s.appendLocked()
	return s
}

// Len returns the number of pages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pages)
}

// Get returns a copy of the page at order.
func (s *Store) Get(order int) (Page, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.atLocked(order)
	if p == nil {
		return Page{}, false
	}
	return *p, true
}

// Exists returns true if a page has the given order.
func (s *Store) Exists(order int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.atLocked(order) != nil
}

// ByID returns a copy of the page with the given ID.
func (s *Store) ByID(id int) (Page, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.pages {
		if p.ID == id {
			return *p, true
		}
	}
	return Page{}, false
}

// OrderOf returns the current order of the page with the given ID.
func (s *Store) OrderOf(id int) (int, bool) {
	p, ok := s.ByID(id)
	return p.Order, ok
}

// Pages returns copies of every page in order.
func (s *Store) Pages() []Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Page, len(s.pages))
	for i, p := range s.pages {
		out[i] = *p
	}
	return out
}

// Append adds an empty page at the tail and returns it.
func (s *Store) Append() Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.appendLocked()
}

func (s *Store) appendLocked() *Page {
	p := &Page{ID: s.nextID, Order: len(s.pages) + 1}
	s.nextID++
	s.pages = append(s.pages, p)
	return p
}

// SetContent replaces the content region of the page at order.
func (s *Store) SetContent(order int, m markup.Markup) error {
	return s.update(order, func(p *Page) { p.Content = m })
}

// SetHeader replaces the header region of the page at order.
func (s *Store) SetHeader(order int, m markup.Markup) error {
	return s.update(order, func(p *Page) { p.Header = m })
}

// SetFooter replaces the footer region of the page at order.
func (s *Store) SetFooter(order int, m markup.Markup) error {
	return s.update(order, func(p *Page) { p.Footer = m })
}

func (s *Store) update(order int, fn func(*Page)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.atLocked(order)
	if p == nil {
		return fmt.Errorf("%w: order %d", ErrPageNotFound, order)
	}
	fn(p)
	return nil
}

// Remove deletes the page at order and renumbers the pages after it.
// The only remaining page cannot be removed.
func (s *Store) Remove(order int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.atLocked(order) == nil {
		return fmt.Errorf("%w: order %d", ErrPageNotFound, order)
	}
	if len(s.pages) == 1 {
		return ErrLastPage
	}

	idx := order - 1
	s.pages = append(s.pages[:idx], s.pages[idx+1:]...)
	for i := idx; i < len(s.pages); i++ {
		s.pages[i].Order = i + 1
	}
	return nil
}

// Replace swaps in a whole page list, as when restoring history.
// Orders are reassigned densely in the given sequence; IDs are kept, and
// new pages continue numbering after the highest ID seen.
func (s *Store) Replace(pages []Page) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pages = make([]*Page, 0, len(pages))
	for i, p := range pages {
		cp := p
		cp.Order = i + 1
		if cp.ID <= 0 {
			cp.ID = s.nextID
			s.nextID++
		}
		if cp.ID >= s.nextID {
			s.nextID = cp.ID + 1
		}
		s.pages = append(s.pages, &cp)
	}
	if len(s.pages) == 0 {
		s.appendLocked()
	}
}

func (s *Store) atLocked(order int) *Page {
	if order < 1 || order > len(s.pages) {
		return nil
	}
	return s.pages[order-1]
}
