// Package notify delivers document change events to UI glue.
//
// Observers subscribe to every event or to a topic. Topics are
// dot-separated, and a subscription to a topic also receives its
// sub-topics: subscribing to "pages" receives "pages.split".
package notify

import (
	"sync"
)

// Topics published by the document.
const (
	TopicPages      = "pages"
	TopicSplit      = "pages.split"
	TopicMerge      = "pages.merge"
	TopicRegion     = "pages.region"
	TopicHistory    = "history"
	TopicUndo       = "history.undo"
	TopicRedo       = "history.redo"
	TopicSave       = "history.save"
	TopicGeometry   = "geometry"
	TopicZoom       = "geometry.zoom"
	TopicMargins    = "geometry.margins"
	TopicSelection  = "selection"
	TopicConfig     = "config"
	TopicConfigLoad = "config.reload"
)

// Kind is what happened to the subject of an event.
type Kind int

const (
	// KindChanged indicates the subject was updated in place.
	KindChanged Kind = iota

	// KindCreated indicates the subject was added.
	KindCreated

	// KindRemoved indicates the subject was removed.
	KindRemoved

	// KindReset indicates the whole document was replaced.
	KindReset
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindChanged:
		return "changed"
	case KindCreated:
		return "created"
	case KindRemoved:
		return "removed"
	case KindReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event describes one change.
type Event struct {
	// Topic is the dot-separated subject. Empty for reset events.
	Topic string

	// Kind is what happened.
	Kind Kind

	// Page is the page order the event concerns, or 0.
	Page int

	// Value carries event-specific data such as the new zoom.
	Value any

	// Source identifies the operation that caused the event.
	Source string
}

// Observer is called for each delivered event.
type Observer func(ev Event)

// Subscription is an active observer registration.
type Subscription struct {
	id  uint64
	hub *Hub
}

// Unsubscribe removes the observer.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.hub != nil {
		s.hub.unsubscribe(s.id)
	}
}

// Hub fans events out to observers.
type Hub struct {
	mu sync.RWMutex

	all    map[uint64]Observer
	topics map[string]map[uint64]Observer
	nextID uint64

	async  bool
	buffer chan Event
	done   chan struct{}
	wg     sync.WaitGroup
	closed bool
}

// Option configures a Hub.
type Option func(*Hub)

// WithAsync delivers events from a goroutine through a buffer of the given
// size instead of on the publishing call.
func WithAsync(bufferSize int) Option {
	return func(h *Hub) {
		if bufferSize > 0 {
			h.async = true
			h.buffer = make(chan Event, bufferSize)
		}
	}
}

// New creates a hub.
func New(opts ...Option) *Hub {
	h := &Hub{
		all:    make(map[uint64]Observer),
		topics: make(map[string]map[uint64]Observer),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.async {
		h.wg.Add(1)
		go h.run()
	}
	return h
}

// Subscribe registers an observer for every event.
func (h *Hub) Subscribe(obs Observer) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.all[id] = obs
	return &Subscription{id: id, hub: h}
}

// SubscribeTopic registers an observer for topic and its sub-topics.
func (h *Hub) SubscribeTopic(topic string, obs Observer) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[uint64]Observer)
	}
	h.topics[topic][id] = obs
	return &Subscription{id: id, hub: h}
}

// Publish delivers ev to every matching observer.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		return
	}

	if h.async {
		select {
		case h.buffer <- ev:
		case <-h.done:
		}
		return
	}
	h.deliver(ev)
}

// Close stops delivery. Buffered events are drained first.
// It is safe to call Close more than once.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.mu.Unlock()

	close(h.done)
	h.wg.Wait()
}

func (h *Hub) unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.all, id)
	for topic, observers := range h.topics {
		delete(observers, id)
		if len(observers) == 0 {
			delete(h.topics, topic)
		}
	}
}

func (h *Hub) deliver(ev Event) {
	h.mu.RLock()
	var observers []Observer
	for _, obs := range h.all {
		observers = append(observers, obs)
	}
	for topic, subs := range h.topics {
		// A reset reaches every topic subscriber.
		if ev.Topic == "" || topic == ev.Topic || isParentTopic(topic, ev.Topic) {
			for _, obs := range subs {
				observers = append(observers, obs)
			}
		}
	}
	h.mu.RUnlock()

	for _, obs := range observers {
		obs(ev)
	}
}

func (h *Hub) run() {
	defer h.wg.Done()
	for {
		select {
		case ev := <-h.buffer:
			h.deliver(ev)
		case <-h.done:
			for {
				select {
				case ev := <-h.buffer:
					h.deliver(ev)
				default:
					return
				}
			}
		}
	}
}

// isParentTopic reports whether parent is a proper prefix topic of child,
// e.g. "pages" of "pages.split".
func isParentTopic(parent, child string) bool {
	if parent == "" {
		return true
	}
	return len(child) > len(parent) && child[:len(parent)] == parent && child[len(parent)] == '.'
}

// Batch collects events and publishes them together.
type Batch struct {
	hub    *Hub
	mu     sync.Mutex
	events []Event
}

// NewBatch creates an empty batch.
func (h *Hub) NewBatch() *Batch {
	return &Batch{hub: h}
}

// Add queues ev.
func (b *Batch) Add(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
}

// Commit publishes the queued events in order and empties the batch.
func (b *Batch) Commit() {
	b.mu.Lock()
	events := b.events
	b.events = nil
	b.mu.Unlock()

	for _, ev := range events {
		b.hub.Publish(ev)
	}
}

// Discard empties the batch without publishing.
func (b *Batch) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = nil
}

// Len returns the number of queued events.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}
