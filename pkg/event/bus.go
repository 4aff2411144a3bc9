// Package event provides the in-process notification bus the editor core
// publishes to.
//
// The core never depends on who is listening. Documents, the graph registry
// and the history publish fixed topics; front ends (the CLI session, the HTTP
// server, tests) subscribe at startup:
//
//	bus := event.New()
//	unsubscribe := bus.Subscribe(event.HistoryChanged, func(e event.Event) {
//	    h := e.Payload.(event.HistoryChange)
//	    fmt.Println("undo:", h.CanUndo, "redo:", h.CanRedo)
//	})
//	defer unsubscribe()
//
// A nil *Bus is valid and drops every event, so components built without a
// bus need no special casing.
//
// Handlers run synchronously on the publishing goroutine, after the bus lock
// is released; a handler may subscribe or publish without deadlocking.
package event

import (
	"slices"
	"sync"
)

// Topic names an event stream.
type Topic string

// Topics published by the core.
const (
	HistoryChanged Topic = "history:changed"
	ShapeAdded     Topic = "shape:added"
	ShapeUpdated   Topic = "shape:updated"
	ShapeRemoved   Topic = "shape:removed"
	ToolChanged    Topic = "tool:changed"
	StyleChanged   Topic = "style:changed"
)

// Topics lists every topic in a stable order.
func Topics() []Topic {
	return []Topic{HistoryChanged, ShapeAdded, ShapeUpdated, ShapeRemoved, ToolChanged, StyleChanged}
}

// =============================================================================
// Payloads
// =============================================================================

// HistoryChange is the payload of [HistoryChanged].
type HistoryChange struct {
	CanUndo bool `json:"canUndo"`
	CanRedo bool `json:"canRedo"`
}

// ShapeChange is the payload of the shape topics.
type ShapeChange struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// StyleChange is the payload of [StyleChanged].
type StyleChange struct {
	IDs []string `json:"ids"`
}

// ToolChange is the payload of [ToolChanged].
type ToolChange struct {
	Tool string `json:"tool"`
}

// Event is a published notification.
type Event struct {
	Topic   Topic
	Payload any
}

// Handler receives events for a subscribed topic.
type Handler func(Event)

// =============================================================================
// Bus
// =============================================================================

type subscription struct {
	id int
	fn Handler
}

// Bus fans events out to subscribers. It is safe for concurrent use.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Topic][]subscription
	nextID int
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[Topic][]subscription)}
}

// Subscribe registers fn for topic and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (b *Bus) Subscribe(topic Topic, fn Handler) (unsubscribe func()) {
	if b == nil || fn == nil {
		return func() {}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			b.subs[topic] = slices.DeleteFunc(b.subs[topic], func(s subscription) bool { return s.id == id })
		})
	}
}

// SubscribeAll registers fn for every core topic.
func (b *Bus) SubscribeAll(fn Handler) (unsubscribe func()) {
	var unsubs []func()
	for _, t := range Topics() {
		unsubs = append(unsubs, b.Subscribe(t, fn))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Publish delivers payload to every handler subscribed to topic, in
// subscription order.
func (b *Bus) Publish(topic Topic, payload any) {
	if b == nil {
		return
	}
	b.mu.RLock()
	subs := slices.Clone(b.subs[topic])
	b.mu.RUnlock()

	e := Event{Topic: topic, Payload: payload}
	for _, s := range subs {
		s.fn(e)
	}
}

// Subscribers returns the number of handlers registered for topic.
func (b *Bus) Subscribers(topic Topic) int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
