// Package notify provides a small publish/subscribe hub that components hold
// by reference to expose named event streams to their host.
package notify

import "sync"

// Handler receives one published event.
type Handler[E any] func(E)

// Notifier is the subscription side of a Hub.
type Notifier[E any] interface {
	On(topic string, fn Handler[E]) (cancel func())
	Once(topic string, fn Handler[E]) (cancel func())
	Un(topic string)
}

type subscription[E any] struct {
	id   uint64
	fn   Handler[E]
	once bool
}

// Hub fans events out to the handlers registered per topic.
// The zero value is ready to use.
type Hub[E any] struct {
	mu       sync.Mutex
	next     uint64
	handlers map[string][]subscription[E]
	disabled map[string]bool
}

var _ Notifier[int] = (*Hub[int])(nil)

// NewHub creates an empty hub.
func NewHub[E any]() *Hub[E] {
	return &Hub[E]{}
}

// On registers fn for topic and returns a function that removes it.
func (h *Hub[E]) On(topic string, fn Handler[E]) func() {
	return h.add(topic, fn, false)
}

// Once registers fn to run for the next event on topic only.
func (h *Hub[E]) Once(topic string, fn Handler[E]) func() {
	return h.add(topic, fn, true)
}

func (h *Hub[E]) add(topic string, fn Handler[E], once bool) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.handlers == nil {
		h.handlers = make(map[string][]subscription[E])
	}
	h.next++
	id := h.next
	h.handlers[topic] = append(h.handlers[topic], subscription[E]{id: id, fn: fn, once: once})
	return func() { h.remove(topic, id) }
}

func (h *Hub[E]) remove(topic string, id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.handlers[topic]
	for i, s := range subs {
		if s.id == id {
			h.handlers[topic] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Un drops every handler registered for topic.
func (h *Hub[E]) Un(topic string) {
	h.mu.Lock()
	delete(h.handlers, topic)
	h.mu.Unlock()
}

// UnAll drops every handler on every topic.
func (h *Hub[E]) UnAll() {
	h.mu.Lock()
	h.handlers = nil
	h.mu.Unlock()
}

// SetDisabled suppresses emission on the given topics until re-enabled.
// Passing no topics re-enables everything.
func (h *Hub[E]) SetDisabled(topics ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.disabled = make(map[string]bool, len(topics))
	for _, t := range topics {
		h.disabled[t] = true
	}
}

// Emit calls the handlers of topic in registration order. Handlers may
// subscribe or unsubscribe while being called.
func (h *Hub[E]) Emit(topic string, ev E) {
	h.mu.Lock()
	if h.disabled[topic] {
		h.mu.Unlock()
		return
	}
	subs := append([]subscription[E](nil), h.handlers[topic]...)
	h.mu.Unlock()

	for _, s := range subs {
		if s.once {
			h.remove(topic, s.id)
		}
		s.fn(ev)
	}
}

// Count returns the number of handlers on topic.
func (h *Hub[E]) Count(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handlers[topic])
}
