// Package bus provides an in-process event bus for communication between
// device modules. The bus is owned by the device manager; subscribers are
// plain callbacks and no global state is involved.
package bus

import (
	"sync"
	"time"
)

// Event is a named notification with an optional payload.
type Event struct {
	Name string
	Time time.Time
	Data map[string]interface{}
}

// Handler receives published events. Handlers run synchronously on the
// publishing goroutine and must not block.
type Handler func(Event)

type subscription struct {
	id      int
	handler Handler
}

// Bus dispatches events to subscribed handlers by name.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string][]subscription
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[string][]subscription)}
}

// Subscribe registers a handler for an event name and returns a cancel
// function that removes the subscription.
func (b *Bus) Subscribe(name string, h Handler) (cancel func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[name] = append(b.subs[name], subscription{id: id, handler: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[name]
		for i, s := range list {
			if s.id == id {
				b.subs[name] = append(list[:i], list[i+1:]...)
				break
			}
		}
		if len(b.subs[name]) == 0 {
			delete(b.subs, name)
		}
	}
}

// Publish delivers an event to all handlers subscribed to its name. The
// subscriber list is snapshotted before dispatch so handlers may subscribe
// or unsubscribe during delivery.
func (b *Bus) Publish(name string, data map[string]interface{}) {
	b.mu.RLock()
	list := make([]subscription, len(b.subs[name]))
	copy(list, b.subs[name])
	b.mu.RUnlock()

	if len(list) == 0 {
		return
	}
	ev := Event{Name: name, Time: time.Now(), Data: data}
	for _, s := range list {
		s.handler(ev)
	}
}

// SubscriberCount returns the number of handlers for an event name.
func (b *Bus) SubscriberCount(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[name])
}
