package host

import (
	"sort"
	"sync"
)

type Event interface {
	event()
}

// ScrollEvent means a scroll container moved. Handlers sample geometry
// themselves; the event carries no position.
type ScrollEvent struct{}

// ResizeEvent covers window resize and orientation change.
type ResizeEvent struct{}

// PointerMoveEvent carries the pointer position in viewport CSS pixels.
type PointerMoveEvent struct {
	X, Y float64
}

type PointerLeaveEvent struct{}

func (ScrollEvent) event()       {}
func (ResizeEvent) event()       {}
func (PointerMoveEvent) event()  {}
func (PointerLeaveEvent) event() {}

type Handler func(Event)

type Subscription uint64

// Bus fans events out to every subscriber in subscription order. Handlers
// run on the publishing goroutine and must not block.
type Bus struct {
	mu       sync.RWMutex
	next     Subscription
	handlers map[Subscription]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[Subscription]Handler)}
}

func (b *Bus) Subscribe(h Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	b.handlers[b.next] = h
	return b.next
}

// Unsubscribe is safe to call more than once and from inside a handler.
func (b *Bus) Unsubscribe(id Subscription) {
	b.mu.Lock()
	delete(b.handlers, id)
	b.mu.Unlock()
}

func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	ids := make([]Subscription, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	hs := make([]Handler, 0, len(ids))
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		hs = append(hs, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, h := range hs {
		h(e)
	}
}

func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}
