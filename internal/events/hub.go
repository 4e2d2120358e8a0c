package events

import (
	"sync"
)

const subscriberBuffer = 8

// Hub fans out no-payload change notifications to every connected
// subscriber. Delivery is best effort: each subscriber has a bounded buffer,
// and a subscriber that cannot keep up is dropped and its channel closed.
// There is no replay; late subscribers only see events published after they
// joined.
type Hub struct {
	mu   sync.Mutex
	subs map[chan string]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan string]struct{})}
}

// Subscribe registers a new subscriber and returns its event channel. The
// caller must Unsubscribe when done.
func (h *Hub) Subscribe() chan string {
	ch := make(chan string, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	return ch
}

// Unsubscribe removes a subscriber and closes its channel. Safe to call for
// a subscriber already dropped by Publish.
func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}

// Publish sends the event to all subscribers without blocking. Subscribers
// with a full buffer are disconnected.
func (h *Hub) Publish(event string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- event:
		default:
			delete(h.subs, ch)
			close(ch)
		}
	}
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
