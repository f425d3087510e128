package events

import "sync"

// subscriberBuf absorbs short bursts (a batch of leads scoring at once)
// before a slow client starts losing events.
const subscriberBuf = 16

// Hub delivers events to SSE subscribers. Events are serialized once per
// publish; subscribers receive the encoded frame body.
type Hub struct {
	mu      sync.Mutex
	clients map[chan string]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[chan string]struct{})}
}

func (h *Hub) Subscribe() chan string {
	ch := make(chan string, subscriberBuf)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
	close(ch)
}

// Publish fans the event out without blocking: a subscriber whose buffer
// is full misses it rather than stalling every other client.
func (h *Hub) Publish(e Event) {
	msg := e.encode()
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- msg:
		default:
		}
	}
}
