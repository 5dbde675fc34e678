package devserver

import (
	"fmt"
	"net/http"
	"sync"
)

// Broker fans reload notifications out to connected browsers over
// server-sent events.
type Broker struct {
	mu      sync.Mutex
	clients map[chan struct{}]struct{}
	done    chan struct{}
	closed  bool
}

func NewBroker() *Broker {
	return &Broker{
		clients: make(map[chan struct{}]struct{}),
		done:    make(chan struct{}),
	}
}

// Broadcast asks every connected client to reload. Clients that already have
// a pending notification are not sent another.
func (b *Broker) Broadcast() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.clients {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Clients returns the number of connected clients.
func (b *Broker) Clients() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Close disconnects every client and rejects new ones.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.closed {
		b.closed = true
		close(b.done)
	}
}

func (b *Broker) subscribe() (chan struct{}, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, false
	}
	ch := make(chan struct{}, 1)
	b.clients[ch] = struct{}{}
	return ch, true
}

func (b *Broker) unsubscribe(ch chan struct{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.clients, ch)
}

func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ch, ok := b.subscribe()
	if !ok {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	defer b.unsubscribe(ch)

	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-b.done:
			return
		case <-ch:
			if _, err := fmt.Fprint(w, "data: reload\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}
