package feed

import (
	"context"
	"encoding/gob"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/coder/websocket"
)

const (
	clientBuffer = 8
	readLimit    = 4 << 20
)

type subscriber struct {
	ch   chan Snapshot
	done chan struct{}
}

// Hub fans snapshots out to every connected viewer. Slow viewers miss
// frames instead of stalling the simulation.
type Hub struct {
	mu      sync.Mutex
	clients map[*subscriber]struct{}
	closed  bool
}

func NewHub() *Hub {
	return &Hub{clients: map[*subscriber]struct{}{}}
}

// Handler upgrades requests to WebSocket connections and streams gob
// encoded snapshots until the client goes away.
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
			OriginPatterns:     []string{"*"},
		})
		if err != nil {
			log.Printf("[Feed] accept: %v", err)
			return
		}
		// Viewers never send data. CloseRead answers their control frames and
		// cancels ctx once they hang up.
		ctx := c.CloseRead(r.Context())
		conn := websocket.NetConn(ctx, c, websocket.MessageBinary)
		defer conn.Close()

		sub, ok := h.subscribe()
		if !ok {
			return
		}
		defer h.unsubscribe(sub)
		log.Printf("[Feed] viewer connected from %s", r.RemoteAddr)

		if err := stream(ctx, conn, sub); err != nil {
			log.Printf("[Feed] viewer %s: %v", r.RemoteAddr, err)
		}
	})
}

func stream(ctx context.Context, conn net.Conn, sub *subscriber) error {
	enc := gob.NewEncoder(conn)
	for {
		select {
		case s := <-sub.ch:
			if err := enc.Encode(&s); err != nil {
				return fmt.Errorf("feed: encode: %w", err)
			}
		case <-sub.done:
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

func (h *Hub) subscribe() (*subscriber, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	sub := &subscriber{ch: make(chan Snapshot, clientBuffer), done: make(chan struct{})}
	h.clients[sub] = struct{}{}
	return sub, true
}

func (h *Hub) unsubscribe(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, sub)
}

// Broadcast queues s for every viewer without blocking.
func (h *Hub) Broadcast(s Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.clients {
		select {
		case sub.ch <- s:
		default:
		}
	}
}

// Clients returns the number of connected viewers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every viewer and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.clients {
		close(sub.done)
		delete(h.clients, sub)
	}
}
