// Package live pushes in-app notifications to accounts that have the app open.
// Each open browser tab holds a server-sent events stream; the Hub fans a new inbox
// item out to every stream belonging to the item's account, so the bell icon updates
// without the frontend polling the API.
package live

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Client is one open stream for an account.
type Client struct {
	AccountID uuid.UUID   // Whose notifications this stream receives
	Send      chan []byte // Buffered outgoing messages; the stream writer drains it
}

// NewClient creates a client with a small buffer so a burst of notifications
// (e.g. a whole lineup being generated) does not drop the stream immediately.
func NewClient(accountID uuid.UUID) *Client {
	return &Client{AccountID: accountID, Send: make(chan []byte, 16)}
}

// message is one payload addressed to every client of an account.
type message struct {
	accountID uuid.UUID
	data      []byte
}

// Hub tracks open clients grouped by account ID.
// All map writes happen on the Run goroutine; publishers only read under RLock.
type Hub struct {
	// clients: accountID -> set of clients. map[*Client]bool is the usual Go "set".
	clients map[uuid.UUID]map[*Client]bool

	publish    chan message
	register   chan *Client
	unregister chan *Client
	done       chan struct{} // closed when Run returns

	mu sync.RWMutex
}

// NewHub creates an idle hub. Call Run in a goroutine before publishing.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		publish:    make(chan message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run processes register, unregister and publish events until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for _, set := range h.clients {
				for c := range set {
					close(c.Send)
				}
			}
			h.clients = make(map[uuid.UUID]map[*Client]bool)
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.AccountID] == nil {
				h.clients[c.AccountID] = make(map[*Client]bool)
			}
			h.clients[c.AccountID][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.remove(c)

		case msg := <-h.publish:
			h.mu.RLock()
			var slow []*Client
			for c := range h.clients[msg.accountID] {
				select {
				case c.Send <- msg.data:
				default:
					// The stream is not keeping up; drop it rather than block everyone else.
					slow = append(slow, c)
				}
			}
			h.mu.RUnlock()
			for _, c := range slow {
				h.remove(c)
			}
		}
	}
}

// remove deletes c and closes its Send channel, which ends the stream writer.
func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.AccountID]
	if !ok || !set[c] {
		return
	}
	delete(set, c)
	close(c.Send)
	if len(set) == 0 {
		delete(h.clients, c.AccountID)
	}
}

// Publish queues data for every open stream of accountID.
// Nothing is queued once the hub has stopped.
func (h *Hub) Publish(accountID uuid.UUID, data []byte) {
	select {
	case h.publish <- message{accountID: accountID, data: data}:
	case <-h.done:
	}
}

// Register starts delivering to c. On a stopped hub, c.Send is closed right away.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		close(c.Send)
	}
}

// Unregister stops delivering to c. Safe to call for a client the hub already dropped.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Connected returns how many streams accountID currently has open.
func (h *Hub) Connected(accountID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[accountID])
}
