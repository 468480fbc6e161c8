// Package realtime pushes whole-collection snapshots to connected browsers
// over websocket whenever the document store reports a change.
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/bakery-app/store"
	"github.com/yeremiapane/bakery-app/utils"
)

// Audience restricts who receives a topic.
type Audience int

const (
	Everyone Audience = iota
	AdminsOnly
)

const (
	writeWait = 10 * time.Second
	// sendBuffer is how many messages may queue for one client before it is dropped.
	sendBuffer = 32
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// client owns one connection. Only its writer goroutine writes to conn.
type client struct {
	conn  *websocket.Conn
	admin bool
	send  chan []byte
}

func (c *client) writePump() {
	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			utils.ErrorLogger.Printf("Error sending to client: %v", err)
			c.conn.Close()
			// Keep draining until the hub drops us, so enqueue never sees a dead reader.
			for range c.send {
			}
			return
		}
	}
	c.conn.Close()
}

type snapshot struct {
	payload  []byte
	audience Audience
}

// Hub holds the connected clients and the latest snapshot of every topic, so
// a client that connects late still starts from the current state. Writes go
// through per-client queues, so a slow browser never holds up a publisher.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*client
	last    map[string]snapshot
	order   []string
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*client),
		last:    make(map[string]snapshot),
	}
}

// Register adds a connection and queues the current snapshots for it.
func (h *Hub) Register(conn *websocket.Conn, admin bool) {
	c := &client{conn: conn, admin: admin, send: make(chan []byte, sendBuffer)}
	go c.writePump()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = c
	for _, topic := range h.order {
		snap := h.last[topic]
		if snap.audience == AdminsOnly && !admin {
			continue
		}
		if !h.enqueue(c, snap.payload) {
			utils.ErrorLogger.Printf("Dropping new client, %s snapshot did not fit", topic)
			return
		}
	}
}

// Unregister forgets the connection. Calling it twice is harmless.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[conn]; ok {
		h.drop(c)
		return
	}
	conn.Close()
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish replaces the snapshot of topic and queues it for every eligible client.
func (h *Hub) Publish(topic string, data interface{}, audience Audience) {
	payload, err := json.Marshal(Message{Event: topic, Data: data})
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling %s snapshot: %v", topic, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, seen := h.last[topic]; !seen {
		h.order = append(h.order, topic)
	}
	h.last[topic] = snapshot{payload: payload, audience: audience}

	for _, c := range h.clients {
		if audience == AdminsOnly && !c.admin {
			continue
		}
		if !h.enqueue(c, payload) {
			utils.ErrorLogger.Printf("Client too slow for %s, dropping it", topic)
		}
	}
}

// enqueue never blocks. A full queue drops the client. Callers hold h.mu.
func (h *Hub) enqueue(c *client, payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	default:
		h.drop(c)
		return false
	}
}

// drop removes c and stops its writer. Callers hold h.mu.
func (h *Hub) drop(c *client) {
	if _, ok := h.clients[c.conn]; !ok {
		return
	}
	delete(h.clients, c.conn)
	close(c.send)
	// Unblocks a writer stuck on a stalled socket.
	c.conn.Close()
}

// Watch publishes the collection once now and again after every change.
func Watch[T store.Document](ctx context.Context, h *Hub, topic string, repo store.Repository[T], audience Audience) func() {
	if items, err := repo.List(ctx); err != nil {
		utils.ErrorLogger.Printf("Initial %s snapshot failed: %v", topic, err)
	} else {
		h.Publish(topic, items, audience)
	}
	return repo.OnChange(func(items []T) {
		h.Publish(topic, items, audience)
	})
}
