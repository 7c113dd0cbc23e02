// Package stream broadcasts rendered frames to websocket clients.
package stream

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/ocean/renderer"
)

// Message types sent to clients.
const (
	TypeConfig = "config"
	TypeFrame  = "frame"
	TypeEnd    = "end"
)

// Message is the JSON envelope written to every client.
type Message struct {
	Type  string          `json:"type"`
	Rows  int             `json:"rows,omitempty"`
	Cols  int             `json:"cols,omitempty"`
	Frame *renderer.Frame `json:"frame,omitempty"`
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type client struct {
	conn *websocket.Conn
	send chan Message
}

// Hub fans frames out to connected clients. A client whose queue is full
// misses frames rather than stalling the simulation.
type Hub struct {
	rows, cols int
	buffer     int

	mu      sync.Mutex
	clients map[*client]struct{}
	last    *renderer.Frame
	dropped int
	closed  bool
}

// NewHub creates a hub for an ocean of the given size.
func NewHub(rows, cols, sendBuffer int) *Hub {
	if sendBuffer < 1 {
		sendBuffer = 1
	}
	return &Hub{
		rows:    rows,
		cols:    cols,
		buffer:  sendBuffer,
		clients: make(map[*client]struct{}),
	}
}

// Publish queues f for every client without blocking.
func (h *Hub) Publish(f renderer.Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = &f
	h.broadcast(Message{Type: TypeFrame, Frame: &f})
}

// broadcast must be called with h.mu held.
func (h *Hub) broadcast(msg Message) {
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.dropped++
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Dropped returns the number of frames skipped for slow clients.
func (h *Hub) Dropped() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// ServeHTTP upgrades the request and streams frames until the client leaves.
// New clients receive the grid size and then the latest frame.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan Message, h.buffer+2)}
	if !h.register(c) {
		conn.Close()
		return
	}
	slog.Debug("stream client connected", "remote", r.RemoteAddr)

	go h.writeLoop(c)

	// Drain client messages so close frames are handled.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.unregister(c)
	slog.Debug("stream client disconnected", "remote", r.RemoteAddr)
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}

	h.clients[c] = struct{}{}
	c.send <- Message{Type: TypeConfig, Rows: h.rows, Cols: h.cols}
	if h.last != nil {
		c.send <- Message{Type: TypeFrame, Frame: h.last}
	}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			slog.Debug("stream client send error", "error", err)
			h.unregister(c)
			return
		}
	}
}

// Close sends an end message to every client and stops accepting new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	h.broadcast(Message{Type: TypeEnd})
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
