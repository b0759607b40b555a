// Package ws holds the live-connection registry: at most one websocket
// session per user id, with best-effort push delivery. The hub never touches
// persistence; message storage happens in the pipeline before any push.
package ws

import (
	"encoding/json"
	"log"
	"sync"
)

type Hub struct {
	mu      sync.Mutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Register installs client as the user's current session. A prior session
// for the same user is unmapped and its send channel closed, which winds
// down its pumps; the hub simply stops addressing it.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if prev, ok := h.clients[c.userID]; ok && prev != c {
		close(prev.send)
	}
	h.clients[c.userID] = c
}

// Unregister removes the mapping only if c is still the current session, so
// a stale disconnect never evicts a newer session for the same user.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.clients[c.userID]; ok && cur == c {
		delete(h.clients, c.userID)
		close(c.send)
	}
}

// Send delivers event to the user's live session. Returns false when the
// user has no session or the session's buffer is full; a full buffer drops
// the client, matching how slow consumers are shed elsewhere. Never an
// error: absence of a listener is a normal condition.
func (h *Hub) Send(userID string, event interface{}) bool {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("ws: marshal event for %s: %v", userID, err)
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[userID]
	if !ok {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		delete(h.clients, userID)
		close(c.send)
		return false
	}
}

// reply echoes plain text back to c's own session, dropped silently if c has
// been replaced or its buffer is full.
func (h *Hub) reply(c *Client, text string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.userID] != c {
		return
	}
	select {
	case c.send <- []byte(text):
	default:
	}
}
