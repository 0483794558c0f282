package websocket

import (
	"encoding/json"
	"sync"
)

// SyncUpdate is pushed to every connected UI client whenever the sync
// status or the pending count changes.
type SyncUpdate struct {
	Status       string `json:"status"`
	PendingCount int    `json:"pendingCount"`
}

// Hub fans sync updates out to the device UI. One local agent, so clients
// are a flat set rather than a per-user map.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	last    []byte
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
	// a fresh client gets the current state immediately
	if h.last != nil {
		select {
		case client.send <- h.last:
		default:
		}
	}
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

func (h *Hub) BroadcastSync(update SyncUpdate) {
	payload, _ := json.Marshal(update)
	h.mu.Lock()
	h.last = payload
	h.mu.Unlock()
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
		}
	}
}
