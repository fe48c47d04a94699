package sse

import (
	"context"
	"sync"

	"recordstore/internal/model"
)

type Client struct {
	Ch chan model.RecordEvent
}

func NewClient(buffer int) *Client {
	return &Client{Ch: make(chan model.RecordEvent, buffer)}
}

// Hub fans record events out to every registered client.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan model.RecordEvent
	clients    map[*Client]struct{}
	mu         sync.RWMutex

	// done is closed when Run returns; registration calls stop blocking then.
	done     chan struct{}
	doneOnce sync.Once
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan model.RecordEvent, 64),
		clients:    make(map[*Client]struct{}),
		done:       make(chan struct{}),
	}
}

// Register reports false when the hub is no longer running.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Broadcast queues an event. It reports false when the queue is full and the event was dropped.
func (h *Hub) Broadcast(event model.RecordEvent) bool {
	select {
	case h.broadcast <- event:
		return true
	default:
		return false
	}
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Run(ctx context.Context) {
	defer h.doneOnce.Do(func() { close(h.done) })
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			delete(h.clients, client)
			h.mu.Unlock()
		case event := <-h.broadcast:
			h.fanOut(event)
		}
	}
}

func (h *Hub) fanOut(event model.RecordEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.Ch <- event:
		default:
			// Drop if the client is too slow.
		}
	}
}
