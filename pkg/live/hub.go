package live

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

const sendQueueSize = 32

// Client is one open dashboard connection. An account may have several.
type Client struct {
	AccountID string
	Conn      *websocket.Conn
	Send      chan any
	Done      chan struct{}

	closeOnce sync.Once
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.Done) })
}

// Hub fans asset events out to every connection of an account.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*Client]struct{})}
}

// AddClient registers conn for accountID.
func (h *Hub) AddClient(accountID string, conn *websocket.Conn) *Client {
	c := &Client{
		AccountID: accountID,
		Conn:      conn,
		Send:      make(chan any, sendQueueSize),
		Done:      make(chan struct{}),
	}
	h.add(c)
	return c
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.AccountID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.AccountID] = set
	}
	set[c] = struct{}{}
}

// RemoveClient unregisters c and signals its loops to stop. Safe to call twice.
func (h *Hub) RemoveClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.clients[c.AccountID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.AccountID)
		}
	}
	c.close()
}

// RemoveAccount disconnects every connection of accountID.
func (h *Hub) RemoveAccount(accountID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients[accountID] {
		c.close()
	}
	delete(h.clients, accountID)
}

// ConnectedClients reports how many connections accountID has open.
func (h *Hub) ConnectedClients(accountID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[accountID])
}

// Publish queues payload for every connection of accountID. An account with no
// connections is not an error. A connection whose queue is full misses the event.
func (h *Hub) Publish(accountID string, payload any) error {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients[accountID]))
	for c := range h.clients[accountID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	var errs []error
	for _, c := range targets {
		select {
		case <-c.Done:
			continue
		default:
		}
		select {
		case c.Send <- payload:
		case <-c.Done:
		default:
			errs = append(errs, fmt.Errorf("account %s: message queue full", accountID))
		}
	}
	return errors.Join(errs...)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, set := range h.clients {
		for c := range set {
			c.close()
		}
		delete(h.clients, id)
	}
}
