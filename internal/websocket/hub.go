package websocket

import (
	"encoding/json"
	"sync"

	"github.com/careersage/careersage-backend/pkg/logger"
)

// EventHandler receives inbound client events and disconnect notices.
// Implemented by the battle event router in the API layer.
type EventHandler interface {
	HandleEvent(userID, eventType string, payload json.RawMessage)
	HandleDisconnect(userID string)
}

// Hub tracks one live connection per user and fans out messages. A user
// reconnecting replaces their previous connection, so events always reach
// the latest socket.
type Hub struct {
	clients map[string]*Client
	mu      sync.RWMutex

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client

	handler EventHandler
}

// Message is an outbound websocket frame. An empty UserID broadcasts to
// every connection.
type Message struct {
	UserID  string      `json:"-"`
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// SetHandler wires the inbound event handler. Must be called before Run.
func (h *Hub) SetHandler(handler EventHandler) {
	h.handler = handler
}

// Run processes register/unregister/broadcast traffic. Call in its own
// goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if oldClient, exists := h.clients[client.userID]; exists {
		close(oldClient.send)
		logger.Info("Replaced existing WebSocket connection", "userId", client.userID)
	}

	h.clients[client.userID] = client
	logger.Info("WebSocket client registered",
		"userId", client.userID, "totalClients", len(h.clients))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	// Only drop the mapping if this client still owns it; a reconnect may
	// already have replaced it.
	owned := h.clients[client.userID] == client
	if owned {
		delete(h.clients, client.userID)
		close(client.send)
		logger.Info("WebSocket client unregistered",
			"userId", client.userID, "totalClients", len(h.clients))
	}
	h.mu.Unlock()

	if owned && h.handler != nil {
		h.handler.HandleDisconnect(client.userID)
	}
}

func (h *Hub) broadcastMessage(message *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if message.UserID == "" {
		for _, client := range h.clients {
			select {
			case client.send <- message:
			default:
				logger.Warn("Client send channel full, unregistering", "userId", client.userID)
				go func(c *Client) {
					h.unregister <- c
				}(client)
			}
		}
		return
	}

	if client, exists := h.clients[message.UserID]; exists {
		select {
		case client.send <- message:
		default:
			logger.Warn("Client send channel full", "userId", message.UserID)
		}
	}
}

// SendToUser queues a message for one user. Dropped silently if they are
// offline.
func (h *Hub) SendToUser(userID, msgType string, payload interface{}) {
	h.broadcast <- &Message{
		UserID:  userID,
		Type:    msgType,
		Payload: payload,
	}
}

// Broadcast queues a message for every connected user.
func (h *Hub) Broadcast(msgType string, payload interface{}) {
	h.broadcast <- &Message{
		UserID:  "",
		Type:    msgType,
		Payload: payload,
	}
}

// IsOnline reports whether the user has a live connection.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.clients[userID]
	return exists
}
