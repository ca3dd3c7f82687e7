package websocket

import (
	"sync"
	"time"

	"invoiceflow-backend/config"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MessageType string

const (
	MessageTypeDocumentUploaded MessageType = "document.uploaded"
	MessageTypeDocumentDeleted  MessageType = "document.deleted"
	MessageTypeInvoiceStatus    MessageType = "invoice.status_changed"
	MessageTypeError            MessageType = "error"
)

type WebSocketMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type Client struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Conn   *websocket.Conn
	Hub    *Hub
	Send   chan WebSocketMessage
}

// Hub tracks open connections per user. A user may have several tabs open.
type Hub struct {
	clients    map[uuid.UUID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.add(client)
		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[client.UserID] == nil {
		h.clients[client.UserID] = make(map[*Client]bool)
	}
	h.clients[client.UserID][client] = true
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(client)
}

func (h *Hub) dropLocked(client *Client) {
	conns, ok := h.clients[client.UserID]
	if !ok || !conns[client] {
		return
	}
	delete(conns, client)
	close(client.Send)
	if len(conns) == 0 {
		delete(h.clients, client.UserID)
	}
}

// PublishToUser pushes an event to every open connection of userID. Slow
// clients whose buffers are full are dropped.
func (h *Hub) PublishToUser(userID uuid.UUID, eventType string, payload interface{}) {
	message := WebSocketMessage{
		Type:      MessageType(eventType),
		Payload:   payload,
		Timestamp: time.Now(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients[userID] {
		select {
		case client.Send <- message:
		default:
			config.Logger.Warn("Dropping slow websocket client",
				zap.String("clientID", client.ID.String()),
				zap.String("userID", userID.String()))
			h.dropLocked(client)
		}
	}
}

// GetClientCount returns the number of open connections
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	count := 0
	for _, conns := range h.clients {
		count += len(conns)
	}
	return count
}

func (h *Hub) IsOnline(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}
