package websocket

import (
	"testing"

	"github.com/google/uuid"
)

func TestPublishToUserReachesEveryConnection(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	first := &Client{ID: uuid.New(), UserID: userID, Hub: hub, Send: make(chan WebSocketMessage, 1)}
	second := &Client{ID: uuid.New(), UserID: userID, Hub: hub, Send: make(chan WebSocketMessage, 1)}
	other := &Client{ID: uuid.New(), UserID: uuid.New(), Hub: hub, Send: make(chan WebSocketMessage, 1)}
	hub.add(first)
	hub.add(second)
	hub.add(other)

	hub.PublishToUser(userID, string(MessageTypeDocumentUploaded), map[string]string{"fileName": "ts.xlsx"})

	for _, c := range []*Client{first, second} {
		select {
		case msg := <-c.Send:
			if msg.Type != MessageTypeDocumentUploaded {
				t.Errorf("type = %s", msg.Type)
			}
		default:
			t.Errorf("client %s received nothing", c.ID)
		}
	}
	if len(other.Send) != 0 {
		t.Error("other user must not receive the event")
	}
	if hub.GetClientCount() != 3 {
		t.Errorf("client count = %d", hub.GetClientCount())
	}
}

func TestPublishToUserDropsFullClients(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	slow := &Client{ID: uuid.New(), UserID: userID, Hub: hub, Send: make(chan WebSocketMessage)}
	hub.add(slow)

	hub.PublishToUser(userID, string(MessageTypeInvoiceStatus), nil)

	if hub.IsOnline(userID) {
		t.Error("slow client should be dropped")
	}
	if _, ok := <-slow.Send; ok {
		t.Error("send channel should be closed")
	}

	hub.remove(slow)
}
