package websocket

import (
	"time"

	"invoiceflow-backend/config"
	"invoiceflow-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	VerifyToken(token string) (*token.Payload, error)
}

type WsHandler struct {
	hub  *Hub
	auth AuthService
}

func NewWsHandler(hub *Hub, auth AuthService) *WsHandler {
	return &WsHandler{hub: hub, auth: auth}
}

// HandleWebSocket authenticates the upgrade request from the access_token
// cookie and subscribes the connection to the user's events.
func (h *WsHandler) HandleWebSocket(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	tokenStr := c.Cookies("access_token")
	if tokenStr == "" {
		config.Logger.Warn("WebSocket connection attempted without access token cookie")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Authentication required",
		})
	}

	payload, err := h.auth.VerifyToken(tokenStr)
	if err != nil {
		config.Logger.Warn("Invalid access token for WebSocket", zap.Error(err))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid or expired token",
		})
	}

	return websocket.New(func(conn *websocket.Conn) {
		client := &Client{
			ID:     uuid.New(),
			UserID: payload.UserID,
			Conn:   conn,
			Hub:    h.hub,
			Send:   make(chan WebSocketMessage, 64),
		}
		h.hub.register <- client

		config.Logger.Info("WebSocket client registered",
			zap.String("clientID", client.ID.String()),
			zap.String("userID", client.UserID.String()))

		go client.writePump()
		client.readPump()
	})(c)
}

// readPump only drains control frames; clients do not send events.
func (c *Client) readPump() {
	defer func() {
		config.Logger.Info("WebSocket client disconnecting",
			zap.String("clientID", c.ID.String()),
			zap.String("userID", c.UserID.String()))
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(4 * 1024)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				config.Logger.Warn("WebSocket unexpected close",
					zap.String("clientID", c.ID.String()),
					zap.Error(err))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				config.Logger.Debug("WebSocket write error",
					zap.String("clientID", c.ID.String()),
					zap.Error(err))
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
