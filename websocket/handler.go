package websocket

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	ConversationParam = "conversationId"
	localsAuth        = "chat_authorization"
)

// UpgradeGuard runs before the upgrade: it requires a WebSocket request with a valid
// conversation id and carries the credential over to the connection.
func UpgradeGuard(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	if _, err := uuid.Parse(c.Params(ConversationParam)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid conversation ID"})
	}

	credential := c.Get(fiber.HeaderAuthorization)
	// Browsers cannot set headers on a WebSocket handshake.
	if credential == "" && c.Query("token") != "" {
		credential = "Bearer " + c.Query("token")
	}
	c.Locals(localsAuth, credential)
	return c.Next()
}

// Handler upgrades the request and serves the chat session on it.
func (c *Chat) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		credential, _ := conn.Locals(localsAuth).(string)
		c.Serve(context.Background(), Handshake{
			ConversationID: conn.Params(ConversationParam),
			Authorization:  credential,
		}, conn)
	})
}
