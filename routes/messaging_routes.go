package routes

import (
	"github.com/Sr1515/social_network/handlers"
	"github.com/Sr1515/social_network/websocket"
	"github.com/gofiber/fiber/v2"
)

func MessagingRoutes(app *fiber.App, deps Dependencies) {
	api := app.Group("/api/v1")
	h := handlers.NewConversationHandler(deps.Conversations, deps.Users, deps.PageSize)

	conversations := api.Group("/conversations", deps.protected())
	conversations.Get("", h.ListMine)
	conversations.Post("", h.CreateOrGet)
	conversations.Get("/:conversationId/messages", h.Messages)
	conversations.Get("/:conversationId/transcript", h.Transcript)

	api.Get("/chat/messages", deps.protected(), h.MessagesBySender)

	// The socket authenticates itself from the handshake, so it sits outside Protected.
	api.Get("/ws/chat/:"+websocket.ConversationParam, websocket.UpgradeGuard, deps.Chat.Handler())
}
