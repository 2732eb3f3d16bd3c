package routes

import (
	"github.com/Sr1515/social_network/auth"
	"github.com/Sr1515/social_network/middleware"
	"github.com/Sr1515/social_network/repositories"
	"github.com/Sr1515/social_network/websocket"
	"github.com/gofiber/fiber/v2"
)

// Dependencies are the long-lived services the routes hand to their handlers.
type Dependencies struct {
	Tokens        *auth.TokenIssuer
	Users         repositories.UserRepository
	Conversations repositories.ConversationRepository
	Chat          *websocket.Chat
	PageSize      int
}

func (d Dependencies) protected() fiber.Handler {
	return middleware.Protected(d.Tokens.Secret())
}

// Register mounts every route group under /api/v1.
func Register(app *fiber.App, deps Dependencies) {
	AuthRoutes(app, deps)
	UserRoutes(app, deps)
	PostRoutes(app, deps)
	MessagingRoutes(app, deps)
	UploadRoutes(app, deps)
	AdminRoutes(app, deps)
}
