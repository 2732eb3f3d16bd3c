package routes

import (
	"github.com/Sr1515/social_network/handlers"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App, deps Dependencies) {
	api := app.Group("/api/v1")

	users := api.Group("/users")
	users.Post("/register", handlers.RegisterUser)
	users.Post("/login", handlers.LoginUser(deps.Tokens))
	users.Post("/token/refresh", handlers.RefreshToken(deps.Tokens))
	users.Post("/forgot-password", handlers.ForgotPassword)
	users.Post("/reset-password", handlers.ResetPassword)
}
