package routes

import (
	"github.com/Sr1515/social_network/handlers"
	"github.com/Sr1515/social_network/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App, deps Dependencies) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", deps.protected(), middleware.StaffRequired(deps.Users))
	admin.Get("/dashboard-analytics", handlers.GetDashboardAnalytics(deps.Chat.Hub(), deps.Conversations))

	users := admin.Group("/users")
	users.Get("", handlers.GetAllUsers)
	users.Put("/:userId/status", handlers.ToggleUserStatus)
	users.Delete("/:userId", handlers.AdminDeleteUser)
}
