package routes

import (
	"github.com/Sr1515/social_network/handlers"
	"github.com/gofiber/fiber/v2"
)

func UserRoutes(app *fiber.App, deps Dependencies) {
	api := app.Group("/api/v1")
	protected := deps.protected()

	users := api.Group("/users")
	users.Get("", protected, handlers.ListUsers)

	me := users.Group("/me", protected)
	me.Get("", handlers.GetMe)
	me.Put("", handlers.UpdateMe)
	me.Delete("", handlers.DeleteMe)

	users.Get("/:userId", protected, handlers.GetUser)
	users.Post("/:userId/follow", protected, handlers.FollowUser)
	users.Delete("/:userId/follow", protected, handlers.UnfollowUser)
	users.Get("/:userId/followers", protected, handlers.ListFollowers)
	users.Get("/:userId/following", protected, handlers.ListFollowing)
}
