package routes

import (
	"github.com/Sr1515/social_network/handlers"
	"github.com/gofiber/fiber/v2"
)

func PostRoutes(app *fiber.App, deps Dependencies) {
	api := app.Group("/api/v1")
	protected := deps.protected()

	posts := api.Group("/posts")
	posts.Get("/:postId/comments", handlers.ListComments)

	posts.Get("", protected, handlers.ListPosts)
	posts.Post("", protected, handlers.CreatePost)
	posts.Get("/:postId", protected, handlers.GetPost)
	posts.Put("/:postId", protected, handlers.UpdatePost)
	posts.Patch("/:postId", protected, handlers.UpdatePost)
	posts.Delete("/:postId", protected, handlers.DeletePost)

	posts.Post("/:postId/comments", protected, handlers.CreateComment)
	posts.Put("/:postId/comments/:commentId", protected, handlers.UpdateComment)
	posts.Patch("/:postId/comments/:commentId", protected, handlers.UpdateComment)
	posts.Delete("/:postId/comments/:commentId", protected, handlers.DeleteComment)

	posts.Post("/:postId/like", protected, handlers.LikePost)
	posts.Delete("/:postId/like", protected, handlers.UnlikePost)
}
