package routes

import (
	"github.com/Sr1515/social_network/handlers"
	"github.com/gofiber/fiber/v2"
)

func UploadRoutes(app *fiber.App, deps Dependencies) {
	api := app.Group("/api/v1")

	uploads := api.Group("/uploads", deps.protected())
	uploads.Get("/signature", handlers.GenerateUploadSignature)
}
