package main

import (
	"log"
	"time"

	"github.com/Sr1515/social_network/auth"
	config "github.com/Sr1515/social_network/configs"
	"github.com/Sr1515/social_network/database"
	"github.com/Sr1515/social_network/jobs"
	"github.com/Sr1515/social_network/notifications"
	"github.com/Sr1515/social_network/repositories"
	"github.com/Sr1515/social_network/routes"
	"github.com/Sr1515/social_network/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	database.ConnectDB()
	database.Migrate()
	database.SeedStaff()
	notifications.InitEmailService()

	chatConfig, err := config.LoadChatConfig()
	if err != nil {
		log.Fatalf("🔥 %v", err)
	}

	secret := config.Config("JWT_SECRET")
	if secret == "" {
		log.Fatal("🔥 JWT_SECRET must be set")
	}
	tokens := auth.NewTokenIssuer(
		secret,
		config.ConfigDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		config.ConfigDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
	)

	users := repositories.NewUserRepository(database.DB)
	conversations := repositories.NewConversationRepository(database.DB)
	hub := websocket.NewHub()
	chat := websocket.NewChat(hub, auth.NewJWTVerifier(tokens, users), conversations, chatConfig)

	c := cron.New()
	retention := time.Duration(config.ConfigInt("CONVERSATION_RETENTION_DAYS", 30)) * 24 * time.Hour
	if err := jobs.Register(c, hub, conversations, chatConfig.PingSchedule, retention); err != nil {
		log.Fatalf("🔥 %v", err)
	}
	c.Start()
	defer c.Stop()
	log.Println("✅ Chat keepalive and retention jobs scheduled successfully.")

	app := fiber.New(fiber.Config{
		Prefork:       false,
		AppName:       "Social Network",
		CaseSensitive: true,
		StrictRouting: false,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		BodyLimit:     10 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  config.ConfigDefault("CORS_ORIGINS", "*"),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Authorization",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to the Social Network API",
		})
	})

	routes.Register(app, routes.Dependencies{
		Tokens:        tokens,
		Users:         users,
		Conversations: conversations,
		Chat:          chat,
		PageSize:      chatConfig.PageSize,
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"live_chat": hub.Stats(),
		})
	})

	port := config.ConfigDefault("PORT", "8080")
	log.Printf("✅ Server is running on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
