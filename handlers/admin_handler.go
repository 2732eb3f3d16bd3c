package handlers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/Sr1515/social_network/database"
	"github.com/Sr1515/social_network/middleware"
	"github.com/Sr1515/social_network/models"
	"github.com/Sr1515/social_network/repositories"
	"github.com/Sr1515/social_network/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type DashboardAnalyticsResponse struct {
	TotalUsers         int64              `json:"total_users"`
	ActiveUsers        int64              `json:"active_users"`
	TotalPosts         int64              `json:"total_posts"`
	PostsLast30Days    int64              `json:"posts_last_30_days"`
	TotalConversations int64              `json:"total_conversations"`
	TotalMessages      int64              `json:"total_messages"`
	LiveChat           websocket.HubStats `json:"live_chat"`
}

func GetAllUsers(c *fiber.Ctx) error {
	page, limit := pagination(c, 10)
	search := strings.TrimSpace(c.Query("search"))
	db := database.DB.WithContext(c.UserContext())

	var totalUsers int64
	if err := searchUsers(db.Model(&models.User{}), search).Count(&totalUsers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	var users []models.User
	if err := searchUsers(db, search).Order("created_at desc").Offset((page - 1) * limit).Limit(limit).Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{
		"data": lo.Map(users, func(u models.User, _ int) PrivateUserResponse { return toPrivateUser(u) }),
		"meta": pageMeta(totalUsers, page, limit),
	})
}

func ToggleUserStatus(c *fiber.Ctx) error {
	userID, ok, err := paramUUID(c, "userId", "user")
	if !ok {
		return err
	}
	if me, _ := middleware.CurrentUserID(c); me == userID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You cannot change your own status"})
	}

	type Request struct {
		IsActive *bool `json:"is_active" validate:"required"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result := database.DB.WithContext(c.UserContext()).Model(&models.User{}).Where("id = ?", userID).Update("is_active", *req.IsActive)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user status"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(fiber.Map{"message": "User status updated successfully."})
}

func AdminDeleteUser(c *fiber.Ctx) error {
	userID, ok, err := paramUUID(c, "userId", "user")
	if !ok {
		return err
	}
	if me, _ := middleware.CurrentUserID(c); me == userID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Use DELETE /users/me to remove your own account"})
	}

	if err := repositories.NewUserRepository(database.DB).DeleteCascade(c.UserContext(), userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		log.Printf("🔥 Admin failed to delete user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete user"})
	}
	return c.JSON(fiber.Map{"message": "User and related data deleted successfully."})
}

// GetDashboardAnalytics reports stored totals plus the live state of the chat hub.
func GetDashboardAnalytics(hub *websocket.Hub, conversations repositories.ConversationRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var response DashboardAnalyticsResponse
		db := database.DB.WithContext(c.UserContext())

		db.Model(&models.User{}).Count(&response.TotalUsers)
		db.Model(&models.User{}).Where("is_active = ?", true).Count(&response.ActiveUsers)
		db.Model(&models.Post{}).Count(&response.TotalPosts)
		db.Model(&models.Post{}).Where("created_at > ?", time.Now().AddDate(0, 0, -30)).Count(&response.PostsLast30Days)

		var err error
		response.TotalConversations, response.TotalMessages, err = conversations.Counts(c.UserContext())
		if err != nil {
			log.Printf("⚠️ Failed to count conversations for analytics: %v", err)
		}
		response.LiveChat = hub.Stats()

		return c.JSON(response)
	}
}
