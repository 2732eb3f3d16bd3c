package handlers

import (
	"math"
	"strconv"
	"time"

	"github.com/Sr1515/social_network/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const maxPageSize = 100

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Bio       *string   `json:"bio"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// PrivateUserResponse is what a user sees about themselves, and what staff see.
type PrivateUserResponse struct {
	UserResponse
	Email    string `json:"email"`
	IsStaff  bool   `json:"is_staff"`
	IsActive bool   `json:"is_active"`
}

func toUser(u models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

func toPrivateUser(u models.User) PrivateUserResponse {
	return PrivateUserResponse{
		UserResponse: toUser(u),
		Email:        u.Email,
		IsStaff:      u.IsStaff,
		IsActive:     u.IsActive,
	}
}

func toUsers(users []models.User) []UserResponse {
	return lo.Map(users, func(u models.User, _ int) UserResponse { return toUser(u) })
}

type MessageResponse struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

func toMessages(messages []models.Message) []MessageResponse {
	return lo.Map(messages, func(m models.Message, _ int) MessageResponse {
		return MessageResponse{
			ID:             m.ID,
			ConversationID: m.ConversationID,
			SenderID:       m.SenderID,
			Content:        m.Content,
			CreatedAt:      m.CreatedAt,
		}
	})
}

// pagination reads ?page= and ?limit=, clamping both to sane values.
func pagination(c *fiber.Ctx, defaultLimit int) (page, limit int) {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	return page, lo.Min([]int{limit, maxPageSize})
}

func pageMeta(total int64, page, limit int) fiber.Map {
	return fiber.Map{
		"total":        total,
		"total_pages":  int(math.Ceil(float64(total) / float64(limit))),
		"current_page": page,
	}
}

// paramUUID parses a path parameter, answering 400 itself when it is not a UUID.
func paramUUID(c *fiber.Ctx, name, label string) (uuid.UUID, bool, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid " + label + " ID"})
	}
	return id, true, nil
}
