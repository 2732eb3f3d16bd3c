package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/Sr1515/social_network/middleware"
	"github.com/Sr1515/social_network/models"
	"github.com/Sr1515/social_network/repositories"
	"github.com/Sr1515/social_network/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ConversationHandler serves the REST side of private chat. Live delivery is the WebSocket's job.
type ConversationHandler struct {
	conversations repositories.ConversationRepository
	users         repositories.UserRepository
	pageSize      int
}

func NewConversationHandler(conversations repositories.ConversationRepository, users repositories.UserRepository, pageSize int) *ConversationHandler {
	return &ConversationHandler{conversations: conversations, users: users, pageSize: pageSize}
}

type ConversationResponse struct {
	ID        uuid.UUID    `json:"id"`
	With      UserResponse `json:"with"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func toConversation(conversation models.Conversation, viewerID uuid.UUID) ConversationResponse {
	other := conversation.User1
	if conversation.User1ID == viewerID {
		other = conversation.User2
	}
	return ConversationResponse{
		ID:        conversation.ID,
		With:      toUser(other),
		CreatedAt: conversation.CreatedAt,
		UpdatedAt: conversation.UpdatedAt,
	}
}

func (h *ConversationHandler) ListMine(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	conversations, err := h.conversations.ListForUser(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch conversations"})
	}
	return c.JSON(lo.Map(conversations, func(cv models.Conversation, _ int) ConversationResponse {
		return toConversation(cv, userID)
	}))
}

// CreateOrGet answers 201 when the conversation was created and 200 when it already existed.
func (h *ConversationHandler) CreateOrGet(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	type Request struct {
		RecipientID string `json:"recipient_id" validate:"required,uuid"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	recipientID := uuid.MustParse(req.RecipientID)
	if recipientID == userID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "You cannot start a conversation with yourself"})
	}

	me, err := h.users.FindByID(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}
	recipient, err := h.users.FindByID(c.UserContext(), recipientID)
	if err != nil || !recipient.IsActive {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Recipient not found"})
	}

	conversation, created, err := h.conversations.GetOrCreateConversation(c.UserContext(), userID, recipientID)
	if err != nil {
		log.Printf("🔥 Failed to open conversation between %s and %s: %v", userID, recipientID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create conversation"})
	}

	conversation.User1, conversation.User2 = *me, *recipient
	if conversation.User1ID != userID {
		conversation.User1, conversation.User2 = *recipient, *me
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(toConversation(*conversation, userID))
}

// loadParticipantConversation answers 404/403 itself and returns ok=false when the caller
// may not see :conversationId.
func (h *ConversationHandler) loadParticipantConversation(c *fiber.Ctx) (*models.Conversation, bool, error) {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return nil, false, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	conversationID, ok, err := paramUUID(c, "conversationId", "conversation")
	if !ok {
		return nil, false, err
	}

	conversation, err := h.conversations.GetConversation(c.UserContext(), conversationID)
	if err != nil {
		if errors.Is(err, repositories.ErrConversationNotFound) {
			return nil, false, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Conversation not found"})
		}
		return nil, false, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load conversation"})
	}
	if !conversation.HasParticipant(userID) {
		return nil, false, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "You are not a participant in this conversation"})
	}
	return conversation, true, nil
}

func (h *ConversationHandler) Messages(c *fiber.Ctx) error {
	conversation, ok, err := h.loadParticipantConversation(c)
	if !ok {
		return err
	}

	page, limit := pagination(c, h.pageSize)
	messages, err := h.conversations.ListMessages(c.UserContext(), conversation.ID, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch messages"})
	}
	return c.JSON(toMessages(messages))
}

func (h *ConversationHandler) Transcript(c *fiber.Ctx) error {
	conversation, ok, err := h.loadParticipantConversation(c)
	if !ok {
		return err
	}

	full, messages, err := h.conversations.LoadTranscript(c.UserContext(), conversation.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load conversation"})
	}

	url, err := services.ExportTranscript(c.UserContext(), full, messages)
	if err != nil {
		log.Printf("🔥 Failed to export transcript of %s: %v", conversation.ID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to export transcript"})
	}
	return c.JSON(fiber.Map{"url": url, "messages": len(messages)})
}

// MessagesBySender lists ?sender='s messages, limited to conversations the caller is part of.
func (h *ConversationHandler) MessagesBySender(c *fiber.Ctx) error {
	viewerID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	senderID, err := uuid.Parse(c.Query("sender"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Query parameter 'sender' must be a user ID"})
	}

	messages, err := h.conversations.MessagesBySender(c.UserContext(), senderID, viewerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch messages"})
	}
	return c.JSON(toMessages(messages))
}
