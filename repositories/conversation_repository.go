package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sr1515/social_network/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return ConversationRepository{db: db}
}

func (r ConversationRepository) GetConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := r.db.WithContext(ctx).First(&conversation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("load conversation %s: %w", id, err)
	}
	return &conversation, nil
}

// GetOrCreateConversation returns the conversation between a and b, creating it when absent.
// The second return value reports whether it was created.
func (r ConversationRepository) GetOrCreateConversation(ctx context.Context, a, b uuid.UUID) (*models.Conversation, bool, error) {
	if a == b {
		return nil, false, ErrSameParticipant
	}
	wanted := models.NewConversation(a, b)

	db := r.db.WithContext(ctx)
	find := func() (*models.Conversation, error) {
		var existing models.Conversation
		err := db.Where("user1_id = ? AND user2_id = ?", wanted.User1ID, wanted.User2ID).First(&existing).Error
		if err != nil {
			return nil, err
		}
		return &existing, nil
	}

	existing, err := find()
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("lookup conversation: %w", err)
	}

	if err := db.Create(&wanted).Error; err != nil {
		// Lost a race against a concurrent create of the same pair.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, err := find()
			if err != nil {
				return nil, false, fmt.Errorf("lookup conversation after conflict: %w", err)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("create conversation: %w", err)
	}
	return &wanted, true, nil
}

// AppendMessage stores a message from senderID, who must take part in the conversation.
func (r ConversationRepository) AppendMessage(ctx context.Context, conversationID, senderID uuid.UUID, content string) (*models.Message, error) {
	message := models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conversation models.Conversation
		if err := tx.First(&conversation, "id = ?", conversationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrConversationNotFound
			}
			return err
		}
		if !conversation.HasParticipant(senderID) {
			return ErrNotParticipant
		}
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		return tx.Model(&conversation).Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// ListMessages returns one page (1-based) of a conversation's messages, oldest first.
func (r ConversationRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, page, pageSize int) ([]models.Message, error) {
	if page < 1 {
		page = 1
	}
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at asc").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&messages).Error
	return messages, err
}

// LoadTranscript returns the conversation with both participants and every message, oldest first.
func (r ConversationRepository) LoadTranscript(ctx context.Context, id uuid.UUID) (*models.Conversation, []models.Message, error) {
	db := r.db.WithContext(ctx)

	var conversation models.Conversation
	if err := db.Preload("User1").Preload("User2").First(&conversation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrConversationNotFound
		}
		return nil, nil, fmt.Errorf("load conversation %s: %w", id, err)
	}

	var messages []models.Message
	if err := db.Where("conversation_id = ?", id).Order("created_at asc").Find(&messages).Error; err != nil {
		return nil, nil, fmt.Errorf("load messages of %s: %w", id, err)
	}
	return &conversation, messages, nil
}

// ListForUser returns the user's conversations, most recently active first.
func (r ConversationRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.WithContext(ctx).
		Preload("User1").
		Preload("User2").
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("updated_at desc").
		Find(&conversations).Error
	return conversations, err
}

// MessagesBySender lists what senderID wrote in conversations viewerID takes part in.
func (r ConversationRepository) MessagesBySender(ctx context.Context, senderID, viewerID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("messages.sender_id = ?", senderID).
		Where("conversations.user1_id = ? OR conversations.user2_id = ?", viewerID, viewerID).
		Order("messages.created_at asc").
		Find(&messages).Error
	return messages, err
}

// DeleteIdleConversations removes conversations without messages last touched before cutoff.
func (r ConversationRepository) DeleteIdleConversations(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("updated_at < ?", cutoff).
		Where("NOT EXISTS (SELECT 1 FROM messages WHERE messages.conversation_id = conversations.id)").
		Delete(&models.Conversation{})
	return result.RowsAffected, result.Error
}

// Counts reports how many conversations and messages are stored.
func (r ConversationRepository) Counts(ctx context.Context) (conversations, messages int64, err error) {
	db := r.db.WithContext(ctx)
	if err = db.Model(&models.Conversation{}).Count(&conversations).Error; err != nil {
		return 0, 0, err
	}
	if err = db.Model(&models.Message{}).Count(&messages).Error; err != nil {
		return 0, 0, err
	}
	return conversations, messages, nil
}
