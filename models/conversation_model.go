package models

import (
	"github.com/google/uuid"
)

// Conversation is a private thread between two distinct users. The pair is stored
// ordered (User1ID < User2ID) so the unique index covers the unordered pair.
type Conversation struct {
	BaseModel
	User1ID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_conversation_pair" json:"user1_id"`
	User2ID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_conversation_pair;index" json:"user2_id"`

	User1    User      `gorm:"foreignKey:User1ID" json:"user1"`
	User2    User      `gorm:"foreignKey:User2ID" json:"user2"`
	Messages []Message `json:"-"`
}

// NewConversation returns a conversation between a and b with the pair normalized.
func NewConversation(a, b uuid.UUID) Conversation {
	first, second := OrderPair(a, b)
	return Conversation{User1ID: first, User2ID: second}
}

func OrderPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() > b.String() {
		return b, a
	}
	return a, b
}

func (c *Conversation) HasParticipant(userID uuid.UUID) bool {
	return userID != uuid.Nil && (c.User1ID == userID || c.User2ID == userID)
}

// OtherParticipant returns the participant that is not userID.
func (c *Conversation) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}
