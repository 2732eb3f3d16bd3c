package models

import (
	"github.com/google/uuid"
)

type Message struct {
	BaseModel
	ConversationID uuid.UUID `gorm:"type:char(36);not null;index" json:"conversation_id"`
	SenderID       uuid.UUID `gorm:"type:char(36);not null;index" json:"sender_id"`
	Content        string    `gorm:"type:text;not null" json:"content"`

	Sender       User         `gorm:"foreignKey:SenderID" json:"-"`
	Conversation Conversation `gorm:"foreignKey:ConversationID" json:"-"`
}
