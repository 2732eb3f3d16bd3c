//go:generate go run go.uber.org/mock/mockgen -source=contracts.go -destination=../mocks/mock_chat.go -package=mocks
package websocket

import (
	"context"
	"time"

	"github.com/Sr1515/social_network/auth"
	"github.com/Sr1515/social_network/models"
	"github.com/google/uuid"
)

// IdentityVerifier resolves a bearer credential to a user. Rejections are *auth.VerifyError.
type IdentityVerifier interface {
	Verify(ctx context.Context, credential string) (auth.Identity, error)
}

// ConversationStore is the durable side of the chat: conversations and their messages.
type ConversationStore interface {
	GetConversation(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	AppendMessage(ctx context.Context, conversationID, senderID uuid.UUID, content string) (*models.Message, error)
}

// Conn is the part of a WebSocket connection the chat needs.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}
