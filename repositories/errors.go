package repositories

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrSameParticipant      = errors.New("a conversation needs two distinct participants")
	ErrNotParticipant       = errors.New("sender is not a participant of the conversation")
)
