package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewConversation_NormalizesPair(t *testing.T) {
	req := require.New(t)
	a := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	b := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	ab := NewConversation(a, b)
	ba := NewConversation(b, a)

	req.Equal(ab.User1ID, ba.User1ID)
	req.Equal(ab.User2ID, ba.User2ID)
	req.Equal(a, ab.User1ID)
	req.Equal(b, ab.User2ID)
}

func TestConversation_Participants(t *testing.T) {
	req := require.New(t)
	alice, bob, eve := uuid.New(), uuid.New(), uuid.New()
	conv := NewConversation(alice, bob)

	req.True(conv.HasParticipant(alice))
	req.True(conv.HasParticipant(bob))
	req.False(conv.HasParticipant(eve))
	req.False(conv.HasParticipant(uuid.Nil))

	req.Equal(bob, conv.OtherParticipant(alice))
	req.Equal(alice, conv.OtherParticipant(bob))
}
