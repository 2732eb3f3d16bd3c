package services

import (
	"testing"
	"time"

	"github.com/Sr1515/social_network/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func transcriptFixture() (*models.Conversation, []models.Message) {
	alice := models.User{BaseModel: models.BaseModel{ID: uuid.New()}, Username: "alice"}
	bob := models.User{BaseModel: models.BaseModel{ID: uuid.New()}, Username: "bob"}
	conversation := models.NewConversation(alice.ID, bob.ID)
	conversation.ID = uuid.New()
	if conversation.User1ID == alice.ID {
		conversation.User1, conversation.User2 = alice, bob
	} else {
		conversation.User1, conversation.User2 = bob, alice
	}

	sent := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	messages := []models.Message{
		{BaseModel: models.BaseModel{CreatedAt: sent}, ConversationID: conversation.ID, SenderID: alice.ID, Content: "hi"},
		{BaseModel: models.BaseModel{CreatedAt: sent.Add(time.Minute)}, ConversationID: conversation.ID, SenderID: bob.ID, Content: "<script>alert(1)</script>"},
		{BaseModel: models.BaseModel{CreatedAt: sent.Add(2 * time.Minute)}, ConversationID: conversation.ID, SenderID: uuid.New(), Content: "orphan"},
	}
	return &conversation, messages
}

func TestBuildTranscript(t *testing.T) {
	req := require.New(t)
	conversation, messages := transcriptFixture()
	now := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)

	transcript := BuildTranscript(conversation, messages, now)

	req.Equal(conversation.ID, transcript.ConversationID)
	req.ElementsMatch([]string{"alice", "bob"}, transcript.Participants[:])
	req.Equal(now, transcript.GeneratedAt)
	req.Equal([]TranscriptLine{
		{Sender: "alice", Content: "hi", SentAt: messages[0].CreatedAt},
		{Sender: "bob", Content: "<script>alert(1)</script>", SentAt: messages[1].CreatedAt},
		{Sender: "unknown", Content: "orphan", SentAt: messages[2].CreatedAt},
	}, transcript.Lines)
}

func TestRenderTranscriptHTML(t *testing.T) {
	req := require.New(t)
	conversation, messages := transcriptFixture()

	html, err := RenderTranscriptHTML(BuildTranscript(conversation, messages, time.Now()))

	req.NoError(err)
	req.Contains(html, "2024-03-01 09:30")
	req.Contains(html, "3 messages")
	req.Contains(html, "&lt;script&gt;alert(1)&lt;/script&gt;")
	req.NotContains(html, "<script>")
}

func TestRenderTranscriptHTML_Empty(t *testing.T) {
	conversation, _ := transcriptFixture()

	html, err := RenderTranscriptHTML(BuildTranscript(conversation, nil, time.Now()))

	require.NoError(t, err)
	require.Contains(t, html, "No messages yet.")
}
