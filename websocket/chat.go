package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"unicode/utf8"

	"github.com/Sr1515/social_network/auth"
	config "github.com/Sr1515/social_network/configs"
	"github.com/Sr1515/social_network/repositories"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

var (
	ErrInvalidConversationID = errors.New("invalid conversation id")
	ErrUnauthenticated       = errors.New("unauthenticated")
)

// ErrorKind classifies why an inbound chat frame was refused.
type ErrorKind int

const (
	MalformedPayload ErrorKind = iota + 1
	MissingField
	MessageTooLong
	UnknownConversation
	LookupFailure
	NotParticipant
	PersistenceFailure
)

func (k ErrorKind) String() string {
	switch k {
	case MalformedPayload:
		return "malformed_payload"
	case MissingField:
		return "missing_field"
	case MessageTooLong:
		return "message_too_long"
	case UnknownConversation:
		return "unknown_conversation"
	case LookupFailure:
		return "lookup_failure"
	case NotParticipant:
		return "not_participant"
	case PersistenceFailure:
		return "persistence_failure"
	default:
		return "unknown"
	}
}

// ClientMessage is the text sent back to the sender in the error frame.
func (k ErrorKind) ClientMessage() string {
	switch k {
	case MalformedPayload:
		return "Invalid JSON"
	case MissingField:
		return "Message key not found"
	case MessageTooLong:
		return "Message too long"
	case UnknownConversation:
		return "Conversation not found"
	case LookupFailure:
		return "Failed to load conversation"
	case NotParticipant:
		return "You are not a participant in this conversation"
	case PersistenceFailure:
		return "Failed to save message"
	default:
		return "Internal error"
	}
}

type MessageError struct {
	Kind ErrorKind
	Err  error
}

func (e *MessageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *MessageError) Unwrap() error { return e.Err }

type InboundMessage struct {
	Message string `json:"message"`
}

type OutboundMessage struct {
	Message string `json:"message"`
	Sender  string `json:"sender"`
}

type ErrorFrame struct {
	Error string `json:"error"`
}

// Handshake is what the client presented when opening the connection.
type Handshake struct {
	ConversationID string
	Authorization  string
}

// Chat runs the per-connection lifecycle: authenticate, join, relay messages, leave.
type Chat struct {
	hub      *Hub
	verifier IdentityVerifier
	store    ConversationStore
	cfg      config.ChatConfig
}

func NewChat(hub *Hub, verifier IdentityVerifier, store ConversationStore, cfg config.ChatConfig) *Chat {
	return &Chat{hub: hub, verifier: verifier, store: store, cfg: cfg}
}

func (c *Chat) Hub() *Hub {
	return c.hub
}

// Connect authenticates the handshake and joins the conversation's group. On failure the
// connection is closed without sending anything.
func (c *Chat) Connect(ctx context.Context, hs Handshake, conn Conn) (*Session, error) {
	session := newSession(conn, c.hub, c.cfg.WriteTimeout)

	conversationID, err := uuid.Parse(hs.ConversationID)
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("%w: %q", ErrInvalidConversationID, hs.ConversationID)
	}
	session.ConversationID = conversationID

	session.setState(StateAuthenticating)
	verifyCtx, cancel := context.WithTimeout(ctx, c.cfg.StoreTimeout)
	identity, err := c.verifier.Verify(verifyCtx, auth.BearerToken(hs.Authorization))
	cancel()
	if err != nil {
		log.Printf("Chat handshake rejected for conversation %s: reason=%s", conversationID, auth.RejectReason(err))
		session.Close()
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	session.Identity = identity

	c.hub.Join(conversationID, session)
	session.setState(StateJoined)
	log.Printf("Chat session %s joined conversation %s as %s", session.ID, conversationID, identity.Username)
	return session, nil
}

// HandleMessage processes one inbound frame from s. Refusals are reported to s alone and
// returned as *MessageError; the session stays joined either way.
func (c *Chat) HandleMessage(ctx context.Context, s *Session, raw []byte) error {
	if s.State() != StateJoined {
		return errSessionClosed
	}

	if err := c.relay(ctx, s, raw); err != nil {
		var merr *MessageError
		if !errors.As(err, &merr) {
			merr = &MessageError{Kind: PersistenceFailure, Err: err}
		}
		log.Printf("⚠️ Chat message from %s in conversation %s refused: %v", s.Identity.Username, s.ConversationID, merr)
		if sendErr := s.Send(ErrorFrame{Error: merr.Kind.ClientMessage()}); sendErr != nil {
			log.Printf("⚠️ Failed to send error frame to session %s: %v", s.ID, sendErr)
		}
		return merr
	}
	return nil
}

func (c *Chat) relay(ctx context.Context, s *Session, raw []byte) error {
	content, err := c.parse(raw)
	if err != nil {
		return err
	}

	// Store calls outlive the connection so an accepted message is never half-processed.
	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.StoreTimeout)
	defer cancel()

	conversation, err := c.store.GetConversation(storeCtx, s.ConversationID)
	if err != nil {
		if errors.Is(err, repositories.ErrConversationNotFound) {
			return &MessageError{Kind: UnknownConversation, Err: err}
		}
		return &MessageError{Kind: LookupFailure, Err: err}
	}
	if !conversation.HasParticipant(s.Identity.UserID) {
		return &MessageError{Kind: NotParticipant}
	}

	if _, err := c.store.AppendMessage(storeCtx, conversation.ID, s.Identity.UserID, content); err != nil {
		if errors.Is(err, repositories.ErrNotParticipant) {
			return &MessageError{Kind: NotParticipant, Err: err}
		}
		return &MessageError{Kind: PersistenceFailure, Err: err}
	}

	c.hub.Broadcast(s.ConversationID, OutboundMessage{Message: content, Sender: s.Identity.Username})
	return nil
}

func (c *Chat) parse(raw []byte) (string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return "", &MessageError{Kind: MalformedPayload, Err: err}
	}

	value, ok := fields["message"]
	if !ok || string(value) == "null" {
		return "", &MessageError{Kind: MissingField}
	}

	var content string
	if err := json.Unmarshal(value, &content); err != nil {
		return "", &MessageError{Kind: MalformedPayload, Err: err}
	}
	if c.cfg.MaxMessageLength > 0 && utf8.RuneCountInString(content) > c.cfg.MaxMessageLength {
		return "", &MessageError{Kind: MessageTooLong}
	}
	return content, nil
}

// Disconnect closes s and removes it from its group. Safe to call more than once.
func (c *Chat) Disconnect(s *Session) {
	if s == nil {
		return
	}
	wasJoined := s.State() == StateJoined
	s.Close()
	if wasJoined {
		log.Printf("Chat session %s left conversation %s", s.ID, s.ConversationID)
	}
}

// Serve drives a connection from handshake to close. Inbound frames are handled one at a
// time in arrival order.
func (c *Chat) Serve(ctx context.Context, hs Handshake, conn Conn) {
	session, err := c.Connect(ctx, hs, conn)
	if err != nil {
		return
	}
	defer c.Disconnect(session)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if session.State() != StateClosed &&
				!websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error for session %s (user %s): %v", session.ID, session.Identity.Username, err)
			}
			return
		}
		_ = c.HandleMessage(ctx, session, raw)
	}
}
