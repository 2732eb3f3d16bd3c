package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Sr1515/social_network/auth"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type State int32

const (
	StateConnecting State = iota
	StateAuthenticating
	StateJoined
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateJoined:
		return "joined"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

var errSessionClosed = errors.New("session closed")

// Session is one live connection scoped to a single conversation.
type Session struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	Identity       auth.Identity

	conn         Conn
	hub          *Hub
	writeTimeout time.Duration

	state     atomic.Int32
	writeMu   sync.Mutex
	closeOnce sync.Once
}

func newSession(conn Conn, hub *Hub, writeTimeout time.Duration) *Session {
	return &Session{
		ID:           uuid.New(),
		conn:         conn,
		hub:          hub,
		writeTimeout: writeTimeout,
	}
}

func (s *Session) State() State {
	return State(s.state.Load())
}

func (s *Session) setState(state State) {
	s.state.Store(int32(state))
}

// Send writes v as a JSON text frame to this session only.
func (s *Session) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.sendRaw(data)
}

func (s *Session) sendRaw(data []byte) error {
	return s.write(websocket.TextMessage, data)
}

func (s *Session) ping() error {
	return s.write(websocket.PingMessage, nil)
}

func (s *Session) write(messageType int, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.State() == StateClosed {
		return errSessionClosed
	}
	if s.writeTimeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
			return err
		}
	}
	return s.conn.WriteMessage(messageType, data)
}

// Close leaves the hub and closes the connection. Only the first call has an effect.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.setState(StateClosed)
		s.hub.Leave(s.ConversationID, s)
		s.writeMu.Lock()
		_ = s.conn.Close()
		s.writeMu.Unlock()
	})
}
