package websocket

import (
	"errors"
	"testing"
	"time"

	"github.com/Sr1515/social_network/mocks"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSession_SendSetsDeadlineThenWrites(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	conn := mocks.NewMockConn(ctrl)

	before := time.Now()
	gomock.InOrder(
		conn.EXPECT().SetWriteDeadline(gomock.Any()).DoAndReturn(func(deadline time.Time) error {
			if deadline.Before(before.Add(time.Second)) {
				return errors.New("deadline set too early")
			}
			return nil
		}),
		conn.EXPECT().WriteMessage(websocket.TextMessage, []byte(`{"error":"Invalid JSON"}`)).Return(nil),
	)

	s := newSession(conn, NewHub(), time.Second)
	s.setState(StateJoined)

	req.NoError(s.Send(ErrorFrame{Error: "Invalid JSON"}))
}

func TestSession_DeadlineFailureSkipsWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := mocks.NewMockConn(ctrl)
	conn.EXPECT().SetWriteDeadline(gomock.Any()).Return(errors.New("broken pipe"))

	s := newSession(conn, NewHub(), time.Second)
	s.setState(StateJoined)

	require.Error(t, s.Send(OutboundMessage{Message: "hi", Sender: "alice"}))
}

func TestSession_CloseIsOnceAndStopsWrites(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	conn := mocks.NewMockConn(ctrl)
	conn.EXPECT().Close().Return(nil).Times(1)

	hub := NewHub()
	s := newSession(conn, hub, 0)
	s.ConversationID = uuid.New()
	s.setState(StateJoined)
	hub.Join(s.ConversationID, s)

	s.Close()
	s.Close()

	req.Equal(StateClosed, s.State())
	req.Empty(hub.Members(s.ConversationID))
	// No WriteMessage expectation: writes after close must not reach the connection.
	req.ErrorIs(s.Send(OutboundMessage{Message: "late"}), errSessionClosed)
	req.ErrorIs(s.ping(), errSessionClosed)
}

func TestState_String(t *testing.T) {
	require.Equal(t, "connecting", StateConnecting.String())
	require.Equal(t, "authenticating", StateAuthenticating.String())
	require.Equal(t, "joined", StateJoined.String())
	require.Equal(t, "closed", StateClosed.String())
	require.Equal(t, "unknown", State(42).String())
}
