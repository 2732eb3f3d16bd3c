package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/stretchr/testify/require"
)

var errFakeClosed = errors.New("use of closed connection")

// fakeConn records what the chat writes and feeds it inbound frames from a channel.
type fakeConn struct {
	mu         sync.Mutex
	frames     [][]byte
	pings      int
	closeCalls int
	failWrites bool
	inbox      chan []byte
	inboxOpen  bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{inbox: make(chan []byte, 64), inboxOpen: true}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	raw, ok := <-f.inbox
	if !ok {
		return 0, nil, errFakeClosed
	}
	return websocket.TextMessage, raw, nil
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errFakeClosed
	}
	if messageType == websocket.PingMessage {
		f.pings++
		return nil
	}
	f.frames = append(f.frames, append([]byte(nil), data...))
	return nil
}

func (f *fakeConn) SetWriteDeadline(time.Time) error {
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeCalls++
	if f.inboxOpen {
		f.inboxOpen = false
		close(f.inbox)
	}
	return nil
}

func (f *fakeConn) push(raw string) {
	f.inbox <- []byte(raw)
}

func (f *fakeConn) breakWrites() {
	f.mu.Lock()
	f.failWrites = true
	f.mu.Unlock()
}

func (f *fakeConn) closes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closeCalls
}

// received decodes every text frame written so far.
func (f *fakeConn) received(t *testing.T) []map[string]string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]map[string]string, 0, len(f.frames))
	for _, frame := range f.frames {
		var decoded map[string]string
		require.NoError(t, json.Unmarshal(frame, &decoded))
		out = append(out, decoded)
	}
	return out
}
