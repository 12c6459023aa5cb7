package bridge

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/cognitive-cannon/common"
	"github.com/Carmen-Shannon/cognitive-cannon/input"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + DefaultPath
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func newTestBridge(t *testing.T) (input.State, Server, *httptest.Server) {
	t.Helper()
	state := input.NewState(
		input.WithViewport(common.Viewport{Width: 1000, Height: 500}),
		input.WithSmoothing(1),
	)
	b := NewServer(state, WithLogger(quietLogger()))
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	return state, b, srv
}

func TestHandMessageSetsMirroredPointer(t *testing.T) {
	state, _, srv := newTestBridge(t)
	conn := dial(t, srv)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "hand", "x": 0.2, "y": 0.4, "shooting": true}))

	assert.Eventually(t, func() bool {
		snap := state.Snapshot()
		return snap.Pointer != nil && snap.Shooting
	}, 2*time.Second, 5*time.Millisecond)

	snap := state.Snapshot()
	assert.InDelta(t, 800, snap.Pointer.X, 1e-2)
	assert.InDelta(t, 200, snap.Pointer.Y, 1e-2)
}

func TestGestureAndHandLost(t *testing.T) {
	state, _, srv := newTestBridge(t)
	conn := dial(t, srv)

	require.NoError(t, conn.WriteJSON(GestureMessage{Type: MessageTypeGesture, Shooting: true}))
	assert.Eventually(t, func() bool { return state.Snapshot().Shooting }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, conn.WriteJSON(HandMessage{Type: MessageTypeHand, X: 0.5, Y: 0.5}))
	assert.Eventually(t, func() bool { return state.Snapshot().Pointer != nil }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, conn.WriteJSON(HandLostMessage{Type: MessageTypeHandLost}))
	assert.Eventually(t, func() bool {
		snap := state.Snapshot()
		return snap.Pointer == nil && !snap.Shooting
	}, 2*time.Second, 5*time.Millisecond)
}

func TestVoiceMessageIsAcknowledged(t *testing.T) {
	state, _, srv := newTestBridge(t)
	conn := dial(t, srv)

	require.NoError(t, conn.WriteJSON(VoiceMessage{Type: MessageTypeVoice, Transcript: "a big Sphere"}))
	var ack AckMessage
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&ack))
	assert.Equal(t, MessageTypeAck, ack.Type)
	assert.True(t, ack.Recognized)
	assert.Equal(t, "sphere", ack.Word)

	snap := state.Snapshot()
	assert.Equal(t, "sphere", snap.Word)
	assert.Equal(t, uint64(1), snap.WordSeq)

	require.NoError(t, conn.WriteJSON(VoiceMessage{Type: MessageTypeVoice, Transcript: "banana"}))
	require.NoError(t, conn.ReadJSON(&ack))
	assert.False(t, ack.Recognized)
	assert.Equal(t, uint64(1), state.Snapshot().WordSeq)
}

func TestUnknownMessageGetsError(t *testing.T) {
	_, _, srv := newTestBridge(t)
	conn := dial(t, srv)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"teleport"}`)))
	var reply ErrorMessage
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, MessageTypeError, reply.Type)
	assert.Contains(t, reply.Error, "teleport")
}

func TestShortLandmarksRejected(t *testing.T) {
	_, _, srv := newTestBridge(t)
	conn := dial(t, srv)

	require.NoError(t, conn.WriteJSON(LandmarksMessage{Type: MessageTypeLandmarks, Landmarks: make([]input.Landmark, 3)}))
	var reply ErrorMessage
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&reply))
	assert.Equal(t, MessageTypeError, reply.Type)
}

func TestDisconnectClearsHand(t *testing.T) {
	state, b, srv := newTestBridge(t)
	conn := dial(t, srv)

	require.NoError(t, conn.WriteJSON(HandMessage{Type: MessageTypeHand, X: 0.5, Y: 0.5}))
	assert.Eventually(t, func() bool { return state.Snapshot().Pointer != nil }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, b.Clients())

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool {
		return state.Snapshot().Pointer == nil && b.Clients() == 0
	}, 2*time.Second, 5*time.Millisecond)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	b := NewServer(input.NewState(), WithAddr(addr), WithLogger(quietLogger()))
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- b.ListenAndServe(ctx) }()

	assert.Eventually(t, func() bool {
		c, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		c.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("bridge did not stop")
	}
}

func TestListenAndServeClosesTrackersOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	state := input.NewState(input.WithViewport(common.Viewport{Width: 1000, Height: 500}))
	b := NewServer(state, WithAddr(addr), WithLogger(quietLogger()), WithReadTimeout(time.Minute))
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- b.ListenAndServe(ctx) }()

	var conn *websocket.Conn
	require.Eventually(t, func() bool {
		c, _, err := websocket.DefaultDialer.Dial("ws://"+addr+DefaultPath, nil)
		if err != nil {
			return false
		}
		conn = c
		return true
	}, 2*time.Second, 10*time.Millisecond)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(HandMessage{Type: MessageTypeHand, X: 0.5, Y: 0.5}))
	require.Eventually(t, func() bool { return b.Clients() == 1 && state.Snapshot().Pointer != nil }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("bridge kept running with a connected tracker")
	}

	// Handlers have finished by the time ListenAndServe returns.
	assert.Zero(t, b.Clients())
	assert.Nil(t, state.Snapshot().Pointer)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestParseMessage(t *testing.T) {
	msg, err := ParseMessage([]byte(`{"type":"gesture","shooting":true}`))
	require.NoError(t, err)
	g, ok := msg.(*GestureMessage)
	require.True(t, ok)
	assert.True(t, g.Shooting)

	_, err = ParseMessage([]byte(`not json`))
	assert.Error(t, err)
}
