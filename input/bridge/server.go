// Package bridge accepts hand tracker and speech recognizer events over WebSocket and writes them
// into an input.State.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Carmen-Shannon/cognitive-cannon/input"
	"github.com/gorilla/websocket"
)

// DefaultPath is the HTTP path the WebSocket endpoint is served on.
const DefaultPath = "/ws"

// Server is the WebSocket input bridge.
type Server interface {
	// Handler returns the http.Handler serving the WebSocket endpoint.
	Handler() http.Handler

	// ListenAndServe serves on the configured address until ctx is cancelled. On cancel it closes every
	// tracker connection and waits for their handlers before returning; the server cannot be reused.
	//
	// Returns:
	//   - error: nil after a clean shutdown, otherwise the listen or serve error
	ListenAndServe(ctx context.Context) error

	// Clients returns the number of connected clients.
	Clients() int
}

type server struct {
	mu *sync.Mutex

	state    input.State
	logger   *slog.Logger
	addr     string
	path     string
	upgrader websocket.Upgrader

	readTimeout time.Duration

	// conns are the live tracker connections; handlers counts their goroutines.
	conns    map[*websocket.Conn]struct{}
	handlers sync.WaitGroup
	closed   bool
}

var _ Server = &server{}

// NewServer creates a bridge writing into state.
//
// Parameters:
//   - state: the input state to update
//   - opts: builder options
//
// Returns:
//   - Server: the bridge
func NewServer(state input.State, opts ...ServerBuilderOption) Server {
	s := &server{
		mu:     &sync.Mutex{},
		state:  state,
		logger: slog.Default(),
		addr:   "127.0.0.1:8765",
		path:   DefaultPath,
		upgrader: websocket.Upgrader{
			// Trackers run as local pages or processes on other origins.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		readTimeout: 30 * time.Second,
		conns:       make(map[*websocket.Conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "bridge")
	return s
}

func (s *server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.handleWS)
	return mux
}

func (s *server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("bridge listen on %s: %w", s.addr, err)
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("input bridge listening", "addr", ln.Addr().String(), "path", s.path)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.closeConns()
		if err != nil {
			return fmt.Errorf("bridge shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	if !s.track(conn) {
		return
	}
	defer s.untrack(conn)

	remote := conn.RemoteAddr().String()
	s.logger.Info("tracker connected", "remote", remote)

	for {
		if s.readTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("tracker read failed", "remote", remote, "error", err)
			}
			break
		}

		reply, err := s.handleMessage(data)
		if err != nil {
			s.logger.Debug("tracker message rejected", "remote", remote, "error", err)
			reply = ErrorMessage{Type: MessageTypeError, Error: err.Error()}
		}
		if reply != nil {
			if err := conn.WriteJSON(reply); err != nil {
				s.logger.Warn("tracker write failed", "remote", remote, "error", err)
				break
			}
		}
	}

	// The tracker is gone, so whatever it last reported is stale.
	s.state.SetHandLost()
	s.logger.Info("tracker disconnected", "remote", remote)
}

// handleMessage applies one frame to the input state and returns an optional reply.
func (s *server) handleMessage(data []byte) (any, error) {
	msg, err := ParseMessage(data)
	if err != nil {
		return nil, err
	}

	switch m := msg.(type) {
	case *HandMessage:
		s.state.SetHandPointer(m.X, m.Y)
		if m.Shooting != nil {
			s.state.SetShooting(*m.Shooting)
		}
	case *HandLostMessage:
		s.state.SetHandLost()
	case *LandmarksMessage:
		x, y, ok := input.AimPoint(m.Landmarks)
		if !ok {
			return nil, fmt.Errorf("expected %d landmarks, got %d", input.HandLandmarkCount, len(m.Landmarks))
		}
		s.state.SetHandPointer(x, y)
		s.state.SetShooting(input.IsShootingGesture(m.Landmarks))
	case *GestureMessage:
		s.state.SetShooting(m.Shooting)
	case *VoiceMessage:
		cmd, ok := input.MatchTranscript(m.Transcript)
		if ok {
			s.state.PushWord(cmd.Word)
		}
		return AckMessage{Type: MessageTypeAck, Recognized: ok, Word: cmd.Word}, nil
	}
	return nil, nil
}

// track registers a connection. It returns false once the server is closing.
func (s *server) track(conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	s.handlers.Add(1)
	return true
}

func (s *server) untrack(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	s.handlers.Done()
}

// closeConns sends a going-away close frame to every tracker, closes the connections so their read
// loops fail, and waits for the handlers to finish. Hijacked connections are invisible to
// http.Server.Shutdown.
func (s *server) closeConns() {
	s.mu.Lock()
	s.closed = true
	conns := make([]*websocket.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "bridge shutting down")
	for _, c := range conns {
		_ = c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		_ = c.Close()
	}
	s.handlers.Wait()
}

// ServerBuilderOption is a functional option for configuring a Server.
type ServerBuilderOption func(s *server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ServerBuilderOption {
	return func(s *server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAddr sets the listen address for ListenAndServe.
func WithAddr(addr string) ServerBuilderOption {
	return func(s *server) {
		s.addr = addr
	}
}

// WithPath sets the WebSocket endpoint path.
func WithPath(path string) ServerBuilderOption {
	return func(s *server) {
		if path != "" {
			s.path = path
		}
	}
}

// WithReadTimeout sets how long a silent client is kept. Zero disables the deadline.
func WithReadTimeout(d time.Duration) ServerBuilderOption {
	return func(s *server) {
		s.readTimeout = d
	}
}
