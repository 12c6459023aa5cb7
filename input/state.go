// Package input is the latest-observed-state surface between asynchronous input sources (window
// callbacks, the WebSocket bridge) and the frame tick. Writers overwrite; the tick reads one Snapshot
// per frame, so signals that arrive between ticks coalesce.
package input

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/cognitive-cannon/common"
)

// Snapshot is one consistent read of the input state.
type Snapshot struct {
	// Pointer is the current aim point in framebuffer pixels, or nil if no pointer is present.
	Pointer *common.ScreenPoint
	// Shooting is the level of the shoot signal.
	Shooting bool
	// Word is the most recently recognized vocabulary word.
	Word string
	// WordSeq increases by one for every recognized word, so a reader can tell a repeated word from
	// a stale one.
	WordSeq uint64
	// HandDetected reports whether the hand tracker currently sees a hand.
	HandDetected bool
}

// State holds the latest observed input. All methods are safe for concurrent use.
type State interface {
	// SetPointer sets the pointer position in framebuffer pixels without smoothing.
	SetPointer(p common.ScreenPoint)

	// SetHandPointer sets the pointer from a normalized hand tracker position. X is mirrored so that
	// moving the hand right moves the pointer right in a front-facing camera, and the result is
	// scaled to the viewport and smoothed.
	//
	// Parameters:
	//   - nx, ny: normalized camera image coordinates in [0, 1]
	SetHandPointer(nx, ny float32)

	// ClearPointer removes the pointer, e.g. when the cursor leaves the window or the hand is lost.
	ClearPointer()

	// SetHandLost clears the hand pointer and the shoot signal and resets smoothing.
	SetHandLost()

	// SetShooting sets the level of the shoot signal.
	SetShooting(shooting bool)

	// RecognizeTranscript extracts the first vocabulary word of a transcript and pushes it.
	//
	// Returns:
	//   - bool: true if a word was recognized
	RecognizeTranscript(transcript string) bool

	// PushWord records a recognized word.
	PushWord(word string)

	// SetViewport sets the pixel size hand positions are scaled to.
	SetViewport(v common.Viewport)

	// Snapshot returns a copy of the current state.
	Snapshot() Snapshot
}

type inputState struct {
	mu *sync.Mutex

	logger   *slog.Logger
	smoother *Smoother
	viewport common.Viewport

	pointer      common.ScreenPoint
	hasPointer   bool
	shooting     bool
	word         string
	wordSeq      uint64
	handDetected bool
}

var _ State = &inputState{}

// NewState creates an empty State.
//
// Parameters:
//   - opts: builder options
//
// Returns:
//   - State: the state
func NewState(opts ...StateBuilderOption) State {
	s := &inputState{
		mu:       &sync.Mutex{},
		logger:   slog.Default(),
		smoother: NewSmoother(DefaultSmoothing),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "input")
	return s
}

func (s *inputState) SetPointer(p common.ScreenPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointer = p
	s.hasPointer = true
}

func (s *inputState) SetHandPointer(nx, ny float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.viewport.Empty() {
		return
	}
	raw := common.ScreenPoint{
		X: (1 - common.Clamp(nx, 0, 1)) * float32(s.viewport.Width),
		Y: common.Clamp(ny, 0, 1) * float32(s.viewport.Height),
	}
	s.pointer = s.smoother.Apply(raw)
	s.hasPointer = true
	s.handDetected = true
}

func (s *inputState) ClearPointer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasPointer = false
}

func (s *inputState) SetHandLost() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hasPointer = false
	s.shooting = false
	s.handDetected = false
	s.smoother.Reset()
}

func (s *inputState) SetShooting(shooting bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shooting = shooting
}

func (s *inputState) RecognizeTranscript(transcript string) bool {
	cmd, ok := MatchTranscript(transcript)
	if !ok {
		s.logger.Debug("transcript ignored", "transcript", transcript)
		return false
	}
	s.PushWord(cmd.Word)
	return true
}

func (s *inputState) PushWord(word string) {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.word = w
	s.wordSeq++
}

func (s *inputState) SetViewport(v common.Viewport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = v
}

func (s *inputState) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Shooting:     s.shooting,
		Word:         s.word,
		WordSeq:      s.wordSeq,
		HandDetected: s.handDetected,
	}
	if s.hasPointer {
		p := s.pointer
		snap.Pointer = &p
	}
	return snap
}

// StateBuilderOption is a functional option for configuring a State.
type StateBuilderOption func(s *inputState)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) StateBuilderOption {
	return func(s *inputState) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSmoothing sets the hand pointer smoothing factor.
func WithSmoothing(factor float32) StateBuilderOption {
	return func(s *inputState) {
		s.smoother = NewSmoother(factor)
	}
}

// WithViewport sets the initial viewport.
func WithViewport(v common.Viewport) StateBuilderOption {
	return func(s *inputState) {
		s.viewport = v
	}
}
