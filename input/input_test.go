package input

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/cognitive-cannon/common"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		word string
		kind CommandKind
		ok   bool
	}{
		{"cube", CommandShape, true},
		{" Sphere ", CommandShape, true},
		{"BANG", CommandFire, true},
		{"shoot", CommandFire, true},
		{"start", CommandStart, true},
		{"restart", CommandRestart, true},
		{"hello", CommandNone, false},
		{"", CommandNone, false},
	}
	for _, c := range cases {
		cmd, ok := ParseCommand(c.word)
		assert.Equal(t, c.ok, ok, c.word)
		assert.Equal(t, c.kind, cmd.Kind, c.word)
	}

	cmd, ok := ParseCommand("Torus")
	require.True(t, ok)
	assert.Equal(t, geometry.ShapeTorus, cmd.Shape)
	assert.Equal(t, "torus", cmd.Word)
}

func TestMatchTranscriptFirstVocabularyWord(t *testing.T) {
	cmd, ok := MatchTranscript("uh the Pyramid, then cube")
	require.True(t, ok)
	assert.Equal(t, CommandShape, cmd.Kind)
	assert.Equal(t, geometry.ShapePyramid, cmd.Shape)

	_, ok = MatchTranscript("nothing useful here")
	assert.False(t, ok)
}

func TestSmoother(t *testing.T) {
	s := NewSmoother(0.3)
	first := s.Apply(common.ScreenPoint{X: 100, Y: 100})
	assert.Equal(t, common.ScreenPoint{X: 100, Y: 100}, first)

	next := s.Apply(common.ScreenPoint{X: 200, Y: 0})
	assert.InDelta(t, 130, next.X, 1e-4)
	assert.InDelta(t, 70, next.Y, 1e-4)

	s.Reset()
	assert.Equal(t, common.ScreenPoint{X: 5, Y: 5}, s.Apply(common.ScreenPoint{X: 5, Y: 5}))
}

func TestSmootherInvalidFactor(t *testing.T) {
	assert.Equal(t, float32(DefaultSmoothing), NewSmoother(0).Factor())
	assert.Equal(t, float32(DefaultSmoothing), NewSmoother(2).Factor())
	assert.Equal(t, float32(1), NewSmoother(1).Factor())
}

func TestStatePointer(t *testing.T) {
	s := NewState()
	assert.Nil(t, s.Snapshot().Pointer)

	s.SetPointer(common.ScreenPoint{X: 10, Y: 20})
	snap := s.Snapshot()
	require.NotNil(t, snap.Pointer)
	assert.Equal(t, common.ScreenPoint{X: 10, Y: 20}, *snap.Pointer)

	s.ClearPointer()
	assert.Nil(t, s.Snapshot().Pointer)
}

func TestStateHandPointerMirrorsX(t *testing.T) {
	s := NewState(WithViewport(common.Viewport{Width: 1000, Height: 500}))

	s.SetHandPointer(0.25, 0.5)
	snap := s.Snapshot()
	require.NotNil(t, snap.Pointer)
	assert.InDelta(t, 750, snap.Pointer.X, 1e-3)
	assert.InDelta(t, 250, snap.Pointer.Y, 1e-3)
	assert.True(t, snap.HandDetected)

	s.SetShooting(true)
	s.SetHandLost()
	snap = s.Snapshot()
	assert.Nil(t, snap.Pointer)
	assert.False(t, snap.Shooting)
	assert.False(t, snap.HandDetected)
}

func TestStateHandPointerWithoutViewportIsIgnored(t *testing.T) {
	s := NewState()
	s.SetHandPointer(0.5, 0.5)
	assert.Nil(t, s.Snapshot().Pointer)
}

func TestStateWords(t *testing.T) {
	s := NewState()
	assert.True(t, s.RecognizeTranscript("Cube"))
	assert.False(t, s.RecognizeTranscript("banana"))
	s.PushWord("cube")

	snap := s.Snapshot()
	assert.Equal(t, "cube", snap.Word)
	assert.Equal(t, uint64(2), snap.WordSeq)
}

func TestStateConcurrentWriters(t *testing.T) {
	s := NewState(WithViewport(common.Viewport{Width: 100, Height: 100}))
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				s.SetHandPointer(float32(j)/100, 0.5)
				s.SetShooting(j%2 == 0)
				s.PushWord("fire")
				_ = s.Snapshot()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(800), s.Snapshot().WordSeq)
}

func TestShootingGesture(t *testing.T) {
	lm := make([]Landmark, HandLandmarkCount)
	// finger gun: index up, others curled, thumb out
	lm[landmarkIndexMCP] = Landmark{X: 0.5, Y: 0.5}
	lm[landmarkIndexTip] = Landmark{X: 0.5, Y: 0.2}
	lm[landmarkMiddlePIP] = Landmark{Y: 0.5}
	lm[landmarkMiddleTip] = Landmark{Y: 0.6}
	lm[landmarkRingPIP] = Landmark{Y: 0.5}
	lm[landmarkRingTip] = Landmark{Y: 0.6}
	lm[landmarkPinkyPIP] = Landmark{Y: 0.5}
	lm[landmarkPinkyTip] = Landmark{Y: 0.6}
	lm[landmarkThumbIP] = Landmark{X: 0.4}
	lm[landmarkThumbTip] = Landmark{X: 0.3}
	assert.True(t, IsShootingGesture(lm))

	x, y, ok := AimPoint(lm)
	assert.True(t, ok)
	assert.Equal(t, float32(0.5), x)
	assert.Equal(t, float32(0.2), y)

	lm[landmarkMiddleTip] = Landmark{Y: 0.1}
	assert.False(t, IsShootingGesture(lm))
	assert.False(t, IsShootingGesture(lm[:5]))
}
