// Package state holds the score, wave and game-over flag together with the difficulty curve derived
// from them.
package state

import (
	"sync"

	"github.com/Carmen-Shannon/cognitive-cannon/game/shape"
)

// DefaultWaveSize is the number of destroyed shapes per wave.
const DefaultWaveSize = 10

type gameState struct {
	mu *sync.Mutex

	score           int
	shapesDestroyed int
	gameOver        bool
	elapsed         float32

	waveSize int
	curve    Curve
}

// GameState tracks the player's progress. Score and the destroy counter never decrease, and game over
// is one-way until Reset.
type GameState interface {
	// AddScore adds points and counts one destroyed shape. Negative points are treated as zero.
	//
	// Returns:
	//   - bool: true if this destroy started a new wave
	AddScore(points int) bool

	// Score returns the current score.
	Score() int

	// Wave returns 1 + floor(shapesDestroyed / waveSize).
	Wave() int

	// ShapesDestroyed returns the number of destroyed shapes.
	ShapesDestroyed() int

	// IsGameOver reports whether the game has ended.
	IsGameOver() bool

	// SetGameOver ends the game. There is no way back short of Reset.
	SetGameOver()

	// Advance adds dt seconds of playing time.
	Advance(dt float32)

	// Elapsed returns the accumulated playing time in seconds.
	Elapsed() float32

	// SpawnRate returns the seconds between spawns for the current progress.
	SpawnRate() float32

	// ShapeSpeed returns the approach speed for the current progress.
	ShapeSpeed() float32

	// Difficulty returns SpawnRate and ShapeSpeed together.
	Difficulty() shape.Difficulty

	// SetCurve replaces the difficulty curve.
	SetCurve(c Curve)

	// Reset zeroes all counters and clears game over.
	Reset()
}

var _ GameState = &gameState{}

// NewGameState creates a GameState at wave 1 using the wave curve with DefaultParams.
func NewGameState(options ...GameStateBuilderOption) GameState {
	g := &gameState{
		mu:       &sync.Mutex{},
		waveSize: DefaultWaveSize,
		curve:    WaveCurve{Params: DefaultParams()},
	}
	for _, option := range options {
		option(g)
	}
	return g
}

func (g *gameState) AddScore(points int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	before := g.wave()
	g.score += max(points, 0)
	g.shapesDestroyed++
	return g.wave() != before
}

func (g *gameState) Score() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.score
}

func (g *gameState) Wave() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.wave()
}

func (g *gameState) ShapesDestroyed() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.shapesDestroyed
}

func (g *gameState) IsGameOver() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gameOver
}

func (g *gameState) SetGameOver() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gameOver = true
}

func (g *gameState) Advance(dt float32) {
	if dt <= 0 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.elapsed += dt
}

func (g *gameState) Elapsed() float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.elapsed
}

func (g *gameState) SpawnRate() float32 {
	return g.Difficulty().SpawnInterval
}

func (g *gameState) ShapeSpeed() float32 {
	return g.Difficulty().Speed
}

func (g *gameState) Difficulty() shape.Difficulty {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.curve.Difficulty(g.wave(), g.elapsed)
}

func (g *gameState) SetCurve(c Curve) {
	if c == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.curve = c
}

func (g *gameState) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.score = 0
	g.shapesDestroyed = 0
	g.gameOver = false
	g.elapsed = 0
}

func (g *gameState) wave() int {
	return 1 + g.shapesDestroyed/g.waveSize
}

// GameStateBuilderOption is a functional option for configuring a GameState.
type GameStateBuilderOption func(*gameState)

// WithWaveSize sets the number of destroyed shapes per wave.
func WithWaveSize(n int) GameStateBuilderOption {
	return func(g *gameState) {
		if n > 0 {
			g.waveSize = n
		}
	}
}

// WithCurve sets the difficulty curve.
func WithCurve(c Curve) GameStateBuilderOption {
	return func(g *gameState) {
		if c != nil {
			g.curve = c
		}
	}
}
