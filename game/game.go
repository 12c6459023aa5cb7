// Package game is the orchestrator. One Tick samples input, advances the simulation, resolves
// targeting and hits, renders the snapshot and updates the HUD, in that order.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/cognitive-cannon/common"
	"github.com/Carmen-Shannon/cognitive-cannon/config"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/scene"
	"github.com/Carmen-Shannon/cognitive-cannon/game/hud"
	"github.com/Carmen-Shannon/cognitive-cannon/game/particle"
	"github.com/Carmen-Shannon/cognitive-cannon/game/shape"
	"github.com/Carmen-Shannon/cognitive-cannon/game/state"
	"github.com/Carmen-Shannon/cognitive-cannon/game/targeting"
	"github.com/Carmen-Shannon/cognitive-cannon/input"
)

// Defaults for the scoring rules.
const (
	DefaultPointsPerShape = 100
	DefaultGameOverDepth  = 2.0
)

// FrameRenderer draws one entity snapshot.
type FrameRenderer interface {
	Render(frame scene.Frame) error
}

// Sounder plays the shot sound without blocking.
type Sounder interface {
	PlayShootSound()
}

// GameContext is everything a tick reads or mutates. Components receive what they need from it
// through their own calls; none of them reach into another.
type GameContext struct {
	Spawner   shape.Spawner
	Particles particle.System
	Targeting targeting.Resolver
	State     state.GameState
	Input     input.State
	Renderer  FrameRenderer
	// Audio and Display are optional.
	Audio   Sounder
	Display hud.Display
}

func (c GameContext) validate() error {
	var missing []error
	if c.Spawner == nil {
		missing = append(missing, errors.New("spawner"))
	}
	if c.Particles == nil {
		missing = append(missing, errors.New("particle system"))
	}
	if c.Targeting == nil {
		missing = append(missing, errors.New("targeting resolver"))
	}
	if c.State == nil {
		missing = append(missing, errors.New("game state"))
	}
	if c.Input == nil {
		missing = append(missing, errors.New("input state"))
	}
	if c.Renderer == nil {
		missing = append(missing, errors.New("renderer"))
	}
	if len(missing) > 0 {
		return fmt.Errorf("game: missing collaborators: %w", errors.Join(missing...))
	}
	return nil
}

// Game drives the frame loop logic. Tick, Start and Restart must be called from the frame goroutine;
// Phase, TargetedID, Snapshot and ApplyConfig are safe from any goroutine.
type Game interface {
	// Tick runs one frame.
	//
	// Parameters:
	//   - dt: elapsed seconds since the previous tick
	//
	// Returns:
	//   - error: the render error, if the frame could not be drawn; simulation errors are only logged
	Tick(dt float32) error

	// Phase returns the current phase.
	Phase() state.Phase

	// Start resets the score and all entities and enters the playing phase.
	Start()

	// Restart clears all entities and returns to the ready phase.
	Restart()

	// TargetedID returns the ID of the shape targeted in the last tick, or 0.
	TargetedID() uint64

	// ApplyConfig queues the live-tunable settings (hit radius, points per shape, game over depth and
	// the difficulty curve) for the top of the next tick.
	ApplyConfig(cfg config.Config)

	// Snapshot returns the HUD view of the last tick.
	Snapshot() hud.Snapshot
}

type game struct {
	mu *sync.Mutex

	ctx    GameContext
	logger *slog.Logger

	phase          state.Phase
	targetedID     uint64
	targetType     string
	lastShooting   bool
	lastWordSeq    uint64
	lastWord       string
	handDetected   bool
	time           float32
	pointsPerShape int
	gameOverDepth  float32

	pending *config.Config
}

var _ Game = &game{}

// NewGame creates a Game in the ready phase.
//
// Parameters:
//   - ctx: the collaborators; Audio and Display may be nil
//   - options: functional options to configure the game
//
// Returns:
//   - Game: the game
//   - error: an error naming any missing required collaborator
func NewGame(ctx GameContext, options ...GameBuilderOption) (Game, error) {
	if err := ctx.validate(); err != nil {
		return nil, err
	}
	g := &game{
		mu:             &sync.Mutex{},
		ctx:            ctx,
		logger:         slog.Default(),
		phase:          state.PhaseReady,
		pointsPerShape: DefaultPointsPerShape,
		gameOverDepth:  DefaultGameOverDepth,
	}
	for _, opt := range options {
		opt(g)
	}
	g.logger = g.logger.With("component", "game")
	return g, nil
}

func (g *game) Tick(dt float32) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if dt < 0 {
		dt = 0
	}
	g.time += dt
	g.applyPending()

	snap := g.ctx.Input.Snapshot()
	g.handDetected = snap.HandDetected
	shot := snap.Shooting && !g.lastShooting
	g.lastShooting = snap.Shooting

	var cmd input.Command
	var hasCmd bool
	if snap.WordSeq != g.lastWordSeq {
		g.lastWordSeq = snap.WordSeq
		g.lastWord = snap.Word
		cmd, hasCmd = input.ParseCommand(snap.Word)
	}

	switch g.phase {
	case state.PhaseReady:
		if shot || (hasCmd && (cmd.Kind == input.CommandFire || cmd.Kind == input.CommandStart)) {
			g.playShot()
			g.start()
		}
	case state.PhaseGameOver:
		if shot || (hasCmd && cmd.Kind == input.CommandRestart) {
			g.restart()
		}
	case state.PhasePlaying:
		g.simulate(dt, snap.Pointer, shot, cmd, hasCmd)
	}

	frame := scene.Frame{Time: g.time}
	if g.phase != state.PhaseReady {
		frame.Shapes = g.ctx.Spawner.Shapes()
		frame.Particles = g.ctx.Particles.Particles()
		frame.TargetedID = g.targetedID
	}
	renderErr := g.ctx.Renderer.Render(frame)

	if g.ctx.Display != nil {
		g.ctx.Display.Show(hud.Present(g.snapshot()))
	}

	if renderErr != nil {
		return fmt.Errorf("game: render: %w", renderErr)
	}
	return nil
}

// simulate runs one playing tick: spawn and reap, game over check, particles, targeting, hits.
func (g *game) simulate(dt float32, pointer *common.ScreenPoint, shot bool, cmd input.Command, hasCmd bool) {
	g.ctx.State.Advance(dt)
	g.ctx.Spawner.Update(dt, g.ctx.State.Difficulty())

	shapes := g.ctx.Spawner.Shapes()
	for _, sh := range shapes {
		if !sh.Removed() && sh.Depth() > g.gameOverDepth {
			g.ctx.State.SetGameOver()
			g.phase = state.PhaseGameOver
			g.clearTarget()
			g.logger.Info("game over",
				"score", g.ctx.State.Score(),
				"wave", g.ctx.State.Wave(),
				"destroyed", g.ctx.State.ShapesDestroyed(),
				"shape_id", sh.ID,
			)
			return
		}
	}

	g.ctx.Particles.Update(dt)

	target, ok := g.ctx.Targeting.Raycast(pointer, shapes)
	if ok {
		g.targetedID = target.ID
		g.targetType = target.Type.String()
	} else {
		g.clearTarget()
	}

	fire := shot || (hasCmd && cmd.Kind == input.CommandFire)
	if fire {
		g.playShot()
		if ok {
			g.destroy(target)
		}
	}

	if hasCmd && cmd.Kind == input.CommandShape {
		g.playShot()
		switch {
		case !ok:
			g.logger.Debug("voice miss: nothing targeted", "word", cmd.Word)
		case target.Removed():
		case target.Type != cmd.Shape:
			g.logger.Debug("voice miss: wrong shape", "word", cmd.Word, "target", target.Type.String())
		default:
			g.destroy(target)
		}
	}
}

// destroy spawns the explosion, marks the shape for the next sweep and scores the hit.
func (g *game) destroy(target *shape.Shape) {
	if !g.ctx.Spawner.MarkForRemoval(target.ID) {
		return
	}
	g.ctx.Particles.CreateExplosion(target.Position, target.Color)
	if g.ctx.State.AddScore(g.pointsPerShape) {
		g.logger.Info("wave reached", "wave", g.ctx.State.Wave(), "score", g.ctx.State.Score())
	}
	if g.targetedID == target.ID {
		g.clearTarget()
	}
}

func (g *game) playShot() {
	if g.ctx.Audio != nil {
		g.ctx.Audio.PlayShootSound()
	}
}

func (g *game) clearTarget() {
	g.targetedID = 0
	g.targetType = ""
}

func (g *game) Phase() state.Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

func (g *game) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.start()
}

func (g *game) start() {
	g.ctx.State.Reset()
	g.ctx.Spawner.Reset()
	g.ctx.Particles.Reset()
	g.clearTarget()
	g.phase = state.PhasePlaying
	g.logger.Info("game started")
}

func (g *game) Restart() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.restart()
}

func (g *game) restart() {
	g.ctx.Spawner.Reset()
	g.ctx.Particles.Reset()
	g.clearTarget()
	g.phase = state.PhaseReady
	g.logger.Info("returned to start screen")
}

func (g *game) TargetedID() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.targetedID
}

func (g *game) ApplyConfig(cfg config.Config) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pending = &cfg
}

func (g *game) applyPending() {
	if g.pending == nil {
		return
	}
	cfg := *g.pending
	g.pending = nil

	g.ctx.Targeting.SetHitRadius(cfg.Game.HitRadius)
	g.pointsPerShape = cfg.Game.PointsPerShape
	g.gameOverDepth = cfg.Game.GameOverDepth
	g.ctx.State.SetCurve(CurveFromConfig(cfg.Difficulty))
	g.logger.Info("config applied",
		"hit_radius", cfg.Game.HitRadius,
		"points_per_shape", cfg.Game.PointsPerShape,
		"game_over_depth", cfg.Game.GameOverDepth,
		"curve", cfg.Difficulty.Curve,
	)
}

func (g *game) Snapshot() hud.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshot()
}

func (g *game) snapshot() hud.Snapshot {
	live := 0
	for _, sh := range g.ctx.Spawner.Shapes() {
		if !sh.Removed() {
			live++
		}
	}
	return hud.Snapshot{
		Phase:           g.phase,
		Score:           g.ctx.State.Score(),
		Wave:            g.ctx.State.Wave(),
		ShapesDestroyed: g.ctx.State.ShapesDestroyed(),
		LiveShapes:      live,
		LiveParticles:   g.ctx.Particles.Len(),
		Target:          g.targetType,
		LastWord:        g.lastWord,
		HandDetected:    g.handDetected,
	}
}

// CurveFromConfig builds the difficulty curve described by a config section.
func CurveFromConfig(d config.Difficulty) state.Curve {
	params := state.Params{
		BaseInterval: d.BaseInterval,
		IntervalStep: d.IntervalStep,
		MinInterval:  d.MinInterval,
		BaseSpeed:    d.BaseSpeed,
		SpeedStep:    d.SpeedStep,
		MaxSpeed:     d.MaxSpeed,
	}
	if state.CurveName(d.Curve) == state.CurveElapsed {
		return state.ElapsedCurve{Params: params, SecondsPerStep: d.SecondsPerStep}
	}
	return state.WaveCurve{Params: params}
}

// GameBuilderOption is a functional option for configuring a Game.
type GameBuilderOption func(*game)

// WithLogger sets the logger for lifecycle events.
func WithLogger(logger *slog.Logger) GameBuilderOption {
	return func(g *game) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithPointsPerShape sets the score for one destroyed shape.
func WithPointsPerShape(points int) GameBuilderOption {
	return func(g *game) {
		if points >= 0 {
			g.pointsPerShape = points
		}
	}
}

// WithGameOverDepth sets the depth past which a live shape ends the game.
func WithGameOverDepth(depth float32) GameBuilderOption {
	return func(g *game) {
		g.gameOverDepth = depth
	}
}
