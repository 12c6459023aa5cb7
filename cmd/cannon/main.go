// Command cannon runs Cognitive Cannon: shapes fly at the camera and the player destroys them by
// pointing and shooting, or by naming the targeted shape.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/Carmen-Shannon/cognitive-cannon/audio"
	"github.com/Carmen-Shannon/cognitive-cannon/config"
	"github.com/Carmen-Shannon/cognitive-cannon/engine"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/camera"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/geometry"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/renderer"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/scene"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/window"
	"github.com/Carmen-Shannon/cognitive-cannon/game"
	"github.com/Carmen-Shannon/cognitive-cannon/game/hud"
	"github.com/Carmen-Shannon/cognitive-cannon/game/particle"
	"github.com/Carmen-Shannon/cognitive-cannon/game/shape"
	"github.com/Carmen-Shannon/cognitive-cannon/game/state"
	"github.com/Carmen-Shannon/cognitive-cannon/game/targeting"
	"github.com/Carmen-Shannon/cognitive-cannon/input"
	"github.com/Carmen-Shannon/cognitive-cannon/input/bridge"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file; empty uses the defaults")
	logLevel := flag.String("log-level", "", "override the configured log level (debug, info, warn, error)")
	seed := flag.Uint64("seed", 0, "seed for shape and particle randomness; 0 picks one at random")
	watch := flag.Bool("watch", true, "apply config file changes while running")
	flag.Parse()

	if err := run(*configPath, *logLevel, *seed, *watch); err != nil {
		slog.Error("cannon exited with error", "error", err)
		os.Exit(1)
	}
}

func run(configPath, logLevel string, seed uint64, watch bool) error {
	// ── Config + Logging ────────────────────────────────────────────
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr, cfg.Log, logLevel)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// ── Engine + Window ─────────────────────────────────────────────
	win, err := window.NewWindow(
		window.WithTitle(cfg.Window.Title),
		window.WithWidth(cfg.Window.Width),
		window.WithHeight(cfg.Window.Height),
	)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer win.Close()

	eng, err := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithTickRate(cfg.Engine.TickRate),
		engine.WithProfiling(cfg.Engine.Profiling),
		engine.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	// ── Renderer + Camera + Scene ───────────────────────────────────
	presentMode := renderer.PresentModeVSync
	if !cfg.Renderer.VSync {
		presentMode = renderer.PresentModeUncapped
	}
	msaa := renderer.MSAA4x
	if cfg.Renderer.MSAA == 1 {
		msaa = renderer.MSAAOff
	}
	r, err := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		win,
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(msaa),
		renderer.WithForceSoftwareRenderer(cfg.Renderer.ForceSoftware),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	defer r.Release()

	cam := camera.NewCamera(
		camera.WithFov(cfg.Camera.FovDegrees*math.Pi/180),
		camera.WithClip(cfg.Camera.Near, cfg.Camera.Far),
	)
	sc, err := scene.NewScene(r, cam, scene.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("create scene: %w", err)
	}
	defer sc.Release()

	// ── Simulation ──────────────────────────────────────────────────
	if seed == 0 {
		seed = rand.Uint64()
	}
	logger.Info("starting", "config", configPath, "seed", seed, "viewport", fmt.Sprintf("%dx%d", sc.Viewport().Width, sc.Viewport().Height))
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	spawner := shape.NewSpawner(sc, placementFromConfig(cfg.Spawner, cam),
		shape.WithLogger(logger),
		shape.WithRand(rng),
		shape.WithMeshCache(geometry.NewCache()),
		shape.WithRotationRates(cfg.Spawner.RotationRateX, cfg.Spawner.RotationRateY),
		shape.WithThreatRange(cfg.Spawner.ThreatFar, cfg.Spawner.ThreatNear),
		shape.WithDespawnDepth(cfg.Spawner.DespawnDepth),
	)
	defer spawner.Reset()

	particles := particle.NewSystem(sc,
		particle.WithLogger(logger),
		particle.WithRand(rng),
		particle.WithCount(cfg.Particles.Count),
		particle.WithPhysics(cfg.Particles.Gravity, cfg.Particles.Decay),
		particle.WithSpread(cfg.Particles.MinSpeed, cfg.Particles.SpeedRange, cfg.Particles.MinSize, cfg.Particles.SizeRange),
	)
	defer particles.Reset()

	gameState := state.NewGameState(
		state.WithWaveSize(cfg.Difficulty.WaveSize),
		state.WithCurve(game.CurveFromConfig(cfg.Difficulty)),
	)

	// ── Input ───────────────────────────────────────────────────────
	in := input.NewState(
		input.WithLogger(logger),
		input.WithSmoothing(cfg.Input.Smoothing),
		input.WithViewport(sc.Viewport()),
	)
	bindInput(win, in)

	if cfg.Input.BridgeAddr != "" {
		server := bridge.NewServer(in, bridge.WithLogger(logger), bridge.WithAddr(cfg.Input.BridgeAddr))
		go func() {
			if err := server.ListenAndServe(ctx); err != nil {
				logger.Warn("input bridge stopped; hand and voice input disabled", "error", err)
			}
		}()
	}

	// ── Audio ───────────────────────────────────────────────────────
	sounds := audio.NewSoundManager(
		audio.WithLogger(logger),
		audio.WithVolume(cfg.Audio.Volume),
		audio.WithEnabled(cfg.Audio.Enabled),
	)
	if err := sounds.Initialize(); err != nil {
		logger.Warn("audio unavailable; continuing without sound", "error", err)
	}
	defer sounds.Close()

	// ── Game ────────────────────────────────────────────────────────
	g, err := game.NewGame(game.GameContext{
		Spawner:   spawner,
		Particles: particles,
		Targeting: targeting.NewResolver(sc, targeting.WithHitRadius(cfg.Game.HitRadius)),
		State:     gameState,
		Input:     in,
		Renderer:  sc,
		Audio:     sounds,
		Display:   hud.Multi{hud.NewTitleDisplay(win), hud.NewLogDisplay(logger)},
	},
		game.WithLogger(logger),
		game.WithPointsPerShape(cfg.Game.PointsPerShape),
		game.WithGameOverDepth(cfg.Game.GameOverDepth),
	)
	if err != nil {
		return err
	}

	eng.SetTickCallback(func(dt float32) {
		if err := g.Tick(dt); err != nil {
			logger.Error("frame failed", "error", err)
		}
	})
	eng.SetResizeCallback(func(width, height int) {
		if err := sc.Resize(width, height); err != nil {
			logger.Error("resize failed", "width", width, "height", height, "error", err)
			return
		}
		in.SetViewport(sc.Viewport())
	})

	if watch && configPath != "" {
		go func() {
			err := config.Watch(ctx, configPath, func(next config.Config, err error) {
				if err != nil {
					logger.Warn("config reload rejected", "path", configPath, "error", err)
					return
				}
				g.ApplyConfig(next)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("config watch stopped", "path", configPath, "error", err)
			}
		}()
	}

	go func() {
		select {
		case <-ctx.Done():
			eng.Quit()
		case <-eng.Done():
			cancel()
		}
	}()

	// ── Run ─────────────────────────────────────────────────────────
	eng.Run()
	cancel()
	logger.Info("shutdown",
		"score", gameState.Score(),
		"wave", gameState.Wave(),
		"destroyed", gameState.ShapesDestroyed(),
	)
	return nil
}

// placementFromConfig picks the spawn placement policy named by the spawner section.
func placementFromConfig(cfg config.Spawner, lens shape.Lens) shape.Placement {
	if shape.PolicyName(cfg.Policy) == shape.PolicyScatter {
		s := shape.NewScatter()
		s.SpawnDepth = cfg.SpawnDepth
		s.HalfWidth = cfg.ScatterHalfWidth
		s.HalfHeight = cfg.ScatterHalfHeight
		s.MinSeparation = cfg.MinSeparation
		s.Attempts = cfg.PlacementAttempts
		return s
	}
	d := shape.NewDirected(lens)
	d.SpawnDepth = cfg.SpawnDepth
	d.ArrivalDepth = cfg.ArrivalDepth
	d.Margin = cfg.Margin
	return d
}
