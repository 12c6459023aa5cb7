// Package config loads the game configuration from a TOML file, validates it and watches the file
// for live changes.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is wrapped by every validation and decoding failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the full game configuration. Every field has a default from Default.
type Config struct {
	Window     Window     `toml:"window"`
	Renderer   Renderer   `toml:"renderer"`
	Camera     Camera     `toml:"camera"`
	Engine     Engine     `toml:"engine"`
	Spawner    Spawner    `toml:"spawner"`
	Difficulty Difficulty `toml:"difficulty"`
	Particles  Particles  `toml:"particles"`
	Game       Game       `toml:"game"`
	Input      Input      `toml:"input"`
	Audio      Audio      `toml:"audio"`
	Log        Log        `toml:"log"`
}

type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type Renderer struct {
	// MSAA is the sample count, 1 or 4.
	MSAA          int  `toml:"msaa"`
	VSync         bool `toml:"vsync"`
	ForceSoftware bool `toml:"force_software"`
}

type Camera struct {
	FovDegrees float32 `toml:"fov_degrees"`
	Near       float32 `toml:"near"`
	Far        float32 `toml:"far"`
}

type Engine struct {
	TickRate  float64 `toml:"tick_rate"`
	Profiling bool    `toml:"profiling"`
}

type Spawner struct {
	// Policy is "directed" or "scatter".
	Policy            string  `toml:"policy"`
	SpawnDepth        float32 `toml:"spawn_depth"`
	ArrivalDepth      float32 `toml:"arrival_depth"`
	Margin            float32 `toml:"margin"`
	ScatterHalfWidth  float32 `toml:"scatter_half_width"`
	ScatterHalfHeight float32 `toml:"scatter_half_height"`
	MinSeparation     float32 `toml:"min_separation"`
	PlacementAttempts int     `toml:"placement_attempts"`
	RotationRateX     float32 `toml:"rotation_rate_x"`
	RotationRateY     float32 `toml:"rotation_rate_y"`
	ThreatFar         float32 `toml:"threat_far"`
	ThreatNear        float32 `toml:"threat_near"`
	DespawnDepth      float32 `toml:"despawn_depth"`
}

type Difficulty struct {
	// Curve is "wave" or "elapsed".
	Curve          string  `toml:"curve"`
	BaseInterval   float32 `toml:"base_interval"`
	IntervalStep   float32 `toml:"interval_step"`
	MinInterval    float32 `toml:"min_interval"`
	BaseSpeed      float32 `toml:"base_speed"`
	SpeedStep      float32 `toml:"speed_step"`
	MaxSpeed       float32 `toml:"max_speed"`
	SecondsPerStep float32 `toml:"seconds_per_step"`
	WaveSize       int     `toml:"wave_size"`
}

type Particles struct {
	Count      int     `toml:"count"`
	Gravity    float32 `toml:"gravity"`
	Decay      float32 `toml:"decay"`
	MinSpeed   float32 `toml:"min_speed"`
	SpeedRange float32 `toml:"speed_range"`
	MinSize    float32 `toml:"min_size"`
	SizeRange  float32 `toml:"size_range"`
}

type Game struct {
	PointsPerShape int     `toml:"points_per_shape"`
	GameOverDepth  float32 `toml:"game_over_depth"`
	HitRadius      float32 `toml:"hit_radius"`
}

type Input struct {
	// BridgeAddr is the WebSocket bridge listen address; empty disables the bridge.
	BridgeAddr string  `toml:"bridge_addr"`
	Smoothing  float32 `toml:"smoothing"`
}

type Audio struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"`
}

type Log struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level"`
	// Format is text or json.
	Format string `toml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window:   Window{Title: "Cognitive Cannon", Width: 1280, Height: 720},
		Renderer: Renderer{MSAA: 4, VSync: true},
		Camera:   Camera{FovDegrees: 60, Near: 0.1, Far: 100},
		Engine:   Engine{TickRate: 60},
		Spawner: Spawner{
			Policy:            "directed",
			SpawnDepth:        -15,
			ArrivalDepth:      -3,
			Margin:            0.8,
			ScatterHalfWidth:  2,
			ScatterHalfHeight: 1.5,
			MinSeparation:     1.2,
			PlacementAttempts: 10,
			RotationRateX:     0.5,
			RotationRateY:     0.3,
			ThreatFar:         10,
			ThreatNear:        2,
			DespawnDepth:      10,
		},
		Difficulty: Difficulty{
			Curve:          "wave",
			BaseInterval:   2.0,
			IntervalStep:   0.1,
			MinInterval:    0.5,
			BaseSpeed:      1.0,
			SpeedStep:      0.1,
			MaxSpeed:       6.0,
			SecondsPerStep: 10,
			WaveSize:       10,
		},
		Particles: Particles{
			Count:      30,
			Gravity:    2,
			Decay:      0.8,
			MinSpeed:   2,
			SpeedRange: 3,
			MinSize:    0.1,
			SizeRange:  0.1,
		},
		Game:  Game{PointsPerShape: 100, GameOverDepth: 2, HitRadius: 60},
		Input: Input{BridgeAddr: "127.0.0.1:8765", Smoothing: 0.3},
		Audio: Audio{Enabled: true, Volume: 1},
		Log:   Log{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults and validates the result. An empty path returns the defaults.
//
// Parameters:
//   - path: the TOML file to read, or ""
//
// Returns:
//   - Config: the loaded configuration
//   - error: a read error, or an ErrInvalid-wrapped decode or validation error
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := Decode(data, &cfg); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode decodes TOML data into cfg, rejecting unknown keys, and validates the result.
func Decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("%w: %s", ErrInvalid, strict.String())
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return cfg.Validate()
}

// Encode writes cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	return toml.Marshal(cfg)
}

// Validate checks every field range.
//
// Returns:
//   - error: an ErrInvalid-wrapped error listing every problem, or nil
func (c Config) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	check(c.Renderer.MSAA == 1 || c.Renderer.MSAA == 4, "renderer.msaa must be 1 or 4, got %d", c.Renderer.MSAA)
	check(c.Camera.FovDegrees > 0 && c.Camera.FovDegrees < 180, "camera.fov_degrees must be in (0, 180), got %g", c.Camera.FovDegrees)
	check(c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near, "camera clip planes must satisfy 0 < near < far, got %g..%g", c.Camera.Near, c.Camera.Far)
	check(c.Engine.TickRate > 0, "engine.tick_rate must be positive, got %g", c.Engine.TickRate)

	s := c.Spawner
	check(s.Policy == "directed" || s.Policy == "scatter", "spawner.policy must be directed or scatter, got %q", s.Policy)
	check(s.SpawnDepth < s.ArrivalDepth && s.ArrivalDepth < 0, "spawner depths must satisfy spawn_depth < arrival_depth < 0, got %g, %g", s.SpawnDepth, s.ArrivalDepth)
	check(s.Margin > 0 && s.Margin <= 1, "spawner.margin must be in (0, 1], got %g", s.Margin)
	check(s.ScatterHalfWidth > 0 && s.ScatterHalfHeight > 0, "spawner scatter extents must be positive")
	check(s.MinSeparation >= 0, "spawner.min_separation must not be negative, got %g", s.MinSeparation)
	check(s.PlacementAttempts > 0, "spawner.placement_attempts must be positive, got %d", s.PlacementAttempts)
	check(s.ThreatFar > s.ThreatNear, "spawner.threat_far must exceed threat_near, got %g, %g", s.ThreatFar, s.ThreatNear)

	d := c.Difficulty
	check(d.Curve == "wave" || d.Curve == "elapsed", "difficulty.curve must be wave or elapsed, got %q", d.Curve)
	check(d.MinInterval > 0 && d.BaseInterval >= d.MinInterval, "difficulty intervals must satisfy 0 < min_interval <= base_interval")
	check(d.IntervalStep >= 0 && d.SpeedStep >= 0, "difficulty steps must not be negative")
	check(d.BaseSpeed > 0 && d.MaxSpeed >= d.BaseSpeed, "difficulty speeds must satisfy 0 < base_speed <= max_speed")
	check(d.SecondsPerStep > 0, "difficulty.seconds_per_step must be positive, got %g", d.SecondsPerStep)
	check(d.WaveSize > 0, "difficulty.wave_size must be positive, got %d", d.WaveSize)

	p := c.Particles
	check(p.Count > 0, "particles.count must be positive, got %d", p.Count)
	check(p.Decay > 0, "particles.decay must be positive, got %g", p.Decay)
	check(p.MinSpeed >= 0 && p.SpeedRange >= 0 && p.MinSize > 0 && p.SizeRange >= 0, "particle spreads must not be negative")

	check(c.Game.PointsPerShape >= 0, "game.points_per_shape must not be negative, got %d", c.Game.PointsPerShape)
	check(c.Game.HitRadius > 0, "game.hit_radius must be positive, got %g", c.Game.HitRadius)
	check(c.Input.Smoothing > 0 && c.Input.Smoothing <= 1, "input.smoothing must be in (0, 1], got %g", c.Input.Smoothing)
	check(c.Audio.Volume >= 0 && c.Audio.Volume <= 1, "audio.volume must be in [0, 1], got %g", c.Audio.Volume)

	_, levelErr := ParseLevel(c.Log.Level)
	check(levelErr == nil, "log.level must be debug, info, warn or error, got %q", c.Log.Level)
	check(c.Log.Format == "text" || c.Log.Format == "json", "log.format must be text or json, got %q", c.Log.Format)

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalid, name)
	}
	return level, nil
}
