package particle

import (
	"log/slog"
	"math/rand/v2"
)

// SystemBuilderOption is a functional option for configuring a particle System.
type SystemBuilderOption func(*system)

// WithLogger sets the logger used for skipped particles.
func WithLogger(logger *slog.Logger) SystemBuilderOption {
	return func(s *system) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRand sets the random source for speeds and sizes.
func WithRand(rng *rand.Rand) SystemBuilderOption {
	return func(s *system) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithCount sets the number of particles per explosion.
func WithCount(n int) SystemBuilderOption {
	return func(s *system) {
		if n > 0 {
			s.count = n
		}
	}
}

// WithPhysics sets the downward acceleration and the per-second life decay.
//
// Parameters:
//   - gravity: units per second squared subtracted from vertical velocity
//   - decay: life lost per second
//
// Returns:
//   - SystemBuilderOption: option function to apply
func WithPhysics(gravity, decay float32) SystemBuilderOption {
	return func(s *system) {
		s.gravity = gravity
		if decay > 0 {
			s.decay = decay
		}
	}
}

// WithSpread sets the random speed and size ranges: speed in [minSpeed, minSpeed+speedRange) and
// size in [minSize, minSize+sizeRange).
func WithSpread(minSpeed, speedRange, minSize, sizeRange float32) SystemBuilderOption {
	return func(s *system) {
		s.minSpeed = minSpeed
		s.speedRange = speedRange
		s.minSize = minSize
		s.sizeRange = sizeRange
	}
}
