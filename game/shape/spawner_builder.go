package shape

import (
	"log/slog"
	"math/rand/v2"

	"github.com/Carmen-Shannon/cognitive-cannon/engine/geometry"
)

// SpawnerBuilderOption is a functional option for configuring a Spawner.
type SpawnerBuilderOption func(*spawner)

// WithLogger sets the logger used for skipped spawns.
func WithLogger(logger *slog.Logger) SpawnerBuilderOption {
	return func(s *spawner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRand sets the random source for type selection and placement. Tests pass a seeded source.
func WithRand(rng *rand.Rand) SpawnerBuilderOption {
	return func(s *spawner) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithMeshCache shares a geometry cache between spawners.
func WithMeshCache(cache *geometry.Cache) SpawnerBuilderOption {
	return func(s *spawner) {
		if cache != nil {
			s.meshes = cache
		}
	}
}

// WithRotationRates sets the per-second rotation about X and Y in radians.
//
// Parameters:
//   - x: radians per second about X
//   - y: radians per second about Y
//
// Returns:
//   - SpawnerBuilderOption: option function to apply
func WithRotationRates(x, y float32) SpawnerBuilderOption {
	return func(s *spawner) {
		s.rotationRateX = x
		s.rotationRateY = y
	}
}

// WithThreatRange sets the camera distances mapped to threat 0 (far) and threat 1 (near).
//
// Parameters:
//   - far: distance at which threat is 0
//   - near: distance at which threat reaches 1
//
// Returns:
//   - SpawnerBuilderOption: option function to apply
func WithThreatRange(far, near float32) SpawnerBuilderOption {
	return func(s *spawner) {
		s.threatFar = far
		s.threatNear = near
	}
}

// WithDespawnDepth sets the depth past which shapes are marked for removal as out of bounds.
func WithDespawnDepth(depth float32) SpawnerBuilderOption {
	return func(s *spawner) {
		s.despawnDepth = depth
	}
}
