package shape

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/Carmen-Shannon/cognitive-cannon/common"
)

// ErrNoPlacement is returned when a spawn could not find a valid position within its attempt budget.
var ErrNoPlacement = errors.New("shape: no valid spawn placement")

// PolicyName identifies a placement policy in configuration.
type PolicyName string

const (
	PolicyDirected PolicyName = "directed"
	PolicyScatter  PolicyName = "scatter"
)

// Lens is the part of the camera the directed policy needs to size the visible cross-section.
type Lens interface {
	Fov() float32
	Aspect() float32
}

// Placement decides where a new shape starts and how it moves.
type Placement interface {
	// Place picks a spawn position and velocity for a shape approaching at speed units per second.
	//
	// Parameters:
	//   - rng: the random source
	//   - speed: approach speed along +Z
	//   - existing: the current live shapes
	//
	// Returns:
	//   - position: the spawn position
	//   - velocity: the per-second velocity
	//   - error: ErrNoPlacement if no valid position exists
	Place(rng *rand.Rand, speed float32, existing []*Shape) (position, velocity [3]float32, err error)
}

// Directed spawns shapes inside the frustum cross-section at SpawnDepth and aims each one at a random
// point of the cross-section at ArrivalDepth. Both endpoints lie inside the frustum and the frustum is
// convex, so the whole approach stays visible.
type Directed struct {
	Lens         Lens
	SpawnDepth   float32
	ArrivalDepth float32
	// Margin scales the cross-sections to keep shapes off the screen edges.
	Margin float32
}

// NewDirected returns the directed policy with spawn depth -15, arrival depth -3 and margin 0.8.
func NewDirected(lens Lens) *Directed {
	return &Directed{
		Lens:         lens,
		SpawnDepth:   -15,
		ArrivalDepth: -3,
		Margin:       0.8,
	}
}

func (d *Directed) Place(rng *rand.Rand, speed float32, _ []*Shape) ([3]float32, [3]float32, error) {
	if d.SpawnDepth >= d.ArrivalDepth || d.ArrivalDepth >= 0 {
		return [3]float32{}, [3]float32{}, fmt.Errorf("%w: spawn depth %v must be behind arrival depth %v", ErrNoPlacement, d.SpawnDepth, d.ArrivalDepth)
	}
	fov, aspect := d.Lens.Fov(), d.Lens.Aspect()

	spawn := d.pointAt(rng, fov, aspect, d.SpawnDepth)
	arrival := d.pointAt(rng, fov, aspect, d.ArrivalDepth)

	// Scale the direction so its Z component equals speed.
	dir := common.Sub3(arrival, spawn)
	velocity := common.Scale3(dir, speed/dir[2])
	return spawn, velocity, nil
}

func (d *Directed) pointAt(rng *rand.Rand, fov, aspect, depth float32) [3]float32 {
	hw, hh := common.HalfExtentsAtDepth(fov, aspect, -depth)
	hw *= d.Margin
	hh *= d.Margin
	return [3]float32{
		(rng.Float32()*2 - 1) * hw,
		(rng.Float32()*2 - 1) * hh,
		depth,
	}
}

// Scatter rejection-samples a fixed rectangle at SpawnDepth, keeping MinSeparation from every live
// shape. Shapes travel straight down -Z toward the camera.
type Scatter struct {
	SpawnDepth    float32
	HalfWidth     float32
	HalfHeight    float32
	MinSeparation float32
	Attempts      int
}

// NewScatter returns the scatter policy: a 4 x 3 rectangle at depth -15, 1.2 separation, 10 attempts.
func NewScatter() *Scatter {
	return &Scatter{
		SpawnDepth:    -15,
		HalfWidth:     2,
		HalfHeight:    1.5,
		MinSeparation: 1.2,
		Attempts:      10,
	}
}

func (s *Scatter) Place(rng *rand.Rand, speed float32, existing []*Shape) ([3]float32, [3]float32, error) {
	velocity := [3]float32{0, 0, speed}
	for range s.Attempts {
		candidate := [3]float32{
			(rng.Float32()*2 - 1) * s.HalfWidth,
			(rng.Float32()*2 - 1) * s.HalfHeight,
			s.SpawnDepth,
		}
		if s.clear(candidate, existing) {
			return candidate, velocity, nil
		}
	}
	return [3]float32{}, [3]float32{}, fmt.Errorf("%w after %d attempts", ErrNoPlacement, s.Attempts)
}

func (s *Scatter) clear(candidate [3]float32, existing []*Shape) bool {
	for _, other := range existing {
		if other.Removed() {
			continue
		}
		if common.Length3(common.Sub3(candidate, other.Position)) < s.MinSeparation {
			return false
		}
	}
	return true
}
