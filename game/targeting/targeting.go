// Package targeting resolves which shape the pointer is aiming at by projecting live shapes to screen
// space and picking the nearest one inside the hit radius.
package targeting

import (
	"sync"

	"github.com/Carmen-Shannon/cognitive-cannon/common"
	"github.com/Carmen-Shannon/cognitive-cannon/game/shape"
)

// DefaultHitRadius is the screen-space hit radius in pixels.
const DefaultHitRadius float32 = 60

// Projector maps world points to screen pixels. The scene implements it with the current frame's
// view-projection matrix.
type Projector interface {
	// ProjectToScreen returns false for points that have no screen position (at or behind the camera).
	ProjectToScreen(world [3]float32) (common.ScreenPoint, bool)
}

type resolver struct {
	mu        *sync.Mutex
	projector Projector
	hitRadius float32
}

// Resolver performs screen-space raycasts against the live shapes.
type Resolver interface {
	// Raycast returns the shape whose projected center is nearest to pointer and strictly closer than the
	// hit radius.
	// Removed shapes, shapes without geometry and unprojectable shapes are skipped. Equal distances
	// keep the first shape in iteration order.
	//
	// Parameters:
	//   - pointer: the pointer position, or nil when no pointer is present
	//   - shapes: the live shapes
	//
	// Returns:
	//   - *shape.Shape: the nearest shape, or nil
	//   - bool: true if a shape was found
	Raycast(pointer *common.ScreenPoint, shapes []*shape.Shape) (*shape.Shape, bool)

	// HitRadius returns the hit radius in pixels.
	HitRadius() float32

	// SetHitRadius sets the hit radius in pixels. Non-positive values are ignored.
	SetHitRadius(radius float32)
}

var _ Resolver = &resolver{}

// NewResolver creates a Resolver projecting through p with DefaultHitRadius.
//
// Parameters:
//   - p: the projector used for every raycast
//   - options: functional options to configure the resolver
//
// Returns:
//   - Resolver: the new resolver
func NewResolver(p Projector, options ...ResolverBuilderOption) Resolver {
	r := &resolver{
		mu:        &sync.Mutex{},
		projector: p,
		hitRadius: DefaultHitRadius,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

func (r *resolver) Raycast(pointer *common.ScreenPoint, shapes []*shape.Shape) (*shape.Shape, bool) {
	if pointer == nil {
		return nil, false
	}
	radius := r.HitRadius()

	var nearest *shape.Shape
	best := radius
	for _, s := range shapes {
		if !s.Drawable() {
			continue
		}
		screen, ok := r.projector.ProjectToScreen(s.Position)
		if !ok {
			continue
		}
		d := screen.DistanceTo(*pointer)
		if d >= radius {
			continue
		}
		if nearest == nil || d < best {
			nearest = s
			best = d
		}
	}
	return nearest, nearest != nil
}

func (r *resolver) HitRadius() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hitRadius
}

func (r *resolver) SetHitRadius(radius float32) {
	if radius <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hitRadius = radius
}

// ResolverBuilderOption is a functional option for configuring a Resolver.
type ResolverBuilderOption func(*resolver)

// WithHitRadius sets the initial hit radius in pixels.
func WithHitRadius(radius float32) ResolverBuilderOption {
	return func(r *resolver) {
		if radius > 0 {
			r.hitRadius = radius
		}
	}
}
