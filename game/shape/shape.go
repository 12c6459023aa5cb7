// Package shape implements the entity pool for the approaching shapes: spawning on a difficulty-driven
// cadence, kinematic integration, deferred removal and ownership of each shape's GPU resources.
package shape

import (
	"github.com/Carmen-Shannon/cognitive-cannon/common"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/geometry"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/renderer/bind_group_provider"
	"github.com/chewxy/math32"
)

var palette = map[geometry.ShapeType][3]float32{
	geometry.ShapeCube:    {1.0, 0.25, 0.25},
	geometry.ShapeSphere:  {0.2, 0.9, 1.0},
	geometry.ShapeTorus:   {1.0, 0.9, 0.2},
	geometry.ShapePyramid: {1.0, 0.3, 0.9},
}

// ColorFor returns the fixed RGB color of a shape type. Unknown types are white.
func ColorFor(t geometry.ShapeType) [3]float32 {
	if c, ok := palette[t]; ok {
		return c
	}
	return [3]float32{1, 1, 1}
}

// Shape is a single live entity record in the pool. Kinematic fields are mutated only by the Spawner
// that owns it; everything else reads them.
type Shape struct {
	ID        uint64
	Type      geometry.ShapeType
	Position  [3]float32
	Velocity  [3]float32
	RotationX float32
	RotationY float32
	Color     [3]float32
	Threat    float32

	removed bool
	mesh    bind_group_provider.BindGroupProvider
	uniform bind_group_provider.BindGroupProvider
}

// Depth returns the world Z of the shape. Shapes approach along +Z, so larger is closer.
func (s *Shape) Depth() float32 {
	return s.Position[2]
}

// Removed reports whether the shape has been marked for removal. A removed shape is never hit-tested or
// drawn again even if it is still in the list until the next sweep.
func (s *Shape) Removed() bool {
	return s.removed
}

// HasGeometry reports whether the shape still holds unreleased mesh and uniform resources.
func (s *Shape) HasGeometry() bool {
	return s.mesh != nil && s.uniform != nil && !s.mesh.Released() && !s.uniform.Released()
}

// Drawable reports whether the shape is live and holds its GPU resources.
func (s *Shape) Drawable() bool {
	return !s.removed && s.HasGeometry()
}

// Mesh returns the provider holding the shape's vertex and index buffers.
func (s *Shape) Mesh() bind_group_provider.BindGroupProvider {
	return s.mesh
}

// Uniform returns the provider holding the shape's dedicated uniform buffer and bind group.
func (s *Shape) Uniform() bind_group_provider.BindGroupProvider {
	return s.uniform
}

// ModelMatrix builds the column-major model matrix from the current position and rotation.
func (s *Shape) ModelMatrix() [16]float32 {
	var m [16]float32
	common.BuildModelMatrix(m[:], s.Position, s.RotationX, s.RotationY, 0, 1)
	return m
}

// threatAt maps a camera distance onto [0, 1]: 0 at or beyond far, 1 at or inside near.
func threatAt(distance, far, near float32) float32 {
	span := far - near
	if span <= 0 {
		return 0
	}
	return common.Clamp((far-distance)/span, 0, 1)
}

// release frees the GPU resources exactly once. Called only from the sweep and Reset.
func (s *Shape) release() {
	if s.mesh != nil {
		s.mesh.Release()
		s.mesh = nil
	}
	if s.uniform != nil {
		s.uniform.Release()
		s.uniform = nil
	}
}

func (s *Shape) integrate(dt, rateX, rateY, threatFar, threatNear float32) {
	s.Position = common.Add3(s.Position, common.Scale3(s.Velocity, dt))
	s.RotationX += rateX * dt
	s.RotationY += rateY * dt
	s.Threat = threatAt(math32.Abs(s.Position[2]), threatFar, threatNear)
}
