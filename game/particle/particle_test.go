package particle

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/Carmen-Shannon/cognitive-cannon/engine/geometry"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/renderer/bind_group_provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	bind_group_provider.BindGroupProvider
	releases *int
}

func (c *countingProvider) Release() {
	*c.releases++
	c.BindGroupProvider.Release()
}

type fakeAllocator struct {
	releases  int
	meshes    []geometry.Mesh
	failAfter int
}

func (f *fakeAllocator) AllocateMesh(label string, m geometry.Mesh) (bind_group_provider.BindGroupProvider, error) {
	if f.failAfter > 0 && len(f.meshes) >= f.failAfter {
		return nil, errors.New("exhausted")
	}
	f.meshes = append(f.meshes, m)
	return &countingProvider{BindGroupProvider: bind_group_provider.NewBindGroupProvider(label), releases: &f.releases}, nil
}

func (f *fakeAllocator) AllocateUniform(label string) (bind_group_provider.BindGroupProvider, error) {
	return &countingProvider{BindGroupProvider: bind_group_provider.NewBindGroupProvider(label), releases: &f.releases}, nil
}

func newTestSystem(alloc Allocator) System {
	return NewSystem(alloc, WithRand(rand.New(rand.NewPCG(9, 9))))
}

func TestCreateExplosionSpawnsThirty(t *testing.T) {
	alloc := &fakeAllocator{}
	s := newTestSystem(alloc)

	n := s.CreateExplosion([3]float32{1, 2, -10}, [3]float32{0.2, 0.9, 1})
	assert.Equal(t, 30, n)
	require.Len(t, s.Particles(), 30)

	for _, p := range s.Particles() {
		assert.Equal(t, [3]float32{1, 2, -10}, p.Position)
		assert.Equal(t, [3]float32{0.2, 0.9, 1}, p.Color)
		assert.Equal(t, float32(1), p.Life)
		assert.GreaterOrEqual(t, p.Size, float32(0.1))
		assert.Less(t, p.Size, float32(0.2))
		assert.True(t, p.Drawable())

		horizontal := p.Velocity[0]*p.Velocity[0] + p.Velocity[2]*p.Velocity[2]
		assert.GreaterOrEqual(t, horizontal, float32(4*0.999))
		assert.Less(t, horizontal, float32(25*1.001))
	}
	for _, m := range alloc.meshes {
		assert.Equal(t, geometry.QuadStride, m.Stride)
		assert.Equal(t, 6, m.VertexCount())
	}
}

func TestCreateExplosionDefaultsColor(t *testing.T) {
	s := newTestSystem(&fakeAllocator{})
	s.CreateExplosion([3]float32{}, [3]float32{})
	assert.Equal(t, DefaultColor, s.Particles()[0].Color)
}

func TestParticlesDieAfterLifetime(t *testing.T) {
	alloc := &fakeAllocator{}
	s := newTestSystem(alloc)
	s.CreateExplosion([3]float32{}, DefaultColor)

	// life / decay = 1.25 s, exactly 75 ticks at 60 Hz
	dt := float32(1.0 / 60.0)
	prevLife := float32(1)
	for range 74 {
		s.Update(dt)
		require.Equal(t, 30, s.Len())
		life := s.Particles()[0].Life
		assert.Less(t, life, prevLife)
		prevLife = life
	}
	s.Update(dt)
	assert.Zero(t, s.Len())
	assert.Equal(t, 60, alloc.releases, "mesh and uniform released once per particle")
}

func TestParticlesDieOnLastTickOfLifetime(t *testing.T) {
	for _, hz := range []float64{60, 48, 100, 8} {
		s := newTestSystem(&fakeAllocator{})
		s.CreateExplosion([3]float32{}, DefaultColor)

		dt := float32(1.0 / hz)
		steps := int(math.Round(1.25 * hz))
		for range steps - 1 {
			s.Update(dt)
		}
		assert.Equal(t, 30, s.Len(), "%v Hz: alive before the last tick", hz)
		s.Update(dt)
		assert.Zero(t, s.Len(), "%v Hz: gone after %d ticks", hz, steps)
	}
}

func TestGravityPullsVelocityDown(t *testing.T) {
	s := newTestSystem(&fakeAllocator{})
	s.CreateExplosion([3]float32{}, DefaultColor)
	p := s.Particles()[0]
	vy := p.Velocity[1]
	s.Update(0.1)
	assert.InDelta(t, vy-0.2, p.Velocity[1], 1e-5)
	assert.InDelta(t, 0.92, p.Life, 1e-5)
}

func TestResetIsIdempotent(t *testing.T) {
	alloc := &fakeAllocator{}
	s := newTestSystem(alloc)
	s.Reset()
	s.CreateExplosion([3]float32{}, DefaultColor)
	s.Reset()
	s.Reset()
	assert.Zero(t, s.Len())
	assert.Equal(t, 60, alloc.releases)
}

func TestAllocationFailureSkipsParticle(t *testing.T) {
	alloc := &fakeAllocator{failAfter: 10}
	s := newTestSystem(alloc)
	assert.Equal(t, 10, s.CreateExplosion([3]float32{}, DefaultColor))
	assert.Equal(t, 10, s.Len())
}
