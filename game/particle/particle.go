// Package particle implements the explosion particle system. Particles live in a dense slice; a dead
// particle releases its GPU resources and is swap-removed in the same update pass.
package particle

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/Carmen-Shannon/cognitive-cannon/common"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/geometry"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/renderer/bind_group_provider"
	"github.com/chewxy/math32"
)

// DefaultColor is used for explosions created without a color.
var DefaultColor = [3]float32{1, 0.5, 0}

// Allocator creates GPU resources for particles.
type Allocator interface {
	AllocateMesh(label string, mesh geometry.Mesh) (bind_group_provider.BindGroupProvider, error)
	AllocateUniform(label string) (bind_group_provider.BindGroupProvider, error)
}

// Particle is one explosion fragment.
type Particle struct {
	Position [3]float32
	Velocity [3]float32
	Color    [3]float32
	// Life starts at 1 and only decreases. The particle is destroyed once it reaches 0.
	Life float32
	// Size is the quad half-extent, fixed at spawn.
	Size float32

	mesh    bind_group_provider.BindGroupProvider
	uniform bind_group_provider.BindGroupProvider
}

// Mesh returns the provider holding the particle's quad vertex buffer.
func (p *Particle) Mesh() bind_group_provider.BindGroupProvider {
	return p.mesh
}

// Uniform returns the provider holding the particle's uniform buffer and bind group.
func (p *Particle) Uniform() bind_group_provider.BindGroupProvider {
	return p.uniform
}

// Drawable reports whether the particle is alive and holds its GPU resources.
func (p *Particle) Drawable() bool {
	return p.Life > 0 && p.mesh != nil && p.uniform != nil && !p.mesh.Released() && !p.uniform.Released()
}

// ModelMatrix returns a pure translation to the particle position; the quad geometry already carries the size.
func (p *Particle) ModelMatrix() [16]float32 {
	var m [16]float32
	common.BuildModelMatrix(m[:], p.Position, 0, 0, 0, 1)
	return m
}

func (p *Particle) release() {
	if p.mesh != nil {
		p.mesh.Release()
		p.mesh = nil
	}
	if p.uniform != nil {
		p.uniform.Release()
		p.uniform = nil
	}
}

type system struct {
	mu *sync.Mutex

	allocator Allocator
	rng       *rand.Rand
	logger    *slog.Logger

	particles []*Particle
	spawned   uint64

	count      int
	gravity    float32
	decay      float32
	minSpeed   float32
	speedRange float32
	minSize    float32
	sizeRange  float32
}

// System owns the live particle list.
type System interface {
	// CreateExplosion spawns a burst of particles at position. Particles whose resources cannot be
	// allocated are skipped and logged.
	//
	// Parameters:
	//   - position: the burst origin
	//   - color: the particle color; a zero color selects DefaultColor
	//
	// Returns:
	//   - int: the number of particles created
	CreateExplosion(position, color [3]float32) int

	// Update integrates every particle, applies gravity to vertical velocity and decays life. Particles
	// whose life reaches 0 are released and removed in the same pass.
	//
	// Parameters:
	//   - dt: elapsed seconds since the previous tick
	Update(dt float32)

	// Particles returns the live list. The slice is owned by the System and valid until the next
	// Update, CreateExplosion or Reset.
	Particles() []*Particle

	// Len returns the number of live particles.
	Len() int

	// Reset releases and removes every particle.
	Reset()
}

var _ System = &system{}

// NewSystem creates an empty particle System with 30 particles per explosion, gravity 2 and decay 0.8.
//
// Parameters:
//   - allocator: creates each particle's GPU resources
//   - options: functional options to configure the system
//
// Returns:
//   - System: the new particle system
func NewSystem(allocator Allocator, options ...SystemBuilderOption) System {
	s := &system{
		mu:         &sync.Mutex{},
		allocator:  allocator,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:     slog.Default(),
		count:      30,
		gravity:    2,
		decay:      0.8,
		minSpeed:   2,
		speedRange: 3,
		minSize:    0.1,
		sizeRange:  0.1,
	}
	for _, option := range options {
		option(s)
	}
	s.logger = s.logger.With("component", "particles")
	return s
}

func (s *system) CreateExplosion(position, color [3]float32) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if color == ([3]float32{}) {
		color = DefaultColor
	}

	created := 0
	for i := range s.count {
		// Even radial spread in XZ with a random vertical component.
		angle := float32(i) / float32(s.count) * 2 * math32.Pi
		speed := s.minSpeed + s.rng.Float32()*s.speedRange
		sin, cos := math32.Sincos(angle)

		p := &Particle{
			Position: position,
			Velocity: [3]float32{cos * speed, (s.rng.Float32() - 0.5) * speed, sin * speed},
			Color:    color,
			Life:     1,
			Size:     s.minSize + s.rng.Float32()*s.sizeRange,
		}
		if err := s.allocate(p); err != nil {
			s.logger.Debug("particle skipped", "error", err)
			continue
		}
		s.particles = append(s.particles, p)
		created++
	}
	return created
}

func (s *system) allocate(p *Particle) error {
	label := fmt.Sprintf("particle_%d", s.spawned)
	s.spawned++

	mesh, err := s.allocator.AllocateMesh(label, geometry.Quad(p.Size*2))
	if err != nil {
		return err
	}
	uniform, err := s.allocator.AllocateUniform(label)
	if err != nil {
		mesh.Release()
		return err
	}
	p.mesh, p.uniform = mesh, uniform
	return nil
}

// lifeEpsilon absorbs the float32 error of summing decay*dt, so a particle dies on the tick its
// lifetime ends.
const lifeEpsilon = 1e-5

func (s *system) Update(dt float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < len(s.particles); {
		p := s.particles[i]
		p.Position = common.Add3(p.Position, common.Scale3(p.Velocity, dt))
		p.Velocity[1] -= s.gravity * dt
		p.Life -= s.decay * dt

		if p.Life <= lifeEpsilon {
			p.Life = 0
			p.release()
			s.particles = common.SwapRemove(s.particles, i)
			continue
		}
		i++
	}
}

func (s *system) Particles() []*Particle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.particles
}

func (s *system) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.particles)
}

func (s *system) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.particles {
		p.release()
		s.particles[i] = nil
	}
	s.particles = s.particles[:0]
}
