package shape

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/Carmen-Shannon/cognitive-cannon/common"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/geometry"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/renderer/bind_group_provider"
)

// Allocator creates GPU resources for entities. The scene implements it against the live renderer;
// tests substitute providers without a device.
type Allocator interface {
	// AllocateMesh uploads mesh and returns the provider that owns its vertex and index buffers.
	AllocateMesh(label string, mesh geometry.Mesh) (bind_group_provider.BindGroupProvider, error)

	// AllocateUniform returns a provider owning a dedicated per-entity uniform buffer and bind group.
	AllocateUniform(label string) (bind_group_provider.BindGroupProvider, error)
}

// Difficulty is the spawn cadence and approach speed for the current point in the game.
type Difficulty struct {
	// SpawnInterval is the number of seconds between spawns.
	SpawnInterval float32
	// Speed is the approach speed along +Z in units per second.
	Speed float32
}

type spawner struct {
	mu *sync.Mutex

	allocator Allocator
	meshes    *geometry.Cache
	placement Placement
	rng       *rand.Rand
	logger    *slog.Logger

	shapes     []*Shape
	spawnTimer float32
	nextID     uint64

	rotationRateX float32
	rotationRateY float32
	threatFar     float32
	threatNear    float32
	despawnDepth  float32
}

// Spawner owns the list of live shapes. All methods are meant to be called from the frame tick.
type Spawner interface {
	// Update advances the spawn timer and spawns one shape when it reaches the difficulty's interval,
	// integrates every live shape, and finally sweeps shapes marked for removal, releasing their GPU
	// resources. Spawn failures are logged and skipped; the timer resets either way.
	//
	// Parameters:
	//   - dt: elapsed seconds since the previous tick
	//   - difficulty: the current spawn cadence and speed
	Update(dt float32, difficulty Difficulty)

	// SpawnRandomShape spawns a uniformly random shape type placed by the configured policy.
	//
	// Parameters:
	//   - difficulty: supplies the approach speed
	//
	// Returns:
	//   - *Shape: the new shape
	//   - error: ErrNoPlacement, geometry.ErrUnknownShape or an allocation error
	SpawnRandomShape(difficulty Difficulty) (*Shape, error)

	// Spawn creates a shape of type t at position with the given velocity and allocates its resources.
	//
	// Parameters:
	//   - t: the shape type
	//   - position: the world position
	//   - velocity: the per-second velocity
	//
	// Returns:
	//   - *Shape: the new shape
	//   - error: geometry.ErrUnknownShape for an unknown type, or an allocation error
	Spawn(t geometry.ShapeType, position, velocity [3]float32) (*Shape, error)

	// MarkForRemoval flags the shape with id for the next sweep. Marking twice is a no-op.
	//
	// Returns:
	//   - bool: true if the shape was live and is now marked
	MarkForRemoval(id uint64) bool

	// Shapes returns the live list including shapes marked but not yet swept. The slice is owned by the
	// Spawner and valid until the next Update or Reset.
	Shapes() []*Shape

	// Shape returns the shape with id, or nil.
	Shape(id uint64) *Shape

	// Len returns the number of shapes in the list.
	Len() int

	// Reset releases every shape's GPU resources and empties the pool.
	Reset()

	// SetPlacement swaps the placement policy.
	SetPlacement(p Placement)
}

var _ Spawner = &spawner{}

// NewSpawner creates an empty Spawner.
//
// Parameters:
//   - allocator: creates the GPU resources for new shapes
//   - placement: the spawn placement policy
//   - options: functional options to configure the spawner
//
// Returns:
//   - Spawner: the new spawner
func NewSpawner(allocator Allocator, placement Placement, options ...SpawnerBuilderOption) Spawner {
	s := &spawner{
		mu:            &sync.Mutex{},
		allocator:     allocator,
		placement:     placement,
		meshes:        geometry.NewCache(),
		rng:           rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:        slog.Default(),
		nextID:        1,
		rotationRateX: 0.5,
		rotationRateY: 0.3,
		threatFar:     10,
		threatNear:    2,
		despawnDepth:  10,
	}
	for _, option := range options {
		option(s)
	}
	s.logger = s.logger.With("component", "spawner")
	return s
}

func (s *spawner) Update(dt float32, difficulty Difficulty) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.spawnTimer += dt
	if s.spawnTimer >= difficulty.SpawnInterval {
		s.spawnTimer = 0
		if _, err := s.spawnRandom(difficulty); err != nil {
			s.logger.Debug("spawn skipped", "error", err)
		}
	}

	for _, sh := range s.shapes {
		if sh.removed {
			continue
		}
		sh.integrate(dt, s.rotationRateX, s.rotationRateY, s.threatFar, s.threatNear)
		if sh.Depth() > s.despawnDepth {
			sh.removed = true
		}
	}

	s.sweep()
}

func (s *spawner) SpawnRandomShape(difficulty Difficulty) (*Shape, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spawnRandom(difficulty)
}

func (s *spawner) Spawn(t geometry.ShapeType, position, velocity [3]float32) (*Shape, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spawn(t, position, velocity)
}

func (s *spawner) MarkForRemoval(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.find(id)
	if sh == nil || sh.removed {
		return false
	}
	sh.removed = true
	return true
}

func (s *spawner) Shapes() []*Shape {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shapes
}

func (s *spawner) Shape(id uint64) *Shape {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(id)
}

func (s *spawner) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.shapes)
}

func (s *spawner) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sh := range s.shapes {
		sh.release()
		s.shapes[i] = nil
	}
	s.shapes = s.shapes[:0]
	s.spawnTimer = 0
}

func (s *spawner) SetPlacement(p Placement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placement = p
}

func (s *spawner) spawnRandom(difficulty Difficulty) (*Shape, error) {
	types := geometry.ShapeTypes()
	t := types[s.rng.IntN(len(types))]

	position, velocity, err := s.placement.Place(s.rng, difficulty.Speed, s.shapes)
	if err != nil {
		return nil, err
	}
	return s.spawn(t, position, velocity)
}

// spawn allocates the shape's resources before it joins the list, so targeting never sees a shape
// without buffers. Caller must hold the mutex.
func (s *spawner) spawn(t geometry.ShapeType, position, velocity [3]float32) (*Shape, error) {
	mesh, err := s.meshes.Get(t)
	if err != nil {
		return nil, err
	}

	id := s.nextID
	label := fmt.Sprintf("shape_%d_%s", id, t)

	meshProvider, err := s.allocator.AllocateMesh(label, mesh)
	if err != nil {
		return nil, fmt.Errorf("allocate mesh for %s: %w", label, err)
	}
	uniformProvider, err := s.allocator.AllocateUniform(label)
	if err != nil {
		meshProvider.Release()
		return nil, fmt.Errorf("allocate uniform for %s: %w", label, err)
	}

	s.nextID++
	sh := &Shape{
		ID:       id,
		Type:     t,
		Position: position,
		Velocity: velocity,
		Color:    ColorFor(t),
		mesh:     meshProvider,
		uniform:  uniformProvider,
	}
	sh.integrate(0, s.rotationRateX, s.rotationRateY, s.threatFar, s.threatNear)
	s.shapes = append(s.shapes, sh)
	return sh, nil
}

// sweep releases and swap-removes every marked shape. Caller must hold the mutex.
func (s *spawner) sweep() {
	for i := 0; i < len(s.shapes); {
		sh := s.shapes[i]
		if !sh.removed {
			i++
			continue
		}
		sh.release()
		s.shapes = common.SwapRemove(s.shapes, i)
	}
}

func (s *spawner) find(id uint64) *Shape {
	for _, sh := range s.shapes {
		if sh.ID == id {
			return sh
		}
	}
	return nil
}
