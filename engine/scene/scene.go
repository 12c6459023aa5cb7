// Package scene is the render core: it owns the shape and particle pipelines, the camera uniform and
// the per-frame draw of the current entity snapshot, and allocates the GPU resources entities hold.
package scene

import (
	_ "embed"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/cognitive-cannon/common"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/camera"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/geometry"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/renderer"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/renderer/shader"
	"github.com/Carmen-Shannon/cognitive-cannon/game/particle"
	"github.com/Carmen-Shannon/cognitive-cannon/game/shape"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/shape.wgsl
var shapeShaderSource string

//go:embed assets/particle.wgsl
var particleShaderSource string

const (
	// ShapePipelineKey is the opaque pipeline: depth test and write, back-face culling.
	ShapePipelineKey = "shape"
	// ParticlePipelineKey is the additive pipeline: depth test without depth write, no culling.
	ParticlePipelineKey = "particle"

	cameraGroup    = 0
	entityGroup    = 1
	uniformBinding = 0

	// minBatch is the smallest number of entities marshalled by one worker task.
	minBatch = 32
)

// Frame is the entity snapshot drawn by Render. The slices are read, never modified.
type Frame struct {
	Shapes     []*shape.Shape
	Particles  []*particle.Particle
	TargetedID uint64
	// Time drives shader animation, in seconds.
	Time float32
}

// Stats counts what the last Render did.
type Stats struct {
	Shapes    int
	Particles int
	Skipped   int
}

// drawItem is one entity queued for this frame. Exactly one of shape or particle is set.
type drawItem struct {
	shape    *shape.Shape
	particle *particle.Particle
}

func (d drawItem) uniform(targetedID uint64) GPUEntityUniform {
	if d.shape != nil {
		return ShapeUniform(d.shape, d.shape.ID == targetedID)
	}
	return ParticleUniform(d.particle)
}

func (d drawItem) providers() (key string, mesh, uniform bind_group_provider.BindGroupProvider) {
	if d.shape != nil {
		return ShapePipelineKey, d.shape.Mesh(), d.shape.Uniform()
	}
	return ParticlePipelineKey, d.particle.Mesh(), d.particle.Uniform()
}

type scene struct {
	mu *sync.Mutex

	cam    camera.Camera
	r      renderer.Renderer
	logger *slog.Logger

	shapeShader    shader.Shader
	particleShader shader.Shader
	cameraProvider bind_group_provider.BindGroupProvider

	viewport common.Viewport
	stats    Stats

	// Pre-allocated slices reused each frame to avoid per-frame allocations.
	items          []drawItem
	writePool      []bind_group_provider.BufferWrite
	uniformBytes   []byte
	drawBindGroups []bind_group_provider.BindGroupProvider

	// marshalPool spreads per-entity uniform marshalling across reusable workers.
	marshalPool    worker.DynamicWorkerPool
	marshalWorkers int
}

// Scene draws frames and answers projection queries for the current camera and viewport.
// It also implements the allocator contract of the shape and particle packages.
type Scene interface {
	// Render recomputes the projection from the current aspect, uploads the camera uniform and every
	// entity's uniform, then draws the drawable shapes followed by the drawable particles. Entities that
	// are removed or lack GPU resources are skipped. A zero-sized viewport renders nothing.
	//
	// Parameters:
	//   - frame: the snapshot to draw
	//
	// Returns:
	//   - error: an error if the frame could not begin; per-entity draw failures are only logged
	Render(frame Frame) error

	// ProjectToScreen maps a world point to viewport pixels with the current view-projection.
	//
	// Returns:
	//   - common.ScreenPoint: the pixel position, Y down
	//   - bool: false for points at or behind the camera or an empty viewport
	ProjectToScreen(world [3]float32) (common.ScreenPoint, bool)

	// Resize reconfigures the surface and depth target and updates the camera aspect.
	//
	// Parameters:
	//   - width: framebuffer width in pixels
	//   - height: framebuffer height in pixels
	//
	// Returns:
	//   - error: an error if the renderer could not recreate its targets
	Resize(width, height int) error

	// Viewport returns the current framebuffer size.
	Viewport() common.Viewport

	// AllocateMesh uploads mesh into a new provider. Indexed meshes get an index buffer, others are
	// drawn from their vertex count.
	//
	// Parameters:
	//   - label: debug label for the GPU objects
	//   - mesh: the geometry to upload
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider owning the buffers
	//   - error: an error if the buffers could not be created
	AllocateMesh(label string, mesh geometry.Mesh) (bind_group_provider.BindGroupProvider, error)

	// AllocateUniform creates a provider owning a dedicated entity uniform buffer and its bind group.
	//
	// Parameters:
	//   - label: debug label for the GPU objects
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider owning the uniform resources
	//   - error: an error if the bind group could not be created
	AllocateUniform(label string) (bind_group_provider.BindGroupProvider, error)

	// Stats returns the counters of the last Render.
	Stats() Stats

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Renderer returns the scene's renderer.
	Renderer() renderer.Renderer

	// Release releases the camera uniform. The renderer is owned by the caller and released separately.
	Release()
}

var (
	_ Scene              = &scene{}
	_ shape.Allocator    = &scene{}
	_ particle.Allocator = &scene{}
)

// NewScene parses the embedded shaders, registers the shape and particle pipelines and initializes
// the camera uniform on the GPU.
//
// Parameters:
//   - r: the renderer to draw with
//   - cam: the camera providing the view-projection
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
//   - error: an error if a shader does not parse, its uniform layout does not match the GPU structs,
//     or pipeline creation fails
func NewScene(r renderer.Renderer, cam camera.Camera, options ...SceneBuilderOption) (Scene, error) {
	if r == nil || cam == nil {
		return nil, fmt.Errorf("scene: renderer and camera are required")
	}

	s := &scene{
		mu:             &sync.Mutex{},
		cam:            cam,
		r:              r,
		logger:         slog.Default(),
		marshalWorkers: max(runtime.NumCPU()-1, 1),
		drawBindGroups: make([]bind_group_provider.BindGroupProvider, 2),
	}
	for _, option := range options {
		option(s)
	}
	s.logger = s.logger.With("component", "scene")

	var err error
	if s.shapeShader, err = loadShader(ShapePipelineKey, shapeShaderSource); err != nil {
		return nil, err
	}
	if s.particleShader, err = loadShader(ParticlePipelineKey, particleShaderSource); err != nil {
		return nil, err
	}

	err = r.RegisterPipelines(
		pipeline.NewPipeline(ShapePipelineKey,
			pipeline.WithShader(s.shapeShader),
			pipeline.WithDepthTestEnabled(true),
			pipeline.WithDepthWriteEnabled(true),
			pipeline.WithCullMode(wgpu.CullModeBack),
		),
		pipeline.NewPipeline(ParticlePipelineKey,
			pipeline.WithShader(s.particleShader),
			pipeline.WithDepthTestEnabled(true),
			pipeline.WithDepthWriteEnabled(false),
			pipeline.WithCullMode(wgpu.CullModeNone),
			pipeline.WithBlendState(pipeline.AdditiveBlend()),
		),
	)
	if err != nil {
		return nil, err
	}

	s.cameraProvider = bind_group_provider.NewBindGroupProvider("camera")
	if err := r.InitBindGroup(s.cameraProvider, s.shapeShader.BindGroupLayoutDescriptor(cameraGroup)); err != nil {
		s.cameraProvider.Release()
		return nil, fmt.Errorf("scene: init camera bind group: %w", err)
	}

	w, h := r.Size()
	s.viewport = common.Viewport{Width: w, Height: h}
	cam.SetAspect(s.viewport.Aspect())

	// Queue size of 256 leaves headroom over the worker count since each frame submits at most one
	// task per worker.
	s.marshalPool = worker.NewDynamicWorkerPool(s.marshalWorkers, 256, 1*time.Second)

	return s, nil
}

// loadShader parses a shader and checks that its uniform blocks match the Go GPU structs.
func loadShader(key, source string) (shader.Shader, error) {
	sh, err := shader.NewShader(key, source)
	if err != nil {
		return nil, err
	}
	var cu camera.GPUCameraUniform
	var eu GPUEntityUniform
	if got := sh.BindingSize(cameraGroup, uniformBinding); got != uint64(cu.Size()) {
		return nil, fmt.Errorf("scene: %s camera uniform is %d bytes, want %d", key, got, cu.Size())
	}
	if got := sh.BindingSize(entityGroup, uniformBinding); got != uint64(eu.Size()) {
		return nil, fmt.Errorf("scene: %s entity uniform is %d bytes, want %d", key, got, eu.Size())
	}
	return sh, nil
}

func (s *scene) Render(frame Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats = Stats{}
	if s.viewport.Empty() {
		return nil
	}
	s.cam.SetAspect(s.viewport.Aspect())

	s.items = s.items[:0]
	for _, sh := range frame.Shapes {
		if !sh.Drawable() {
			s.stats.Skipped++
			continue
		}
		s.items = append(s.items, drawItem{shape: sh})
	}
	for _, p := range frame.Particles {
		if !p.Drawable() {
			s.stats.Skipped++
			continue
		}
		s.items = append(s.items, drawItem{particle: p})
	}

	cameraUniform := camera.NewGPUCameraUniform(s.cam, frame.Time)
	writes := append(s.writePool[:0], bind_group_provider.BufferWrite{
		Provider: s.cameraProvider,
		Binding:  uniformBinding,
		Data:     cameraUniform.Marshal(),
	})
	writes = s.marshalEntities(writes, frame.TargetedID)
	s.r.WriteBuffers(writes)
	s.writePool = writes

	if err := s.r.BeginFrame(); err != nil {
		return fmt.Errorf("scene: begin frame: %w", err)
	}

	s.drawBindGroups[cameraGroup] = s.cameraProvider
	for _, item := range s.items {
		key, mesh, uniform := item.providers()
		s.drawBindGroups[entityGroup] = uniform
		if err := s.r.DrawCall(key, mesh, 1, s.drawBindGroups); err != nil {
			s.stats.Skipped++
			s.logger.Debug("draw skipped", "label", uniform.Label(), "error", err)
			continue
		}
		if item.shape != nil {
			s.stats.Shapes++
		} else {
			s.stats.Particles++
		}
	}
	s.drawBindGroups[entityGroup] = nil

	s.r.EndFrame()
	s.r.Present()
	return nil
}

// marshalEntities appends one uniform write per queued item. Marshalling runs on the worker pool in
// contiguous batches; a WaitGroup is the per-frame barrier. Caller must hold the mutex.
func (s *scene) marshalEntities(writes []bind_group_provider.BufferWrite, targetedID uint64) []bind_group_provider.BufferWrite {
	n := len(s.items)
	if n == 0 {
		return writes
	}

	var block GPUEntityUniform
	size := block.Size()
	if cap(s.uniformBytes) < n*size {
		s.uniformBytes = make([]byte, n*size)
	}
	data := s.uniformBytes[:n*size]

	base := len(writes)
	writes = append(writes, make([]bind_group_provider.BufferWrite, n)...)
	entityWrites := writes[base:]

	batch := max(minBatch, (n+s.marshalWorkers-1)/s.marshalWorkers)
	var wg sync.WaitGroup
	taskID := 0
	for lo := 0; lo < n; lo += batch {
		hi := min(lo+batch, n)
		wg.Add(1)
		id := taskID
		taskID++
		s.marshalPool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for i := lo; i < hi; i++ {
					item := s.items[i]
					u := item.uniform(targetedID)
					chunk := data[i*size : (i+1)*size]
					u.MarshalTo(chunk)
					_, _, provider := item.providers()
					entityWrites[i] = bind_group_provider.BufferWrite{
						Provider: provider,
						Binding:  uniformBinding,
						Data:     chunk,
					}
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
	return writes
}

func (s *scene) ProjectToScreen(world [3]float32) (common.ScreenPoint, bool) {
	s.mu.Lock()
	viewport := s.viewport
	s.mu.Unlock()
	return s.cam.ProjectToScreen(world, viewport)
}

func (s *scene) Resize(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.r.Resize(width, height); err != nil {
		return fmt.Errorf("scene: resize to %dx%d: %w", width, height, err)
	}
	s.viewport = common.Viewport{Width: width, Height: height}
	s.cam.SetAspect(s.viewport.Aspect())
	return nil
}

func (s *scene) Viewport() common.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

func (s *scene) AllocateMesh(label string, mesh geometry.Mesh) (bind_group_provider.BindGroupProvider, error) {
	provider := bind_group_provider.NewBindGroupProvider(label)

	var err error
	if len(mesh.Indices) > 0 {
		err = s.r.InitMeshBuffers(provider, mesh.VertexBytes(), mesh.IndexBytes(), len(mesh.Indices))
	} else {
		err = s.r.InitVertexBuffer(provider, mesh.VertexBytes(), mesh.VertexCount())
	}
	if err != nil {
		provider.Release()
		return nil, err
	}
	return provider, nil
}

func (s *scene) AllocateUniform(label string) (bind_group_provider.BindGroupProvider, error) {
	provider := bind_group_provider.NewBindGroupProvider(label)
	if err := s.r.InitBindGroup(provider, s.shapeShader.BindGroupLayoutDescriptor(entityGroup)); err != nil {
		provider.Release()
		return nil, err
	}
	return provider, nil
}

func (s *scene) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Renderer() renderer.Renderer {
	return s.r
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cameraProvider != nil {
		s.cameraProvider.Release()
	}
}
