package scene

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/cognitive-cannon/engine/camera"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/geometry"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/renderer"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/renderer/shader"
	"github.com/Carmen-Shannon/cognitive-cannon/game/particle"
	"github.com/Carmen-Shannon/cognitive-cannon/game/shape"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type drawRecord struct {
	key   string
	label string
}

// fakeRenderer records calls without touching a GPU.
type fakeRenderer struct {
	width, height int
	pipelines     map[string]pipeline.Pipeline
	bindGroups    map[string]wgpu.BindGroupLayoutDescriptor
	indexed       []string
	nonIndexed    []string
	writes        []bind_group_provider.BufferWrite
	draws         []drawRecord
	frames        int
	presented     int
	failDraw      string
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		width:      1920,
		height:     1080,
		pipelines:  make(map[string]pipeline.Pipeline),
		bindGroups: make(map[string]wgpu.BindGroupLayoutDescriptor),
	}
}

func (f *fakeRenderer) Pipeline(key string) pipeline.Pipeline { return f.pipelines[key] }

func (f *fakeRenderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	for _, p := range pipelines {
		f.pipelines[p.PipelineKey()] = p
	}
	return nil
}

func (f *fakeRenderer) Resize(width, height int) error {
	f.width, f.height = width, height
	return nil
}

func (f *fakeRenderer) Size() (int, int) { return f.width, f.height }

func (f *fakeRenderer) SetPresentMode(renderer.PresentMode) {}

func (f *fakeRenderer) InitMeshBuffers(p bind_group_provider.BindGroupProvider, _, _ []byte, indexCount int) error {
	f.indexed = append(f.indexed, p.Label())
	p.SetIndexCount(indexCount)
	return nil
}

func (f *fakeRenderer) InitVertexBuffer(p bind_group_provider.BindGroupProvider, _ []byte, vertexCount int) error {
	f.nonIndexed = append(f.nonIndexed, p.Label())
	p.SetVertexCount(vertexCount)
	return nil
}

func (f *fakeRenderer) InitBindGroup(p bind_group_provider.BindGroupProvider, d wgpu.BindGroupLayoutDescriptor) error {
	f.bindGroups[p.Label()] = d
	return nil
}

func (f *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.writes = append(f.writes[:0], writes...)
}

func (f *fakeRenderer) BeginFrame() error {
	f.frames++
	return nil
}

func (f *fakeRenderer) DrawCall(key string, _ bind_group_provider.BindGroupProvider, _ uint32, groups []bind_group_provider.BindGroupProvider) error {
	label := groups[1].Label()
	if label == f.failDraw {
		return renderer.ErrMissingResource
	}
	f.draws = append(f.draws, drawRecord{key: key, label: label})
	return nil
}

func (f *fakeRenderer) EndFrame() {}

func (f *fakeRenderer) Present() { f.presented++ }

func (f *fakeRenderer) Release() {}

func newTestScene(t *testing.T) (Scene, *fakeRenderer) {
	t.Helper()
	r := newFakeRenderer()
	s, err := NewScene(r, camera.NewCamera(), WithMarshalWorkers(2))
	require.NoError(t, err)
	return s, r
}

func TestEmbeddedShadersMatchGPUStructs(t *testing.T) {
	for key, src := range map[string]string{ShapePipelineKey: shapeShaderSource, ParticlePipelineKey: particleShaderSource} {
		sh, err := shader.NewShader(key, src)
		require.NoError(t, err, key)
		assert.Equal(t, uint64(80), sh.BindingSize(cameraGroup, uniformBinding), key)
		assert.Equal(t, uint64(96), sh.BindingSize(entityGroup, uniformBinding), key)
		require.Len(t, sh.VertexLayouts(), 1, key)
	}

	sh, _ := shader.NewShader(ShapePipelineKey, shapeShaderSource)
	assert.Equal(t, uint64(geometry.ShapeStride*4), sh.VertexLayouts()[0].ArrayStride)
	sh, _ = shader.NewShader(ParticlePipelineKey, particleShaderSource)
	assert.Equal(t, uint64(geometry.QuadStride*4), sh.VertexLayouts()[0].ArrayStride)
}

func TestNewSceneRegistersPipelines(t *testing.T) {
	_, r := newTestScene(t)

	shapes := r.pipelines[ShapePipelineKey]
	require.NotNil(t, shapes)
	assert.True(t, shapes.DepthWriteEnabled())
	assert.Equal(t, wgpu.CullModeBack, shapes.CullMode())
	assert.False(t, shapes.BlendEnabled())

	particles := r.pipelines[ParticlePipelineKey]
	require.NotNil(t, particles)
	assert.True(t, particles.DepthTestEnabled())
	assert.False(t, particles.DepthWriteEnabled())
	assert.True(t, particles.BlendEnabled())

	assert.Contains(t, r.bindGroups, "camera")
}

func TestProjectToScreenCenter(t *testing.T) {
	s, _ := newTestScene(t)
	p, ok := s.ProjectToScreen([3]float32{0, 0, -10})
	require.True(t, ok)
	assert.InDelta(t, 960, p.X, 1)
	assert.InDelta(t, 540, p.Y, 1)
	assert.InDelta(t, 16.0/9.0, s.Camera().Aspect(), 1e-6)
}

func TestAllocateMeshPicksBufferLayout(t *testing.T) {
	s, r := newTestScene(t)
	cube, err := geometry.Generate(geometry.ShapeCube)
	require.NoError(t, err)

	m, err := s.AllocateMesh("cube", cube)
	require.NoError(t, err)
	assert.Equal(t, len(cube.Indices), m.IndexCount())

	q, err := s.AllocateMesh("quad", geometry.Quad(0.2))
	require.NoError(t, err)
	assert.Equal(t, 6, q.VertexCount())

	assert.Equal(t, []string{"cube"}, r.indexed)
	assert.Equal(t, []string{"quad"}, r.nonIndexed)

	_, err = s.AllocateUniform("u")
	require.NoError(t, err)
	assert.Len(t, r.bindGroups["u"].Entries, 1)
}

func TestRenderDrawsDrawableEntities(t *testing.T) {
	s, r := newTestScene(t)
	pool := shape.NewSpawner(s, shape.NewScatter())
	a, err := pool.Spawn(geometry.ShapeCube, [3]float32{0, 0, -10}, [3]float32{})
	require.NoError(t, err)
	b, err := pool.Spawn(geometry.ShapeSphere, [3]float32{2, 0, -10}, [3]float32{})
	require.NoError(t, err)
	pool.MarkForRemoval(b.ID)

	particles := particle.NewSystem(s, particle.WithCount(3))
	particles.CreateExplosion([3]float32{0, 0, -10}, [3]float32{1, 0, 0})

	err = s.Render(Frame{Shapes: pool.Shapes(), Particles: particles.Particles(), TargetedID: a.ID, Time: 2})
	require.NoError(t, err)

	assert.Equal(t, 1, r.frames)
	assert.Equal(t, 1, r.presented)
	require.Len(t, r.draws, 4)
	assert.Equal(t, ShapePipelineKey, r.draws[0].key)
	assert.Equal(t, a.Uniform().Label(), r.draws[0].label)
	for _, d := range r.draws[1:] {
		assert.Equal(t, ParticlePipelineKey, d.key)
	}
	assert.Equal(t, Stats{Shapes: 1, Particles: 3, Skipped: 1}, s.Stats())

	// camera + one write per drawn entity
	require.Len(t, r.writes, 5)
	assert.Len(t, r.writes[0].Data, 80)
	assert.Equal(t, math.Float32bits(2), binary.LittleEndian.Uint32(r.writes[0].Data[76:]))
	shapeWrite := r.writes[1]
	assert.Equal(t, a.Uniform(), shapeWrite.Provider)
	require.Len(t, shapeWrite.Data, 96)
	assert.Equal(t, math.Float32bits(1), binary.LittleEndian.Uint32(shapeWrite.Data[84:]), "targeted flag")
}

func TestRenderToleratesEmptyFrame(t *testing.T) {
	s, r := newTestScene(t)
	require.NoError(t, s.Render(Frame{}))
	assert.Equal(t, 1, r.frames)
	assert.Empty(t, r.draws)
	assert.Len(t, r.writes, 1)
}

func TestRenderSkipsFailedDraws(t *testing.T) {
	s, r := newTestScene(t)
	pool := shape.NewSpawner(s, shape.NewScatter())
	a, _ := pool.Spawn(geometry.ShapeCube, [3]float32{0, 0, -10}, [3]float32{})
	b, _ := pool.Spawn(geometry.ShapeTorus, [3]float32{1, 0, -10}, [3]float32{})
	r.failDraw = a.Uniform().Label()

	require.NoError(t, s.Render(Frame{Shapes: pool.Shapes()}))
	require.Len(t, r.draws, 1)
	assert.Equal(t, b.Uniform().Label(), r.draws[0].label)
	assert.Equal(t, 1, s.Stats().Skipped)
}

func TestRenderSkipsEmptyViewport(t *testing.T) {
	s, r := newTestScene(t)
	require.NoError(t, s.Resize(0, 0))
	require.NoError(t, s.Render(Frame{}))
	assert.Zero(t, r.frames)
	_, ok := s.ProjectToScreen([3]float32{0, 0, -10})
	assert.False(t, ok)
}

func TestRenderMarshalsLargeBatches(t *testing.T) {
	s, r := newTestScene(t)
	particles := particle.NewSystem(s, particle.WithCount(100))
	particles.CreateExplosion([3]float32{0, 0, -5}, [3]float32{0, 1, 0})

	require.NoError(t, s.Render(Frame{Particles: particles.Particles()}))
	require.Len(t, r.writes, 101)
	for i, p := range particles.Particles() {
		w := r.writes[i+1]
		assert.Equal(t, p.Uniform(), w.Provider)
		assert.Equal(t, math.Float32bits(p.Position[2]), binary.LittleEndian.Uint32(w.Data[56:]))
	}
}

func TestEntityUniformMarshal(t *testing.T) {
	u := GPUEntityUniform{Color: [4]float32{1, 2, 3, 4}, Params: [4]float32{0.5, 1, 0.25, 0}}
	assert.Equal(t, 96, u.Size())
	buf := u.Marshal()
	assert.Equal(t, math.Float32bits(3), binary.LittleEndian.Uint32(buf[72:]))
	assert.Equal(t, math.Float32bits(0.25), binary.LittleEndian.Uint32(buf[88:]))
}

func TestResizeError(t *testing.T) {
	s, _ := newTestScene(t)
	r := &failingResize{fakeRenderer: newFakeRenderer()}
	s2, err := NewScene(r, camera.NewCamera())
	require.NoError(t, err)
	assert.Error(t, s2.Resize(10, 10))
	assert.Equal(t, 1920, s2.Viewport().Width)
	assert.Equal(t, 1920, s.Viewport().Width)
}

type failingResize struct {
	*fakeRenderer
}

func (f *failingResize) Resize(int, int) error { return errors.New("surface lost") }
