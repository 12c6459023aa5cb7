package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSource = `
// camera data shared by every draw
struct CameraUniform {
    view_proj: mat4x4<f32>,
    position: vec3<f32>,
    time: f32,
}

struct EntityUniform {
    model: mat4x4<f32>,
    color: vec4<f32>,
    params: vec4<f32>,
}

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
}

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) normal: vec3<f32>,
}

@group(0) @binding(0) var<uniform> camera: CameraUniform;
@group(1) @binding(0) var<uniform> entity: EntityUniform;

/* @vertex fn commented_out() {} */
@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = camera.view_proj * entity.model * vec4<f32>(in.position, 1.0);
    out.normal = in.normal;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return entity.color;
}
`

func TestNewShaderEntryPoints(t *testing.T) {
	s, err := NewShader("test", testSource)
	require.NoError(t, err)

	assert.Equal(t, "test", s.Key())
	assert.Equal(t, "vs_main", s.EntryPoint(ShaderTypeVertex))
	assert.Equal(t, "fs_main", s.EntryPoint(ShaderTypeFragment))
	assert.Equal(t, "", s.EntryPoint(ShaderType(7)))
	assert.Equal(t, testSource, s.Module().WGSLDescriptor.Code)
}

func TestNewShaderUniformSizes(t *testing.T) {
	s, err := NewShader("test", testSource)
	require.NoError(t, err)

	size, ok := s.StructSize("CameraUniform")
	require.True(t, ok)
	assert.Equal(t, uint64(80), size)

	size, ok = s.StructSize("EntityUniform")
	require.True(t, ok)
	assert.Equal(t, uint64(96), size)

	assert.Equal(t, uint64(80), s.BindingSize(0, 0))
	assert.Equal(t, uint64(96), s.BindingSize(1, 0))
	assert.Zero(t, s.BindingSize(2, 0))

	assert.Equal(t, "camera", s.BindGroupVarName(0, 0))
	assert.Equal(t, "entity", s.BindGroupVarName(1, 0))

	desc := s.BindGroupLayoutDescriptor(1)
	require.Len(t, desc.Entries, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, desc.Entries[0].Buffer.Type)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, desc.Entries[0].Visibility)
}

func TestNewShaderVertexLayout(t *testing.T) {
	s, err := NewShader("test", testSource)
	require.NoError(t, err)

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 1)
	assert.Equal(t, uint64(24), layouts[0].ArrayStride)
	require.Len(t, layouts[0].Attributes, 2)
	assert.Equal(t, uint64(12), layouts[0].Attributes[1].Offset)
	assert.Equal(t, uint32(1), layouts[0].Attributes[1].ShaderLocation)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, layouts[0].Attributes[0].Format)
}

func TestNewShaderMissingFragment(t *testing.T) {
	_, err := NewShader("vertex-only", `@vertex fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(); }`)
	assert.ErrorIs(t, err, ErrMissingEntryPoint)
}

func TestNewShaderRejectsTextures(t *testing.T) {
	src := testSource + "\n@group(2) @binding(0) var tex: texture_2d<f32>;\n"
	_, err := NewShader("textured", src)
	assert.Error(t, err)
}

func TestResolveFixedArray(t *testing.T) {
	layout, ok := resolveTypeLayout("array<vec3<f32>, 4>", nil)
	require.True(t, ok)
	assert.Equal(t, uint64(64), layout.size)

	_, ok = resolveTypeLayout("array<f32>", nil)
	assert.False(t, ok)
}
