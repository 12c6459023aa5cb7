package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("shapes")
	assert.Equal(t, "shapes", p.PipelineKey())
	assert.True(t, p.DepthTestEnabled())
	assert.True(t, p.DepthWriteEnabled())
	assert.False(t, p.BlendEnabled())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Nil(t, p.Shader())
	assert.Nil(t, p.RenderPipeline())
}

func TestParticlePipelineOptions(t *testing.T) {
	p := NewPipeline("particles",
		WithDepthWriteEnabled(false),
		WithBlendState(AdditiveBlend()),
	)
	assert.True(t, p.DepthTestEnabled())
	assert.False(t, p.DepthWriteEnabled())
	assert.True(t, p.BlendEnabled())
	assert.Equal(t, wgpu.BlendFactorOne, p.BlendState().Color.DstFactor)
	assert.NotPanics(t, p.Release)
}
