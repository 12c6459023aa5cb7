package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProviderKeepsLabel(t *testing.T) {
	p := NewBindGroupProvider("shape-7 uniform")
	assert.Equal(t, "shape-7 uniform", p.Label())
	assert.False(t, p.Released())
}

func TestReleaseIsIdempotent(t *testing.T) {
	p := NewBindGroupProvider("mesh")
	p.SetIndexCount(36)
	p.SetVertexCount(24)

	p.Release()
	assert.True(t, p.Released())
	assert.Zero(t, p.IndexCount())
	assert.Zero(t, p.VertexCount())

	assert.NotPanics(t, p.Release)
	assert.True(t, p.Released())
}

func TestDrawableWithoutGPUResources(t *testing.T) {
	assert.False(t, Drawable(nil))
	assert.False(t, Drawable(NewBindGroupProvider("empty")))
	assert.False(t, MeshReady(nil))
	assert.False(t, MeshReady(NewBindGroupProvider("empty")))
}
