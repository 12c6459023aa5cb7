package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/cognitive-cannon/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()
	assert.InDelta(t, math.Pi/3, float64(c.Fov()), 1e-6)
	assert.Equal(t, float32(0.1), c.Near())
	assert.Equal(t, float32(100), c.Far())
	assert.Equal(t, [3]float32{}, c.Position())
	assert.Equal(t, [3]float32{0, 0, -1}, c.Target())
}

func TestProjectToScreenLookDirectionIsCenter(t *testing.T) {
	c := NewCamera(WithAspect(16.0 / 9.0))
	viewport := common.Viewport{Width: 1920, Height: 1080}

	p, ok := c.ProjectToScreen([3]float32{0, 0, -10}, viewport)
	require.True(t, ok)
	assert.InDelta(t, 960, p.X, 0.5)
	assert.InDelta(t, 540, p.Y, 0.5)
}

func TestProjectToScreenRejectsBehindCamera(t *testing.T) {
	c := NewCamera(WithAspect(16.0 / 9.0))
	_, ok := c.ProjectToScreen([3]float32{0, 0, 5}, common.Viewport{Width: 1920, Height: 1080})
	assert.False(t, ok)
	_, ok = c.ProjectToScreen([3]float32{0, 0, 0}, common.Viewport{Width: 1920, Height: 1080})
	assert.False(t, ok)
}

func TestSetAspectRecomputesProjection(t *testing.T) {
	c := NewCamera(WithAspect(1))
	before := c.ProjectionMatrix()
	c.SetAspect(2)
	after := c.ProjectionMatrix()
	assert.InDelta(t, before[0]/2, after[0], 1e-6)
	assert.Equal(t, before[5], after[5])

	c.SetAspect(0)
	c.SetAspect(-1)
	assert.Equal(t, float32(2), c.Aspect())
}

func TestFrustumContainsLookDirection(t *testing.T) {
	c := NewCamera(WithAspect(16.0 / 9.0))
	f := c.Frustum()
	assert.True(t, f.ContainsPoint([3]float32{0, 0, -10}, 0))
	assert.False(t, f.ContainsPoint([3]float32{0, 0, 10}, 0))
	assert.False(t, f.ContainsPoint([3]float32{0, 0, -200}, 0))
}

func TestGPUCameraUniformMarshal(t *testing.T) {
	c := NewCamera(WithPosition([3]float32{1, 2, 3}), WithTarget([3]float32{1, 2, 0}))
	u := NewGPUCameraUniform(c, 4.5)
	assert.Equal(t, 80, u.Size())

	buf := u.Marshal()
	require.Len(t, buf, 80)
	vp := c.ViewProjectionMatrix()
	assert.Equal(t, math.Float32bits(vp[0]), binary.LittleEndian.Uint32(buf[0:]))
	assert.Equal(t, math.Float32bits(2), binary.LittleEndian.Uint32(buf[68:]))
	assert.Equal(t, math.Float32bits(4.5), binary.LittleEndian.Uint32(buf[76:]))
}
