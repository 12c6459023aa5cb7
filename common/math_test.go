package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testViewProj(aspect float32) []float32 {
	view := make([]float32, 16)
	proj := make([]float32, 16)
	vp := make([]float32, 16)
	LookAt(view, [3]float32{0, 0, 0}, [3]float32{0, 0, -1}, [3]float32{0, 1, 0})
	Perspective(proj, 60*math32.Pi/180, aspect, 0.1, 100)
	Mul4(vp, proj, view)
	return vp
}

func TestMul4Identity(t *testing.T) {
	a := make([]float32, 16)
	id := make([]float32, 16)
	Identity(id)
	BuildModelMatrix(a, [3]float32{1, 2, 3}, 0.3, 0.2, 0.1, 2)

	out := make([]float32, 16)
	Mul4(out, a, id)
	assert.Equal(t, a, out)
	Mul4(out, id, a)
	assert.Equal(t, a, out)
}

func TestBuildModelMatrixTranslation(t *testing.T) {
	m := make([]float32, 16)
	BuildModelMatrix(m, [3]float32{1, -2, -10}, 0, 0, 0, 1)
	p := TransformPoint(m, [3]float32{0.5, 0.5, 0.5})
	assert.InDelta(t, 1.5, p[0], 1e-6)
	assert.InDelta(t, -1.5, p[1], 1e-6)
	assert.InDelta(t, -9.5, p[2], 1e-6)
	assert.InDelta(t, 1, p[3], 1e-6)
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := make([]float32, 16)
	Perspective(proj, math32.Pi/3, 1, 0.1, 100)

	near := TransformPoint(proj, [3]float32{0, 0, -0.1})
	far := TransformPoint(proj, [3]float32{0, 0, -100})
	assert.InDelta(t, 0, near[2]/near[3], 1e-5)
	assert.InDelta(t, 1, far[2]/far[3], 1e-5)

	behind := TransformPoint(proj, [3]float32{0, 0, 1})
	assert.Less(t, behind[3], float32(0))
}

func TestProjectToScreenCenter(t *testing.T) {
	vp := testViewProj(16.0 / 9.0)
	viewport := Viewport{Width: 1600, Height: 900}

	pt, ok := ProjectToScreen(vp, [3]float32{0, 0, -10}, viewport)
	require.True(t, ok)
	assert.InDelta(t, 800, pt.X, 1e-2)
	assert.InDelta(t, 450, pt.Y, 1e-2)
}

func TestProjectToScreenYFlip(t *testing.T) {
	vp := testViewProj(1)
	viewport := Viewport{Width: 800, Height: 800}

	above, ok := ProjectToScreen(vp, [3]float32{0, 1, -5}, viewport)
	require.True(t, ok)
	assert.Less(t, above.Y, float32(400))

	right, ok := ProjectToScreen(vp, [3]float32{1, 0, -5}, viewport)
	require.True(t, ok)
	assert.Greater(t, right.X, float32(400))
}

func TestProjectToScreenRejectsBehindCamera(t *testing.T) {
	vp := testViewProj(1)
	viewport := Viewport{Width: 800, Height: 600}

	_, ok := ProjectToScreen(vp, [3]float32{0, 0, 5}, viewport)
	assert.False(t, ok)
	_, ok = ProjectToScreen(vp, [3]float32{0, 0, 0}, viewport)
	assert.False(t, ok)
	_, ok = ProjectToScreen(vp, [3]float32{0, 0, -5}, Viewport{})
	assert.False(t, ok)
}

func TestFrustumContainsPoint(t *testing.T) {
	f := ExtractFrustumFromMatrix(testViewProj(16.0 / 9.0))

	assert.True(t, f.ContainsPoint([3]float32{0, 0, -10}, 0))
	assert.False(t, f.ContainsPoint([3]float32{0, 0, 5}, 0))
	assert.False(t, f.ContainsPoint([3]float32{0, 0, -200}, 0))
	assert.False(t, f.ContainsPoint([3]float32{50, 0, -10}, 0))

	hw, hh := HalfExtentsAtDepth(math32.Pi/3, 16.0/9.0, 10)
	assert.True(t, f.ContainsPoint([3]float32{hw * 0.99, hh * 0.99, -10}, 0))
	assert.False(t, f.ContainsPoint([3]float32{hw * 1.05, 0, -10}, 0))
}

func TestSwapRemove(t *testing.T) {
	s := []int{1, 2, 3, 4}
	s = SwapRemove(s, 1)
	assert.Equal(t, []int{1, 4, 3}, s)
	s = SwapRemove(s, 2)
	assert.Equal(t, []int{1, 4}, s)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 3, 4))
	assert.Equal(t, "", Coalesce("", ""))
}
