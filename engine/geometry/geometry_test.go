package geometry

import (
	"testing"

	"github.com/Carmen-Shannon/cognitive-cannon/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vertexAt(m Mesh, i uint16) (pos, normal [3]float32) {
	o := int(i) * m.Stride
	copy(pos[:], m.Vertices[o:o+3])
	copy(normal[:], m.Vertices[o+3:o+6])
	return pos, normal
}

func TestGenerateAllShapes(t *testing.T) {
	for _, st := range ShapeTypes() {
		t.Run(st.String(), func(t *testing.T) {
			m, err := Generate(st)
			require.NoError(t, err)

			assert.Equal(t, ShapeStride, m.Stride)
			assert.NotEmpty(t, m.Vertices)
			assert.Zero(t, len(m.Vertices)%m.Stride)
			assert.NotEmpty(t, m.Indices)
			assert.Zero(t, len(m.Indices)%3)
			for _, idx := range m.Indices {
				assert.Less(t, int(idx), m.VertexCount())
			}
		})
	}
}

func TestGenerateOutwardWinding(t *testing.T) {
	for _, st := range ShapeTypes() {
		t.Run(st.String(), func(t *testing.T) {
			m, err := Generate(st)
			require.NoError(t, err)

			for i := 0; i < len(m.Indices); i += 3 {
				p0, n0 := vertexAt(m, m.Indices[i])
				p1, n1 := vertexAt(m, m.Indices[i+1])
				p2, n2 := vertexAt(m, m.Indices[i+2])

				face := common.Cross3(common.Sub3(p1, p0), common.Sub3(p2, p0))
				if common.Length3(face) < 1e-6 {
					continue // collapsed pole triangles
				}
				avg := common.Add3(common.Add3(n0, n1), n2)
				assert.Greater(t, common.Dot3(face, avg), float32(0), "triangle %d faces inward", i/3)
			}
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(ShapeTorus)
	require.NoError(t, err)
	b, err := Generate(ShapeTorus)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateUnknownShape(t *testing.T) {
	_, err := Generate(ShapeType(42))
	assert.ErrorIs(t, err, ErrUnknownShape)
}

func TestParseShapeType(t *testing.T) {
	st, err := ParseShapeType(" Sphere ")
	require.NoError(t, err)
	assert.Equal(t, ShapeSphere, st)

	for _, want := range ShapeTypes() {
		got, err := ParseShapeType(want.String())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err = ParseShapeType("hexagon")
	assert.ErrorIs(t, err, ErrUnknownShape)
	assert.False(t, ShapeType(-1).Valid())
}

func TestQuad(t *testing.T) {
	q := Quad(1)
	assert.Equal(t, QuadStride, q.Stride)
	assert.Equal(t, 6, q.VertexCount())
	assert.Empty(t, q.Indices)
	assert.Nil(t, q.IndexBytes())
	assert.Len(t, q.VertexBytes(), 6*QuadStride*4)
}

func TestIndexBytesPadding(t *testing.T) {
	m := Mesh{Indices: []uint16{0, 1, 2}}
	assert.Len(t, m.IndexBytes(), 8)

	m.Indices = []uint16{0, 1, 2, 0, 2, 3}
	assert.Len(t, m.IndexBytes(), 12)
}

func TestCache(t *testing.T) {
	c := NewCache()
	first, err := c.Get(ShapeCube)
	require.NoError(t, err)
	second, err := c.Get(ShapeCube)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.Len())

	_, err = c.Get(ShapeType(9))
	assert.ErrorIs(t, err, ErrUnknownShape)
	assert.Equal(t, 1, c.Len())
}
