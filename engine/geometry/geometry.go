// Package geometry generates the procedural meshes drawn by the scene. Every generator is a pure
// function: the same shape type always produces the same vertex and index data, which lets callers
// share one GPU upload per type through a Cache.
package geometry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/cognitive-cannon/common"
)

// ErrUnknownShape is returned when a mesh is requested for a shape type with no generator.
var ErrUnknownShape = errors.New("geometry: unknown shape type")

// ShapeType identifies one of the procedural shape meshes.
type ShapeType int

const (
	ShapeCube ShapeType = iota
	ShapeSphere
	ShapeTorus
	ShapePyramid
)

// ShapeStride is the number of floats per shape vertex: position (3) followed by normal (3).
const ShapeStride = 6

// QuadStride is the number of floats per particle quad vertex: position (3) followed by uv (2).
const QuadStride = 5

var shapeTypeNames = map[ShapeType]string{
	ShapeCube:    "cube",
	ShapeSphere:  "sphere",
	ShapeTorus:   "torus",
	ShapePyramid: "pyramid",
}

// ShapeTypes returns every known shape type in declaration order.
func ShapeTypes() []ShapeType {
	return []ShapeType{ShapeCube, ShapeSphere, ShapeTorus, ShapePyramid}
}

// String returns the lower-case word used for the shape type, which is also the voice command that
// targets it.
func (t ShapeType) String() string {
	if name, ok := shapeTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ShapeType(%d)", int(t))
}

// Valid reports whether t names a known shape.
func (t ShapeType) Valid() bool {
	_, ok := shapeTypeNames[t]
	return ok
}

// ParseShapeType maps a shape word (case-insensitive) back to its ShapeType.
//
// Parameters:
//   - s: the word to parse, e.g. "Sphere"
//
// Returns:
//   - ShapeType: the matching type
//   - error: ErrUnknownShape wrapped with the input when no type matches
func ParseShapeType(s string) (ShapeType, error) {
	word := strings.ToLower(strings.TrimSpace(s))
	for t, name := range shapeTypeNames {
		if name == word {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, s)
}

// Mesh is interleaved vertex data plus an optional uint16 index list. A mesh with no indices is drawn
// as a plain triangle list.
type Mesh struct {
	Vertices []float32
	Indices  []uint16
	Stride   int
}

// VertexCount returns the number of whole vertices in the mesh.
func (m Mesh) VertexCount() int {
	if m.Stride <= 0 {
		return 0
	}
	return len(m.Vertices) / m.Stride
}

// VertexBytes returns the vertex data as bytes for a GPU upload.
func (m Mesh) VertexBytes() []byte {
	return common.SliceToBytes(m.Vertices)
}

// IndexBytes returns the index data as bytes for a GPU upload. WebGPU buffer writes must be a multiple
// of four bytes, so an odd index count is padded with one trailing zero index that is never drawn.
func (m Mesh) IndexBytes() []byte {
	if len(m.Indices) == 0 {
		return nil
	}
	if len(m.Indices)%2 == 0 {
		return common.SliceToBytes(m.Indices)
	}
	padded := make([]uint16, len(m.Indices)+1)
	copy(padded, m.Indices)
	return common.SliceToBytes(padded)
}

// Generate builds the mesh for a shape type.
//
// Parameters:
//   - t: the shape type to generate
//
// Returns:
//   - Mesh: position+normal vertices with ShapeStride and CCW-wound indices
//   - error: ErrUnknownShape if t has no generator
func Generate(t ShapeType) (Mesh, error) {
	switch t {
	case ShapeCube:
		return cube(), nil
	case ShapeSphere:
		return sphere(0.5, 16, 12), nil
	case ShapeTorus:
		return torus(0.4, 0.15, 20, 12), nil
	case ShapePyramid:
		return pyramid(), nil
	default:
		return Mesh{}, fmt.Errorf("%w: %d", ErrUnknownShape, int(t))
	}
}

// Quad builds a camera-facing particle quad of the given edge length centered on the origin in the
// XY plane. It is six non-indexed vertices forming two CCW triangles.
func Quad(size float32) Mesh {
	h := size / 2
	return Mesh{
		Vertices: []float32{
			-h, -h, 0, 0, 1,
			h, -h, 0, 1, 1,
			h, h, 0, 1, 0,

			-h, -h, 0, 0, 1,
			h, h, 0, 1, 0,
			-h, h, 0, 0, 0,
		},
		Stride: QuadStride,
	}
}
