package geometry

import (
	"github.com/Carmen-Shannon/cognitive-cannon/common"
	"github.com/chewxy/math32"
)

// cubeFaces lists each face as its outward normal plus two in-plane axes chosen so that u x v equals
// the normal, which keeps the quad winding counter-clockwise when viewed from outside.
var cubeFaces = [6]struct {
	n, u, v [3]float32
}{
	{n: [3]float32{1, 0, 0}, u: [3]float32{0, 0, -1}, v: [3]float32{0, 1, 0}},
	{n: [3]float32{-1, 0, 0}, u: [3]float32{0, 0, 1}, v: [3]float32{0, 1, 0}},
	{n: [3]float32{0, 1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, -1}},
	{n: [3]float32{0, -1, 0}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 0, 1}},
	{n: [3]float32{0, 0, 1}, u: [3]float32{1, 0, 0}, v: [3]float32{0, 1, 0}},
	{n: [3]float32{0, 0, -1}, u: [3]float32{-1, 0, 0}, v: [3]float32{0, 1, 0}},
}

// cube is a unit cube centered on the origin with four vertices per face so each face keeps a flat normal.
func cube() Mesh {
	vertices := make([]float32, 0, 24*ShapeStride)
	indices := make([]uint16, 0, 36)

	for f, face := range cubeFaces {
		c := common.Scale3(face.n, 0.5)
		u := common.Scale3(face.u, 0.5)
		v := common.Scale3(face.v, 0.5)
		corners := [4][3]float32{
			common.Sub3(common.Sub3(c, u), v),
			common.Sub3(common.Add3(c, u), v),
			common.Add3(common.Add3(c, u), v),
			common.Add3(common.Sub3(c, u), v),
		}
		for _, p := range corners {
			vertices = appendVertex(vertices, p, face.n)
		}
		base := uint16(f * 4)
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	return Mesh{Vertices: vertices, Indices: indices, Stride: ShapeStride}
}

// sphere tessellates a UV sphere. Rings run from the north pole (theta = 0) to the south pole and
// segments wrap around Y; the seam column is duplicated so every ring has segments+1 vertices.
func sphere(radius float32, segments, rings int) Mesh {
	vertices := make([]float32, 0, (rings+1)*(segments+1)*ShapeStride)
	indices := make([]uint16, 0, rings*segments*6)

	for ring := 0; ring <= rings; ring++ {
		theta := float32(ring) * math32.Pi / float32(rings)
		sinTheta, cosTheta := math32.Sincos(theta)
		for seg := 0; seg <= segments; seg++ {
			phi := float32(seg) * 2 * math32.Pi / float32(segments)
			sinPhi, cosPhi := math32.Sincos(phi)
			n := [3]float32{cosPhi * sinTheta, cosTheta, sinPhi * sinTheta}
			vertices = appendVertex(vertices, common.Scale3(n, radius), n)
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint16(ring*(segments+1) + seg)
			next := current + uint16(segments+1)
			indices = append(indices,
				current, current+1, next,
				current+1, next+1, next,
			)
		}
	}

	return Mesh{Vertices: vertices, Indices: indices, Stride: ShapeStride}
}

// torus tessellates a ring torus lying in the XZ plane. The outer loop walks the major circle and the
// inner loop walks the tube cross-section.
func torus(majorRadius, minorRadius float32, segments, rings int) Mesh {
	vertices := make([]float32, 0, (segments+1)*(rings+1)*ShapeStride)
	indices := make([]uint16, 0, segments*rings*6)

	for i := 0; i <= segments; i++ {
		u := float32(i) * 2 * math32.Pi / float32(segments)
		sinU, cosU := math32.Sincos(u)
		for j := 0; j <= rings; j++ {
			v := float32(j) * 2 * math32.Pi / float32(rings)
			sinV, cosV := math32.Sincos(v)
			ring := majorRadius + minorRadius*cosV
			p := [3]float32{ring * cosU, minorRadius * sinV, ring * sinU}
			n := [3]float32{cosV * cosU, sinV, cosV * sinU}
			vertices = appendVertex(vertices, p, n)
		}
	}

	for i := 0; i < segments; i++ {
		for j := 0; j < rings; j++ {
			current := uint16(i*(rings+1) + j)
			next := current + uint16(rings+1)
			indices = append(indices,
				current, current+1, next,
				current+1, next+1, next,
			)
		}
	}

	return Mesh{Vertices: vertices, Indices: indices, Stride: ShapeStride}
}

// pyramid is a square-based pyramid with its apex on +Y. Each side has its own three vertices so the
// face normal stays flat.
func pyramid() Mesh {
	apex := [3]float32{0, 0.5, 0}
	a := [3]float32{-0.5, -0.5, 0.5}
	b := [3]float32{0.5, -0.5, 0.5}
	c := [3]float32{0.5, -0.5, -0.5}
	d := [3]float32{-0.5, -0.5, -0.5}

	sides := [4][2][3]float32{{a, b}, {b, c}, {c, d}, {d, a}}
	vertices := make([]float32, 0, 16*ShapeStride)
	indices := make([]uint16, 0, 18)

	for i, side := range sides {
		n := common.Normalize3(common.Cross3(common.Sub3(side[1], side[0]), common.Sub3(apex, side[0])))
		vertices = appendVertex(vertices, side[0], n)
		vertices = appendVertex(vertices, side[1], n)
		vertices = appendVertex(vertices, apex, n)
		base := uint16(i * 3)
		indices = append(indices, base, base+1, base+2)
	}

	down := [3]float32{0, -1, 0}
	for _, p := range [4][3]float32{a, b, c, d} {
		vertices = appendVertex(vertices, p, down)
	}
	indices = append(indices, 12, 15, 14, 12, 14, 13)

	return Mesh{Vertices: vertices, Indices: indices, Stride: ShapeStride}
}

func appendVertex(dst []float32, p, n [3]float32) []float32 {
	return append(dst, p[0], p[1], p[2], n[0], n[1], n[2])
}
