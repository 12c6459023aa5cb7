package common

import (
	"github.com/chewxy/math32"
)

// Plane represents a plane in 3D space using the equation: ax + by + cz + d = 0
// where (a, b, c) is the normal and d is the distance from origin.
type Plane struct {
	Normal   [3]float32
	Distance float32
}

// SignedDistance returns the signed distance of p from the plane. Positive values lie on the
// side the normal points to.
func (p Plane) SignedDistance(point [3]float32) float32 {
	return Dot3(p.Normal, point) + p.Distance
}

// Frustum represents the six planes of a view frustum.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustumFromMatrix extracts frustum planes from a view-projection matrix.
// The matrix should be the combined Projection * View matrix with WebGPU [0, 1] clip depth.
// Uses the Gribb/Hartmann method for plane extraction.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: 16 float32 values representing the view-projection matrix (column-major)
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustumFromMatrix(viewProj []float32) Frustum {
	var f Frustum

	// For column-major matrix M, row i is (M[i], M[4+i], M[8+i], M[12+i]).
	row := func(i int) [4]float32 {
		return [4]float32{viewProj[i], viewProj[4+i], viewProj[8+i], viewProj[12+i]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	set := func(index int, a, b [4]float32, sign float32) {
		f.Planes[index] = Plane{
			Normal:   [3]float32{a[0] + sign*b[0], a[1] + sign*b[1], a[2] + sign*b[2]},
			Distance: a[3] + sign*b[3],
		}
	}
	set(FrustumLeft, r3, r0, 1)
	set(FrustumRight, r3, r0, -1)
	set(FrustumBottom, r3, r1, 1)
	set(FrustumTop, r3, r1, -1)
	// Clip depth is [0, 1], so the near plane is row2 alone rather than row3 + row2.
	set(FrustumNear, r2, [4]float32{}, 0)
	set(FrustumFar, r3, r2, -1)

	for i := range f.Planes {
		f.normalizePlane(i)
	}

	return f
}

// ContainsPoint reports whether point lies inside all six planes, allowing a margin of
// tolerance outside each plane.
func (f *Frustum) ContainsPoint(point [3]float32, tolerance float32) bool {
	for _, p := range f.Planes {
		if p.SignedDistance(point) < -tolerance {
			return false
		}
	}
	return true
}

// ContainsSphere reports whether a sphere intersects the frustum.
func (f *Frustum) ContainsSphere(center [3]float32, radius float32) bool {
	return f.ContainsPoint(center, radius)
}

// normalizePlane normalizes a frustum plane so that the normal has unit length.
func (f *Frustum) normalizePlane(index int) {
	p := &f.Planes[index]
	length := Length3(p.Normal)

	if length > 0 && !math32.IsInf(length, 0) {
		invLen := 1.0 / length
		p.Normal[0] *= invLen
		p.Normal[1] *= invLen
		p.Normal[2] *= invLen
		p.Distance *= invLen
	}
}

// HalfExtentsAtDepth returns the half width and half height of the visible frustum cross-section
// at the given distance in front of a camera with the given vertical field of view and aspect.
func HalfExtentsAtDepth(fovY, aspect, distance float32) (halfWidth, halfHeight float32) {
	halfHeight = distance * math32.Tan(fovY/2)
	halfWidth = halfHeight * aspect
	return halfWidth, halfHeight
}
