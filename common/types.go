// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

// ScreenPoint is a position in window pixel space. The origin is the top-left corner of the
// drawable area and +Y points down.
type ScreenPoint struct {
	X float32
	Y float32
}

// DistanceTo returns the Euclidean distance between two screen points.
func (p ScreenPoint) DistanceTo(o ScreenPoint) float32 {
	return Length3([3]float32{p.X - o.X, p.Y - o.Y, 0})
}

// Viewport is the pixel size of the drawable surface.
type Viewport struct {
	Width  int
	Height int
}

// Aspect returns width / height, or 1 when the viewport is degenerate.
func (v Viewport) Aspect() float32 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

// Empty reports whether the viewport has no drawable area (e.g. a minimized window).
func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

// Center returns the pixel center of the viewport.
func (v Viewport) Center() ScreenPoint {
	return ScreenPoint{X: float32(v.Width) / 2, Y: float32(v.Height) / 2}
}
