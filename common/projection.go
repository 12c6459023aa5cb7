package common

// ProjectToScreen maps a world-space point to window pixels through a column-major
// view-projection matrix.
//
// Points with a non-positive homogeneous w (at or behind the camera) have no meaningful screen
// position and are rejected. The Y axis is flipped because NDC +Y is up while screen +Y is down.
//
// Parameters:
//   - viewProj: the combined view-projection matrix
//   - world: the world-space point to project
//   - viewport: the pixel size of the target surface
//
// Returns:
//   - ScreenPoint: the projected pixel coordinate
//   - bool: false if the point cannot be projected
func ProjectToScreen(viewProj []float32, world [3]float32, viewport Viewport) (ScreenPoint, bool) {
	if viewport.Empty() {
		return ScreenPoint{}, false
	}
	clip := TransformPoint(viewProj, world)
	if clip[3] <= 0 {
		return ScreenPoint{}, false
	}
	ndcX := clip[0] / clip[3]
	ndcY := clip[1] / clip[3]
	return ScreenPoint{
		X: (ndcX + 1) * 0.5 * float32(viewport.Width),
		Y: (1 - ndcY) * 0.5 * float32(viewport.Height),
	}, true
}
