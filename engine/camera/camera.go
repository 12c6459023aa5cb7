package camera

import (
	"sync"

	"github.com/Carmen-Shannon/cognitive-cannon/common"
	"github.com/chewxy/math32"
)

// DefaultFov is the vertical field of view used when none is configured: 60 degrees.
const DefaultFov = 60 * math32.Pi / 180

type cameraImpl struct {
	mu *sync.Mutex

	position [3]float32
	target   [3]float32
	up       [3]float32

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32
}

// Camera is a fixed perspective camera. The eye and look-at point are set at construction and stay put;
// only the projection parameters change at runtime, most commonly the aspect ratio on every frame.
type Camera interface {
	// Position returns the world-space eye position.
	Position() [3]float32

	// Target returns the world-space look-at point.
	Target() [3]float32

	// Fov returns the vertical field of view in radians.
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// ViewMatrix returns the 4x4 view matrix as 16 floats (column-major).
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the combined projection * view matrix as 16 floats (column-major).
	ViewProjectionMatrix() [16]float32

	// Frustum returns the view frustum planes derived from the current view-projection matrix.
	Frustum() common.Frustum

	// ProjectToScreen maps a world-space point to pixel coordinates in viewport.
	//
	// Parameters:
	//   - world: the world-space point
	//   - viewport: the pixel dimensions to map into
	//
	// Returns:
	//   - common.ScreenPoint: the pixel position, Y growing downward
	//   - bool: false when the point is at or behind the camera
	ProjectToScreen(world [3]float32, viewport common.Viewport) (common.ScreenPoint, bool)

	// SetAspect sets the aspect ratio and recomputes the projection. Non-positive values are ignored.
	SetAspect(aspect float32)

	// SetFov sets the vertical field of view in radians and recomputes the projection.
	SetFov(fov float32)

	// SetClip sets the near and far clipping planes and recomputes the projection.
	//
	// Parameters:
	//   - near: near plane distance, must be positive
	//   - far: far plane distance, must be greater than near
	SetClip(near, far float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera at the origin looking down -Z with a 60 degree vertical field of view,
// a 0.1 near plane and a 100 far plane.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		target: [3]float32{0, 0, -1},
		up:     [3]float32{0, 1, 0},
		fov:    DefaultFov,
		aspect: 1.0,
		near:   0.1,
		far:    100.0,
	}
	for _, option := range options {
		option(c)
	}
	common.LookAt(c.viewMatrix[:], c.position, c.target, c.up)
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Position() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Target() [3]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Frustum() common.Frustum {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.ExtractFrustumFromMatrix(c.viewProjectionMatrix[:])
}

func (c *cameraImpl) ProjectToScreen(world [3]float32, viewport common.Viewport) (common.ScreenPoint, bool) {
	c.mu.Lock()
	vp := c.viewProjectionMatrix
	c.mu.Unlock()
	return common.ProjectToScreen(vp[:], world, viewport)
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 || math32.IsNaN(aspect) || math32.IsInf(aspect, 0) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.aspect == aspect {
		return
	}
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) SetClip(near, far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.far = far
	c.updateMatrices()
}

// updateMatrices recalculates the projection and view-projection matrices. The view matrix is fixed at
// construction. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	common.Perspective(c.projectionMatrix[:], c.fov, c.aspect, c.near, c.far)
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}
