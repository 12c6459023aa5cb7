package renderer

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrNoAdapter is returned when no GPU adapter compatible with the surface could be acquired.
	ErrNoAdapter = errors.New("renderer: no compatible GPU adapter")

	// ErrNoDevice is returned when the adapter refused to create a device.
	ErrNoDevice = errors.New("renderer: failed to create GPU device")

	// ErrMissingResource is returned when a draw is requested with a released or uninitialized GPU handle.
	ErrMissingResource = errors.New("renderer: missing GPU resource")

	// ErrPipelineNotFound is returned when a draw names a pipeline key that was never registered.
	ErrPipelineNotFound = errors.New("renderer: pipeline not found")

	// ErrNoFrame is returned by DrawCall when no frame is in progress.
	ErrNoFrame = errors.New("renderer: no frame in progress")
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// SurfaceTarget is the window-side contract the renderer needs: a platform surface descriptor and the
// current framebuffer size in pixels.
type SurfaceTarget interface {
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Width() int
	Height() int
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}
