package engine

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/cognitive-cannon/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow runs a message loop that spins until RequestClose.
type fakeWindow struct {
	mu       sync.Mutex
	closed   bool
	onResize func(width, height int)
}

var _ window.Window = &fakeWindow{}

func (w *fakeWindow) SetUpdateCallback(func()) {}
func (w *fakeWindow) SetKeyDownCallback(func(uint32)) {}
func (w *fakeWindow) SetKeyUpCallback(func(uint32)) {}
func (w *fakeWindow) SetMouseButtonCallback(func(window.MouseButton, bool)) {}
func (w *fakeWindow) SetMouseMoveCallback(func(float32, float32)) {}
func (w *fakeWindow) SetCursorEnterCallback(func(bool)) {}
func (w *fakeWindow) SetTitle(string) {}
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (w *fakeWindow) Close() error { return nil }
func (w *fakeWindow) Width() int { return 800 }
func (w *fakeWindow) Height() int { return 600 }
func (w *fakeWindow) SetResizeCallback(callback func(width, height int)) { w.onResize = callback }

func (w *fakeWindow) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.closed
}

func (w *fakeWindow) RequestClose() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}

func (w *fakeWindow) ProcessMessages() {
	for w.IsRunning() {
		time.Sleep(time.Millisecond)
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewEngineRequiresWindow(t *testing.T) {
	_, err := NewEngine()
	assert.Error(t, err)
}

func TestRunTicksThenRendersUntilQuit(t *testing.T) {
	w := &fakeWindow{}
	e, err := NewEngine(WithWindow(w), WithTickRate(500), WithLogger(quietLogger()))
	require.NoError(t, err)

	var mu sync.Mutex
	var order []string
	e.SetTickCallback(func(float32) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, "tick")
	})
	e.SetRenderCallback(func(float32) {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, "render")
		if len(order) >= 6 {
			e.Quit()
		}
	})

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(order), 6)
	for i := 0; i+1 < len(order); i += 2 {
		assert.Equal(t, "tick", order[i])
		assert.Equal(t, "render", order[i+1])
	}
	assert.False(t, w.IsRunning())
}

func TestPanicInFrameQuits(t *testing.T) {
	w := &fakeWindow{}
	e, err := NewEngine(WithWindow(w), WithTickRate(500), WithLogger(quietLogger()))
	require.NoError(t, err)
	e.SetTickCallback(func(float32) { panic("boom") })

	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("engine did not stop after panic")
	}
	select {
	case <-e.Done():
	default:
		t.Fatal("quit was not signalled")
	}
}

func TestResizeIsAppliedOnFrameGoroutine(t *testing.T) {
	w := &fakeWindow{}
	e, err := NewEngine(WithWindow(w), WithTickRate(500), WithLogger(quietLogger()))
	require.NoError(t, err)

	var width, height atomic.Int64
	e.SetResizeCallback(func(wd, ht int) {
		width.Store(int64(wd))
		height.Store(int64(ht))
	})
	w.onResize(1024, 768)

	go e.Run()
	defer e.Quit()

	assert.Eventually(t, func() bool {
		return width.Load() == 1024 && height.Load() == 768
	}, 2*time.Second, 5*time.Millisecond)
}
