package profiler

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickWaitsForInterval(t *testing.T) {
	p := NewProfiler(WithInterval(time.Hour), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	for range 10 {
		_, ok := p.Tick()
		assert.False(t, ok)
	}
}

func TestTickSamplesAfterInterval(t *testing.T) {
	p := NewProfiler(WithInterval(0), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	s, ok := p.Tick()
	assert.True(t, ok)
	assert.GreaterOrEqual(t, s.FPS, 0.0)
	assert.Greater(t, s.SysMB, 0.0)
	assert.Equal(t, 0, p.frameCount)
}
