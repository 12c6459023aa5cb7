package audio

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOutput struct {
	mu      sync.Mutex
	initErr error
	played  beep.Streamer
	closed  bool
	locks   int
}

func (o *fakeOutput) Init(beep.SampleRate, int) error { return o.initErr }
func (o *fakeOutput) Play(s beep.Streamer) { o.played = s }
func (o *fakeOutput) Lock() { o.mu.Lock(); o.locks++ }
func (o *fakeOutput) Unlock() { o.mu.Unlock() }
func (o *fakeOutput) Close() { o.closed = true }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func TestShootGeneratorLengthAndRange(t *testing.T) {
	g := NewShootGenerator(beep.SampleRate(48000))
	assert.Equal(t, 7200, g.Len())

	samples := drain(g)
	require.Len(t, samples, 7200)

	var peak float64
	for _, s := range samples {
		assert.Equal(t, s[0], s[1])
		assert.False(t, math.IsNaN(s[0]))
		peak = max(peak, math.Abs(s[0]))
	}
	assert.Greater(t, peak, 0.0)
	assert.LessOrEqual(t, peak, 1.0)

	n, ok := g.Stream(make([][2]float64, 10))
	assert.Equal(t, 0, n)
	assert.False(t, ok)
	assert.NoError(t, g.Err())
}

func TestShootGeneratorDecays(t *testing.T) {
	samples := drain(NewShootGenerator(beep.SampleRate(48000)))

	energy := func(part [][2]float64) float64 {
		var e float64
		for _, s := range part {
			e += s[0] * s[0]
		}
		return e
	}
	head := energy(samples[:1000])
	tail := energy(samples[len(samples)-1000:])
	assert.Greater(t, head, tail*10)
}

func TestExpRamp(t *testing.T) {
	assert.InDelta(t, 400, expRamp(400, 300, 0), 1e-9)
	assert.InDelta(t, 300, expRamp(400, 300, 1), 1e-9)
	assert.InDelta(t, math.Sqrt(400*300), expRamp(400, 300, 0.5), 1e-9)
}

func TestSoundManagerUninitializedIsSilent(t *testing.T) {
	out := &fakeOutput{}
	sm := NewSoundManager(WithOutput(out), WithLogger(quietLogger()))

	assert.NotPanics(t, func() {
		sm.PlayShootSound()
		sm.Close()
	})
	assert.Nil(t, out.played)
	assert.False(t, out.closed)
}

func TestSoundManagerInitFailure(t *testing.T) {
	out := &fakeOutput{initErr: errors.New("no device")}
	sm := NewSoundManager(WithOutput(out), WithLogger(quietLogger()))

	assert.Error(t, sm.Initialize())
	assert.NotPanics(t, sm.PlayShootSound)
}

func TestSoundManagerDisabledNeverOpens(t *testing.T) {
	out := &fakeOutput{initErr: errors.New("must not be called")}
	sm := NewSoundManager(WithOutput(out), WithEnabled(false), WithLogger(quietLogger()))

	assert.NoError(t, sm.Initialize())
	assert.Nil(t, out.played)
}

func TestSoundManagerPlaysShot(t *testing.T) {
	out := &fakeOutput{}
	sm := NewSoundManager(WithOutput(out), WithLogger(quietLogger()))
	require.NoError(t, sm.Initialize())
	require.NoError(t, sm.Initialize())
	require.NotNil(t, out.played)

	mixer, ok := out.played.(*beep.Mixer)
	require.True(t, ok)

	sm.PlayShootSound()
	assert.Eventually(t, func() bool {
		out.Lock()
		defer out.Unlock()
		return mixer.Len() == 1
	}, 2*time.Second, 5*time.Millisecond)

	sm.Close()
	assert.True(t, out.closed)
	assert.Equal(t, 0, mixer.Len())
}

func TestWithVolumeClamps(t *testing.T) {
	sm := NewSoundManager(WithVolume(3)).(*soundManager)
	assert.Equal(t, 1.0, sm.volume)
	sm = NewSoundManager(WithVolume(-1)).(*soundManager)
	assert.Equal(t, 0.0, sm.volume)
}
