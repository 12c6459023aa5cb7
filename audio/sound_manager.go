// Package audio plays the game's synthesized sound effects through the system speaker.
package audio

import (
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(48000)

// Output is the device the mixer plays through.
type Output interface {
	Init(sr beep.SampleRate, bufferSize int) error
	Play(s beep.Streamer)
	Lock()
	Unlock()
	Close()
}

// speakerOutput plays through the beep speaker package.
type speakerOutput struct{}

func (speakerOutput) Init(sr beep.SampleRate, bufferSize int) error { return speaker.Init(sr, bufferSize) }
func (speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }
func (speakerOutput) Lock() { speaker.Lock() }
func (speakerOutput) Unlock() { speaker.Unlock() }
func (speakerOutput) Close() { speaker.Close() }

// SoundManager plays fire-and-forget sound effects. Every method is safe to call before Initialize
// or after Close; they do nothing in that case.
type SoundManager interface {
	// Initialize opens the output device and starts the mixer.
	//
	// Returns:
	//   - error: the device error, if any; the game runs silently in that case
	Initialize() error

	// PlayShootSound queues one shot sound. It never blocks the caller.
	PlayShootSound()

	// Close stops all sounds and releases the output.
	Close()
}

type soundManager struct {
	mu          *sync.Mutex
	logger      *slog.Logger
	output      Output
	mixer       *beep.Mixer
	volume      float64
	enabled     bool
	initialized bool

	pool   worker.DynamicWorkerPool
	taskID atomic.Int64
}

var _ SoundManager = &soundManager{}

// NewSoundManager creates a SoundManager playing through the system speaker.
//
// Parameters:
//   - opts: builder options
//
// Returns:
//   - SoundManager: the manager
func NewSoundManager(opts ...SoundManagerBuilderOption) SoundManager {
	sm := &soundManager{
		mu:      &sync.Mutex{},
		logger:  slog.Default(),
		output:  speakerOutput{},
		mixer:   &beep.Mixer{},
		volume:  1,
		enabled: true,
	}
	for _, opt := range opts {
		opt(sm)
	}
	sm.logger = sm.logger.With("component", "audio")
	return sm
}

func (sm *soundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized || !sm.enabled {
		return nil
	}

	if err := sm.output.Init(sampleRate, sampleRate.N(time.Millisecond*50)); err != nil {
		return err
	}
	sm.output.Play(sm.mixer)
	sm.pool = worker.NewDynamicWorkerPool(2, 64, 1*time.Second)
	sm.initialized = true
	sm.logger.Info("audio initialized", "sample_rate", int(sampleRate))
	return nil
}

func (sm *soundManager) PlayShootSound() {
	sm.mu.Lock()
	ready, pool := sm.initialized, sm.pool
	sm.mu.Unlock()

	if !ready {
		return
	}

	id := int(sm.taskID.Add(1))
	pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			sm.enqueue(sm.withVolume(NewShootGenerator(sampleRate)))
			return nil, nil
		},
	})
}

// enqueue adds s to the mixer under the output lock, since the mixer is read from the audio thread.
func (sm *soundManager) enqueue(s beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if !sm.initialized {
		return
	}
	sm.output.Lock()
	sm.mixer.Add(s)
	sm.output.Unlock()
}

func (sm *soundManager) withVolume(s beep.Streamer) beep.Streamer {
	if sm.volume >= 1 {
		return s
	}
	if sm.volume <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(sm.volume)}
}

func (sm *soundManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	sm.output.Lock()
	sm.mixer.Clear()
	sm.output.Unlock()
	sm.output.Close()
	sm.initialized = false
}

// SoundManagerBuilderOption is a functional option for configuring a SoundManager.
type SoundManagerBuilderOption func(sm *soundManager)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) SoundManagerBuilderOption {
	return func(sm *soundManager) {
		if logger != nil {
			sm.logger = logger
		}
	}
}

// WithOutput replaces the speaker output.
func WithOutput(o Output) SoundManagerBuilderOption {
	return func(sm *soundManager) {
		if o != nil {
			sm.output = o
		}
	}
}

// WithVolume sets the linear output volume, clamped to [0, 1].
func WithVolume(v float64) SoundManagerBuilderOption {
	return func(sm *soundManager) {
		sm.volume = min(max(v, 0), 1)
	}
}

// WithEnabled turns audio on or off. A disabled manager never opens the device.
func WithEnabled(enabled bool) SoundManagerBuilderOption {
	return func(sm *soundManager) {
		sm.enabled = enabled
	}
}
