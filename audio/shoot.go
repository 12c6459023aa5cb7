package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Shoot sound parameters.
const (
	ShootDuration = 150 * time.Millisecond

	sineStartHz   = 400.0
	sineEndHz     = 300.0
	squareStartHz = 600.0
	squareEndHz   = 200.0
	gainStart     = 0.3
	gainEnd       = 0.01
	highPassHz    = 4000.0
)

// ShootGenerator synthesizes the shot: a sine sweeping 400→300 Hz and a square sweeping 600→200 Hz,
// both exponential, under an exponential gain ramp 0.3→0.01 and through a one-pole high-pass at 4 kHz.
// It ends after ShootDuration.
type ShootGenerator struct {
	sr    beep.SampleRate
	pos   int
	total int

	sinePhase   float64
	squarePhase float64

	// high-pass state
	alpha float64
	prevX float64
	prevY float64
}

var _ beep.Streamer = &ShootGenerator{}

// NewShootGenerator creates a shot generator at sample rate sr.
func NewShootGenerator(sr beep.SampleRate) *ShootGenerator {
	rc := 1 / (2 * math.Pi * highPassHz)
	dt := 1 / float64(sr)
	return &ShootGenerator{
		sr:    sr,
		total: sr.N(ShootDuration),
		alpha: rc / (rc + dt),
	}
}

// Len returns the total number of samples the generator produces.
func (g *ShootGenerator) Len() int {
	return g.total
}

func (g *ShootGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.total {
		return 0, false
	}
	dt := 1 / float64(g.sr)
	for i := range samples {
		if g.pos >= g.total {
			break
		}
		progress := float64(g.pos) / float64(g.total)

		sineHz := expRamp(sineStartHz, sineEndHz, progress)
		squareHz := expRamp(squareStartHz, squareEndHz, progress)
		gain := expRamp(gainStart, gainEnd, progress)

		sine := math.Sin(2 * math.Pi * g.sinePhase)
		square := 1.0
		if g.squarePhase >= 0.5 {
			square = -1.0
		}
		g.sinePhase = math.Mod(g.sinePhase+sineHz*dt, 1)
		g.squarePhase = math.Mod(g.squarePhase+squareHz*dt, 1)

		x := (sine + square) * gain
		y := g.alpha * (g.prevY + x - g.prevX)
		g.prevX, g.prevY = x, y

		samples[i][0] = y
		samples[i][1] = y
		g.pos++
		n++
	}
	return n, true
}

func (g *ShootGenerator) Err() error {
	return nil
}

// expRamp interpolates exponentially from a to b; both must be positive.
func expRamp(a, b, t float64) float64 {
	return a * math.Pow(b/a, t)
}
