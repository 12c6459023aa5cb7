package state

import (
	"github.com/Carmen-Shannon/cognitive-cannon/game/shape"
	"github.com/chewxy/math32"
)

// CurveName identifies a difficulty curve in configuration.
type CurveName string

const (
	CurveWave    CurveName = "wave"
	CurveElapsed CurveName = "elapsed"
)

// Curve maps game progress to a spawn cadence and approach speed. Implementations must make the
// interval non-increasing and the speed non-decreasing as progress grows.
type Curve interface {
	Difficulty(wave int, elapsed float32) shape.Difficulty
}

// Params are the shared tuning values of both curves.
type Params struct {
	BaseInterval float32
	IntervalStep float32
	MinInterval  float32
	BaseSpeed    float32
	SpeedStep    float32
	MaxSpeed     float32
}

// DefaultParams gives interval max(0.5, 2 - 0.1x) and speed min(6, 1 + 0.1x).
func DefaultParams() Params {
	return Params{
		BaseInterval: 2.0,
		IntervalStep: 0.1,
		MinInterval:  0.5,
		BaseSpeed:    1.0,
		SpeedStep:    0.1,
		MaxSpeed:     6.0,
	}
}

func (p Params) at(x float32) shape.Difficulty {
	return shape.Difficulty{
		SpawnInterval: math32.Max(p.MinInterval, p.BaseInterval-p.IntervalStep*x),
		Speed:         math32.Min(p.MaxSpeed, p.BaseSpeed+p.SpeedStep*x),
	}
}

// WaveCurve drives difficulty from the wave number.
type WaveCurve struct {
	Params
}

func (c WaveCurve) Difficulty(wave int, _ float32) shape.Difficulty {
	return c.at(float32(wave))
}

// ElapsedCurve drives difficulty from playing time, one step per SecondsPerStep seconds.
type ElapsedCurve struct {
	Params
	SecondsPerStep float32
}

func (c ElapsedCurve) Difficulty(_ int, elapsed float32) shape.Difficulty {
	step := c.SecondsPerStep
	if step <= 0 {
		step = 10
	}
	return c.at(elapsed / step)
}

// NewCurve builds the named curve. Unknown names fall back to the wave curve.
func NewCurve(name CurveName, p Params) Curve {
	if name == CurveElapsed {
		return ElapsedCurve{Params: p, SecondsPerStep: 10}
	}
	return WaveCurve{Params: p}
}
