package input

import "github.com/Carmen-Shannon/cognitive-cannon/common"

// DefaultSmoothing is the weight given to each new pointer sample.
const DefaultSmoothing = 0.3

// Smoother applies exponential smoothing to a pointer stream. The first sample after construction
// or Reset is taken as-is.
type Smoother struct {
	factor float32
	last   common.ScreenPoint
	primed bool
}

// NewSmoother creates a Smoother. Factors outside (0, 1] fall back to DefaultSmoothing; a factor of
// 1 disables smoothing.
func NewSmoother(factor float32) *Smoother {
	if factor <= 0 || factor > 1 {
		factor = DefaultSmoothing
	}
	return &Smoother{factor: factor}
}

// Apply blends p into the running position and returns the result.
func (s *Smoother) Apply(p common.ScreenPoint) common.ScreenPoint {
	if !s.primed {
		s.last = p
		s.primed = true
		return p
	}
	s.last = common.ScreenPoint{
		X: common.Lerp(s.last.X, p.X, s.factor),
		Y: common.Lerp(s.last.Y, p.Y, s.factor),
	}
	return s.last
}

// Reset forgets the running position.
func (s *Smoother) Reset() {
	s.primed = false
}

// Factor returns the smoothing weight.
func (s *Smoother) Factor() float32 {
	return s.factor
}
