package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWaveFollowsDestroyCount(t *testing.T) {
	g := NewGameState()
	assert.Equal(t, 1, g.Wave())

	for n := 1; n <= 35; n++ {
		advanced := g.AddScore(100)
		assert.Equal(t, n, g.ShapesDestroyed())
		assert.Equal(t, 1+n/10, g.Wave())
		assert.Equal(t, n%10 == 0, advanced)
	}
	assert.Equal(t, 3500, g.Score())
}

func TestScoreNeverDecreases(t *testing.T) {
	g := NewGameState()
	g.AddScore(100)
	g.AddScore(-50)
	assert.Equal(t, 100, g.Score())
	assert.Equal(t, 2, g.ShapesDestroyed())
}

func TestWaveCurveBounds(t *testing.T) {
	g := NewGameState()
	assert.InDelta(t, 1.9, g.SpawnRate(), 1e-6)
	assert.InDelta(t, 1.1, g.ShapeSpeed(), 1e-6)

	for range 200 {
		g.AddScore(100)
	}
	assert.Equal(t, 21, g.Wave())
	assert.Equal(t, float32(0.5), g.SpawnRate())
	assert.InDelta(t, 3.1, g.ShapeSpeed(), 1e-5)

	for range 1000 {
		g.AddScore(100)
	}
	assert.Equal(t, float32(6), g.ShapeSpeed())
}

func TestCurvesAreMonotonic(t *testing.T) {
	for _, c := range []Curve{NewCurve(CurveWave, DefaultParams()), NewCurve(CurveElapsed, DefaultParams())} {
		prev := c.Difficulty(1, 0)
		for i := 2; i < 100; i++ {
			d := c.Difficulty(i, float32(i)*3)
			assert.LessOrEqual(t, d.SpawnInterval, prev.SpawnInterval)
			assert.GreaterOrEqual(t, d.Speed, prev.Speed)
			assert.GreaterOrEqual(t, d.SpawnInterval, float32(0.5))
			prev = d
		}
	}
}

func TestElapsedCurveUsesTime(t *testing.T) {
	g := NewGameState(WithCurve(NewCurve(CurveElapsed, DefaultParams())))
	assert.Equal(t, float32(2), g.SpawnRate())
	g.Advance(50)
	g.Advance(-10)
	assert.Equal(t, float32(50), g.Elapsed())
	assert.InDelta(t, 1.5, g.SpawnRate(), 1e-6)
}

func TestGameOverIsOneWayUntilReset(t *testing.T) {
	g := NewGameState(WithWaveSize(5))
	for range 7 {
		g.AddScore(100)
	}
	assert.Equal(t, 2, g.Wave())
	g.SetGameOver()
	assert.True(t, g.IsGameOver())

	g.Reset()
	assert.False(t, g.IsGameOver())
	assert.Zero(t, g.Score())
	assert.Zero(t, g.ShapesDestroyed())
	assert.Equal(t, 1, g.Wave())
	assert.Zero(t, g.Elapsed())

	g.Reset()
	assert.Equal(t, 1, g.Wave())
}
