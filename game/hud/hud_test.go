package hud

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/cognitive-cannon/game/state"
	"github.com/stretchr/testify/assert"
)

type recordingTitle struct {
	titles []string
}

func (r *recordingTitle) SetTitle(title string) {
	r.titles = append(r.titles, title)
}

func TestPresentPlaying(t *testing.T) {
	f := Present(Snapshot{Phase: state.PhasePlaying, Score: 300, Wave: 1, LiveShapes: 4, Target: "cube"})
	assert.Equal(t, "Score 300 | Wave 1 | Shapes 4", f.Status)
	assert.Empty(t, f.Banner)
	assert.Equal(t, "Target: cube", f.Target)
	assert.Equal(t, "Cognitive Cannon | Score 300 | Wave 1 | Shapes 4 | Target: cube", f.Title())
}

func TestPresentPhases(t *testing.T) {
	ready := Present(Snapshot{Phase: state.PhaseReady, Wave: 1, Target: "cube"})
	assert.Contains(t, ready.Banner, "start")
	assert.Empty(t, ready.Target)

	over := Present(Snapshot{Phase: state.PhaseGameOver, Score: 1200, Wave: 2})
	assert.Contains(t, over.Banner, "1200")
	assert.Contains(t, over.Title(), "Game over")
}

func TestPresentIsPure(t *testing.T) {
	s := Snapshot{Phase: state.PhasePlaying, Score: 100, Wave: 1, LiveShapes: 2}
	assert.Equal(t, Present(s), Present(s))
}

func TestTitleDisplaySkipsDuplicates(t *testing.T) {
	rec := &recordingTitle{}
	d := NewTitleDisplay(rec)
	f := Present(Snapshot{Phase: state.PhasePlaying, Wave: 1})

	d.Show(f)
	d.Show(f)
	d.Show(Present(Snapshot{Phase: state.PhasePlaying, Score: 100, Wave: 1}))

	assert.Len(t, rec.titles, 2)
}

func TestLogDisplayLogsChanges(t *testing.T) {
	var buf bytes.Buffer
	d := NewLogDisplay(slog.New(slog.NewTextHandler(&buf, nil)))

	f := Present(Snapshot{Phase: state.PhaseReady, Wave: 1})
	d.Show(f)
	d.Show(f)
	d.Show(Present(Snapshot{Phase: state.PhasePlaying, Wave: 1}))

	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), "component=hud")
}

func TestMultiFansOut(t *testing.T) {
	a, b := &recordingTitle{}, &recordingTitle{}
	Multi{NewTitleDisplay(a), nil, NewTitleDisplay(b)}.Show(Present(Snapshot{Wave: 1}))
	assert.Len(t, a.titles, 1)
	assert.Len(t, b.titles, 1)
}
