// Package hud turns a read-only snapshot of the game into display text. Present is pure; Display
// implementations apply its output to the window title or the log.
package hud

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/cognitive-cannon/game/state"
)

// AppName prefixes the window title.
const AppName = "Cognitive Cannon"

// Snapshot is the per-tick read-only view of the game the HUD is built from.
type Snapshot struct {
	Phase           state.Phase
	Score           int
	Wave            int
	ShapesDestroyed int
	LiveShapes      int
	LiveParticles   int
	// Target is the type word of the targeted shape, empty if nothing is targeted.
	Target string
	// LastWord is the last recognized voice word.
	LastWord     string
	HandDetected bool
}

// Frame is the display output for one Snapshot.
type Frame struct {
	// Status is the counters line: "Score N | Wave W | Shapes S".
	Status string
	// Banner is the phase message; empty while playing.
	Banner string
	// Target describes the current target, empty if none.
	Target string
}

// Title joins the frame into a single window title.
func (f Frame) Title() string {
	title := AppName + " | " + f.Status
	if f.Target != "" {
		title += " | " + f.Target
	}
	if f.Banner != "" {
		title += " | " + f.Banner
	}
	return title
}

// Present builds the display frame for a snapshot.
func Present(s Snapshot) Frame {
	f := Frame{
		Status: fmt.Sprintf("Score %d | Wave %d | Shapes %d", s.Score, s.Wave, s.LiveShapes),
	}
	switch s.Phase {
	case state.PhaseReady:
		f.Banner = `Shoot or say "bang" to start`
	case state.PhaseGameOver:
		f.Banner = fmt.Sprintf(`Game over! Final score %d. Say "restart" or press R`, s.Score)
	case state.PhasePlaying:
		if s.Target != "" {
			f.Target = "Target: " + s.Target
		}
	}
	return f
}

// Display shows HUD frames.
type Display interface {
	Show(f Frame)
}

// TitleSetter is anything with a settable title, such as the window.
type TitleSetter interface {
	SetTitle(title string)
}

// TitleDisplay writes frames to a window title, skipping unchanged titles.
type TitleDisplay struct {
	mu     *sync.Mutex
	target TitleSetter
	last   string
}

var _ Display = &TitleDisplay{}

// NewTitleDisplay creates a TitleDisplay for target.
func NewTitleDisplay(target TitleSetter) *TitleDisplay {
	return &TitleDisplay{mu: &sync.Mutex{}, target: target}
}

func (d *TitleDisplay) Show(f Frame) {
	title := f.Title()
	d.mu.Lock()
	defer d.mu.Unlock()
	if title == d.last {
		return
	}
	d.last = title
	d.target.SetTitle(title)
}

// LogDisplay logs banner and status changes at Info.
type LogDisplay struct {
	mu     *sync.Mutex
	logger *slog.Logger
	last   Frame
	shown  bool
}

var _ Display = &LogDisplay{}

// NewLogDisplay creates a LogDisplay. A nil logger uses slog.Default().
func NewLogDisplay(logger *slog.Logger) *LogDisplay {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogDisplay{mu: &sync.Mutex{}, logger: logger.With("component", "hud")}
}

func (d *LogDisplay) Show(f Frame) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shown && f.Status == d.last.Status && f.Banner == d.last.Banner {
		return
	}
	d.last = f
	d.shown = true
	if f.Banner != "" {
		d.logger.Info(f.Banner, "status", f.Status)
		return
	}
	d.logger.Info("hud", "status", f.Status)
}

// Multi fans a frame out to several displays.
type Multi []Display

var _ Display = Multi{}

func (m Multi) Show(f Frame) {
	for _, d := range m {
		if d != nil {
			d.Show(f)
		}
	}
}
