package state

// Phase is the top-level game mode.
type Phase int

const (
	// PhaseReady waits on the start screen for a shot or a start word.
	PhaseReady Phase = iota
	// PhasePlaying runs the simulation.
	PhasePlaying
	// PhaseGameOver freezes the simulation until a restart.
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "game over"
	default:
		return "unknown"
	}
}
