package input

import (
	"strings"

	"github.com/Carmen-Shannon/cognitive-cannon/engine/geometry"
)

// CommandKind classifies a recognized word.
type CommandKind int

const (
	CommandNone CommandKind = iota
	// CommandShape names a shape type; it destroys the targeted shape only when the types match.
	CommandShape
	// CommandFire acts like the shoot gesture.
	CommandFire
	// CommandStart leaves the start screen.
	CommandStart
	// CommandRestart returns from game over to the start screen.
	CommandRestart
)

// Command is a parsed vocabulary word.
type Command struct {
	Kind  CommandKind
	Shape geometry.ShapeType
	Word  string
}

var fireWords = map[string]struct{}{
	"bang":  {},
	"fire":  {},
	"shoot": {},
}

// ParseCommand maps a single word (case-insensitive) to a Command.
//
// Parameters:
//   - word: the word to parse
//
// Returns:
//   - Command: the parsed command
//   - bool: false if the word is not in the vocabulary
func ParseCommand(word string) (Command, bool) {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return Command{}, false
	}
	if t, err := geometry.ParseShapeType(w); err == nil {
		return Command{Kind: CommandShape, Shape: t, Word: w}, true
	}
	if _, ok := fireWords[w]; ok {
		return Command{Kind: CommandFire, Word: w}, true
	}
	switch w {
	case "start":
		return Command{Kind: CommandStart, Word: w}, true
	case "restart":
		return Command{Kind: CommandRestart, Word: w}, true
	}
	return Command{}, false
}

// MatchTranscript lower-cases a recognizer transcript, splits it on whitespace and returns the first
// word that is in the vocabulary. Trailing punctuation on a word is ignored.
func MatchTranscript(transcript string) (Command, bool) {
	for _, field := range strings.Fields(transcript) {
		if cmd, ok := ParseCommand(strings.Trim(field, ".,!?;:\"'")); ok {
			return cmd, true
		}
	}
	return Command{}, false
}
