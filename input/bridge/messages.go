package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/Carmen-Shannon/cognitive-cannon/input"
)

// Message types accepted from tracker clients.
const (
	MessageTypeHand      = "hand"
	MessageTypeHandLost  = "hand_lost"
	MessageTypeLandmarks = "landmarks"
	MessageTypeGesture   = "gesture"
	MessageTypeVoice     = "voice"
	MessageTypeAck       = "ack"
	MessageTypeError     = "error"
)

// HandMessage carries a normalized aim position from a hand tracker. Shooting is optional; when
// present it also sets the shoot signal.
type HandMessage struct {
	Type     string  `json:"type"`
	X        float32 `json:"x"`
	Y        float32 `json:"y"`
	Shooting *bool   `json:"shooting,omitempty"`
}

// HandLostMessage reports that the tracker no longer sees a hand.
type HandLostMessage struct {
	Type string `json:"type"`
}

// LandmarksMessage carries a full hand skeleton. The server derives the aim point and the shoot
// gesture from it.
type LandmarksMessage struct {
	Type      string           `json:"type"`
	Landmarks []input.Landmark `json:"landmarks"`
}

// GestureMessage sets the shoot signal level.
type GestureMessage struct {
	Type     string `json:"type"`
	Shooting bool   `json:"shooting"`
}

// VoiceMessage carries a speech recognizer transcript.
type VoiceMessage struct {
	Type       string `json:"type"`
	Transcript string `json:"transcript"`
}

// AckMessage is written back for every voice message.
type AckMessage struct {
	Type       string `json:"type"`
	Recognized bool   `json:"recognized"`
	Word       string `json:"word,omitempty"`
}

// ErrorMessage is written back for a message that could not be handled.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// ParseMessage decodes an incoming frame into its typed message.
func ParseMessage(data []byte) (any, error) {
	var base struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &base); err != nil {
		return nil, fmt.Errorf("error parsing message: %w", err)
	}

	var msg any
	switch base.Type {
	case MessageTypeHand:
		msg = &HandMessage{}
	case MessageTypeHandLost:
		msg = &HandLostMessage{}
	case MessageTypeLandmarks:
		msg = &LandmarksMessage{}
	case MessageTypeGesture:
		msg = &GestureMessage{}
	case MessageTypeVoice:
		msg = &VoiceMessage{}
	default:
		return nil, fmt.Errorf("unknown message type %q", base.Type)
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("error parsing %s message: %w", base.Type, err)
	}
	return msg, nil
}
