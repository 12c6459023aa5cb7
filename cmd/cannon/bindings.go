package main

import (
	"io"
	"log/slog"

	"github.com/Carmen-Shannon/cognitive-cannon/common"
	"github.com/Carmen-Shannon/cognitive-cannon/config"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/geometry"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/window"
	"github.com/Carmen-Shannon/cognitive-cannon/input"
)

// keyWords maps the keyboard fallbacks to the vocabulary word they stand in for.
var keyWords = map[uint32]string{
	common.Key1: geometry.ShapeCube.String(),
	common.Key2: geometry.ShapeSphere.String(),
	common.Key3: geometry.ShapeTorus.String(),
	common.Key4: geometry.ShapePyramid.String(),
	common.KeyR: "restart",
}

// bindInput routes window events into the input state. The mouse stands in for the hand pointer, the
// left button and space for the shoot gesture, and number keys for spoken words.
func bindInput(w window.Window, in input.State) {
	w.SetMouseMoveCallback(func(x, y float32) {
		in.SetPointer(common.ScreenPoint{X: x, Y: y})
	})
	w.SetCursorEnterCallback(func(entered bool) {
		if !entered {
			in.ClearPointer()
		}
	})
	w.SetMouseButtonCallback(func(button window.MouseButton, pressed bool) {
		if button == window.MouseButtonLeft {
			in.SetShooting(pressed)
		}
	})
	w.SetKeyDownCallback(func(code uint32) {
		if code == common.KeySpace {
			in.SetShooting(true)
			return
		}
		if word, ok := keyWords[code]; ok {
			in.PushWord(word)
		}
	})
	w.SetKeyUpCallback(func(code uint32) {
		if code == common.KeySpace {
			in.SetShooting(false)
		}
	})
}

// newLogger builds the process logger from the log section. levelOverride, when set, replaces the
// configured level.
func newLogger(out io.Writer, cfg config.Log, levelOverride string) (*slog.Logger, error) {
	name := cfg.Level
	if levelOverride != "" {
		name = levelOverride
	}
	level, err := config.ParseLevel(name)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(out, opts)), nil
	}
	return slog.New(slog.NewTextHandler(out, opts)), nil
}
