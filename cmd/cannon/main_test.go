package main

import (
	"bytes"
	"testing"

	"github.com/Carmen-Shannon/cognitive-cannon/common"
	"github.com/Carmen-Shannon/cognitive-cannon/config"
	"github.com/Carmen-Shannon/cognitive-cannon/engine/camera"
	"github.com/Carmen-Shannon/cognitive-cannon/game/shape"
	"github.com/Carmen-Shannon/cognitive-cannon/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, config.Log{Level: "info", Format: "json"}, "")
	require.NoError(t, err)
	logger.Info("hello", "k", 1)
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	logger, err = newLogger(&buf, config.Log{Level: "info", Format: "text"}, "")
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestNewLoggerLevelOverride(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, config.Log{Level: "info", Format: "text"}, "debug")
	require.NoError(t, err)
	logger.Debug("visible")
	assert.Contains(t, buf.String(), "visible")

	_, err = newLogger(&buf, config.Log{Level: "info", Format: "text"}, "loud")
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestKeyWordsAreVocabulary(t *testing.T) {
	for code, word := range keyWords {
		cmd, ok := input.ParseCommand(word)
		require.True(t, ok, "key %d", code)
		assert.NotEqual(t, input.CommandFire, cmd.Kind)
	}
	assert.Equal(t, "cube", keyWords[common.Key1])
	assert.Equal(t, "restart", keyWords[common.KeyR])
}

func TestPlacementFromConfig(t *testing.T) {
	cfg := config.Default().Spawner
	d, ok := placementFromConfig(cfg, camera.NewCamera()).(*shape.Directed)
	require.True(t, ok)
	assert.Equal(t, cfg.SpawnDepth, d.SpawnDepth)
	assert.Equal(t, cfg.ArrivalDepth, d.ArrivalDepth)

	cfg.Policy = "scatter"
	cfg.PlacementAttempts = 3
	s, ok := placementFromConfig(cfg, nil).(*shape.Scatter)
	require.True(t, ok)
	assert.Equal(t, 3, s.Attempts)
	assert.Equal(t, cfg.ScatterHalfWidth, s.HalfWidth)
}
