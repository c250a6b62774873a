package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesJSON(t *testing.T) {
	var buf bytes.Buffer

	log, err := New("production", "warn", &buf)
	require.NoError(t, err)

	log.Info().Msg("hidden")
	log.Warn().Str("subject", "Hi").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "Hi", entry["subject"])
}

func TestNew_DefaultLevel(t *testing.T) {
	var buf bytes.Buffer

	log, err := New("production", "", &buf)
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())

	log.Info().Msg("shown")
	assert.NotZero(t, buf.Len())
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("production", "loud")
	assert.Error(t, err)
}
