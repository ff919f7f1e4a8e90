package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Format: "json", Output: &buf})

	logger.Info().Msg("dropped")
	logger.Warn().Str("operation", "Minify").Msg("kept")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "jsonhelper", entry["service"])
	assert.Equal(t, "Minify", entry["operation"])
}

func TestNewLevelFallback(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	assert.Equal(t, zerolog.DebugLevel, New(Config{Output: &bytes.Buffer{}}).GetLevel())

	t.Setenv("LOG_LEVEL", "")
	assert.Equal(t, zerolog.InfoLevel, New(Config{Output: &bytes.Buffer{}}).GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New(Config{Level: "nonsense", Output: &bytes.Buffer{}}).GetLevel())
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Service: "ctl", Output: &buf})
	logger.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "ctl")
}
