package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pstuifzand/go-jsonhelper/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"JSONHELPER_SOCKET", "JSONHELPER_HTTP_ADDR", "JSONHELPER_INDENT", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 2, cfg.Pipeline.Indent)
	assert.Equal(t, transform.DefaultMaxInflateBytes, cfg.Pipeline.MaxInflateBytes)
	assert.Equal(t, "  ", cfg.IndentString())
	assert.False(t, cfg.HTTP.Enabled)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Pipeline, cfg.Pipeline)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadTOML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[pipeline]
indent = 4
max_inflate_bytes = 1024

[socket]
path = "/run/user/1000/jh.sock"

[http]
enabled = true
addr = ":9000"
rate_limit = 10

[log]
level = "debug"
format = "json"

[ui]
highlight_ms = 250

[terminal]
history_file = "/tmp/jh-history"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "    ", cfg.IndentString())
	assert.Equal(t, int64(1024), cfg.Pipeline.MaxInflateBytes)
	assert.Equal(t, "/run/user/1000/jh.sock", cfg.Socket.Path)
	assert.Equal(t, HTTPConfig{Enabled: true, Addr: ":9000", RateLimit: 10}, cfg.HTTP)
	assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, cfg.Log)
	assert.Equal(t, 250, cfg.UI.HighlightMS)
	assert.Equal(t, "/tmp/jh-history", cfg.Terminal.HistoryFile)
	assert.True(t, cfg.Terminal.Color, "unset keys keep their defaults")

	res := cfg.NewPipeline().Prettify(`{"a":1}`)
	require.NoError(t, res.Err)
	assert.Equal(t, "{\n    \"a\": 1\n}", res.Output)
}

func TestTerminalColorSection(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(writeConfig(t, "[terminal]\ncolor = false\n"))
	require.NoError(t, err)
	assert.False(t, cfg.Terminal.Color)

	_, err = Load(writeConfig(t, "[ui]\ncolor = false\n"))
	assert.ErrorContains(t, err, "ui.color")
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[pipeline]\nindnet = 4\n")

	_, err := Load(path)
	assert.ErrorContains(t, err, "pipeline.indnet")
}

func TestLoadRejectsBadTOML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "[pipeline\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JSONHELPER_SOCKET", "/tmp/other.sock")
	t.Setenv("JSONHELPER_HTTP_ADDR", "127.0.0.1:7000")
	t.Setenv("JSONHELPER_INDENT", "3")
	t.Setenv("LOG_LEVEL", "warn")
	path := writeConfig(t, "[pipeline]\nindent = 4\n[log]\nlevel = \"debug\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.sock", cfg.Socket.Path)
	assert.Equal(t, "127.0.0.1:7000", cfg.HTTP.Addr)
	assert.True(t, cfg.HTTP.Enabled)
	assert.Equal(t, 3, cfg.Pipeline.Indent)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestEnvOverrideBadIndent(t *testing.T) {
	clearEnv(t)
	t.Setenv("JSONHELPER_INDENT", "wide")

	_, err := Load("")
	assert.ErrorContains(t, err, "JSONHELPER_INDENT")
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Pipeline.Indent = 0
	cfg.Pipeline.MaxInflateBytes = -1
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"
	cfg.HTTP.Enabled = true
	cfg.HTTP.Addr = ""

	err := cfg.Validate()
	var errs ValidateErrors
	require.True(t, errors.As(err, &errs))

	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field
	}
	assert.ElementsMatch(t, []string{
		"pipeline.indent",
		"pipeline.max_inflate_bytes",
		"log.level",
		"log.format",
		"http.addr",
	}, fields)
}

func TestDefaultSocketPath(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/42")
	assert.Equal(t, "/run/user/42/jsonhelper.sock", DefaultSocketPath())

	t.Setenv("XDG_RUNTIME_DIR", "")
	assert.Contains(t, DefaultSocketPath(), "jsonhelper-")
}
