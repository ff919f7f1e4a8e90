// Package config loads jsonhelper settings.
//
// Values come from built-in defaults, then the TOML file, then the
// environment (a .env file in the working directory is read first):
//   - $XDG_CONFIG_HOME/jsonhelper/config.toml, or the --config flag
//   - JSONHELPER_SOCKET, JSONHELPER_HTTP_ADDR, JSONHELPER_INDENT, LOG_LEVEL
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pstuifzand/go-jsonhelper/transform"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete jsonhelper configuration.
type Config struct {
	Pipeline PipelineConfig `toml:"pipeline"`
	Socket   SocketConfig   `toml:"socket"`
	HTTP     HTTPConfig     `toml:"http"`
	Log      LogConfig      `toml:"log"`
	UI       UIConfig       `toml:"ui"`
	Terminal TerminalConfig `toml:"terminal"`
}

// PipelineConfig tunes the transforms.
type PipelineConfig struct {
	// Indent is the number of spaces per nesting level in prettified output.
	Indent int `toml:"indent"`
	// MaxInflateBytes caps Gzip-Decompress output.
	MaxInflateBytes int64 `toml:"max_inflate_bytes"`
}

// SocketConfig configures the Unix socket server.
type SocketConfig struct {
	Path string `toml:"path"`
}

// HTTPConfig configures the HTTP API.
type HTTPConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
	// RateLimit is requests per minute per client IP; 0 disables limiting.
	RateLimit int `toml:"rate_limit"`
}

// LogConfig configures zerolog.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// UIConfig configures the GTK window.
type UIConfig struct {
	HighlightMS int `toml:"highlight_ms"`
}

// TerminalConfig configures the REPL and jsonhelperctl output.
type TerminalConfig struct {
	Color bool `toml:"color"`
	// HistoryFile keeps REPL history between sessions; empty disables it.
	HistoryFile string `toml:"history_file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			Indent:          len(transform.DefaultIndent),
			MaxInflateBytes: transform.DefaultMaxInflateBytes,
		},
		Socket: SocketConfig{
			Path: DefaultSocketPath(),
		},
		HTTP: HTTPConfig{
			Enabled:   false,
			Addr:      "127.0.0.1:8089",
			RateLimit: 120,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		UI: UIConfig{
			HighlightMS: 1000,
		},
		Terminal: TerminalConfig{
			Color:       true,
			HistoryFile: DefaultHistoryPath(),
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// DefaultPath returns $XDG_CONFIG_HOME/jsonhelper/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not determine config directory: %w", err)
	}
	return filepath.Join(dir, "jsonhelper", "config.toml"), nil
}

// DefaultHistoryPath returns $XDG_CACHE_HOME/jsonhelper/history, or "" when
// there is no cache directory.
func DefaultHistoryPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "jsonhelper", "history")
}

// DefaultSocketPath places the socket in $XDG_RUNTIME_DIR when it is set.
func DefaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "jsonhelper.sock")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("jsonhelper-%d.sock", os.Getuid()))
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration. An empty path means DefaultPath, which may
// be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if err := LoadTOML(cfg, path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes the file at path over cfg.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnvOverrides applies environment variables on top of the file values.
func (c *Config) ApplyEnvOverrides() error {
	if path := os.Getenv("JSONHELPER_SOCKET"); path != "" {
		c.Socket.Path = path
	}

	if addr := os.Getenv("JSONHELPER_HTTP_ADDR"); addr != "" {
		c.HTTP.Addr = addr
		c.HTTP.Enabled = true
	}

	if indent := os.Getenv("JSONHELPER_INDENT"); indent != "" {
		n, err := strconv.Atoi(indent)
		if err != nil {
			return fmt.Errorf("JSONHELPER_INDENT: %w", err)
		}
		c.Pipeline.Indent = n
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes one invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects every invalid setting.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Pipeline.Indent < 1 || c.Pipeline.Indent > 8 {
		errs = append(errs, ValidationError{
			Field:   "pipeline.indent",
			Message: fmt.Sprintf("%d is out of range 1-8", c.Pipeline.Indent),
		})
	}
	if c.Pipeline.MaxInflateBytes <= 0 {
		errs = append(errs, ValidationError{
			Field:   "pipeline.max_inflate_bytes",
			Message: "must be positive",
		})
	}
	if c.Socket.Path == "" {
		errs = append(errs, ValidationError{Field: "socket.path", Message: "must not be empty"})
	}
	if c.HTTP.Enabled && c.HTTP.Addr == "" {
		errs = append(errs, ValidationError{Field: "http.addr", Message: "required when http is enabled"})
	}
	if c.HTTP.RateLimit < 0 {
		errs = append(errs, ValidationError{Field: "http.rate_limit", Message: "must not be negative"})
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true, "disabled": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("invalid level '%s'", c.Log.Level),
		})
	}
	if f := strings.ToLower(c.Log.Format); f != "console" && f != "json" {
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: console, json", c.Log.Format),
		})
	}
	if c.UI.HighlightMS < 0 {
		errs = append(errs, ValidationError{Field: "ui.highlight_ms", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// IndentString returns the indent step for transform.WithIndent.
func (c *Config) IndentString() string {
	return strings.Repeat(" ", c.Pipeline.Indent)
}

// NewPipeline builds the transform pipeline the configuration describes.
func (c *Config) NewPipeline() *transform.Pipeline {
	return transform.New(
		transform.WithIndent(c.IndentString()),
		transform.WithMaxInflateBytes(c.Pipeline.MaxInflateBytes),
	)
}
