package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "WARN", cfg.LogLevel)
	assert.Equal(t, DefaultPrompt, cfg.Prompt)
	assert.Equal(t, 1000, cfg.MaxCallDepth)
	assert.True(t, cfg.Color)
	assert.NotEmpty(t, cfg.HistoryFile)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "lox.yaml", "log_level: debug\nmax_call_depth: 64\n")
	cfg := Default()
	require.NoError(t, cfg.LoadFile(path))
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 64, cfg.MaxCallDepth)
	// untouched keys keep their defaults
	assert.Equal(t, DefaultPrompt, cfg.Prompt)
}

func TestLoadFileErrors(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.LoadFile(writeFile(t, "lox.yaml", "no_such_key: 1\n")))
	assert.Error(t, cfg.LoadFile(writeFile(t, "lox.yaml", "max_call_depth: [1\n")))
	assert.ErrorIs(t, cfg.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")), os.ErrNotExist)
	assert.NoError(t, cfg.LoadFile(writeFile(t, "lox.yaml", "")))
}

func TestLoadEnv(t *testing.T) {
	envFile := writeFile(t, ".env", "LOX_PROMPT=\"lox> \"\nLOX_MAX_CALL_DEPTH=12\nLOX_LOG_LEVEL=info\n")
	// the process environment wins over the dotenv file
	t.Setenv("LOX_LOG_LEVEL", "error")
	t.Setenv("LOX_COLOR", "false")

	cfg := Default()
	require.NoError(t, cfg.LoadEnv(envFile))
	assert.Equal(t, "lox> ", cfg.Prompt)
	assert.Equal(t, 12, cfg.MaxCallDepth)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.False(t, cfg.Color)
}

func TestLoadEnvMissingFile(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.LoadEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestApplyEnvErrors(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"LOX_MAX_CALL_DEPTH", "deep"},
		{"LOX_COLOR", "maybe"},
	}
	for _, tt := range tests {
		cfg := Default()
		err := cfg.applyEnv(func(key string) (string, bool) {
			if key == tt.key {
				return tt.value, true
			}
			return "", false
		})
		assert.Error(t, err, tt.key)
	}
}

func TestNoColor(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.applyEnv(func(key string) (string, bool) {
		return "", key == "NO_COLOR"
	}))
	assert.False(t, cfg.Color)
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "custom.yaml", "prompt: \"$ \"\ncolor: false\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "$ ", cfg.Prompt)
	assert.False(t, cfg.Color)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "an explicitly named file must exist")

	_, err = Load(writeFile(t, "bad.yaml", "max_call_depth: 0\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "loud"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.MaxCallDepth = -1
	assert.Error(t, cfg.Validate())
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		level slog.Level
		off   bool
	}{
		{"DEBUG", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"Warn", slog.LevelWarn, false},
		{"WARNING", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"OFF", slog.LevelError, true},
		{"none", slog.LevelError, true},
	}
	for _, tt := range tests {
		level, off, err := ParseLogLevel(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.level, level, tt.input)
		assert.Equal(t, tt.off, off, tt.input)
	}

	_, _, err := ParseLogLevel("verbose")
	assert.EqualError(t, err, "unknown log level: verbose")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.LogLevel = "info"
	logger, err := cfg.NewLogger(&buf)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown", "key", "value")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "key=value")

	buf.Reset()
	cfg.LogLevel = "off"
	logger, err = cfg.NewLogger(&buf)
	require.NoError(t, err)
	logger.Error("dropped")
	assert.Empty(t, buf.String())
}
