// Package config resolves the settings of the lox command line tool.
//
// Settings are layered, later layers win:
//
//	defaults -> YAML file -> .env file -> LOX_* environment variables -> command line flags
//
// The flags are applied by the commands package, everything else happens here.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/blazskufca/lox_in_go/evaluator"
)

const (
	// DefaultFile is read from the working directory when no config file is given explicitly.
	DefaultFile = "lox.yaml"
	// DefaultEnvFile is the dotenv file looked up in the working directory.
	DefaultEnvFile = ".env"
	DefaultPrompt  = ">> "
)

// Config holds every setting of the tool.
type Config struct {
	LogLevel     string `yaml:"log_level"`
	Prompt       string `yaml:"prompt"`
	HistoryFile  string `yaml:"history_file"`
	MaxCallDepth int    `yaml:"max_call_depth"`
	Color        bool   `yaml:"color"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	history := ".lox_history"
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, ".lox_history")
	}
	return &Config{
		LogLevel:     "WARN",
		Prompt:       DefaultPrompt,
		HistoryFile:  history,
		MaxCallDepth: evaluator.DefaultMaxCallDepth,
		Color:        true,
	}
}

// Load builds a Config from the defaults, the YAML file at path and the environment.
// An empty path means DefaultFile, which may be missing. An explicitly named file must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	if err := cfg.LoadFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	if err := cfg.LoadEnv(DefaultEnvFile); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadFile overlays the settings found in the YAML file at path. Keys the file does not mention keep their value,
// unknown keys are an error.
func (c *Config) LoadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			// empty file
			return nil
		}
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// LoadEnv overlays LOX_* variables. Variables set in the process environment take precedence over the ones in the
// dotenv file at envFile, which may be missing. NO_COLOR, when set to anything, disables color.
func (c *Config) LoadEnv(envFile string) error {
	fileVars := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVars = vars
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("config: read %s: %w", envFile, err)
		}
	}
	lookup := func(key string) (string, bool) {
		if value, ok := os.LookupEnv(key); ok {
			return value, true
		}
		value, ok := fileVars[key]
		return value, ok
	}
	return c.applyEnv(lookup)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if value, ok := lookup("LOX_LOG_LEVEL"); ok {
		c.LogLevel = value
	}
	if value, ok := lookup("LOX_PROMPT"); ok {
		c.Prompt = value
	}
	if value, ok := lookup("LOX_HISTORY_FILE"); ok {
		c.HistoryFile = value
	}
	if value, ok := lookup("LOX_MAX_CALL_DEPTH"); ok {
		depth, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("config: LOX_MAX_CALL_DEPTH: %w", err)
		}
		c.MaxCallDepth = depth
	}
	if value, ok := lookup("LOX_COLOR"); ok {
		color, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("config: LOX_COLOR: %w", err)
		}
		c.Color = color
	}
	if _, ok := lookup("NO_COLOR"); ok {
		c.Color = false
	}
	return nil
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if _, _, err := ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.MaxCallDepth < 1 {
		return fmt.Errorf("config: max_call_depth must be positive, got %d", c.MaxCallDepth)
	}
	return nil
}

// ParseLogLevel maps a level name to a slog.Level. off is true for OFF and NONE, which silence logging.
func ParseLogLevel(s string) (level slog.Level, off bool, err error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, false, nil
	case "INFO":
		return slog.LevelInfo, false, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, false, nil
	case "ERROR":
		return slog.LevelError, false, nil
	case "OFF", "NONE":
		return slog.LevelError, true, nil
	default:
		return slog.LevelInfo, false, fmt.Errorf("unknown log level: %s", s)
	}
}

// NewLogger returns a text logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, off, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	if off {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// InterpreterOptions translates the settings into evaluator options.
func (c *Config) InterpreterOptions(logger *slog.Logger) []evaluator.Option {
	return []evaluator.Option{
		evaluator.WithMaxCallDepth(c.MaxCallDepth),
		evaluator.WithLogger(logger),
	}
}
