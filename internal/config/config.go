// SPDX-License-Identifier: EPL-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

var ErrInvalidConfig = errors.New("invalid config")

// FileLoggingConfig represents rotating file logging configuration
type FileLoggingConfig struct {
	Enabled    bool   `json:"enabled"`
	Filename   string `json:"filename"` // empty means LogPath()
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
	Compress   bool   `json:"compress"`
}

// OutputConfig describes the PCM written by the decode command.
type OutputConfig struct {
	SampleRate int  `json:"sample_rate"` // 0 keeps the decoded rate
	Mono       bool `json:"mono"`
	BitDepth   int  `json:"bit_depth"`
}

type Config struct {
	LogLevel    string            `json:"log_level"`
	FileLogging FileLoggingConfig `json:"file_logging"`
	Output      OutputConfig      `json:"output"`
	Jobs        int               `json:"jobs"`
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

func Default() *Config {
	return &Config{
		LogLevel: "warn",
		FileLogging: FileLoggingConfig{
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
		Output: OutputConfig{BitDepth: 16},
		Jobs:   4,
	}
}

// Manager loads configuration from a filesystem.
type Manager struct {
	fs     afero.Fs
	paths  func(filename string) []string
	getenv func(string) string
	log    *slog.Logger
}

func NewManager(fs afero.Fs) *Manager {
	return &Manager{fs: fs, paths: ConfigPaths, getenv: os.Getenv, log: slog.Default()}
}

// WithLogger sets the logger used while loading and saving.
func (m *Manager) WithLogger(l *slog.Logger) *Manager {
	if l != nil {
		m.log = l
	}
	return m
}

// LoadFromFile reads path over the defaults and validates the result.
func (m *Manager) LoadFromFile(path string) (*Config, error) {
	m.log.Debug("loading config from file", "file_path", path)

	data, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Load resolves the configuration: an explicit path when given, otherwise
// the first existing XDG config file, otherwise the defaults. Environment
// overrides apply last.
func (m *Manager) Load(explicit string) (*Config, error) {
	cfg := Default()

	path := explicit
	if path == "" {
		for _, candidate := range m.paths("config.json") {
			if ok, _ := afero.Exists(m.fs, candidate); ok {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		loaded, err := m.LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		m.log.Debug("no config file found, using defaults")
	}

	m.applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (m *Manager) applyEnv(cfg *Config) {
	if level := m.getenv("OGGOPUS_LOG_LEVEL"); level != "" {
		cfg.LogLevel = strings.ToLower(level)
		m.log.Debug("applied log level override from environment", "value", level)
	}

	if jobs := m.getenv("OGGOPUS_JOBS"); jobs != "" {
		n, err := strconv.Atoi(jobs)
		if err != nil {
			m.log.Warn("invalid OGGOPUS_JOBS environment variable", "value", jobs, "error", err)
			return
		}
		cfg.Jobs = n
	}
}

// Save writes cfg as indented JSON, creating parent directories.
func (m *Manager) Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("cannot save invalid config: %w", err)
	}

	if err := m.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := afero.WriteFile(m.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.log.Info("config saved", "file_path", path)
	return nil
}

func (c *Config) Validate() error {
	var problems []string

	if !slices.Contains(validLogLevels, c.LogLevel) {
		problems = append(problems, fmt.Sprintf("invalid log level '%s', must be one of: %s",
			c.LogLevel, strings.Join(validLogLevels, ", ")))
	}

	if c.Jobs < 1 {
		problems = append(problems, fmt.Sprintf("jobs must be >= 1, got %d", c.Jobs))
	}

	if c.Output.SampleRate < 0 {
		problems = append(problems, fmt.Sprintf("output sample_rate must be >= 0, got %d", c.Output.SampleRate))
	}

	if c.Output.BitDepth != 16 && c.Output.BitDepth != 24 {
		problems = append(problems, fmt.Sprintf("output bit_depth must be 16 or 24, got %d", c.Output.BitDepth))
	}

	fl := c.FileLogging
	if fl.MaxSizeMB < 0 || fl.MaxBackups < 0 || fl.MaxAgeDays < 0 {
		problems = append(problems, "file logging limits must be >= 0")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}

	return nil
}

// SlogLevel maps LogLevel to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}
