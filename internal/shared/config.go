package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML (or YAML) file.
type Config struct {
	Player   PlayerConfig   `toml:"player" yaml:"player"`
	Platform PlatformConfig `toml:"platform" yaml:"platform"`
	Log      LogConfig      `toml:"log" yaml:"log"`
	Metrics  MetricsConfig  `toml:"metrics" yaml:"metrics"`
	Demo     DemoConfig     `toml:"demo" yaml:"demo"`
	History  HistoryConfig  `toml:"history" yaml:"history"`
}

// PlayerConfig contains the root-scope properties published at startup.
type PlayerConfig struct {
	Name                string   `toml:"name" yaml:"name" validate:"required"`
	Identity            string   `toml:"identity" yaml:"identity"`
	DesktopEntry        string   `toml:"desktop_entry" yaml:"desktop_entry"`
	SupportedURISchemes []string `toml:"supported_uri_schemes" yaml:"supported_uri_schemes"`
	SupportedMimeTypes  []string `toml:"supported_mime_types" yaml:"supported_mime_types"`
	CanQuit             bool     `toml:"can_quit" yaml:"can_quit"`
	CanRaise            bool     `toml:"can_raise" yaml:"can_raise"`
}

// PlatformConfig selects the native adapter. An empty id means the host OS.
type PlatformConfig struct {
	ID string `toml:"id" yaml:"id" validate:"omitempty,oneof=linux windows darwin"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error fatal"`
	Format string `toml:"format" yaml:"format" validate:"omitempty,oneof=text json logfmt"`
}

// MetricsConfig contains the optional prometheus listener address.
type MetricsConfig struct {
	Addr string `toml:"addr" yaml:"addr" validate:"omitempty,hostname_port"`
}

// DemoConfig drives the demo player served by the CLI.
type DemoConfig struct {
	TickHz   float64 `toml:"tick_hz" yaml:"tick_hz" validate:"gte=0,lte=60"`
	Duration int64   `toml:"duration_us" yaml:"duration_us" validate:"gte=0"`
}

// HistoryConfig locates the play history database. An empty path disables recording.
type HistoryConfig struct {
	Path string `toml:"path" yaml:"path"`
}

// LoadConfig reads and parses a configuration file from the specified path.
//
// Files ending in .yaml or .yml are decoded as YAML, everything else as TOML.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = toml.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks struct constraints on the loaded configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
