package storage

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigFile is the name of the user configuration file.
	ConfigFile = ".pmconfig.yaml"

	// Default configuration values
	DefaultLogLevel      = "warn"
	DefaultLogEnv        = "development"
	DefaultLowStock      = 5
	DefaultMaxTitleWidth = 60
)

// Config represents user configuration from .pmconfig.yaml.
// This file is user-managed and never written by pm.
type Config struct {
	// File is the products file all commands operate on.
	File string `yaml:"file"`

	// LogLevel is the zap level for diagnostic output (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// LogEnv selects console ("development") or JSON ("production") logs.
	LogEnv string `yaml:"log_env"`

	// LowStock highlights products in `pm list` whose stock is at or below it.
	LowStock int `yaml:"low_stock"`

	// MaxTitleWidth truncates the title column in `pm list`.
	MaxTitleWidth int `yaml:"max_title_width"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		File:          DefaultFile,
		LogLevel:      DefaultLogLevel,
		LogEnv:        DefaultLogEnv,
		LowStock:      DefaultLowStock,
		MaxTitleWidth: DefaultMaxTitleWidth,
	}
}

// LoadConfig loads the config file at path if it exists, otherwise returns defaults.
// Partial config files are merged with defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cfg.File == "" {
		cfg.File = DefaultFile
	}
	if cfg.MaxTitleWidth <= 0 {
		cfg.MaxTitleWidth = DefaultMaxTitleWidth
	}

	return cfg, nil
}
