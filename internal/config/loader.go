package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Configuration errors
var (
	// ErrNoAddress is returned when the listen address is empty
	ErrNoAddress = errors.New("config: server address is required")
	// ErrInvalidMaxClients is returned for a non-positive client limit
	ErrInvalidMaxClients = errors.New("config: maxClients must be positive")
	// ErrInvalidLogLevel is returned for an unrecognized log level
	ErrInvalidLogLevel = errors.New("config: invalid log level")
	// ErrInvalidLogFormat is returned for an unrecognized log format
	ErrInvalidLogFormat = errors.New("config: invalid log format")
	// ErrInvalidReadTimeout is returned for a negative read timeout
	ErrInvalidReadTimeout = errors.New("config: readTimeout cannot be negative")
)

// LoadConfig reads a YAML configuration file. Missing keys keep their
// default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return ErrNoAddress
	}
	if c.Server.MaxClients <= 0 {
		return ErrInvalidMaxClients
	}
	if c.Server.ReadTimeout < 0 {
		return ErrInvalidReadTimeout
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	return nil
}
