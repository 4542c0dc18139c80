// Package config provides configuration parsing and management for the
// echod server.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Logging LogConfig     `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// Duration wraps time.Duration so configuration files can use values
// like "30s" or "1m30s".
type Duration time.Duration

// UnmarshalYAML parses a duration string. Bare numbers are rejected;
// a unit is required.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration in its string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	// Address is the TCP listen address, e.g. "127.0.0.1:8080".
	Address string `yaml:"address"`
	// MaxClients is the advisory concurrent-client limit. It is logged
	// at startup and never enforced by rejecting connections.
	MaxClients int `yaml:"maxClients"`
	// ReadTimeout bounds how long a connection may sit idle between
	// requests, given as a duration string such as "30s". Zero disables
	// the deadline.
	ReadTimeout Duration `yaml:"readTimeout"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// MetricsConfig holds the Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}
