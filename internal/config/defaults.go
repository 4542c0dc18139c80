package config

// Default configuration values.
const (
	// DefaultAddress is the default listen address.
	DefaultAddress = "127.0.0.1:8080"
	// DefaultMaxClients is the default advisory client limit.
	DefaultMaxClients = 100
	// DefaultMetricsAddress is where Prometheus metrics are exposed
	// when enabled.
	DefaultMetricsAddress = "127.0.0.1:9090"
)

// DefaultConfig returns a Config populated with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address:    DefaultAddress,
			MaxClients: DefaultMaxClients,
		},
		Logging: LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Address: DefaultMetricsAddress,
		},
	}
}
