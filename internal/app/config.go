package app

import "fmt"

// Config carries what the CLI resolved: where the properties file lives and
// which properties the flags override.
type Config struct {
	// PropsPath is the HCL properties file. Empty means environment and
	// defaults only.
	PropsPath string

	// Flag overrides. Empty strings mean "use the properties"; a
	// GatewayPort of -1 likewise.
	LogFormat    string
	LogLevel     string
	GatewayPort  int
	Location     string
	FunctionName string
}

// NewConfig validates a Config. Kept as a constructor so the CLI and tests
// share one validation path.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GatewayPort < -1 || cfg.GatewayPort > 65535 {
		return nil, fmt.Errorf("invalid gateway port %d", cfg.GatewayPort)
	}
	return &cfg, nil
}
