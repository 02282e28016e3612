package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Environment holds process configuration read from TUNEBRIDGE_* variables.
type Environment struct {
	// ConfigPath is the client credentials file.
	ConfigPath string `env:"TUNEBRIDGE_CONFIG" envDefault:"config.json"`
	// DataDir holds login_info.json, settings.toml and the history database.
	DataDir string `env:"TUNEBRIDGE_DATA_DIR"`
	// Verbose enables debug logging.
	Verbose bool `env:"TUNEBRIDGE_VERBOSE"`
}

// LoadEnvironment parses the environment and fills in the default data directory.
func LoadEnvironment() (*Environment, error) {
	var cfg Environment
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}
	return &cfg, nil
}

// DefaultDataDir returns the per-user application-data directory.
func DefaultDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, "tunebridge"), nil
}
