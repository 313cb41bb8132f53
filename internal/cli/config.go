package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/modbump/modbump/pkg/errors"
)

// appName is the application name used for directories and display.
const appName = "modbump"

// fileConfig holds defaults read from the optional config file.
// Flags always take precedence over these values.
type fileConfig struct {
	Registry       string `toml:"registry"`        // registry base URL override
	MaxWorkers     int    `toml:"max_workers"`     // default worker count
	TimeoutSeconds int    `toml:"timeout_seconds"` // default per-request timeout
}

// configPath returns the config file location using the XDG standard
// (~/.config/modbump/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the config file at path. A missing file is not an
// error; it simply yields the zero config.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return fileConfig{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	if cfg.MaxWorkers < 0 {
		return fileConfig{}, errors.New(errors.ErrCodeInvalidInput, "config %s: max_workers must not be negative", path)
	}
	if cfg.TimeoutSeconds < 0 {
		return fileConfig{}, errors.New(errors.ErrCodeInvalidInput, "config %s: timeout_seconds must not be negative", path)
	}
	return cfg, nil
}

// loadDefaultConfig loads the config from the standard location,
// tolerating a missing home directory.
func loadDefaultConfig() (fileConfig, error) {
	path, err := configPath()
	if err != nil {
		return fileConfig{}, nil
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
