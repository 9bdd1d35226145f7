package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	_ = yaml.Unmarshal(defaultYAML, &cfg)
	return cfg
}

// EnsureUserConfig writes the built-in config to dataDir/config.yml unless
// the user already has one, and returns its path.
func EnsureUserConfig(dataDir string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(userPath, defaultYAML, 0o644); err != nil {
		return "", err
	}
	return userPath, nil
}
