// internal/config/config.go
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port   int  `yaml:"port" json:"port"`
		OpenUI bool `yaml:"open_ui" json:"open_ui"`
		// AllowedOrigins may call the engine from another origin, e.g. a
		// native shell's webview. The engine's own page is always allowed.
		AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`
	} `yaml:"app" json:"app"`

	Search struct {
		BaseURL        string `yaml:"base_url" json:"base_url"`
		UserAgent      string `yaml:"user_agent" json:"user_agent"`
		TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
	} `yaml:"search" json:"search"`

	Store struct {
		Path string `yaml:"path" json:"path"`
	} `yaml:"store" json:"store"`

	Optimizer struct {
		BaseURL        string `yaml:"base_url" json:"base_url"`
		Model          string `yaml:"model" json:"model"`
		TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
		OutputDir      string `yaml:"output_dir" json:"output_dir"`
	} `yaml:"optimizer" json:"optimizer"`
}

// Load reads path on top of the built-in defaults, so keys missing from an
// older file keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

func (c Config) SearchTimeout() time.Duration {
	return time.Duration(c.Search.TimeoutSeconds) * time.Second
}

func (c Config) OptimizerTimeout() time.Duration {
	return time.Duration(c.Optimizer.TimeoutSeconds) * time.Second
}
