// Package config reads CLI defaults from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds defaults that command-line flags may override.
type Config struct {
	// Data lists context files merged in order.
	Data       []string `env:"TAGVARS_DATA" envSeparator:","`
	Sanitize   string   `env:"TAGVARS_SANITIZE" envDefault:"none"`
	// IncludeDir is where `{% include %}` looks up templates.
	IncludeDir string   `env:"TAGVARS_INCLUDE_DIR"`
	Debug      bool     `env:"TAGVARS_DEBUG"`
	TrimOutput bool     `env:"TAGVARS_TRIM"`
}

// ParseEnv loads configuration from the process environment.
func ParseEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ParseMap loads configuration from an explicit environment map.
func ParseMap(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
