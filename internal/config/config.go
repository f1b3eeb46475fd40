package config

import (
	"fmt"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the service runtime configuration, read from environment
// variables. OTel settings are handled separately by the otel adapter.
type Config struct {
	Port         string `env:"PORT" envDefault:"8080"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"tutoriq.db"`
	Environment  string `env:"ENVIRONMENT" envDefault:"development"`
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present; missing files are fine.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
