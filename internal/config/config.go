// Package config loads service configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime knob of the service.
type Config struct {
	ListenAddr      string        `env:"ACCOUNTD_LISTEN_ADDR" envDefault:":8080"`
	DatabaseDSN     string        `env:"ACCOUNTD_PG_DSN"`
	AuthSecret      string        `env:"ACCOUNTD_AUTH_SECRET"`
	TokenIssuer     string        `env:"ACCOUNTD_TOKEN_ISSUER" envDefault:"accountd"`
	TokenTTL        time.Duration `env:"ACCOUNTD_TOKEN_TTL" envDefault:"15m"`
	BcryptCost      int           `env:"ACCOUNTD_BCRYPT_COST" envDefault:"10"`
	ShutdownTimeout time.Duration `env:"ACCOUNTD_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.AuthSecret == "" {
		return Config{}, errors.New("ACCOUNTD_AUTH_SECRET is required")
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, errors.New("ACCOUNTD_TOKEN_TTL must be positive")
	}
	return cfg, nil
}
