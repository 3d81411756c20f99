// Copyright (c) 2026 Cardo. All rights reserved.
// Author: dev@getcardo.app

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, TokenService) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Cardo API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// JWTSecret signs access tokens (HS256). Its absence is a startup-fatal
	// misconfiguration: there is no runtime fallback.
	JWTSecret string `env:"JWT_SECRET,required"`

	// TokenTTL bounds how long an issued access token stays valid. A shorter
	// value narrows the window during which revoked role flags remain live
	// inside already-issued tokens.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// Brute-force lockout policy. Defaults are deliberate policy values, not
	// physics: three strikes, locked for a day.
	MaxLoginAttempts int           `env:"MAX_LOGIN_ATTEMPTS" envDefault:"3"`
	LockDuration     time.Duration `env:"LOCK_DURATION"      envDefault:"24h"`

	// ExtraOrigins is a comma-separated allowlist of additional origins
	// permitted by CORS in production (staging frontends, preview deploys).
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.MaxLoginAttempts < 1 {
		return nil, fmt.Errorf("config: MAX_LOGIN_ATTEMPTS must be at least 1, got %d", cfg.MaxLoginAttempts)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the extra CORS origins configured for this
// environment. An empty EXTRA_ORIGINS yields an empty slice.
func (c *Config) AllowedOrigins() []string {
	if c.ExtraOrigins == "" {
		return nil
	}

	origins := strings.Split(c.ExtraOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	return origins
}
