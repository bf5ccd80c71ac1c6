// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package config

import (
	"errors"
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// devSessionSecret is the fallback signing key outside production. In
// production SESSION_SECRET is mandatory and must be at least 32 bytes.
const devSessionSecret = "securevote-dev-secret-do-not-use-in-prod"

type Config struct {
	Port         int    `env:"PORT" envDefault:"5000"`
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseType string `env:"DATABASE_TYPE" envDefault:"postgres"`
	AppEnv       string `env:"APP_ENV" envDefault:"development"`

	SessionSecret string `env:"SESSION_SECRET"`
	SessionStore  string `env:"SESSION_STORE" envDefault:"memory"`

	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	SeedDemoData  bool   `env:"SEED_DEMO_DATA"`
}

func (c Config) Production() bool {
	return c.AppEnv == "production"
}

// Load reads configuration from a .env file (if present), the environment,
// and CLI flag overrides, in increasing order of precedence.
func Load(args []string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	fs := flag.NewFlagSet("securevote", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Database type (sqlite or postgres)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if c.DatabaseType != "postgres" && c.DatabaseType != "sqlite" {
		return fmt.Errorf("unsupported database type %q", c.DatabaseType)
	}
	if c.SessionStore != "memory" && c.SessionStore != "postgres" {
		return fmt.Errorf("unsupported session store %q", c.SessionStore)
	}

	if c.SessionSecret == "" {
		if c.Production() {
			return errors.New("SESSION_SECRET required in production")
		}
		c.SessionSecret = devSessionSecret
	}
	if c.Production() && len(c.SessionSecret) < 32 {
		return errors.New("SESSION_SECRET must be at least 32 bytes in production")
	}
	return nil
}
