// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the site configuration from FILORA_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains example secrets that must never be used.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
	"filora-dev-secret-change-me-now!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string        `env:"FILORA_DB_PATH" envDefault:"./data/filora.db"`
	SessionSecret string        `env:"FILORA_SESSION_SECRET,required"`
	ServerHost    string        `env:"FILORA_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int           `env:"FILORA_SERVER_PORT" envDefault:"8080"`
	Env           string        `env:"FILORA_ENV" envDefault:"development"`
	LogLevel      string        `env:"FILORA_LOG_LEVEL" envDefault:"info"`
	TokenTTL      time.Duration `env:"FILORA_TOKEN_TTL" envDefault:"24h"` // Session token lifetime

	// Cache configuration
	RedisURL     string `env:"FILORA_REDIS_URL"`                          // Optional, memory cache otherwise
	CachePrefix  string `env:"FILORA_CACHE_PREFIX" envDefault:"filora:"`  // Redis key prefix
	CacheTTL     int    `env:"FILORA_CACHE_TTL" envDefault:"300"`         // Public content TTL in seconds
	CacheMaxSize int    `env:"FILORA_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// Seeding configuration
	DoSeed        bool   `env:"FILORA_DO_SEED" envDefault:"false"`
	AdminEmail    string `env:"FILORA_ADMIN_EMAIL"`
	AdminPassword string `env:"FILORA_ADMIN_PASSWORD"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CacheDuration returns CacheTTL as a duration.
func (c Config) CacheDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// SlogLevel maps LogLevel to a slog level. Unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinSessionSecretLength is the minimum session secret length. The secret
// keys HS256 token signatures and CSRF protection.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("FILORA_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("FILORA_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if cfg.Env != "development" && cfg.Env != "production" {
		return nil, fmt.Errorf("FILORA_ENV must be development or production, got %q", cfg.Env)
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("FILORA_TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}
	if cfg.CacheTTL < 0 || cfg.CacheMaxSize < 0 {
		return nil, fmt.Errorf("FILORA_CACHE_TTL and FILORA_CACHE_MAX_SIZE must not be negative")
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("FILORA_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret mixes at least 3 character classes.
func hasMinimumEntropy(s string) bool {
	classes := []string{
		"abcdefghijklmnopqrstuvwxyz",
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ",
		"0123456789",
		"!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\",
	}
	n := 0
	for _, c := range classes {
		if strings.ContainsAny(s, c) {
			n++
		}
	}
	return n >= 3
}
