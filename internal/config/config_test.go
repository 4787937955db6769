// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-key-32-bytes-long!!!"

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	setEnv(t, "FILORA_SESSION_SECRET", testSecret)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/filora.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/filora.db")
	}
	if cfg.ServerHost != "localhost" {
		t.Errorf("ServerHost = %q, want %q", cfg.ServerHost, "localhost")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want %q", cfg.Env, "development")
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v, want 24h", cfg.TokenTTL)
	}
	if cfg.CachePrefix != "filora:" {
		t.Errorf("CachePrefix = %q, want %q", cfg.CachePrefix, "filora:")
	}
	if cfg.CacheDuration() != 5*time.Minute {
		t.Errorf("CacheDuration() = %v, want 5m", cfg.CacheDuration())
	}
	if cfg.DoSeed {
		t.Error("DoSeed should default to false")
	}
	if cfg.UseRedisCache() {
		t.Error("UseRedisCache() should be false without FILORA_REDIS_URL")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "FILORA_SESSION_SECRET", testSecret)
	setEnv(t, "FILORA_DB_PATH", "/var/lib/filora/site.db")
	setEnv(t, "FILORA_SERVER_HOST", "0.0.0.0")
	setEnv(t, "FILORA_SERVER_PORT", "3000")
	setEnv(t, "FILORA_ENV", "production")
	setEnv(t, "FILORA_LOG_LEVEL", "debug")
	setEnv(t, "FILORA_TOKEN_TTL", "2h30m")
	setEnv(t, "FILORA_REDIS_URL", "redis://localhost:6379/0")
	setEnv(t, "FILORA_DO_SEED", "true")
	setEnv(t, "FILORA_ADMIN_EMAIL", "root@filora.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "/var/lib/filora/site.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "0.0.0.0:3000")
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() should be false in production")
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, want debug", cfg.SlogLevel())
	}
	if cfg.TokenTTL != 150*time.Minute {
		t.Errorf("TokenTTL = %v, want 2h30m", cfg.TokenTTL)
	}
	if !cfg.UseRedisCache() {
		t.Error("UseRedisCache() should be true")
	}
	if !cfg.DoSeed || cfg.AdminEmail != "root@filora.test" {
		t.Errorf("seed settings = %v %q", cfg.DoSeed, cfg.AdminEmail)
	}
}

func TestLoad_RequiredSessionSecret(t *testing.T) {
	os.Clearenv()

	if _, err := Load(); err == nil {
		t.Error("Load() should fail without FILORA_SESSION_SECRET")
	}
}

func TestLoad_SessionSecretValidation(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr string
	}{
		{"too short", "short", "at least 32 bytes"},
		{"one byte short", strings.Repeat("a", 31), "at least 32 bytes"},
		{"known weak", "change-me-to-32-byte-secret-key!", "known default"},
		{"exactly minimum", strings.Repeat("aB1", 10) + "xy", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			setEnv(t, "FILORA_SESSION_SECRET", tt.secret)

			_, err := Load()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Load() error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown env", "FILORA_ENV", "staging"},
		{"zero token ttl", "FILORA_TOKEN_TTL", "0s"},
		{"bad duration", "FILORA_TOKEN_TTL", "forever"},
		{"negative cache ttl", "FILORA_CACHE_TTL", "-1"},
		{"bad port", "FILORA_SERVER_PORT", "http"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			setEnv(t, "FILORA_SESSION_SECRET", testSecret)
			setEnv(t, tt.key, tt.val)

			if _, err := Load(); err == nil {
				t.Errorf("Load() should fail for %s=%q", tt.key, tt.val)
			}
		})
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := (Config{LogLevel: tt.level}).SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{strings.Repeat("a", 32), false},
		{"abcdefABCDEF", false},
		{"abcABC123", true},
		{"abc123!!!", true},
	}
	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.secret); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.secret, got, tt.want)
		}
	}
}
