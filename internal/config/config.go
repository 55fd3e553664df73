// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the portal configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// knownWeakSecrets contains example secrets that must never be used.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIURL        string        `env:"PORTAL_API_URL,required"`
	APITimeout    time.Duration `env:"PORTAL_API_TIMEOUT" envDefault:"10s"`
	SessionSecret string        `env:"PORTAL_SESSION_SECRET,required"`
	ServerHost    string        `env:"PORTAL_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int           `env:"PORTAL_SERVER_PORT" envDefault:"8080"`
	Env           string        `env:"PORTAL_ENV" envDefault:"development"`
	LogLevel      string        `env:"PORTAL_LOG_LEVEL" envDefault:"info"`

	// SiteURL is the public base URL used in robots.txt and sitemap.xml.
	// Falls back to the request host when empty.
	SiteURL string `env:"PORTAL_SITE_URL"`

	// PublicPaths overrides the guard allow-list when set.
	PublicPaths []string `env:"PORTAL_PUBLIC_PATHS" envSeparator:","`

	// Directory listing cache
	RedisURL     string `env:"PORTAL_REDIS_URL"`
	CachePrefix  string `env:"PORTAL_CACHE_PREFIX" envDefault:"portal:"`
	CacheTTL     int    `env:"PORTAL_CACHE_TTL" envDefault:"60"` // seconds
	CacheMaxSize int    `env:"PORTAL_CACHE_MAX_SIZE" envDefault:"1000"`
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

// CacheTTLDuration returns the listing cache TTL.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// SlogLevel maps LogLevel to a slog level.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate checks values that env parsing cannot.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.APIURL, validation.Required, is.URL),
		validation.Field(&c.SiteURL, is.URL),
		validation.Field(&c.APITimeout, validation.Min(time.Second)),
		validation.Field(&c.ServerPort, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.Env, validation.In("development", "production")),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.CacheTTL, validation.Min(0)),
		validation.Field(&c.PublicPaths, validation.Each(validation.Match(publicPathPattern))),
	)
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("PORTAL_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("PORTAL_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("PORTAL_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	for i, p := range cfg.PublicPaths {
		cfg.PublicPaths[i] = strings.TrimSpace(p)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}

var publicPathPattern = regexp.MustCompile(`^/[^\s]*$`)
