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

func setRequired(t *testing.T) {
	t.Helper()
	os.Clearenv()
	setEnv(t, "PORTAL_SESSION_SECRET", testSecret)
	setEnv(t, "PORTAL_API_URL", "http://localhost:8000")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr() = %q, want localhost:8080", cfg.ServerAddr())
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development by default")
	}
	if cfg.APITimeout != 10*time.Second {
		t.Errorf("APITimeout = %v, want 10s", cfg.APITimeout)
	}
	if cfg.LogLevel != "info" || cfg.SlogLevel() != slog.LevelInfo {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if len(cfg.PublicPaths) != 0 {
		t.Errorf("PublicPaths = %v, want empty", cfg.PublicPaths)
	}
	if cfg.UseRedisCache() {
		t.Error("redis should be off by default")
	}
	if cfg.CacheTTLDuration() != time.Minute {
		t.Errorf("CacheTTLDuration() = %v, want 1m", cfg.CacheTTLDuration())
	}
}

func TestLoad_CustomValues(t *testing.T) {
	setRequired(t)
	setEnv(t, "PORTAL_API_URL", "https://api.example.org/v1")
	setEnv(t, "PORTAL_API_TIMEOUT", "3s")
	setEnv(t, "PORTAL_SERVER_HOST", "0.0.0.0")
	setEnv(t, "PORTAL_SERVER_PORT", "3000")
	setEnv(t, "PORTAL_ENV", "production")
	setEnv(t, "PORTAL_LOG_LEVEL", "debug")
	setEnv(t, "PORTAL_PUBLIC_PATHS", "/, /login, /register")
	setEnv(t, "PORTAL_REDIS_URL", "redis://localhost:6379/0")
	setEnv(t, "PORTAL_SITE_URL", "https://postdoc.example.ac.th")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.APIURL != "https://api.example.org/v1" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.APITimeout != 3*time.Second {
		t.Errorf("APITimeout = %v", cfg.APITimeout)
	}
	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q", cfg.ServerAddr())
	}
	if cfg.IsDevelopment() {
		t.Error("expected production")
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v", cfg.SlogLevel())
	}
	want := []string{"/", "/login", "/register"}
	if strings.Join(cfg.PublicPaths, "|") != strings.Join(want, "|") {
		t.Errorf("PublicPaths = %q, want %q", cfg.PublicPaths, want)
	}
	if !cfg.UseRedisCache() {
		t.Error("expected redis cache")
	}
	if cfg.SiteURL != "https://postdoc.example.ac.th" {
		t.Errorf("SiteURL = %q", cfg.SiteURL)
	}
}

func TestLoad_Required(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{"missing session secret", "PORTAL_SESSION_SECRET"},
		{"missing api url", "PORTAL_API_URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			_ = os.Unsetenv(tt.unset)
			if _, err := Load(); err == nil {
				t.Errorf("expected error when %s is unset", tt.unset)
			}
		})
	}
}

func TestLoad_SessionSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"too short", "short", true},
		{"31 bytes", strings.Repeat("a", 31), true},
		{"known default", "change-me-to-32-byte-secret-key!", true},
		{"exactly 32 bytes", "Abcdefgh1234567890abcdefghijkl!!", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			setEnv(t, "PORTAL_SESSION_SECRET", tt.secret)
			_, err := Load()
			if (err != nil) != tt.wantErr {
				t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && tt.name == "too short" && !strings.Contains(err.Error(), "at least 32 bytes") {
				t.Errorf("error should mention the minimum length: %v", err)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"api url not a url", "PORTAL_API_URL", "not a url"},
		{"unknown env", "PORTAL_ENV", "staging"},
		{"unknown log level", "PORTAL_LOG_LEVEL", "verbose"},
		{"port out of range", "PORTAL_SERVER_PORT", "70000"},
		{"timeout too small", "PORTAL_API_TIMEOUT", "10ms"},
		{"relative public path", "PORTAL_PUBLIC_PATHS", "/,login"},
		{"site url not a url", "PORTAL_SITE_URL", "not a url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			setEnv(t, tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{strings.Repeat("a", 32), false},
		{"abcABC" + strings.Repeat("x", 26), false},
		{"abcABC123" + strings.Repeat("x", 23), true},
		{"abc123!!" + strings.Repeat("x", 24), true},
	}
	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.s); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.s, got, tt.want)
		}
	}
}
