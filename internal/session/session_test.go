// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"net/http"
	"testing"
	"time"
)

func TestNewFlashManager_DevMode(t *testing.T) {
	sm := NewFlashManager(true)

	if sm == nil {
		t.Fatal("expected session manager to be non-nil")
	}
	if sm.Cookie.Secure {
		t.Error("expected Cookie.Secure = false in dev mode")
	}
}

func TestNewFlashManager_ProductionMode(t *testing.T) {
	sm := NewFlashManager(false)

	if !sm.Cookie.Secure {
		t.Error("expected Cookie.Secure = true in production mode")
	}
	if sm.Cookie.Path != "/" {
		t.Errorf("expected Cookie.Path = '/', got %q", sm.Cookie.Path)
	}
}

func TestNewFlashManager_Settings(t *testing.T) {
	sm := NewFlashManager(true)

	if sm.Lifetime != time.Hour {
		t.Errorf("Lifetime = %v, want 1h", sm.Lifetime)
	}
	if !sm.Cookie.HttpOnly {
		t.Error("expected Cookie.HttpOnly = true")
	}
	if sm.Cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("Cookie.SameSite = %v, want Lax", sm.Cookie.SameSite)
	}
	if sm.Cookie.Name == KeyAccessToken || sm.Cookie.Name == KeyUser {
		t.Errorf("flash cookie name %q collides with a session entry", sm.Cookie.Name)
	}
}
