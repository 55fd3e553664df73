// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/olegiv/postdoc-portal/internal/model"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStoreTokensAndUser(t *testing.T) {
	backend := NewMemoryBackend()
	s := NewStore(backend, quietLogger())

	s.SetTokens(model.Tokens{Access: "acc", Refresh: "ref"})
	s.SetUser(&model.User{ID: 12, Username: "nok", IsStaff: model.Staff(true)})

	if got := s.AccessToken(); got != "acc" {
		t.Errorf("AccessToken() = %q, want acc", got)
	}
	if got := s.RefreshToken(); got != "ref" {
		t.Errorf("RefreshToken() = %q, want ref", got)
	}

	u := s.User()
	if u == nil {
		t.Fatal("User() = nil")
	}
	if u.ID != 12 || u.Username != "nok" || !u.IsStaff.IsTrue() {
		t.Errorf("User() = %+v", u)
	}
}

func TestStoreExpiry(t *testing.T) {
	backend := NewMemoryBackend()
	s := NewStore(backend, quietLogger())
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.SetTokens(model.Tokens{Access: "a", Refresh: "r"})
	s.SetUser(&model.User{ID: 1})

	want := fixed.Add(7 * 24 * time.Hour)
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyUser} {
		e, ok := backend.entries[key]
		if !ok {
			t.Errorf("%s not stored", key)
			continue
		}
		if !e.expires.Equal(want) {
			t.Errorf("%s expires %v, want %v", key, e.expires, want)
		}
	}
}

func TestStoreExpiredEntriesAreAbsent(t *testing.T) {
	backend := NewMemoryBackend()
	s := NewStore(backend, quietLogger())
	s.SetTokens(model.Tokens{Access: "a", Refresh: "r"})

	backend.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
	if got := s.AccessToken(); got != "" {
		t.Errorf("AccessToken() after expiry = %q, want empty", got)
	}
}

func TestStoreSetUserRejectsInvalid(t *testing.T) {
	backend := NewMemoryBackend()
	s := NewStore(backend, quietLogger())

	s.SetUser(nil)
	s.SetUser(&model.User{Username: "no-id"})

	if _, ok := backend.Get(KeyUser); ok {
		t.Error("invalid user must not be written")
	}
}

func TestStoreMalformedUser(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{oops"},
		{"missing id", `{"username":"x"}`},
		{"zero id", `{"id":0}`},
		{"array", `[1,2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := NewMemoryBackend()
			backend.Set(KeyUser, tt.raw, time.Now().Add(time.Hour))
			s := NewStore(backend, quietLogger())

			if u := s.User(); u != nil {
				t.Errorf("User() = %+v, want nil", u)
			}
		})
	}
}

func TestStoreClear(t *testing.T) {
	backend := NewMemoryBackend()
	s := NewStore(backend, quietLogger())
	s.SetTokens(model.Tokens{Access: "a", Refresh: "r"})
	s.SetUser(&model.User{ID: 4})

	s.Clear()

	if s.AccessToken() != "" || s.RefreshToken() != "" || s.User() != nil {
		t.Error("Clear() left session entries behind")
	}

	// Clearing an empty session is harmless.
	s.Clear()
}

func TestCookieBackendRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	s := NewStore(NewCookieBackend(rec, req, true), quietLogger())

	s.SetTokens(model.Tokens{Access: "acc.token", Refresh: "ref.token"})
	s.SetUser(&model.User{ID: 3, Username: "a b", IsStaff: model.Staff(false)})

	// Writes are visible within the same request.
	if u := s.User(); u == nil || u.ID != 3 {
		t.Fatalf("User() in same request = %+v", u)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 3 {
		t.Fatalf("got %d cookies, want 3", len(cookies))
	}
	for _, c := range cookies {
		if c.Path != "/" || !c.Secure || !c.HttpOnly || c.SameSite != http.SameSiteLaxMode {
			t.Errorf("cookie %s attributes: %+v", c.Name, c)
		}
		if c.Expires.Before(time.Now().Add(6 * 24 * time.Hour)) {
			t.Errorf("cookie %s expires too early: %v", c.Name, c.Expires)
		}
	}

	// Replay the cookies on the next request.
	next := httptest.NewRequest(http.MethodGet, "/user/dashboard", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}
	s2 := NewStore(NewCookieBackend(httptest.NewRecorder(), next, true), quietLogger())
	u := s2.User()
	if u == nil || u.ID != 3 || u.Username != "a b" {
		t.Errorf("User() from cookies = %+v", u)
	}
	if s2.AccessToken() != "acc.token" {
		t.Errorf("AccessToken() from cookies = %q", s2.AccessToken())
	}
}

func TestCookieBackendClear(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: KeyAccessToken, Value: "tok"})
	rec := httptest.NewRecorder()
	s := NewStore(NewCookieBackend(rec, req, false), quietLogger())

	if s.AccessToken() != "tok" {
		t.Fatalf("AccessToken() = %q, want tok", s.AccessToken())
	}

	s.Clear()

	if s.AccessToken() != "" {
		t.Error("cleared token still visible in the same request")
	}
	header := strings.Join(rec.Header().Values("Set-Cookie"), "\n")
	for _, name := range []string{KeyAccessToken, KeyRefreshToken, KeyUser} {
		if !strings.Contains(header, name+"=;") {
			t.Errorf("missing deletion for %s in %q", name, header)
		}
	}
}

func TestCookieBackendMalformedCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: KeyUser, Value: "%7Bbroken"})
	s := NewStore(NewCookieBackend(httptest.NewRecorder(), req, false), quietLogger())

	if u := s.User(); u != nil {
		t.Errorf("User() = %+v, want nil", u)
	}
}
