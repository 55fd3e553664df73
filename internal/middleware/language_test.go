// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/olegiv/postdoc-portal/internal/i18n"
)

func TestMain(m *testing.M) {
	if err := i18n.Init(nil); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestLanguage(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		cookie     string
		accept     string
		want       string
		wantCookie bool
	}{
		{"default", "/", "", "", "th", false},
		{"query switch", "/?lang=en", "", "", "en", true},
		{"unsupported query ignored", "/?lang=ru", "", "", "th", false},
		{"cookie", "/", "en", "", "en", false},
		{"query beats cookie", "/?lang=th", "en", "", "th", true},
		{"accept language", "/", "", "en-US,en;q=0.9", "en", false},
		{"cookie beats accept", "/", "th", "en-US", "th", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			handler := Language(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = GetLang(r)
			}))

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LanguageCookieName, Value: tt.cookie})
			}
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if got != tt.want {
				t.Errorf("GetLang() = %q, want %q", got, tt.want)
			}
			hasCookie := rec.Header().Get("Set-Cookie") != ""
			if hasCookie != tt.wantCookie {
				t.Errorf("Set-Cookie present = %v, want %v", hasCookie, tt.wantCookie)
			}
		})
	}
}

func TestGetLangWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetLang(req); got != i18n.DefaultLanguage {
		t.Errorf("GetLang() = %q, want %q", got, i18n.DefaultLanguage)
	}
}
