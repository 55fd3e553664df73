// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func cacheControl(h http.Handler, path string) string {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Header().Get("Cache-Control")
}

func TestStaticCache(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := map[int]string{
		86400: "public, max-age=86400",
		3600:  "public, max-age=3600",
		0:     "public, max-age=0",
	}
	for maxAge, want := range tests {
		if got := cacheControl(StaticCache(maxAge)(ok), "/static/css/portal.css"); got != want {
			t.Errorf("StaticCache(%d): Cache-Control = %q, want %q", maxAge, got, want)
		}
	}
}

func TestStaticCacheLeavesHandlerOverride(t *testing.T) {
	h := StaticCache(86400)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
	}))
	if got := cacheControl(h, "/static/css/portal.css"); got != "no-cache" {
		t.Errorf("Cache-Control = %q, want handler value", got)
	}
}

func TestNoStore(t *testing.T) {
	h := NoStore(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	for _, path := range []string{"/user/dashboard", "/admin-postdoc"} {
		if got := cacheControl(h, path); got != "no-store" {
			t.Errorf("%s: Cache-Control = %q, want no-store", path, got)
		}
	}
}
