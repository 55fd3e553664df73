// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStripTrailingSlash(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := StripTrailingSlash(next)

	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
		wantLoc    string
	}{
		{"root untouched", http.MethodGet, "/", http.StatusOK, ""},
		{"plain path untouched", http.MethodGet, "/find-postdoc", http.StatusOK, ""},
		{"get redirected", http.MethodGet, "/find-postdoc/", http.StatusMovedPermanently, "/find-postdoc"},
		{"query kept", http.MethodGet, "/find-postdoc/?q=chem", http.StatusMovedPermanently, "/find-postdoc?q=chem"},
		{"post keeps method", http.MethodPost, "/login/", http.StatusPermanentRedirect, "/login"},
		{"repeated slashes", http.MethodGet, "/user//", http.StatusMovedPermanently, "/user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if loc := w.Header().Get("Location"); loc != tt.wantLoc {
				t.Errorf("Location = %q, want %q", loc, tt.wantLoc)
			}
		})
	}
}
