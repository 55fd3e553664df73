// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"strings"
)

// StripTrailingSlash redirects URLs with trailing slashes to their
// non-trailing equivalents. Excludes root path "/". Form posts get a 308 so
// the method and body survive the redirect.
func StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path != "/" && strings.HasSuffix(path, "/") {
			newURL := strings.TrimRight(path, "/")
			if newURL == "" {
				newURL = "/"
			}
			if r.URL.RawQuery != "" {
				newURL += "?" + r.URL.RawQuery
			}
			status := http.StatusMovedPermanently
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				status = http.StatusPermanentRedirect
			}
			http.Redirect(w, r, newURL, status)
			return
		}
		next.ServeHTTP(w, r)
	})
}
