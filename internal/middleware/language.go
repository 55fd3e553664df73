// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/olegiv/postdoc-portal/internal/i18n"
)

// ContextKeyLanguage holds the UI language code of the request.
const ContextKeyLanguage ContextKey = "language"

// LanguageCookieName is the cookie name for language preference.
const LanguageCookieName = "portal_lang"

// Language creates middleware that picks the UI language.
// Priority order:
// 1. Query parameter ?lang=XX (explicit switch, updates cookie)
// 2. Cookie preference
// 3. Accept-Language header
// 4. Default language
func Language(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := ""

			if q := strings.ToLower(r.URL.Query().Get("lang")); q != "" && i18n.IsSupported(q) {
				lang = q
				SetLanguageCookie(w, lang, secure)
			}

			if lang == "" {
				if c, err := r.Cookie(LanguageCookieName); err == nil && i18n.IsSupported(c.Value) {
					lang = strings.ToLower(c.Value)
				}
			}

			if lang == "" {
				if accept := r.Header.Get("Accept-Language"); accept != "" {
					lang = i18n.MatchLanguage(accept)
				}
			}

			if lang == "" {
				lang = i18n.DefaultLanguage
			}

			ctx := context.WithValue(r.Context(), ContextKeyLanguage, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLang returns the UI language of the request, falling back to the
// default language when the Language middleware did not run.
func GetLang(r *http.Request) string {
	if lang, ok := r.Context().Value(ContextKeyLanguage).(string); ok && lang != "" {
		return lang
	}
	return i18n.DefaultLanguage
}

// SetLanguageCookie sets the language preference cookie.
func SetLanguageCookie(w http.ResponseWriter, langCode string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     LanguageCookieName,
		Value:    langCode,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60, // 1 year
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
