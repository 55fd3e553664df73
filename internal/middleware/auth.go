// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for session loading, route
// guarding, and request context handling.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/olegiv/postdoc-portal/internal/auth"
	"github.com/olegiv/postdoc-portal/internal/model"
	"github.com/olegiv/postdoc-portal/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request data.
const (
	ContextKeySession     ContextKey = "session"
	ContextKeyRequestPath ContextKey = "request_path"
	ContextKeyGuard       ContextKey = "guard"
)

// LoadSession creates middleware that binds a cookie-backed session store
// to the request. secure sets the Secure cookie attribute.
func LoadSession(secure bool, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store := session.NewStore(session.NewCookieBackend(w, r, secure), logger)
			ctx := context.WithValue(r.Context(), ContextKeySession, store)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession returns the session store bound to the request, or nil when
// LoadSession did not run.
func GetSession(r *http.Request) *session.Store {
	store, _ := r.Context().Value(ContextKeySession).(*session.Store)
	return store
}

// GetUser returns the session user, or nil if not logged in.
func GetUser(r *http.Request) *model.User {
	if store := GetSession(r); store != nil {
		return store.User()
	}
	return nil
}

// GetUserID returns the session user's ID, or 0 if not logged in.
// Safe to use in logging where a zero-value is acceptable.
func GetUserID(r *http.Request) int64 {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return 0
}

// RequireAdmin creates middleware that lets only staff users through.
// Everyone else is sent to the login page, matching how the admin listing
// has always treated non-staff visitors.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := GetSession(r)
		if store == nil || !auth.CheckAdminAccess(store) {
			slog.Warn("access denied",
				"status", http.StatusSeeOther,
				"method", r.Method,
				"path", r.URL.Path,
				"user_id", GetUserID(r),
				"remote_addr", r.RemoteAddr,
			)
			http.Redirect(w, r, auth.DestinationLogin.Path(), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestPath creates middleware that stores the request path in the context.
// This is used by the logging handler to include the URL in error logs.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}
