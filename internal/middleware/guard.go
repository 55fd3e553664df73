// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/olegiv/postdoc-portal/internal/session"
)

// Decision is the outcome of a route guard check.
type Decision int

const (
	// Unguarded paths are not covered by the guard at all.
	Unguarded Decision = iota
	// Allow lets the request through.
	Allow
	// RedirectToLogin sends the browser to the login page.
	RedirectToLogin
)

func (d Decision) String() string {
	switch d {
	case Unguarded:
		return "unguarded"
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect_to_login"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// GuardedPaths are the exact paths the guard evaluates. Everything below
// GuardedPrefix is evaluated as well.
var GuardedPaths = []string{
	"/", "/login", "/register", "/register-profile", "/forgot-password",
	"/find-postdoc", "/admin-postdoc", "/articles", "/contact", "/user",
}

// GuardedPrefix covers the user area.
const GuardedPrefix = "/user/"

// DefaultPublicPaths may be visited without an access token.
var DefaultPublicPaths = []string{
	"/", "/login", "/forgot-password", "/find-postdoc", "/articles", "/contact",
}

// Guard decides which page loads need a session.
type Guard struct {
	guarded map[string]bool
	public  map[string]bool
	logger  *slog.Logger

	decide func(path string, hasToken bool) Decision
}

// NewGuard creates a guard. An empty publicPaths uses DefaultPublicPaths.
func NewGuard(publicPaths []string, logger *slog.Logger) *Guard {
	if len(publicPaths) == 0 {
		publicPaths = DefaultPublicPaths
	}
	if logger == nil {
		logger = slog.Default()
	}

	g := &Guard{
		guarded: make(map[string]bool, len(GuardedPaths)),
		public:  make(map[string]bool, len(publicPaths)),
		logger:  logger,
	}
	for _, p := range GuardedPaths {
		g.guarded[p] = true
	}
	for _, p := range publicPaths {
		g.public[normalizePath(p)] = true
	}
	g.decide = g.Decide
	return g
}

// normalizePath cleans dot segments and drops a trailing slash.
func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// Decide evaluates a path. Token presence is all that is checked; the
// token's integrity and expiry are left to the API.
func (g *Guard) Decide(urlPath string, hasToken bool) Decision {
	p := normalizePath(urlPath)
	if !g.guarded[p] && !strings.HasPrefix(p, GuardedPrefix) {
		return Unguarded
	}
	if g.public[p] || hasToken {
		return Allow
	}
	return RedirectToLogin
}

// OpensAnonymously reports whether a visitor without a session may load urlPath.
func (g *Guard) OpensAnonymously(urlPath string) bool {
	return g.Decide(urlPath, false) != RedirectToLogin
}

// AnonymousAccess reports whether the guard that served r lets a visitor
// without a session load urlPath. It is false outside the guarded routes.
func AnonymousAccess(r *http.Request, urlPath string) bool {
	g, ok := r.Context().Value(ContextKeyGuard).(*Guard)
	return ok && g.OpensAnonymously(urlPath)
}

// Middleware enforces the guard. Any failure while deciding results in a
// 500 response; the request is never passed through on error.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision, err := g.evaluate(r)
		if err != nil {
			g.logger.ErrorContext(r.Context(), "route guard failed", "path", r.URL.Path, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		switch decision {
		case Unguarded, Allow:
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ContextKeyGuard, g)))
		case RedirectToLogin:
			g.logger.DebugContext(r.Context(), "redirecting anonymous request", "path", r.URL.Path)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		default:
			g.logger.ErrorContext(r.Context(), "route guard returned unknown decision", "path", r.URL.Path, "decision", decision)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	})
}

func (g *Guard) evaluate(r *http.Request) (d Decision, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return g.decide(r.URL.Path, hasAccessToken(r)), nil
}

func hasAccessToken(r *http.Request) bool {
	c, err := r.Cookie(session.KeyAccessToken)
	return err == nil && c.Value != ""
}
