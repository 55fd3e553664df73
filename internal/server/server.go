// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package server assembles the portal's router and middleware stack.
package server

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/postdoc-portal/internal/auth"
	"github.com/olegiv/postdoc-portal/internal/cache"
	"github.com/olegiv/postdoc-portal/internal/content"
	"github.com/olegiv/postdoc-portal/internal/directory"
	"github.com/olegiv/postdoc-portal/internal/handler"
	"github.com/olegiv/postdoc-portal/internal/middleware"
	"github.com/olegiv/postdoc-portal/internal/profile"
	"github.com/olegiv/postdoc-portal/internal/render"
	"github.com/olegiv/postdoc-portal/internal/version"
)

// DefaultRequestTimeout bounds every request.
const DefaultRequestTimeout = 30 * time.Second

// staticMaxAge is the Cache-Control max-age of static assets (1 day).
const staticMaxAge = 86400

// Config holds the router settings.
type Config struct {
	IsDevelopment bool
	ListenAddr    string

	// CSRFKey is the 32-byte key derived from the session secret.
	CSRFKey []byte

	// PublicPaths overrides the guard allow-list when not empty.
	PublicPaths []string

	// RequestTimeout defaults to DefaultRequestTimeout.
	RequestTimeout time.Duration

	// RequestLogging enables the chi access log.
	RequestLogging bool

	// SiteURL is the public base URL of robots.txt and sitemap.xml.
	SiteURL string

	// RobotsDisallowAll keeps every crawler out.
	RobotsDisallowAll bool
}

// Deps are the services the handlers run on.
type Deps struct {
	Auth            *auth.Client
	Profiles        *profile.Service
	Directory       *directory.Directory
	Renderer        *render.Renderer
	SessionManager  *scs.SessionManager
	LoginProtection *middleware.LoginProtection
	API             handler.Pinger
	Cache           cache.Cacher
	Version         version.Info
	Static          fs.FS
	Content         *content.Library
	Logger          *slog.Logger
}

// New builds the HTTP handler of the portal.
func New(cfg Config, d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	secure := !cfg.IsDevelopment

	authHandler := handler.NewAuthHandler(d.Auth, d.Renderer, d.LoginProtection, logger)
	userHandler := handler.NewUserHandler(d.Profiles, d.Directory, d.Renderer, logger)
	directoryHandler := handler.NewDirectoryHandler(d.Directory, d.Renderer, logger)
	pagesHandler := handler.NewPagesHandler(d.Renderer, d.Content, logger)
	healthHandler := handler.NewHealthHandler(d.API, d.Cache, d.Version)
	seoHandler := handler.NewSEOHandler(d.Directory, cfg.SiteURL, cfg.RobotsDisallowAll, logger)
	guard := middleware.NewGuard(cfg.PublicPaths, logger)

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig(cfg.CSRFKey, cfg.IsDevelopment, cfg.ListenAddr))

	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if cfg.RequestLogging {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))             // Gzip compression with level 5
	r.Use(chimw.GetHead)                 // Handle HEAD requests for uptime monitoring
	r.Use(middleware.Timeout(timeout))   // Per-request timeout
	r.Use(middleware.StripTrailingSlash) // Redirect /path/ to /path
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment)))
	r.Use(middleware.RequestPath)
	r.Use(d.SessionManager.LoadAndSave)
	r.Use(middleware.Language(secure))
	r.Use(middleware.LoadSession(secure, logger))

	// Probes and crawler files are neither guarded nor CSRF protected.
	r.Get(handler.RouteHealth, healthHandler.Health)
	r.Get(handler.RouteHealthLive, healthHandler.Liveness)
	r.Get(handler.RouteHealthReady, healthHandler.Readiness)

	r.Get(handler.RouteRobots, seoHandler.Robots)
	r.Get(handler.RouteSitemap, seoHandler.Sitemap)

	if d.Static != nil {
		r.With(middleware.StaticCache(staticMaxAge)).
			Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(d.Static)))
	}

	r.Group(func(r chi.Router) {
		r.Use(guard.Middleware)
		r.Use(csrfMiddleware)

		r.Get(handler.RouteRoot, pagesHandler.Home)
		r.Get(handler.RouteArticles, pagesHandler.Articles)
		r.Get(handler.RouteContact, pagesHandler.Contact)
		r.Get(handler.RouteForgotPassword, authHandler.ForgotPassword)

		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.Get(handler.RouteRegister, authHandler.RegisterForm)
		if d.LoginProtection != nil {
			r.With(d.LoginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
			r.With(d.LoginProtection.Middleware()).Post(handler.RouteRegister, authHandler.Register)
		} else {
			r.Post(handler.RouteLogin, authHandler.Login)
			r.Post(handler.RouteRegister, authHandler.Register)
		}
		r.Get(handler.RouteLogout, authHandler.Logout)
		r.Post(handler.RouteLogout, authHandler.Logout)
		r.Get(handler.RouteRegisterProfile, userHandler.RegisterProfile)

		r.Get(handler.RouteFindPostdoc, directoryHandler.Find)
		r.Get(handler.RouteFindPostdoc+handler.RouteParamID, directoryHandler.Show)

		r.With(middleware.RequireAdmin, middleware.NoStore).
			Get(handler.RouteAdminPostdoc, directoryHandler.Admin)

		r.Route(handler.RouteUser, func(r chi.Router) {
			r.Use(middleware.NoStore)

			r.Get(handler.RouteRoot, func(w http.ResponseWriter, req *http.Request) {
				http.Redirect(w, req, handler.RouteUser+handler.RouteDashboard, http.StatusSeeOther)
			})
			r.Get(handler.RouteDashboard, userHandler.Dashboard)

			r.Get(handler.RouteProfile, userHandler.ProfileForm)
			r.Post(handler.RouteProfile, userHandler.SaveProfile)
			r.Get(handler.RouteEducation, userHandler.EducationForm)
			r.Post(handler.RouteEducation, userHandler.SaveEducation)
			r.Get(handler.RouteCertificate, userHandler.CertificateForm)
			r.Post(handler.RouteCertificate, userHandler.SaveCertificate)
			r.Get(handler.RouteWorkHistory, userHandler.WorkHistoryForm)
			r.Post(handler.RouteWorkHistory, userHandler.SaveWorkHistory)
		})

		r.NotFound(pagesHandler.NotFound)
	})

	return r
}
