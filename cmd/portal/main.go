// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/postdoc-portal/internal/apiclient"
	"github.com/olegiv/postdoc-portal/internal/auth"
	"github.com/olegiv/postdoc-portal/internal/cache"
	"github.com/olegiv/postdoc-portal/internal/config"
	"github.com/olegiv/postdoc-portal/internal/content"
	"github.com/olegiv/postdoc-portal/internal/directory"
	"github.com/olegiv/postdoc-portal/internal/i18n"
	"github.com/olegiv/postdoc-portal/internal/logging"
	"github.com/olegiv/postdoc-portal/internal/middleware"
	"github.com/olegiv/postdoc-portal/internal/profile"
	"github.com/olegiv/postdoc-portal/internal/render"
	"github.com/olegiv/postdoc-portal/internal/scheduler"
	"github.com/olegiv/postdoc-portal/internal/server"
	"github.com/olegiv/postdoc-portal/internal/session"
	"github.com/olegiv/postdoc-portal/internal/version"
	"github.com/olegiv/postdoc-portal/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "postdoc-portal - researcher profile portal\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_API_URL          Remote REST API base URL (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_SESSION_SECRET   Secret key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_PUBLIC_PATHS     Comma-separated paths reachable without login\n")
		_, _ = fmt.Fprintf(os.Stderr, "                          (default: /,/login,/forgot-password,/find-postdoc,/articles,/contact;\n")
		_, _ = fmt.Fprintf(os.Stderr, "                          add /register to enable self-registration)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_REDIS_URL        Redis URL for the directory cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_SITE_URL         Public base URL for robots.txt and sitemap.xml (optional)\n")
	}

	flag.Parse()

	// Handle -h/-help flag
	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	// Handle -v/-version flag
	if *showVersion {
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(logging.NewRequestHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))
	slog.SetDefault(logger)

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}
	slog.Info("i18n system initialized", "languages", i18n.SupportedLanguages)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	api, err := apiclient.New(cfg.APIURL, cfg.APITimeout, apiclient.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("creating API client: %w", err)
	}

	listingCache := cache.New(ctx, cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTLDuration(),
		MaxSize:    cfg.CacheMaxSize,
	}, logger)
	defer func() {
		if err := listingCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	profiles := profile.NewService(api, logger)
	authClient := auth.NewClient(api, profiles, logger)
	dir := directory.New(profiles.Profiles, listingCache, cfg.CacheTTLDuration(), logger)

	sessionManager := session.NewFlashManager(cfg.IsDevelopment())

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("opening templates: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("opening static files: %w", err)
	}

	contentFS, err := fs.Sub(web.Content, "content")
	if err != nil {
		return fmt.Errorf("opening content: %w", err)
	}

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	sched := scheduler.New(logger)
	if err := sched.Every("login-protection-cleanup", 5*time.Minute, func(context.Context) error {
		loginProtection.Cleanup()
		return nil
	}); err != nil {
		return fmt.Errorf("scheduling login cleanup: %w", err)
	}
	if err := sched.Every("directory-warmup", cfg.CacheTTLDuration(), func(ctx context.Context) error {
		_, err := dir.Find(ctx, "")
		return err
	}); err != nil {
		return fmt.Errorf("scheduling directory warm-up: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	router := server.New(server.Config{
		IsDevelopment:  cfg.IsDevelopment(),
		ListenAddr:     cfg.ServerAddr(),
		CSRFKey:        []byte(cfg.SessionSecret),
		PublicPaths:    cfg.PublicPaths,
		RequestLogging: true,
		SiteURL:        cfg.SiteURL,
		// Development instances stay out of search indexes.
		RobotsDisallowAll: cfg.IsDevelopment(),
	}, server.Deps{
		Auth:            authClient,
		Profiles:        profiles,
		Directory:       dir,
		Renderer:        renderer,
		SessionManager:  sessionManager,
		LoginProtection: loginProtection,
		API:             api,
		Cache:           listingCache,
		Version:         info,
		Static:          staticFS,
		Content:         content.New(contentFS),
		Logger:          logger,
	})

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second, // Reduced from 120s to mitigate slowloris attacks
		MaxHeaderBytes:    1 << 20,          // 1MB max header size
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			"addr", cfg.ServerAddr(),
			"env", cfg.Env,
			"api", api.BaseURL(),
			"version", info.Short(),
			"redis_cache", cfg.UseRedisCache(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	stop()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
