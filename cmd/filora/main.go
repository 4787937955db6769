// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/filora/filora-site/internal/auth"
	"github.com/filora/filora-site/internal/cache"
	"github.com/filora/filora-site/internal/config"
	"github.com/filora/filora-site/internal/handler"
	"github.com/filora/filora-site/internal/logging"
	"github.com/filora/filora-site/internal/middleware"
	"github.com/filora/filora-site/internal/render"
	"github.com/filora/filora-site/internal/scheduler"
	"github.com/filora/filora-site/internal/seo"
	"github.com/filora/filora-site/internal/service"
	"github.com/filora/filora-site/internal/session"
	"github.com/filora/filora-site/internal/store"
	"github.com/filora/filora-site/internal/version"
	"github.com/filora/filora-site/web"
)

// requestTimeout bounds each request's handler time.
const requestTimeout = 30 * time.Second

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")
	seedOnly := flag.Bool("seed", false, "Provision the admin user and default content, then exit")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Filora - site backend with an admin area\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FILORA_SESSION_SECRET    Token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FILORA_DB_PATH           SQLite database path (default: ./data/filora.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FILORA_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FILORA_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FILORA_TOKEN_TTL         Login lifetime (default: 24h)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FILORA_REDIS_URL         Redis URL for the content cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  FILORA_DO_SEED           Provision default content on startup (default: false)\n")
	}

	flag.Parse()

	// Handle -h/-help flag
	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	// Handle -v/-version flag
	if *showVersion {
		_, _ = fmt.Println(version.Get().String())
		os.Exit(0)
	}

	if err := run(*seedOnly); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(seedOnly bool) error {
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

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	if cfg.DoSeed || seedOnly {
		result, err := store.Seed(context.Background(), db, store.SeedOptions{
			AdminEmail:    cfg.AdminEmail,
			AdminPassword: cfg.AdminPassword,
		})
		if err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
		slog.Info("seed complete",
			"admin_created", result.AdminCreated,
			"pages_created", len(result.PagesCreated),
			"posts_created", len(result.PostsCreated),
		)
		if seedOnly {
			return nil
		}
	}

	sessionManager := session.New(db, cfg.IsDevelopment())

	templates, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templates,
		SessionManager: sessionManager,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	contentCache, cacheBackend := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheDuration(),
		MaxSize:    cfg.CacheMaxSize,
	})
	defer func() {
		if err := contentCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	issuer := auth.NewTokenIssuer([]byte(cfg.SessionSecret), cfg.TokenTTL)
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	users := service.NewUserService(db)
	content := service.NewContentService(db, contentCache, cfg.CacheDuration())

	// Periodic maintenance
	sched := scheduler.New(logger)
	if err := sched.Add(scheduler.JobLoginCleanup, scheduler.DefaultLoginCleanupSchedule,
		scheduler.LoginCleanupJob(loginProtection, logger)); err != nil {
		return fmt.Errorf("scheduling login cleanup: %w", err)
	}
	if purger, ok := contentCache.(cache.Purger); ok {
		if err := sched.Add(scheduler.JobCachePurge, scheduler.DefaultCachePurgeSchedule,
			scheduler.CachePurgeJob(purger, logger)); err != nil {
			return fmt.Errorf("scheduling cache purge: %w", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	secureCookies := !cfg.IsDevelopment()
	routes := &handler.Routes{
		Auth:            handler.NewAuthHandler(users, issuer, renderer, sessionManager, loginProtection, secureCookies),
		Admin:           handler.NewAdminHandler(content, renderer),
		Pages:           handler.NewPagesHandler(content),
		Posts:           handler.NewPostsHandler(content),
		Users:           handler.NewUsersHandler(users),
		Public:          handler.NewPublicHandler(content),
		Health:          handler.NewHealthHandler(db, contentCache, cacheBackend),
		LoginProtection: loginProtection,
		Robots:          seo.NewRobotsBuilder(seo.RobotsConfig{DisallowAll: cfg.IsDevelopment()}).Handler(),
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.SkipCSRFForBearer(auth.CookieName))
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerPort)))
	r.Use(middleware.Guard(issuer))
	routes.Mount(r)

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "cache", cacheBackend, "version", version.Get().Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
