// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
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

	"github.com/redeblog/redeblog/internal/analytics"
	"github.com/redeblog/redeblog/internal/automation"
	"github.com/redeblog/redeblog/internal/cache"
	"github.com/redeblog/redeblog/internal/config"
	"github.com/redeblog/redeblog/internal/handler/api"
	"github.com/redeblog/redeblog/internal/imaging"
	"github.com/redeblog/redeblog/internal/logging"
	"github.com/redeblog/redeblog/internal/middleware"
	"github.com/redeblog/redeblog/internal/scheduler"
	"github.com/redeblog/redeblog/internal/store"
	"github.com/redeblog/redeblog/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "redeblog - multi-tenant hotel blog platform\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RB_TOKEN_SECRET        Token signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RB_DB_DRIVER           Database driver: sqlite|mysql (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RB_DB_PATH             SQLite database path (default: ./data/redeblog.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RB_SERVER_PORT         Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RB_OPENAI_API_KEY      OpenAI API key for content generation\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RB_AUTOMATION_CRON     Sweep schedule (default: hourly)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RB_REDIS_URL           Redis URL for distributed caching (optional)\n")
	}

	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("redeblog %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if cfg.DBDriver == store.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	dsn := cfg.DBPath
	if cfg.DBDriver == store.DriverMySQL {
		dsn = cfg.DBDSN
	}
	slog.Info("initializing database", "driver", cfg.DBDriver)
	db, err := store.NewDB(cfg.DBDriver, dsn)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db, cfg.DBDriver); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log table
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if cfg.DoSeed {
		if !cfg.IsDevelopment() {
			slog.Warn("seeding requested outside development", "env", cfg.Env)
		}
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	var c cache.Cache
	if cfg.UseRedisCache() {
		c, err = cache.NewRedisCache(cfg.RedisURL, cfg.CachePrefix, time.Duration(cfg.CacheTTL)*time.Second)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		slog.Info("cache initialized", "backend", "redis")
	} else {
		c = cache.NewMemoryCache(time.Duration(cfg.CacheTTL)*time.Second, cfg.CacheMaxSize)
		slog.Info("cache initialized", "backend", "memory", "max_size", cfg.CacheMaxSize)
	}
	defer func() { _ = c.Close() }()

	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}
	images := imaging.NewProcessor(cfg.UploadsDir)

	queries := store.New(db)
	tracker, err := analytics.NewTracker(queries, cfg.GeoIPDBPath, logger)
	if err != nil {
		return fmt.Errorf("initializing analytics tracker: %w", err)
	}
	defer func() { _ = tracker.Close() }()

	var sweeper *automation.Sweeper
	if cfg.AutomationEnabled {
		gen, err := automation.NewGenerator(*cfg)
		if err != nil {
			return fmt.Errorf("initializing post generator: %w", err)
		}
		sweeper = automation.NewSweeper(queries, gen, images, logger)

		sched := scheduler.New(sweeper, logger)
		if err := sched.Start(cfg.AutomationCron); err != nil {
			return fmt.Errorf("starting scheduler: %w", err)
		}
		defer sched.Stop()
		slog.Info("automation scheduler started", "cron", cfg.AutomationCron)
	} else {
		slog.Info("automation disabled")
	}

	authMW := middleware.NewAuth(queries, cfg.TokenSecret, logger)
	apiHandler := api.NewHandler(api.Deps{
		DB:      db,
		Cfg:     *cfg,
		Images:  images,
		Tracker: tracker,
		Sweeper: sweeper,
		Cache:   c,
		Log:     logger,
	})

	rateLimiter := middleware.NewRateLimiter(10, 20)
	defer rateLimiter.Stop()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(rateLimiter.Limit)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = fmt.Fprintln(w, "ok")
	})

	r.Mount("/api/v1", apiHandler.Routes(authMW))
	slog.Info("REST API v1 mounted at /api/v1")

	// Uploaded and generated images, cached for a week
	uploadsHandler := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))
	r.Handle("/uploads/*", func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=604800")
			next.ServeHTTP(w, r)
		})
	}(uploadsHandler))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env,
			"version", versionInfo.Version, "commit", versionInfo.GitCommit)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
