// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Bayan HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to Supabase Postgres (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Start JWKS verification and wire domain services.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/bayan/internal/api"
	"github.com/taibuivan/bayan/internal/core/article"
	"github.com/taibuivan/bayan/internal/core/document"
	"github.com/taibuivan/bayan/internal/locale"
	"github.com/taibuivan/bayan/internal/platform/config"
	"github.com/taibuivan/bayan/internal/platform/constants"
	"github.com/taibuivan/bayan/internal/platform/metrics"
	"github.com/taibuivan/bayan/internal/platform/migration"
	"github.com/taibuivan/bayan/internal/platform/pdfengine"
	pgstore "github.com/taibuivan/bayan/internal/platform/postgres"
	redisstore "github.com/taibuivan/bayan/internal/platform/redis"
	"github.com/taibuivan/bayan/internal/platform/sec"
	"github.com/taibuivan/bayan/internal/users/auth"
	"github.com/taibuivan/bayan/internal/viewer"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("documents_dir", cfg.DocumentsDir),
	)

	// Process-wide context; cancelled on shutdown to stop background workers.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token Verification ─────────────────────────────────────────────
	verifier, err := sec.NewSupabaseVerifier(rootCtx, cfg.SupabaseJWKSURL, constants.SupabaseAuthenticatedRole)
	must(log, err, "initialize jwks verifier")

	// ── 7. Observability ──────────────────────────────────────────────────
	collectors := metrics.New(nil)

	// ── 8. Locale & Dictionaries ──────────────────────────────────────────
	defaultLocale, ok := locale.Parse(cfg.DefaultLocale)
	if !ok {
		must(log, fmt.Errorf("unsupported DEFAULT_LOCALE %q", cfg.DefaultLocale), "resolve default locale")
	}

	dictionaryLoader := locale.NewCachedLoader(locale.FileLoader(locale.Messages()))
	dictionaries, err := locale.LoadDictionaries(startupCtx, dictionaryLoader, defaultLocale)
	must(log, err, "load dictionaries")

	// ── 9. Documents & Viewer ─────────────────────────────────────────────
	engine := pdfengine.NewEngine(
		pdfengine.NewSource(cfg.DocumentsDir, cfg.DocumentsBaseURL, nil),
		pdfengine.NewRedisTextCache(rdb, constants.PageTextTTL),
		log,
	)
	documentService := document.NewService(cfg.DocumentsDir, engine, log)

	sessions := viewer.NewRegistry(engine, viewer.RegistryOptions{
		IdleTTL:  cfg.ViewerIdleTTL,
		Logger:   log,
		Observer: collectors,
	})
	go sessions.Run(rootCtx)

	// ── 10. Accounts ──────────────────────────────────────────────────────
	hub := auth.NewSessionHub()
	defer hub.Subscribe(auth.AuditLogger(log))()
	defer hub.Subscribe(func(event auth.Event) {
		if event.Type == auth.EventSignedOut && event.UserID != "" {
			sessions.CloseOwnedBy(event.UserID)
		}
	})()

	authService := auth.NewService(
		auth.NewGoTrueClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, nil),
		auth.NewSessionCache(rdb),
		hub,
		log,
	)

	// ── 11. Health handlers (wired with real dependency checkers) ─────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error {
			return pgstore.Ping(ctx, pool)
		},
		CheckCache: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		},
		CheckDocuments: func(ctx context.Context) error {
			_, err := documentService.List(ctx)
			return err
		},
	}, log)

	// ── 12. HTTP Server ───────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Articles:  article.NewHandler(article.NewService(article.NewPostgresRepository(pool), log)),
		Documents: document.NewHandler(documentService, cfg.DocumentsDir),
		Viewer:    viewer.NewHandler(sessions),
		Locale:    locale.NewHandler(dictionaries, dictionaryLoader),
	}

	server := api.NewServer(rootCtx, cfg, log, api.Routing{
		Verifier: verifier,
		Resolver: locale.NewResolver(defaultLocale),
		Metrics:  collectors,
	}, handlers)

	// ── 13. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
	}

	// Stop the sweeper and close every open document.
	rootCancel()
	sessions.Shutdown()

	log.Info("server_stopped_cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors must be
// returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
