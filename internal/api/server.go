// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/bayan/internal/core/article"
	"github.com/taibuivan/bayan/internal/core/document"
	"github.com/taibuivan/bayan/internal/locale"
	"github.com/taibuivan/bayan/internal/platform/config"
	"github.com/taibuivan/bayan/internal/platform/constants"
	"github.com/taibuivan/bayan/internal/platform/metrics"
	"github.com/taibuivan/bayan/internal/platform/middleware"
	"github.com/taibuivan/bayan/internal/users/auth"
	"github.com/taibuivan/bayan/internal/viewer"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
type Handlers struct {
	// Liveness is the /health handler. It returns 200 while the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. It returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles sign-up, sign-in and session routes.
	Auth *auth.Handler

	// Articles serves the bilingual article catalogue.
	Articles *article.Handler

	// Documents lists PDFs and serves their bytes under /pdfs.
	Documents *document.Handler

	// Viewer manages document viewer sessions.
	Viewer *viewer.Handler

	// Locale serves message catalogs and the localized page tree.
	Locale *locale.Handler
}

// Routing holds the cross-cutting collaborators of the router itself.
type Routing struct {
	Verifier middleware.TokenVerifier
	Resolver *locale.Resolver
	Metrics  *metrics.Metrics
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, routing Routing, h Handlers) *Server {
	r := NewRouter(context, cfg, log, routing, h)

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// NewRouter builds the routing tree without an [http.Server].
func NewRouter(context context.Context, cfg *config.Config, log *slog.Logger, routing Routing, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	if routing.Metrics != nil {
		r.Use(routing.Metrics.Middleware())
	}
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)
	r.Use(locale.Redirect(routing.Resolver, redirectObserver(routing.Metrics)))
	r.Use(middleware.Authenticate(routing.Verifier))

	// # Infrastructure Endpoints
	// Unauthenticated probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if routing.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", routing.Metrics.Handler())
	}

	// # Document Files
	r.Method(http.MethodGet, document.PublicPrefix+"/*", h.Documents.Files())
	r.Method(http.MethodHead, document.PublicPrefix+"/*", h.Documents.Files())

	// # Application API
	// Domain-specific route groups mounted under versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", h.Auth.RegisterRoutes)
		api.Route("/articles", h.Articles.RegisterRoutes)
		api.Route("/documents", h.Documents.RegisterRoutes)
		api.Route("/viewer/sessions", h.Viewer.RegisterRoutes)
		api.Route("/dictionaries", h.Locale.RegisterDictionaryRoutes)
	})

	// # Localized Pages
	r.Route("/{locale}", h.Locale.RegisterPageRoutes)

	return r
}

// redirectObserver avoids storing a typed nil in the interface.
func redirectObserver(m *metrics.Metrics) locale.RedirectObserver {
	if m == nil {
		return nil
	}
	return m
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
