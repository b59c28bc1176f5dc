// Package server assembles the HTTP server from the registered features.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "modernc.org/sqlite"

	"ai-news-intel/internal/core"
	"ai-news-intel/internal/features/news"
)

// Server owns the process-level pieces: config, database, feature registry
// and the HTTP listener.
type Server struct {
	config   *core.Config
	logger   *core.Logger
	db       *core.Database
	registry *core.Registry
	server   *http.Server
}

// New loads config, opens the database and registers features. Features are
// initialized in Start.
func New(logger *core.Logger) (*Server, error) {
	config, err := core.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Foreign keys are off by default in SQLite; without the pragma the
	// schema's ON DELETE CASCADE clauses are inert.
	db, err := sql.Open("sqlite", config.Database.Path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	coreDB := core.NewDatabase(db, logger)
	if err := coreDB.PingWithTimeout(5 * time.Second); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	registry := core.NewRegistry(logger)
	newsFeature := news.NewFeature(news.ConfigFromCore(config.News))
	if err := registry.Register(newsFeature); err != nil {
		return nil, fmt.Errorf("failed to register news feature: %w", err)
	}

	return &Server{
		config:   config,
		logger:   logger,
		db:       coreDB,
		registry: registry,
	}, nil
}

// Registry exposes the feature registry, mainly for the CLI maintenance
// commands.
func (s *Server) Registry() *core.Registry {
	return s.registry
}

// Init initializes every enabled feature. Routes become available to Start
// afterwards.
func (s *Server) Init(ctx context.Context) error {
	deps := &core.Dependencies{
		Database: s.db,
		Logger:   s.logger,
		Config:   s.config,
	}
	return s.registry.InitAll(ctx, deps)
}

func (s *Server) buildRouter() *chi.Mux {
	mux := chi.NewRouter()

	mux.Use(middleware.Recoverer)
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Logger)

	// Process liveness, independent of any feature.
	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	for _, route := range s.registry.GetAllRoutes() {
		handler := http.Handler(route.Handler)
		for i := len(route.Middlewares) - 1; i >= 0; i-- {
			handler = route.Middlewares[i](handler)
		}
		mux.Method(route.Method, route.Pattern, handler)
	}

	return mux
}

// Start initializes features and serves HTTP until the listener stops.
func (s *Server) Start(ctx context.Context) error {
	if err := s.Init(ctx); err != nil {
		return err
	}

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		Handler: s.buildRouter(),
	}

	s.logger.Info("Starting server", "host", s.config.Server.Host, "port", s.config.Server.Port)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the HTTP listener, shuts features down and closes the
// database.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if err := s.registry.ShutdownAll(ctx); err != nil {
		s.logger.Error("Failed to shutdown features", "error", err)
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
