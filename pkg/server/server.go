// Package server provides a public API for embedding the imagery search service.
package server

import (
	"fmt"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/robert-malhotra/eo-search/internal/api"
	"github.com/robert-malhotra/eo-search/internal/catalog"
	"github.com/robert-malhotra/eo-search/internal/config"
	"github.com/robert-malhotra/eo-search/internal/providers"
	"github.com/robert-malhotra/eo-search/internal/search"
)

// Options configures the search server.
type Options struct {
	// Config is the service configuration.
	// Default: parsed from the environment
	Config *config.Config

	// Catalog is the provider catalog.
	// Default: the built-in catalog
	Catalog *catalog.Catalog

	// Logger is the slog logger to use.
	// Default: slog.Default()
	Logger *slog.Logger
}

// Server is an imagery search server that can be embedded in another application.
type Server struct {
	router       chi.Router
	orchestrator *search.Orchestrator
}

// New creates a new search server with the given options.
func New(opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Config == nil {
		cfg, err := config.Parse()
		if err != nil {
			return nil, err
		}
		opts.Config = cfg
	}
	if opts.Catalog == nil {
		cat, err := catalog.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load provider catalog: %w", err)
		}
		opts.Catalog = cat
	}
	cfg := opts.Config

	set, err := providers.Build(cfg, opts.Catalog, opts.Logger)
	if err != nil {
		return nil, err
	}
	opts.Logger.Info("providers registered", slog.Int("count", set.Registry.Len()))

	orchestrator := search.New(set.Registry, opts.Catalog, set.Defaults, search.Options{
		StatusExpiry:    cfg.Search.StatusExpiry,
		DefaultLookback: cfg.Search.DefaultLookback,
		RunTTL:          cfg.Search.RunTTL,
	}, opts.Logger)

	handlers := api.NewHandlers(orchestrator, opts.Catalog, set.Registry, api.Options{
		DefaultLookback: cfg.Search.DefaultLookback,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
	}, opts.Logger)

	return &Server{
		router:       api.NewRouter(handlers, opts.Logger),
		orchestrator: orchestrator,
	}, nil
}

// Router returns the chi.Router for mounting in another application.
func (s *Server) Router() chi.Router {
	return s.router
}

// Orchestrator returns the search engine for in-process callers.
func (s *Server) Orchestrator() *search.Orchestrator {
	return s.orchestrator
}

// Close stops background goroutines (run store cleanup).
func (s *Server) Close() {
	if s.orchestrator != nil {
		s.orchestrator.Close()
	}
}
