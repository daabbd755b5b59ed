// eo-search server entry point
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robert-malhotra/eo-search/internal/catalog"
	"github.com/robert-malhotra/eo-search/internal/config"
	"github.com/robert-malhotra/eo-search/internal/logging"
	"github.com/robert-malhotra/eo-search/internal/metrics"
	"github.com/robert-malhotra/eo-search/pkg/server"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Component: "eo-search",
	}, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting eo-search",
		"version", version,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)
	metrics.ExposeBuildInfo(version)

	cat, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("failed to load provider catalog: %w", err)
	}
	logger.Info("loaded provider catalog", "count", cat.Count())

	srv, err := server.New(server.Options{Config: cfg, Catalog: cat, Logger: logger})
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info("received shutdown signal", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	logger.Info("shutting down server", "timeout", cfg.Server.ShutdownTimeout)
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
