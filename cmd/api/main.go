// Command api is the NHL ingestion ops server: health, cursors and
// on-demand or periodic refresh runs.
//
// Usage:
//
//	nhl-api
//	API_PORT=8080 REFRESH_INTERVAL=6h nhl-api

//go:generate swag init --dir ../../ --generalInfo cmd/api/main.go --output ../../docs

// @title NHL Data Ingestion API
// @version 1.0.0
// @description Operational endpoints for the NHL game-data ingestion pipeline: health, ingestion cursors and on-demand refresh runs.
// @host localhost:8000
// @BasePath /
// @schemes http https
// @contact.name NHL Data Fun
// @license.name MIT
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/api"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/config"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/db"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/ingest"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/maintenance"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/provider/nhl"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/retry"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Debug {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
		slog.SetDefault(logger)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	store, err := db.Open(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Database connected", "dialect", store.Dialect())

	client := nhl.NewClient(cfg.NHLAPIBaseURL, cfg.NHLStatsBaseURL, cfg.NHLRequestsPerMinute,
		cfg.NHLHTTPTimeout, logger.With("component", "nhl"))
	exec := retry.New(cfg.Retries, cfg.RetryDelay, logger.With("component", "retry"))
	runner := ingest.NewRunner(store, client, exec, ingest.OptionsFromConfig(cfg), logger.With("component", "ingest"))

	// Periodic refresh ticker
	if cfg.RefreshInterval > 0 {
		mcfg := maintenance.DefaultConfig()
		mcfg.RefreshInterval = cfg.RefreshInterval
		go maintenance.Start(ctx, runner, store, mcfg, logger.With("component", "maintenance"))
	} else {
		logger.Info("Periodic refresh disabled (REFRESH_INTERVAL=0)")
	}

	// Create router
	router := api.NewRouter(ctx, store, runner, cfg, logger.With("component", "api"))

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting NHL ingestion API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
