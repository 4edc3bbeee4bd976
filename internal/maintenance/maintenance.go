// Package maintenance runs periodic background tasks as Go tickers inside
// the long-running API process.
package maintenance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/db"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/ingest"
)

// Refresher runs incremental game ingestion.
type Refresher interface {
	Refresh(ctx context.Context, since string) (ingest.RunResult, error)
}

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	RefreshInterval time.Duration // Incremental game refresh
	AnalyzeInterval time.Duration // Planner statistics, independent of refresh
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		RefreshInterval: 6 * time.Hour,
		AnalyzeInterval: 24 * time.Hour,
	}
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, refresher Refresher, store db.DB, cfg Config, logger *slog.Logger) {
	logger.Info("Maintenance tickers started",
		"refresh", cfg.RefreshInterval,
		"analyze", cfg.AnalyzeInterval)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	if cfg.RefreshInterval > 0 {
		t := time.NewTicker(cfg.RefreshInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { refreshGames(ctx, refresher, store, logger) })
	}

	if cfg.AnalyzeInterval > 0 {
		t := time.NewTicker(cfg.AnalyzeInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { analyze(ctx, store, logger) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// refreshGames runs one incremental refresh and analyzes the stat tables
// when it wrote anything. A run already in progress is not an error.
func refreshGames(ctx context.Context, refresher Refresher, store db.DB, logger *slog.Logger) {
	result, err := refresher.Refresh(ctx, "")
	switch {
	case errors.Is(err, ingest.ErrBusy):
		logger.Info("Scheduled refresh skipped, run in progress")
		return
	case err != nil:
		logger.Warn("Scheduled refresh failed", "error", err, "summary", result.Summary())
		return
	}
	logger.Info("Scheduled refresh complete", "summary", result.Summary())

	if result.GamesProcessed > 0 {
		analyze(ctx, store, logger)
	}
}

func analyze(ctx context.Context, store db.Querier, logger *slog.Logger) {
	start := time.Now()
	if err := AnalyzeTables(ctx, store, logger); err != nil {
		logger.Warn("Analyze failed", "error", err)
		return
	}
	logger.Info("Analyzed stat tables", "duration", time.Since(start).Round(time.Millisecond))
}
