package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/config"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/provider"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/retry"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/seed"
)

// syncTeams refreshes the teams table so game rows can reference both clubs.
func (r *Runner) syncTeams(ctx context.Context) error {
	result := seed.SeedTeams(ctx, r.store, r.provider, r.exec, r.logger)
	if err := result.Err(); err != nil {
		return fmt.Errorf("sync teams: %w", err)
	}
	return nil
}

// processAll runs the pipeline for each game in order, pausing between
// games. The first failure stops the run.
func (r *Runner) processAll(ctx context.Context, ids []int64, result *RunResult) error {
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		g, err := r.ProcessGame(ctx, id)
		if err != nil {
			return err
		}
		result.addGame(g)
		if i < len(ids)-1 {
			if err := r.sleep(ctx, r.opts.GameDelay); err != nil {
				return err
			}
		}
	}
	return nil
}

// Backfill ingests every game of season dated before the cutoff (yesterday
// in the league time zone). Games on or after the cutoff are skipped. On
// success the cursor is set to the day before the cutoff, the last date
// whose games were all ingested.
func (r *Runner) Backfill(ctx context.Context, season string) (result RunResult, err error) {
	if !r.begin() {
		return RunResult{}, ErrBusy
	}
	defer r.end()

	start := time.Now()
	result = RunResult{Mode: "backfill"}
	defer func() { result.Duration = time.Since(start) }()

	if season == "" {
		season = r.opts.Season
	}
	cutoffDay := yesterday(r.now(), r.opts.Location)
	cutoff := cutoffDay.Format(DateLayout)
	logger := r.logger.With("mode", "backfill", "season", season, "cutoff", cutoff)

	if err := r.syncTeams(ctx); err != nil {
		return result, err
	}

	games, err := retry.Call(ctx, r.exec, "season schedule "+season,
		func(ctx context.Context) ([]provider.ScheduledGame, error) {
			return r.provider.ListGameIDs(ctx, season, r.opts.GameTypes)
		})
	if err != nil {
		return result, err
	}
	result.GamesFound = len(games)

	var ids []int64
	for _, g := range games {
		if g.GameDate == "" || g.GameDate >= cutoff {
			result.GamesSkipped++
			continue
		}
		ids = append(ids, g.ID)
	}
	logger.Info("Backfill starting", "games", len(ids), "skipped", result.GamesSkipped)

	if err := r.processAll(ctx, ids, &result); err != nil {
		return result, fmt.Errorf("backfill %s: %w", season, err)
	}

	last := cutoffDay.AddDate(0, 0, -1).Format(DateLayout)
	if err := AdvanceCursor(ctx, r.store, config.GameUpdateCursor, last); err != nil {
		return result, err
	}
	result.Cursor = last
	result.Duration = time.Since(start)
	logger.Info("Backfill complete", "summary", result.Summary())
	return result, nil
}

// Refresh ingests every game dated from the day after the stored cursor
// through yesterday, then moves the cursor to yesterday. since, when set,
// replaces the stored cursor as the first date to ingest.
func (r *Runner) Refresh(ctx context.Context, since string) (result RunResult, err error) {
	if !r.begin() {
		return RunResult{}, ErrBusy
	}
	defer r.end()

	start := time.Now()
	result = RunResult{Mode: "refresh"}
	defer func() { result.Duration = time.Since(start) }()

	first, err := r.refreshStart(ctx, since)
	if err != nil {
		return result, err
	}
	end := yesterday(r.now(), r.opts.Location)
	dates := dateRange(first, end)
	logger := r.logger.With("mode", "refresh", "from", first.Format(DateLayout), "to", end.Format(DateLayout))

	if len(dates) == 0 {
		logger.Info("Cursor is current, nothing to refresh")
		result.Duration = time.Since(start)
		return result, nil
	}

	if err := r.syncTeams(ctx); err != nil {
		return result, err
	}

	for _, date := range dates {
		games, err := retry.Call(ctx, r.exec, "schedule "+date,
			func(ctx context.Context) ([]provider.ScheduledGame, error) {
				return r.provider.ListGamesForDate(ctx, date, r.opts.RefreshGameTypes)
			})
		if err != nil {
			return result, fmt.Errorf("refresh %s: %w", date, err)
		}
		result.GamesFound += len(games)

		ids := make([]int64, 0, len(games))
		for _, g := range games {
			ids = append(ids, g.ID)
		}
		logger.Info("Refreshing date", "date", date, "games", len(ids))
		if err := r.processAll(ctx, ids, &result); err != nil {
			return result, fmt.Errorf("refresh %s: %w", date, err)
		}
		if len(ids) > 0 {
			if err := r.sleep(ctx, r.opts.GameDelay); err != nil {
				return result, err
			}
		}
	}

	last := end.Format(DateLayout)
	if err := AdvanceCursor(ctx, r.store, config.GameUpdateCursor, last); err != nil {
		return result, err
	}
	result.Cursor = last
	result.Duration = time.Since(start)
	logger.Info("Refresh complete", "summary", result.Summary())
	return result, nil
}

func (r *Runner) refreshStart(ctx context.Context, since string) (time.Time, error) {
	if since != "" {
		t, err := time.ParseInLocation(DateLayout, since, r.opts.Location)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid since date %q: %w", since, err)
		}
		return t, nil
	}

	cursor, err := ReadCursor(ctx, r.store, config.GameUpdateCursor)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(DateLayout, cursor, r.opts.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("stored cursor %q: %w", cursor, err)
	}
	return t.AddDate(0, 0, 1), nil
}

// Games reprocesses explicit game ids. The cursor is not touched.
func (r *Runner) Games(ctx context.Context, ids []int64) (result RunResult, err error) {
	if !r.begin() {
		return RunResult{}, ErrBusy
	}
	defer r.end()

	start := time.Now()
	result = RunResult{Mode: "reprocess", GamesFound: len(ids)}
	defer func() { result.Duration = time.Since(start) }()

	if err := r.syncTeams(ctx); err != nil {
		return result, err
	}
	if err := r.processAll(ctx, ids, &result); err != nil {
		return result, fmt.Errorf("reprocess: %w", err)
	}
	result.Duration = time.Since(start)
	r.logger.Info("Reprocess complete", "summary", result.Summary())
	return result, nil
}
