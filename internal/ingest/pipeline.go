// Package ingest drives the per-game pipeline over a season (backfill), a
// date range after the stored cursor (refresh), or explicit game ids.
//
// Runs are strictly sequential. Each game commits in its own transaction,
// and the cursor only moves after a whole run succeeds.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/config"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/db"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/game"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/provider"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/retry"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/seed"
)

// ErrBusy is returned when another run holds the runner.
var ErrBusy = errors.New("an ingestion run is already in progress")

// Options are the run settings taken from configuration. GameTypes filters
// the season schedule for backfill; RefreshGameTypes filters each day's
// schedule for refresh, so playoff games are picked up as they are played.
type Options struct {
	Season           string
	GameTypes        []int
	RefreshGameTypes []int
	GameDelay        time.Duration
	Location         *time.Location
}

// OptionsFromConfig maps configuration onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Season:           cfg.Season,
		GameTypes:        cfg.GameTypes,
		RefreshGameTypes: cfg.RefreshGameTypes,
		GameDelay:        cfg.GameDelay,
		Location:         cfg.Location(),
	}
}

// Runner owns a store and a provider and runs ingestion against them. Only
// one run executes at a time; concurrent callers get ErrBusy.
type Runner struct {
	store    db.DB
	provider provider.Provider
	exec     *retry.Executor
	players  *seed.PlayerUpserter
	opts     Options
	logger   *slog.Logger

	mu      sync.Mutex
	running atomic.Bool

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRunner creates a Runner.
func NewRunner(store db.DB, p provider.Provider, exec *retry.Executor, opts Options, logger *slog.Logger) *Runner {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if len(opts.GameTypes) == 0 {
		opts.GameTypes = []int{config.GameTypeRegular}
	}
	if len(opts.RefreshGameTypes) == 0 {
		opts.RefreshGameTypes = []int{config.GameTypeRegular, config.GameTypePlayoff}
	}
	if opts.Season == "" {
		opts.Season = config.DefaultSeason
	}
	return &Runner{
		store:    store,
		provider: p,
		exec:     exec,
		players:  seed.NewPlayerUpserter(p, exec, logger.With("component", "players")),
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

func (r *Runner) begin() bool {
	if !r.mu.TryLock() {
		return false
	}
	r.running.Store(true)
	return true
}

func (r *Runner) end() {
	r.running.Store(false)
	r.mu.Unlock()
}

// Running reports whether a run is in progress.
func (r *Runner) Running() bool { return r.running.Load() }

// gameEnsurer upserts each player at most once per game and counts outcomes.
type gameEnsurer struct {
	players *seed.PlayerUpserter
	done    map[int64]struct{}
	result  *seed.SeedResult
}

func (g *gameEnsurer) EnsurePlayer(ctx context.Context, tx db.Querier, playerID int64) (seed.UpsertOutcome, error) {
	if _, ok := g.done[playerID]; ok {
		return seed.UpsertUnchanged, nil
	}
	outcome, err := g.players.EnsurePlayer(ctx, tx, playerID)
	if err != nil {
		return 0, err
	}
	g.done[playerID] = struct{}{}
	g.result.CountPlayer(outcome)
	return outcome, nil
}

// ProcessGame fetches the three payloads for gameID and writes every row for
// the game in one transaction. On error nothing for the game is committed.
func (r *Runner) ProcessGame(ctx context.Context, gameID int64) (GameResult, error) {
	start := time.Now()
	res := GameResult{GameID: gameID}

	box, err := retry.Call(ctx, r.exec, fmt.Sprintf("boxscore %d", gameID),
		func(ctx context.Context) (*provider.Boxscore, error) { return r.provider.Boxscore(ctx, gameID) })
	if err != nil {
		return res, err
	}
	pbp, err := retry.Call(ctx, r.exec, fmt.Sprintf("play-by-play %d", gameID),
		func(ctx context.Context) (*provider.PlayByPlay, error) { return r.provider.PlayByPlay(ctx, gameID) })
	if err != nil {
		return res, err
	}
	story, err := retry.Call(ctx, r.exec, fmt.Sprintf("game story %d", gameID),
		func(ctx context.Context) (*provider.GameStory, error) { return r.provider.GameStory(ctx, gameID) })
	if err != nil {
		return res, err
	}
	res.GameDate = box.GameDate

	ensurer := &gameEnsurer{players: r.players, done: map[int64]struct{}{}, result: &res.Players}
	var rows *game.GameRows
	err = r.store.InTx(ctx, func(tx db.Querier) error {
		agg, goalies, err := game.BuildRoster(ctx, tx, box, pbp, ensurer, r.logger)
		if err != nil {
			return err
		}

		applied := agg.Apply(pbp.Plays)
		res.EventsSkipped = applied.Skipped

		goals, assists := game.ProcessScoring(gameID, story)
		for _, id := range game.ReferencedPlayers(goals, assists) {
			if _, err := ensurer.EnsurePlayer(ctx, tx, id); err != nil {
				return fmt.Errorf("ensure scorer %d: %w", id, err)
			}
		}

		rows = &game.GameRows{
			Game:    game.BuildGameRow(box),
			Skaters: agg.Rows,
			Goalies: goalies,
			Goals:   goals,
			Assists: assists,
		}
		return game.WriteGame(ctx, tx, rows)
	})
	if err != nil {
		return res, fmt.Errorf("game %d: %w", gameID, err)
	}

	res.RowsWritten = rows.RowCount()
	res.Skaters = len(rows.Skaters)
	res.Goalies = len(rows.Goalies)
	res.Goals = len(rows.Goals)
	res.Assists = len(rows.Assists)
	res.Duration = time.Since(start)

	if n := sumCounts(res.EventsSkipped); n > 0 {
		r.logger.Warn("events without a skater slot", "game_id", gameID, "skipped", n, "by_type", res.EventsSkipped)
	}
	r.logger.Info("game ingested", "summary", res.Summary())
	return res, nil
}

func sumCounts(m map[string]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
