package ingest

import (
	"fmt"
	"time"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/seed"
)

// GameResult is the outcome of one pipeline run.
type GameResult struct {
	GameID        int64
	GameDate      string
	RowsWritten   int
	Skaters       int
	Goalies       int
	Goals         int
	Assists       int
	EventsSkipped map[string]int
	Players       seed.SeedResult
	Duration      time.Duration
}

// Summary returns a human-readable summary.
func (r *GameResult) Summary() string {
	return fmt.Sprintf("game=%d date=%s rows=%d skaters=%d goalies=%d goals=%d assists=%d dur=%s",
		r.GameID, r.GameDate, r.RowsWritten, r.Skaters, r.Goalies, r.Goals, r.Assists,
		r.Duration.Round(time.Millisecond))
}

// RunResult tracks the outcome of a backfill, refresh or reprocess run.
type RunResult struct {
	Mode           string
	GamesFound     int
	GamesProcessed int
	GamesSkipped   int
	RowsWritten    int
	EventsSkipped  int
	Players        seed.SeedResult
	Cursor         string
	Duration       time.Duration
}

func (r *RunResult) addGame(g GameResult) {
	r.GamesProcessed++
	r.RowsWritten += g.RowsWritten
	for _, n := range g.EventsSkipped {
		r.EventsSkipped += n
	}
	r.Players.Add(g.Players)
}

// Summary returns a human-readable summary.
func (r *RunResult) Summary() string {
	cursor := r.Cursor
	if cursor == "" {
		cursor = "-"
	}
	return fmt.Sprintf(
		"mode=%s found=%d processed=%d skipped=%d rows=%d events_skipped=%d players_inserted=%d players_updated=%d cursor=%s dur=%s",
		r.Mode, r.GamesFound, r.GamesProcessed, r.GamesSkipped, r.RowsWritten, r.EventsSkipped,
		r.Players.PlayersInserted, r.Players.PlayersUpdated, cursor, r.Duration.Round(time.Second))
}
