package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/config"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/db"
)

// statTables are the tables whose planner statistics go stale as games are
// ingested.
var statTables = []string{
	config.GamesTable,
	config.SkaterGameStatsTable,
	config.GoalieGameStatsTable,
	config.GoalsTable,
	config.AssistsTable,
	config.PlayersTable,
}

// AnalyzeTables refreshes planner statistics after ingestion. Both Postgres
// and SQLite accept ANALYZE with a table name. It stops at the first failing
// table; the caller logs the error.
func AnalyzeTables(ctx context.Context, store db.Querier, logger *slog.Logger) error {
	for _, t := range statTables {
		start := time.Now()
		err := store.Exec(ctx, "ANALYZE "+t)
		dur := time.Since(start).Round(time.Millisecond)

		if err != nil {
			return fmt.Errorf("analyze %s: %w", t, err)
		}
		logger.Debug("Analyzed table", "table", t, "duration", dur)
	}
	return nil
}
