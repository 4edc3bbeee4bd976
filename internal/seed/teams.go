package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/config"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/db"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/provider"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/retry"
)

// SeedTeams fetches the league's current teams and upserts them. A failed
// fetch is recorded and nothing is written.
func SeedTeams(ctx context.Context, store db.DB, p provider.Provider, exec *retry.Executor, logger *slog.Logger) SeedResult {
	var result SeedResult

	logger.Info("Seeding NHL teams...")
	teams, err := retry.Call(ctx, exec, "teams", p.Teams)
	if err != nil {
		result.AddErrorf("fetch NHL teams: %v", err)
		return result
	}
	for _, team := range teams {
		if err := UpsertTeam(ctx, store, team); err != nil {
			result.AddErrorf("upsert team %d: %v", team.ID, err)
		} else {
			result.TeamsUpserted++
		}
	}
	logger.Info("NHL teams done", "count", result.TeamsUpserted)
	return result
}

type teamKey struct {
	id     int64
	abbrev string
}

func listTeams(ctx context.Context, store db.DB) ([]teamKey, error) {
	rows, err := store.Query(ctx, `SELECT team_id, team_abbreviation FROM `+config.TeamsTable+` ORDER BY team_id`)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []teamKey
	for rows.Next() {
		var t teamKey
		if err := rows.Scan(&t.id, &t.abbrev); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// SeedRosters upserts every rostered player of the season with the roster's
// team as current team. Teams must already be seeded. Per-team failures are
// recorded and the remaining teams still run.
func SeedRosters(ctx context.Context, store db.DB, p provider.Provider, exec *retry.Executor, season string, logger *slog.Logger) SeedResult {
	var result SeedResult

	teams, err := listTeams(ctx, store)
	if err != nil {
		result.AddErrorf("%v", err)
		return result
	}
	if len(teams) == 0 {
		result.AddErrorf("no teams seeded; run the teams command first")
		return result
	}

	logger.Info("Seeding NHL rosters...", "season", season, "teams", len(teams))
	for _, t := range teams {
		if err := ctx.Err(); err != nil {
			result.AddErrorf("interrupted: %v", err)
			return result
		}

		players, err := retry.Call(ctx, exec, "roster "+t.abbrev, func(ctx context.Context) ([]provider.Player, error) {
			return p.Roster(ctx, t.abbrev, season)
		})
		if err != nil {
			result.AddErrorf("fetch roster %s: %v", t.abbrev, err)
			continue
		}

		var teamResult SeedResult
		err = store.InTx(ctx, func(tx db.Querier) error {
			for _, player := range players {
				player.CurrentTeamID = t.id
				outcome, err := UpsertPlayer(ctx, tx, player)
				if err != nil {
					return err
				}
				teamResult.CountPlayer(outcome)
			}
			return nil
		})
		if err != nil {
			result.AddErrorf("upsert roster %s: %v", t.abbrev, err)
			continue
		}
		result.Add(teamResult)
		logger.Info("roster done", "team", t.abbrev, "players", len(players))
	}

	logger.Info("NHL rosters done", "summary", result.Summary())
	return result
}
