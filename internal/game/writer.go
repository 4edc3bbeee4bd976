package game

import (
	"context"
	"fmt"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/config"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/db"
)

const upsertGameSQL = `
	INSERT INTO ` + config.GamesTable + ` (game_id, game_date, home_team_id, away_team_id, ot, shootout)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (game_id) DO UPDATE SET
		game_date = EXCLUDED.game_date,
		home_team_id = EXCLUDED.home_team_id,
		away_team_id = EXCLUDED.away_team_id,
		ot = EXCLUDED.ot,
		shootout = EXCLUDED.shootout`

const upsertGoalieSQL = `
	INSERT INTO ` + config.GoalieGameStatsTable + ` (
		player_id, game_id, started, saves, goals_allowed, shots_against, team_id
	) VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (player_id, game_id) DO UPDATE SET
		started = EXCLUDED.started,
		saves = EXCLUDED.saves,
		goals_allowed = EXCLUDED.goals_allowed,
		shots_against = EXCLUDED.shots_against,
		team_id = EXCLUDED.team_id`

const upsertSkaterSQL = `
	INSERT INTO ` + config.SkaterGameStatsTable + ` (
		player_id, game_id, toi, faceoff_wins, faceoff_losses, hits, blocks,
		penalty_minutes, shots, plus_minus, team_id
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (player_id, game_id) DO UPDATE SET
		toi = EXCLUDED.toi,
		faceoff_wins = EXCLUDED.faceoff_wins,
		faceoff_losses = EXCLUDED.faceoff_losses,
		hits = EXCLUDED.hits,
		blocks = EXCLUDED.blocks,
		penalty_minutes = EXCLUDED.penalty_minutes,
		shots = EXCLUDED.shots,
		plus_minus = EXCLUDED.plus_minus,
		team_id = EXCLUDED.team_id`

const upsertGoalSQL = `
	INSERT INTO ` + config.GoalsTable + ` (
		goal_id, game_id, player_id, period, time_in_period, goal_type, goalie_id, video_link
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (goal_id) DO UPDATE SET
		game_id = EXCLUDED.game_id,
		player_id = EXCLUDED.player_id,
		period = EXCLUDED.period,
		time_in_period = EXCLUDED.time_in_period,
		goal_type = EXCLUDED.goal_type,
		goalie_id = EXCLUDED.goalie_id,
		video_link = EXCLUDED.video_link`

const upsertAssistSQL = `
	INSERT INTO ` + config.AssistsTable + ` (player_id, assist_type, goal_id)
	VALUES (?, ?, ?)
	ON CONFLICT (player_id, goal_id) DO UPDATE SET
		assist_type = EXCLUDED.assist_type`

// WriteGame upserts every row set for one game inside tx. Goals precede
// assists so each assist's goal exists in the same transaction.
func WriteGame(ctx context.Context, tx db.Querier, rows *GameRows) error {
	if err := tx.Exec(ctx, upsertGameSQL, rows.Game.Values()...); err != nil {
		return fmt.Errorf("upsert game %d: %w", rows.Game.GameID, err)
	}

	for _, g := range rows.Goalies {
		if err := tx.Exec(ctx, upsertGoalieSQL,
			g.PlayerID, g.GameID, boolInt(g.Started), g.Saves, g.GoalsAllowed, g.ShotsAgainst, g.TeamID,
		); err != nil {
			return fmt.Errorf("upsert goalie %d game %d: %w", g.PlayerID, g.GameID, err)
		}
	}

	for _, s := range rows.Skaters {
		if err := tx.Exec(ctx, upsertSkaterSQL,
			s.PlayerID, s.GameID, s.TOI, s.FaceoffWins, s.FaceoffLosses, s.Hits, s.Blocks,
			s.PenaltyMinutes, s.Shots, s.PlusMinus, s.TeamID,
		); err != nil {
			return fmt.Errorf("upsert skater %d game %d: %w", s.PlayerID, s.GameID, err)
		}
	}

	for _, g := range rows.Goals {
		var video any
		if g.VideoLink != "" {
			video = g.VideoLink
		}
		if err := tx.Exec(ctx, upsertGoalSQL,
			g.GoalID, g.GameID, g.PlayerID, g.Period, g.TimeInPeriod, g.GoalType, g.GoalieID, video,
		); err != nil {
			return fmt.Errorf("upsert goal %s: %w", g.GoalID, err)
		}
	}

	for _, a := range rows.Assists {
		if err := tx.Exec(ctx, upsertAssistSQL, a.PlayerID, a.AssistType, a.GoalID); err != nil {
			return fmt.Errorf("upsert assist %d goal %s: %w", a.PlayerID, a.GoalID, err)
		}
	}
	return nil
}
