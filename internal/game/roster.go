package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/db"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/provider"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/seed"
)

// PlayerEnsurer makes a player row exist inside tx.
type PlayerEnsurer interface {
	EnsurePlayer(ctx context.Context, tx db.Querier, playerID int64) (seed.UpsertOutcome, error)
}

// Aggregation holds one game's skater rows and the player -> slot index the
// event aggregator increments through. It belongs to a single pipeline run.
type Aggregation struct {
	GameID int64
	Rows   []SkaterRow
	Index  map[int64]int
}

// NewAggregation allocates room for capacity skaters.
func NewAggregation(gameID int64, capacity int) *Aggregation {
	return &Aggregation{
		GameID: gameID,
		Rows:   make([]SkaterRow, 0, capacity),
		Index:  make(map[int64]int, capacity),
	}
}

// Add appends row and indexes it. A player already present keeps the first
// slot and Add reports false.
func (a *Aggregation) Add(row SkaterRow) bool {
	if _, dup := a.Index[row.PlayerID]; dup {
		return false
	}
	a.Index[row.PlayerID] = len(a.Rows)
	a.Rows = append(a.Rows, row)
	return true
}

// Slot returns the row for playerID, or nil when the player is not rostered.
func (a *Aggregation) Slot(playerID int64) *SkaterRow {
	i, ok := a.Index[playerID]
	if !ok {
		return nil
	}
	return &a.Rows[i]
}

// BuildRoster creates the goalie rows and the skater skeleton for a game.
// Skaters are added away forwards, away defense, home forwards, home
// defense, with only identity, TOI, plus/minus and team set. Every skater
// and goalie is passed to ensurer before it is added.
func BuildRoster(ctx context.Context, tx db.Querier, box *provider.Boxscore, pbp *provider.PlayByPlay,
	ensurer PlayerEnsurer, logger *slog.Logger) (*Aggregation, []GoalieRow, error) {

	sides := []struct {
		teamID int64
		stats  provider.TeamGameStats
	}{
		{box.AwayTeam.ID, box.PlayerByGameStats.AwayTeam},
		{box.HomeTeam.ID, box.PlayerByGameStats.HomeTeam},
	}

	var goalies []GoalieRow
	for _, side := range sides {
		for _, g := range side.stats.Goalies {
			if _, err := ensurer.EnsurePlayer(ctx, tx, g.PlayerID); err != nil {
				return nil, nil, fmt.Errorf("ensure goalie %d: %w", g.PlayerID, err)
			}
			goalies = append(goalies, buildGoalieRow(box.ID, side.teamID, g))
		}
	}

	agg := NewAggregation(box.ID, len(pbp.RosterSpots))
	boxSkaters := 0
	for _, side := range sides {
		for _, group := range [][]provider.SkaterLine{side.stats.Forwards, side.stats.Defense} {
			for _, s := range group {
				boxSkaters++
				if _, err := ensurer.EnsurePlayer(ctx, tx, s.PlayerID); err != nil {
					return nil, nil, fmt.Errorf("ensure skater %d: %w", s.PlayerID, err)
				}
				toi, _ := provider.ParseTOI(s.TOI)
				if !agg.Add(SkaterRow{
					PlayerID:  s.PlayerID,
					GameID:    box.ID,
					TOI:       toi,
					PlusMinus: s.PlusMinus,
					TeamID:    side.teamID,
				}) {
					logger.Warn("duplicate skater in boxscore", "game_id", box.ID, "player_id", s.PlayerID)
				}
			}
		}
	}

	rosterSkaters := 0
	for _, spot := range pbp.RosterSpots {
		if !spot.IsGoalie() {
			rosterSkaters++
		}
	}
	if rosterSkaters != boxSkaters {
		logger.Warn("roster size mismatch",
			"game_id", box.ID, "roster_skaters", rosterSkaters, "boxscore_skaters", boxSkaters)
	}

	return agg, goalies, nil
}

func buildGoalieRow(gameID, teamID int64, g provider.GoalieLine) GoalieRow {
	row := GoalieRow{
		PlayerID: g.PlayerID,
		GameID:   gameID,
		Started:  g.Starter,
		TeamID:   teamID,
	}
	saves, shots, haveFraction := provider.ParseFraction(g.SaveShotsAgainst)

	switch {
	case g.Saves != nil:
		row.Saves = *g.Saves
	case haveFraction:
		row.Saves = saves
	}
	switch {
	case g.ShotsAgainst != nil:
		row.ShotsAgainst = *g.ShotsAgainst
	case haveFraction:
		row.ShotsAgainst = shots
	}
	switch {
	case g.GoalsAgainst != nil:
		row.GoalsAllowed = *g.GoalsAgainst
	case haveFraction:
		row.GoalsAllowed = shots - saves
	}
	return row
}
