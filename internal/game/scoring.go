package game

import (
	"fmt"
	"strings"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/provider"
)

// GoalID is the deterministic goals key for an event in a game.
func GoalID(gameID, eventID int64) string {
	return fmt.Sprintf("%d_%d", gameID, eventID)
}

// ProcessScoring turns the scoring summary into goal and assist rows. The
// first listed assister is primary and every later one secondary.
func ProcessScoring(gameID int64, story *provider.GameStory) ([]GoalRow, []AssistRow) {
	var (
		goals   []GoalRow
		assists []AssistRow
	)
	for _, period := range story.Summary.Scoring {
		for _, g := range period.Goals {
			id := GoalID(gameID, g.EventID)
			goals = append(goals, GoalRow{
				GoalID:       id,
				GameID:       gameID,
				PlayerID:     g.PlayerID,
				Period:       period.PeriodDescriptor.Number,
				TimeInPeriod: g.TimeInPeriod,
				GoalType:     strings.ToLower(g.Strength),
				VideoLink:    g.HighlightClipSharingURL,
			})
			for i, a := range g.Assists {
				kind := AssistSecondary
				if i == 0 {
					kind = AssistPrimary
				}
				assists = append(assists, AssistRow{PlayerID: a.PlayerID, AssistType: kind, GoalID: id})
			}
		}
	}
	return goals, assists
}

// ReferencedPlayers lists, without duplicates and in first-seen order, every
// scorer and assister. Some never appear in the boxscore skater groups.
func ReferencedPlayers(goals []GoalRow, assists []AssistRow) []int64 {
	seen := make(map[int64]struct{}, len(goals)+len(assists))
	var ids []int64
	add := func(id int64) {
		if id == 0 {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, g := range goals {
		add(g.PlayerID)
	}
	for _, a := range assists {
		add(a.PlayerID)
	}
	return ids
}
