package game

import (
	"context"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/db"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/provider"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/seed"
)

const (
	testGameID = int64(2025020101)
	homeID     = int64(10)
	awayID     = int64(20)
)

// recordingEnsurer remembers which players were ensured, in order.
type recordingEnsurer struct {
	seen []int64
	err  error
}

func (r *recordingEnsurer) EnsurePlayer(_ context.Context, _ db.Querier, id int64) (seed.UpsertOutcome, error) {
	if r.err != nil {
		return 0, r.err
	}
	r.seen = append(r.seen, id)
	return seed.UpsertInserted, nil
}

func intp(v int) *int { return &v }

// sampleBoxscore has two skaters and one goalie per side.
func sampleBoxscore() *provider.Boxscore {
	return &provider.Boxscore{
		ID:          testGameID,
		GameDate:    "2025-11-02",
		GameType:    2,
		HomeTeam:    provider.TeamRef{ID: homeID, Abbrev: "TOR"},
		AwayTeam:    provider.TeamRef{ID: awayID, Abbrev: "CGY"},
		GameOutcome: &provider.GameOutcome{LastPeriodType: "OT"},
		PlayerByGameStats: provider.PlayerByGameStats{
			AwayTeam: provider.TeamGameStats{
				Forwards: []provider.SkaterLine{{PlayerID: 201, Position: "C", PlusMinus: -1, TOI: "17:30"}},
				Defense:  []provider.SkaterLine{{PlayerID: 202, Position: "D", PlusMinus: 0, TOI: "22:05"}},
				Goalies:  []provider.GoalieLine{{PlayerID: 231, Starter: true, SaveShotsAgainst: "28/31"}},
			},
			HomeTeam: provider.TeamGameStats{
				Forwards: []provider.SkaterLine{{PlayerID: 101, Position: "C", PlusMinus: 2, TOI: "19:12"}},
				Defense:  []provider.SkaterLine{{PlayerID: 102, Position: "D", PlusMinus: 1, TOI: "24:40"}},
				Goalies: []provider.GoalieLine{{
					PlayerID: 131, Starter: true,
					Saves: intp(27), ShotsAgainst: intp(29), GoalsAgainst: intp(2),
				}},
			},
		},
	}
}

func samplePlayByPlay() *provider.PlayByPlay {
	spots := []provider.RosterSpot{
		{TeamID: awayID, PlayerID: 201, PositionCode: "C"},
		{TeamID: awayID, PlayerID: 202, PositionCode: "D"},
		{TeamID: awayID, PlayerID: 231, PositionCode: "G"},
		{TeamID: homeID, PlayerID: 101, PositionCode: "C"},
		{TeamID: homeID, PlayerID: 102, PositionCode: "D"},
		{TeamID: homeID, PlayerID: 131, PositionCode: "G"},
	}
	return &provider.PlayByPlay{
		ID:          testGameID,
		RosterSpots: spots,
		Plays: []provider.Play{
			{EventID: 1, TypeDescKey: provider.EventFaceoff, Details: &provider.PlayDetails{WinningPlayerID: 101, LosingPlayerID: 201}},
			{EventID: 2, TypeDescKey: provider.EventFaceoff, Details: &provider.PlayDetails{WinningPlayerID: 201, LosingPlayerID: 101}},
			{EventID: 3, TypeDescKey: provider.EventFaceoff, Details: &provider.PlayDetails{WinningPlayerID: 101, LosingPlayerID: 201}},
			{EventID: 4, TypeDescKey: provider.EventHit, Details: &provider.PlayDetails{HittingPlayerID: 102}},
			{EventID: 5, TypeDescKey: provider.EventHit, Details: &provider.PlayDetails{HittingPlayerID: 231}},
			{EventID: 6, TypeDescKey: provider.EventBlockedShot, Details: &provider.PlayDetails{BlockingPlayerID: 202}},
			{EventID: 7, TypeDescKey: provider.EventPenalty, Details: &provider.PlayDetails{CommittedByPlayerID: 202, Duration: 2}},
			{EventID: 8, TypeDescKey: provider.EventPenalty, Details: &provider.PlayDetails{CommittedByPlayerID: 202, Duration: 5}},
			{EventID: 9, TypeDescKey: provider.EventShotOnGoal, Details: &provider.PlayDetails{ShootingPlayerID: 101}},
			{EventID: 10, TypeDescKey: provider.EventShotOnGoal, Details: &provider.PlayDetails{ShootingPlayerID: 101}},
			{EventID: 11, TypeDescKey: "goal", Details: &provider.PlayDetails{ShootingPlayerID: 101}},
			{EventID: 12, TypeDescKey: "period-start"},
		},
	}
}

func sampleStory() *provider.GameStory {
	return &provider.GameStory{
		ID: testGameID,
		Summary: provider.StorySummary{Scoring: []provider.PeriodScoring{
			{
				PeriodDescriptor: provider.PeriodDescriptor{Number: 1, PeriodType: "REG"},
				Goals: []provider.StoryGoal{{
					EventID: 55, Strength: "EV", PlayerID: 101, TimeInPeriod: "04:12",
					HighlightClipSharingURL: "https://nhl.com/video/55",
					Assists:                 []provider.StoryAssist{{PlayerID: 102}},
				}},
			},
			{
				PeriodDescriptor: provider.PeriodDescriptor{Number: 4, PeriodType: "OT"},
				Goals: []provider.StoryGoal{{
					EventID: 310, Strength: "pp", PlayerID: 999, TimeInPeriod: "02:01",
					Assists: []provider.StoryAssist{{PlayerID: 101}, {PlayerID: 102}},
				}},
			},
		}},
	}
}
