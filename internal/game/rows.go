// Package game turns one game's boxscore, play-by-play and scoring summary
// into the row sets stored for that game, and writes them.
//
// Builders are pure except BuildRoster, which upserts every player it sees
// so the later stat rows can reference them.
package game

// Assist types stored in the assists table.
const (
	AssistPrimary   = "primary"
	AssistSecondary = "secondary"
)

// GameRow is one row of the games table.
type GameRow struct {
	GameID     int64
	GameDate   string
	HomeTeamID int64
	AwayTeamID int64
	OT         bool
	Shootout   bool
}

// Values returns the row in column order with flags as 0/1.
func (g GameRow) Values() []any {
	return []any{g.GameID, g.GameDate, g.HomeTeamID, g.AwayTeamID, boolInt(g.OT), boolInt(g.Shootout)}
}

// SkaterRow is one row of skater_game_stats. TOI is in seconds.
type SkaterRow struct {
	PlayerID       int64
	GameID         int64
	TOI            int
	FaceoffWins    int
	FaceoffLosses  int
	Hits           int
	Blocks         int
	PenaltyMinutes int
	Shots          int
	PlusMinus      int
	TeamID         int64
}

// GoalieRow is one row of goalie_game_stats.
type GoalieRow struct {
	PlayerID     int64
	GameID       int64
	Started      bool
	Saves        int
	GoalsAllowed int
	ShotsAgainst int
	TeamID       int64
}

// GoalRow is one row of goals. GoalieID is always nil: the scoring summary
// does not name the goalie scored on.
type GoalRow struct {
	GoalID       string
	GameID       int64
	PlayerID     int64
	Period       int
	TimeInPeriod string
	GoalType     string
	GoalieID     *int64
	VideoLink    string
}

// AssistRow is one row of assists.
type AssistRow struct {
	PlayerID   int64
	AssistType string
	GoalID     string
}

// GameRows is everything written for one game.
type GameRows struct {
	Game    GameRow
	Skaters []SkaterRow
	Goalies []GoalieRow
	Goals   []GoalRow
	Assists []AssistRow
}

// RowCount is the number of rows WriteGame will upsert.
func (r *GameRows) RowCount() int {
	return 1 + len(r.Skaters) + len(r.Goalies) + len(r.Goals) + len(r.Assists)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
