package game

import "github.com/kaitlynwarhurst/NHL-Data-Fun/internal/provider"

// Period types as reported in gameOutcome.lastPeriodType.
const (
	PeriodRegulation = "REG"
	PeriodOvertime   = "OT"
	PeriodShootout   = "SO"
)

// BuildGameRow derives the games row from a boxscore. The two flags are
// derived independently: any final period other than regulation sets OT,
// and only a shootout sets Shootout.
func BuildGameRow(box *provider.Boxscore) GameRow {
	last := box.LastPeriodType()
	return GameRow{
		GameID:     box.ID,
		GameDate:   box.GameDate,
		HomeTeamID: box.HomeTeam.ID,
		AwayTeamID: box.AwayTeam.ID,
		OT:         last != PeriodRegulation,
		Shootout:   last == PeriodShootout,
	}
}
