package nhl

import (
	"context"
	"fmt"
	"strings"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/provider"
)

type standingsResponse struct {
	Standings []struct {
		TeamAbbrev     provider.LocalizedName `json:"teamAbbrev"`
		TeamName       provider.LocalizedName `json:"teamName"`
		ConferenceName string                 `json:"conferenceName"`
		DivisionName   string                 `json:"divisionName"`
		TeamLogo       string                 `json:"teamLogo"`
	} `json:"standings"`
}

type statsTeamsResponse struct {
	Data []struct {
		ID       int64  `json:"id"`
		FullName string `json:"fullName"`
		TriCode  string `json:"triCode"`
	} `json:"data"`
}

type standingTeam struct {
	abbrev     string
	name       string
	conference string
	division   string
	logo       string
}

func (c *Client) standings(ctx context.Context) ([]standingTeam, error) {
	var resp standingsResponse
	if err := c.getJSON(ctx, c.baseURL, "/standings/now", &resp); err != nil {
		return nil, fmt.Errorf("standings: %w", err)
	}
	teams := make([]standingTeam, 0, len(resp.Standings))
	for _, s := range resp.Standings {
		if s.TeamAbbrev.Default == "" {
			continue
		}
		teams = append(teams, standingTeam{
			abbrev:     s.TeamAbbrev.Default,
			name:       s.TeamName.Default,
			conference: s.ConferenceName,
			division:   s.DivisionName,
			logo:       s.TeamLogo,
		})
	}
	return teams, nil
}

// Teams joins current standings (names, conference, division, logo) with the
// stats API team list, which is the only source of numeric team ids.
func (c *Client) Teams(ctx context.Context) ([]provider.Team, error) {
	standings, err := c.standings(ctx)
	if err != nil {
		return nil, err
	}

	var stats statsTeamsResponse
	if err := c.getJSON(ctx, c.statsURL, "/team", &stats); err != nil {
		return nil, fmt.Errorf("stats teams: %w", err)
	}
	// The stats list keeps relocated and renamed franchises under the same
	// tri-code. The current franchise always has the highest id.
	ids := make(map[string]int64, len(stats.Data))
	names := make(map[string]string, len(stats.Data))
	for _, t := range stats.Data {
		code := strings.ToUpper(t.TriCode)
		if prev, ok := ids[code]; ok {
			c.logger.Debug("duplicate tri-code in stats team list", "tri_code", code, "ids", []int64{prev, t.ID})
			if prev > t.ID {
				continue
			}
		}
		ids[code] = t.ID
		names[code] = t.FullName
	}

	teams := make([]provider.Team, 0, len(standings))
	for _, s := range standings {
		id, ok := ids[strings.ToUpper(s.abbrev)]
		if !ok {
			c.logger.Warn("team missing from stats API", "abbrev", s.abbrev)
			continue
		}
		name := names[strings.ToUpper(s.abbrev)]
		if name == "" {
			name = s.name
		}
		teams = append(teams, provider.Team{
			ID:           id,
			Name:         name,
			Abbreviation: s.abbrev,
			Conference:   s.conference,
			Division:     s.division,
			LogoURL:      s.logo,
		})
	}
	return teams, nil
}

type rosterPlayer struct {
	ID             int64                  `json:"id"`
	Headshot       string                 `json:"headshot"`
	FirstName      provider.LocalizedName `json:"firstName"`
	LastName       provider.LocalizedName `json:"lastName"`
	SweaterNumber  int                    `json:"sweaterNumber"`
	PositionCode   string                 `json:"positionCode"`
	ShootsCatches  string                 `json:"shootsCatches"`
	HeightInInches int                    `json:"heightInInches"`
	WeightInPounds int                    `json:"weightInPounds"`
	BirthDate      string                 `json:"birthDate"`
	BirthCountry   string                 `json:"birthCountry"`
}

type rosterResponse struct {
	Forwards   []rosterPlayer `json:"forwards"`
	Defensemen []rosterPlayer `json:"defensemen"`
	Goalies    []rosterPlayer `json:"goalies"`
}

// Roster fetches /roster/{abbrev}/{season}. CurrentTeamID is left for the
// caller, which knows the team id.
func (c *Client) Roster(ctx context.Context, abbrev, season string) ([]provider.Player, error) {
	var resp rosterResponse
	if err := c.getJSON(ctx, c.baseURL, fmt.Sprintf("/roster/%s/%s", abbrev, season), &resp); err != nil {
		return nil, fmt.Errorf("roster %s %s: %w", abbrev, season, err)
	}

	players := make([]provider.Player, 0, len(resp.Forwards)+len(resp.Defensemen)+len(resp.Goalies))
	for _, group := range [][]rosterPlayer{resp.Forwards, resp.Defensemen, resp.Goalies} {
		for _, p := range group {
			players = append(players, provider.Player{
				ID:            p.ID,
				PositionCode:  p.PositionCode,
				FirstName:     p.FirstName.Default,
				LastName:      p.LastName.Default,
				ShootsCatches: p.ShootsCatches,
				Birthdate:     p.BirthDate,
				HeightInches:  p.HeightInInches,
				WeightLbs:     p.WeightInPounds,
				SweaterNumber: p.SweaterNumber,
				BirthCountry:  p.BirthCountry,
				HeadshotURL:   p.Headshot,
			})
		}
	}
	return players, nil
}

type playerLanding struct {
	PlayerID       int64                  `json:"playerId"`
	CurrentTeamID  int64                  `json:"currentTeamId"`
	FirstName      provider.LocalizedName `json:"firstName"`
	LastName       provider.LocalizedName `json:"lastName"`
	SweaterNumber  int                    `json:"sweaterNumber"`
	Position       string                 `json:"position"`
	Headshot       string                 `json:"headshot"`
	HeightInInches int                    `json:"heightInInches"`
	WeightInPounds int                    `json:"weightInPounds"`
	BirthDate      string                 `json:"birthDate"`
	BirthCountry   string                 `json:"birthCountry"`
	ShootsCatches  string                 `json:"shootsCatches"`
}

// PlayerProfile fetches /player/{id}/landing. Retired and unsigned players
// have no currentTeamId; that maps to a zero CurrentTeamID.
func (c *Client) PlayerProfile(ctx context.Context, playerID int64) (*provider.Player, error) {
	var p playerLanding
	if err := c.getJSON(ctx, c.baseURL, fmt.Sprintf("/player/%d/landing", playerID), &p); err != nil {
		return nil, fmt.Errorf("player %d: %w", playerID, err)
	}
	if p.PlayerID == 0 {
		p.PlayerID = playerID
	}
	return &provider.Player{
		ID:            p.PlayerID,
		PositionCode:  p.Position,
		FirstName:     p.FirstName.Default,
		LastName:      p.LastName.Default,
		ShootsCatches: p.ShootsCatches,
		CurrentTeamID: p.CurrentTeamID,
		Birthdate:     p.BirthDate,
		HeightInches:  p.HeightInInches,
		WeightLbs:     p.WeightInPounds,
		SweaterNumber: p.SweaterNumber,
		BirthCountry:  p.BirthCountry,
		HeadshotURL:   p.Headshot,
	}, nil
}
