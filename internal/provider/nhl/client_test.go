package nhl

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/provider"
)

func newTestClient(t *testing.T, routes map[string]string) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := NewClient(srv.URL+"/v1", srv.URL+"/stats", 60_000, 5*time.Second, logger)
	return c, srv
}

func TestBoxscoreDecodes(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"/v1/gamecenter/2025020001/boxscore": `{
			"id": 2025020001, "gameDate": "2025-10-07", "gameType": 2,
			"homeTeam": {"id": 20, "abbrev": "CGY"}, "awayTeam": {"id": 10, "abbrev": "TOR"},
			"periodDescriptor": {"number": 4, "periodType": "OT"},
			"gameOutcome": {"lastPeriodType": "OT"},
			"playerByGameStats": {
				"awayTeam": {"forwards": [{"playerId": 8478483, "position": "C", "plusMinus": 1, "toi": "19:12"}],
				             "defense": [], "goalies": [{"playerId": 8479361, "starter": true, "saveShotsAgainst": "23/25"}]},
				"homeTeam": {"forwards": [], "defense": [], "goalies": []}
			}
		}`,
	})

	box, err := c.Boxscore(context.Background(), 2025020001)
	require.NoError(t, err)
	assert.Equal(t, "2025-10-07", box.GameDate)
	assert.Equal(t, int64(20), box.HomeTeam.ID)
	assert.Equal(t, "OT", box.LastPeriodType())
	require.Len(t, box.PlayerByGameStats.AwayTeam.Forwards, 1)
	assert.Equal(t, "19:12", box.PlayerByGameStats.AwayTeam.Forwards[0].TOI)
	require.Len(t, box.PlayerByGameStats.AwayTeam.Goalies, 1)
	assert.Nil(t, box.PlayerByGameStats.AwayTeam.Goalies[0].Saves)
}

func TestServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	c := NewClient(srv.URL, srv.URL, 60_000, time.Second, nil)

	_, err := c.PlayByPlay(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrTransient)
}

func TestNotFoundIsNotTransient(t *testing.T) {
	c, _ := newTestClient(t, nil)

	_, err := c.GameStory(context.Background(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, provider.ErrTransient)
	assert.Contains(t, err.Error(), "404")
}

func TestListGamesForDateKeepsOnlyThatDay(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"/v1/schedule/2025-10-08": `{"gameWeek": [
			{"date": "2025-10-08", "games": [{"id": 2025020005, "gameType": 2}, {"id": 2025010090, "gameType": 1}]},
			{"date": "2025-10-09", "games": [{"id": 2025020011, "gameType": 2}]}
		]}`,
	})

	games, err := c.ListGamesForDate(context.Background(), "2025-10-08", []int{2})
	require.NoError(t, err)
	assert.Equal(t, []provider.ScheduledGame{{ID: 2025020005, GameType: 2, GameDate: "2025-10-08"}}, games)
}

func TestListGameIDsUnionsClubSchedules(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"/v1/standings/now": `{"standings": [{"teamAbbrev": {"default": "TOR"}}, {"teamAbbrev": {"default": "MTL"}}]}`,
		"/v1/club-schedule-season/TOR/20252026": `{"games": [
			{"id": 2025020003, "gameType": 2, "gameDate": "2025-10-08"},
			{"id": 2025020001, "gameType": 2, "gameDate": "2025-10-07"},
			{"id": 2025010001, "gameType": 1, "gameDate": "2025-09-21"}
		]}`,
		"/v1/club-schedule-season/MTL/20252026": `{"games": [
			{"id": 2025020001, "gameType": 2, "gameDate": "2025-10-07"}
		]}`,
	})

	games, err := c.ListGameIDs(context.Background(), "20252026", []int{2})
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, int64(2025020001), games[0].ID)
	assert.Equal(t, int64(2025020003), games[1].ID)
}

func TestTeamsJoinsStandingsWithStatsIDs(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"/v1/standings/now": `{"standings": [
			{"teamAbbrev": {"default": "TOR"}, "teamName": {"default": "Maple Leafs"},
			 "conferenceName": "Eastern", "divisionName": "Atlantic", "teamLogo": "https://example/tor.svg"},
			{"teamAbbrev": {"default": "XXX"}, "teamName": {"default": "Unknown"}}
		]}`,
		"/stats/team": `{"data": [{"id": 10, "fullName": "Toronto Maple Leafs", "triCode": "TOR"}]}`,
	})

	teams, err := c.Teams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []provider.Team{{
		ID:           10,
		Name:         "Toronto Maple Leafs",
		Abbreviation: "TOR",
		Conference:   "Eastern",
		Division:     "Atlantic",
		LogoURL:      "https://example/tor.svg",
	}}, teams)
}

func TestTeamsPrefersCurrentFranchiseForSharedTriCode(t *testing.T) {
	for name, list := range map[string]string{
		"newest first": `[{"id": 68, "fullName": "Utah Mammoth", "triCode": "UTA"},
			{"id": 59, "fullName": "Utah Hockey Club", "triCode": "UTA"}]`,
		"newest last": `[{"id": 59, "fullName": "Utah Hockey Club", "triCode": "UTA"},
			{"id": 68, "fullName": "Utah Mammoth", "triCode": "UTA"}]`,
	} {
		t.Run(name, func(t *testing.T) {
			c, _ := newTestClient(t, map[string]string{
				"/v1/standings/now": `{"standings": [{"teamAbbrev": {"default": "UTA"}, "teamName": {"default": "Mammoth"}}]}`,
				"/stats/team":       `{"data": ` + list + `}`,
			})

			teams, err := c.Teams(context.Background())
			require.NoError(t, err)
			require.Len(t, teams, 1)
			assert.Equal(t, int64(68), teams[0].ID)
			assert.Equal(t, "Utah Mammoth", teams[0].Name)
		})
	}
}

func TestPlayerProfileWithoutTeam(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"/v1/player/8471675/landing": `{
			"playerId": 8471675, "firstName": {"default": "Sidney"}, "lastName": {"default": "Crosby"},
			"position": "C", "sweaterNumber": 87, "heightInInches": 71, "weightInPounds": 200,
			"birthDate": "1987-08-07", "birthCountry": "CAN", "shootsCatches": "L"
		}`,
	})

	p, err := c.PlayerProfile(context.Background(), 8471675)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.CurrentTeamID)
	assert.Equal(t, "Crosby", p.LastName)
	assert.Equal(t, 87, p.SweaterNumber)
}

func TestRosterFlattensGroups(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"/v1/roster/TOR/20252026": `{
			"forwards": [{"id": 1, "positionCode": "C", "firstName": {"default": "A"}, "lastName": {"default": "B"}}],
			"defensemen": [{"id": 2, "positionCode": "D"}],
			"goalies": [{"id": 3, "positionCode": "G"}]
		}`,
	})

	players, err := c.Roster(context.Background(), "TOR", "20252026")
	require.NoError(t, err)
	require.Len(t, players, 3)
	assert.Equal(t, "G", players[2].PositionCode)
	assert.Equal(t, "A", players[0].FirstName)
}
