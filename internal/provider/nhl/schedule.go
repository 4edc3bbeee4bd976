package nhl

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/provider"
)

type clubScheduleResponse struct {
	Games []struct {
		ID       int64  `json:"id"`
		GameType int    `json:"gameType"`
		GameDate string `json:"gameDate"`
	} `json:"games"`
}

type dailyScheduleResponse struct {
	GameWeek []struct {
		Date  string `json:"date"`
		Games []struct {
			ID       int64 `json:"id"`
			GameType int   `json:"gameType"`
		} `json:"games"`
	} `json:"gameWeek"`
}

// ListGameIDs unions every club's season schedule. Each game appears in two
// club schedules, so results are de-duplicated and ordered by id.
func (c *Client) ListGameIDs(ctx context.Context, season string, gameTypes []int) ([]provider.ScheduledGame, error) {
	teams, err := c.standings(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]provider.ScheduledGame)
	for _, t := range teams {
		var resp clubScheduleResponse
		path := fmt.Sprintf("/club-schedule-season/%s/%s", t.abbrev, season)
		if err := c.getJSON(ctx, c.baseURL, path, &resp); err != nil {
			return nil, fmt.Errorf("season schedule %s %s: %w", t.abbrev, season, err)
		}
		for _, g := range resp.Games {
			if !slices.Contains(gameTypes, g.GameType) {
				continue
			}
			seen[g.ID] = provider.ScheduledGame{ID: g.ID, GameType: g.GameType, GameDate: g.GameDate}
		}
	}

	games := make([]provider.ScheduledGame, 0, len(seen))
	for _, g := range seen {
		games = append(games, g)
	}
	slices.SortFunc(games, func(a, b provider.ScheduledGame) int {
		return cmp.Compare(a.ID, b.ID)
	})

	c.logger.Info("season schedule loaded", "season", season, "clubs", len(teams), "games", len(games))
	return games, nil
}

// ListGamesForDate reads /schedule/{date}. The endpoint returns a whole week;
// only the requested day is kept.
func (c *Client) ListGamesForDate(ctx context.Context, date string, gameTypes []int) ([]provider.ScheduledGame, error) {
	var resp dailyScheduleResponse
	if err := c.getJSON(ctx, c.baseURL, "/schedule/"+date, &resp); err != nil {
		return nil, fmt.Errorf("schedule %s: %w", date, err)
	}

	var games []provider.ScheduledGame
	for _, day := range resp.GameWeek {
		if day.Date != date {
			continue
		}
		for _, g := range day.Games {
			if !slices.Contains(gameTypes, g.GameType) {
				continue
			}
			games = append(games, provider.ScheduledGame{ID: g.ID, GameType: g.GameType, GameDate: date})
		}
	}
	return games, nil
}
