// Package providertest provides an in-memory provider.Provider for tests.
package providertest

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/provider"
)

// Fake serves canned payloads. Missing entries return an error. Calls are
// counted per method name.
type Fake struct {
	mu sync.Mutex

	Season    []provider.ScheduledGame
	ByDate    map[string][]provider.ScheduledGame
	Boxscores map[int64]*provider.Boxscore
	PBP       map[int64]*provider.PlayByPlay
	Stories   map[int64]*provider.GameStory
	Players   map[int64]*provider.Player
	TeamList  []provider.Team
	Rosters   map[string][]provider.Player

	// FailFirst makes the first n calls of the named method fail.
	FailFirst map[string]int

	calls map[string]int
}

var _ provider.Provider = (*Fake)(nil)

// New returns an empty Fake.
func New() *Fake {
	return &Fake{
		ByDate:    map[string][]provider.ScheduledGame{},
		Boxscores: map[int64]*provider.Boxscore{},
		PBP:       map[int64]*provider.PlayByPlay{},
		Stories:   map[int64]*provider.GameStory{},
		Players:   map[int64]*provider.Player{},
		Rosters:   map[string][]provider.Player{},
		FailFirst: map[string]int{},
	}
}

// Calls reports how many times method was invoked.
func (f *Fake) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *Fake) record(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[method]++
	if f.FailFirst[method] > 0 {
		f.FailFirst[method]--
		return fmt.Errorf("%w: %s unavailable", provider.ErrTransient, method)
	}
	return nil
}

func filterTypes(games []provider.ScheduledGame, gameTypes []int) []provider.ScheduledGame {
	var out []provider.ScheduledGame
	for _, g := range games {
		if slices.Contains(gameTypes, g.GameType) {
			out = append(out, g)
		}
	}
	return out
}

func (f *Fake) ListGameIDs(_ context.Context, _ string, gameTypes []int) ([]provider.ScheduledGame, error) {
	if err := f.record("ListGameIDs"); err != nil {
		return nil, err
	}
	return filterTypes(f.Season, gameTypes), nil
}

func (f *Fake) ListGamesForDate(_ context.Context, date string, gameTypes []int) ([]provider.ScheduledGame, error) {
	if err := f.record("ListGamesForDate"); err != nil {
		return nil, err
	}
	return filterTypes(f.ByDate[date], gameTypes), nil
}

func (f *Fake) Boxscore(_ context.Context, id int64) (*provider.Boxscore, error) {
	if err := f.record("Boxscore"); err != nil {
		return nil, err
	}
	if b, ok := f.Boxscores[id]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("boxscore %d not found", id)
}

func (f *Fake) PlayByPlay(_ context.Context, id int64) (*provider.PlayByPlay, error) {
	if err := f.record("PlayByPlay"); err != nil {
		return nil, err
	}
	if p, ok := f.PBP[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("play-by-play %d not found", id)
}

func (f *Fake) GameStory(_ context.Context, id int64) (*provider.GameStory, error) {
	if err := f.record("GameStory"); err != nil {
		return nil, err
	}
	if s, ok := f.Stories[id]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("game story %d not found", id)
}

// PlayerProfile returns the registered player or, when absent, a minimal
// profile with no current team.
func (f *Fake) PlayerProfile(_ context.Context, id int64) (*provider.Player, error) {
	if err := f.record("PlayerProfile"); err != nil {
		return nil, err
	}
	if p, ok := f.Players[id]; ok {
		cp := *p
		return &cp, nil
	}
	return &provider.Player{ID: id, FirstName: "Player", LastName: fmt.Sprint(id)}, nil
}

func (f *Fake) Teams(context.Context) ([]provider.Team, error) {
	if err := f.record("Teams"); err != nil {
		return nil, err
	}
	return f.TeamList, nil
}

func (f *Fake) Roster(_ context.Context, abbrev, _ string) ([]provider.Player, error) {
	if err := f.record("Roster"); err != nil {
		return nil, err
	}
	players, ok := f.Rosters[abbrev]
	if !ok {
		return nil, fmt.Errorf("roster %s not found", abbrev)
	}
	return slices.Clone(players), nil
}
