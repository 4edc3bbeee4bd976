// Package provider defines the data types the NHL client decodes into and the
// interface the ingestion pipeline fetches through. Game payload types mirror
// the gamecenter JSON closely; team and player types are canonical shapes
// written straight to the teams and players tables.
package provider

import (
	"context"
	"errors"
)

// ErrTransient marks failures worth retrying: transport errors, throttling
// and upstream 5xx responses.
var ErrTransient = errors.New("provider: transient failure")

// Provider is the read-only view of the NHL API used by ingestion.
type Provider interface {
	// ListGameIDs returns every game of the season whose type is in gameTypes,
	// ordered by game id.
	ListGameIDs(ctx context.Context, season string, gameTypes []int) ([]ScheduledGame, error)
	// ListGamesForDate returns the games played on date ("YYYY-MM-DD").
	ListGamesForDate(ctx context.Context, date string, gameTypes []int) ([]ScheduledGame, error)

	Boxscore(ctx context.Context, gameID int64) (*Boxscore, error)
	PlayByPlay(ctx context.Context, gameID int64) (*PlayByPlay, error)
	GameStory(ctx context.Context, gameID int64) (*GameStory, error)

	PlayerProfile(ctx context.Context, playerID int64) (*Player, error)
	Teams(ctx context.Context) ([]Team, error)
	Roster(ctx context.Context, abbrev, season string) ([]Player, error)
}

// --------------------------------------------------------------------------
// Canonical rows
// --------------------------------------------------------------------------

// Team is the shape written to the teams table.
type Team struct {
	ID           int64
	Name         string
	Abbreviation string
	Conference   string
	Division     string
	LogoURL      string
}

// Player is the shape written to the players table. Zero values are stored
// as NULL. The struct is comparable so upserts can skip identical rows.
type Player struct {
	ID            int64
	PositionCode  string
	FirstName     string
	LastName      string
	ShootsCatches string
	CurrentTeamID int64
	Birthdate     string // "YYYY-MM-DD"
	HeightInches  int
	WeightLbs     int
	SweaterNumber int
	BirthCountry  string
	HeadshotURL   string
}

// ScheduledGame is one entry of a schedule listing.
type ScheduledGame struct {
	ID       int64
	GameType int
	GameDate string
}

// LocalizedName is the provider's {"default": "..."} wrapper.
type LocalizedName struct {
	Default string `json:"default"`
}

// --------------------------------------------------------------------------
// Boxscore
// --------------------------------------------------------------------------

type Boxscore struct {
	ID                int64             `json:"id"`
	GameDate          string            `json:"gameDate"`
	GameType          int               `json:"gameType"`
	HomeTeam          TeamRef           `json:"homeTeam"`
	AwayTeam          TeamRef           `json:"awayTeam"`
	PeriodDescriptor  PeriodDescriptor  `json:"periodDescriptor"`
	GameOutcome       *GameOutcome      `json:"gameOutcome,omitempty"`
	PlayerByGameStats PlayerByGameStats `json:"playerByGameStats"`
}

type TeamRef struct {
	ID     int64  `json:"id"`
	Abbrev string `json:"abbrev"`
}

type PeriodDescriptor struct {
	Number     int    `json:"number"`
	PeriodType string `json:"periodType"`
}

type GameOutcome struct {
	LastPeriodType string `json:"lastPeriodType"`
}

// LastPeriodType reports how the game ended: "REG", "OT" or "SO".
func (b *Boxscore) LastPeriodType() string {
	if b.GameOutcome != nil && b.GameOutcome.LastPeriodType != "" {
		return b.GameOutcome.LastPeriodType
	}
	return b.PeriodDescriptor.PeriodType
}

type PlayerByGameStats struct {
	AwayTeam TeamGameStats `json:"awayTeam"`
	HomeTeam TeamGameStats `json:"homeTeam"`
}

type TeamGameStats struct {
	Forwards []SkaterLine `json:"forwards"`
	Defense  []SkaterLine `json:"defense"`
	Goalies  []GoalieLine `json:"goalies"`
}

type SkaterLine struct {
	PlayerID     int64  `json:"playerId"`
	Position     string `json:"position"`
	PlusMinus    int    `json:"plusMinus"`
	PIM          int    `json:"pim"`
	Hits         int    `json:"hits"`
	SOG          int    `json:"sog"`
	BlockedShots int    `json:"blockedShots"`
	TOI          string `json:"toi"`
}

// GoalieLine carries pointer counters because older boxscores omit them and
// only provide the "saves/shots" fraction.
type GoalieLine struct {
	PlayerID         int64  `json:"playerId"`
	Starter          bool   `json:"starter"`
	Saves            *int   `json:"saves,omitempty"`
	ShotsAgainst     *int   `json:"shotsAgainst,omitempty"`
	GoalsAgainst     *int   `json:"goalsAgainst,omitempty"`
	SaveShotsAgainst string `json:"saveShotsAgainst"`
	TOI              string `json:"toi"`
}

// --------------------------------------------------------------------------
// Play-by-play
// --------------------------------------------------------------------------

// Event type keys aggregated into skater rows.
const (
	EventFaceoff     = "faceoff"
	EventHit         = "hit"
	EventBlockedShot = "blocked-shot"
	EventPenalty     = "penalty"
	EventShotOnGoal  = "shot-on-goal"
)

type PlayByPlay struct {
	ID          int64        `json:"id"`
	RosterSpots []RosterSpot `json:"rosterSpots"`
	Plays       []Play       `json:"plays"`
}

type RosterSpot struct {
	TeamID        int64         `json:"teamId"`
	PlayerID      int64         `json:"playerId"`
	FirstName     LocalizedName `json:"firstName"`
	LastName      LocalizedName `json:"lastName"`
	SweaterNumber int           `json:"sweaterNumber"`
	PositionCode  string        `json:"positionCode"`
	Headshot      string        `json:"headshot"`
}

// IsGoalie reports whether the roster spot is a goaltender.
func (r RosterSpot) IsGoalie() bool { return r.PositionCode == "G" }

type Play struct {
	EventID     int64        `json:"eventId"`
	TypeDescKey string       `json:"typeDescKey"`
	Details     *PlayDetails `json:"details,omitempty"`
}

type PlayDetails struct {
	WinningPlayerID     int64 `json:"winningPlayerId"`
	LosingPlayerID      int64 `json:"losingPlayerId"`
	HittingPlayerID     int64 `json:"hittingPlayerId"`
	BlockingPlayerID    int64 `json:"blockingPlayerId"`
	CommittedByPlayerID int64 `json:"committedByPlayerId"`
	ShootingPlayerID    int64 `json:"shootingPlayerId"`
	Duration            int   `json:"duration"`
}

// --------------------------------------------------------------------------
// Game story
// --------------------------------------------------------------------------

type GameStory struct {
	ID      int64        `json:"id"`
	Summary StorySummary `json:"summary"`
}

type StorySummary struct {
	Scoring []PeriodScoring `json:"scoring"`
}

type PeriodScoring struct {
	PeriodDescriptor PeriodDescriptor `json:"periodDescriptor"`
	Goals            []StoryGoal      `json:"goals"`
}

type StoryGoal struct {
	EventID                 int64         `json:"eventId"`
	Strength                string        `json:"strength"`
	PlayerID                int64         `json:"playerId"`
	TimeInPeriod            string        `json:"timeInPeriod"`
	HighlightClipSharingURL string        `json:"highlightClipSharingUrl"`
	Assists                 []StoryAssist `json:"assists"`
}

type StoryAssist struct {
	PlayerID int64 `json:"playerId"`
}
