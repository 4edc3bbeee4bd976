package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/config"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/db"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/provider"
)

// UpsertOutcome reports what UpsertPlayer did.
type UpsertOutcome int

const (
	UpsertInserted UpsertOutcome = iota + 1
	UpsertUpdated
	UpsertUnchanged
)

func (o UpsertOutcome) String() string {
	switch o {
	case UpsertInserted:
		return "inserted"
	case UpsertUpdated:
		return "updated"
	case UpsertUnchanged:
		return "unchanged"
	}
	return "unknown"
}

// UpsertTeam writes a canonical team to the teams table.
func UpsertTeam(ctx context.Context, q db.Querier, team provider.Team) error {
	return q.Exec(ctx, `
		INSERT INTO `+config.TeamsTable+` (
			team_id, team_name, team_abbreviation, conference, division, logo_url
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (team_id) DO UPDATE SET
			team_name = EXCLUDED.team_name,
			team_abbreviation = EXCLUDED.team_abbreviation,
			conference = EXCLUDED.conference,
			division = EXCLUDED.division,
			logo_url = EXCLUDED.logo_url`,
		team.ID, team.Name, team.Abbreviation,
		nilEmpty(team.Conference), nilEmpty(team.Division), nilEmpty(team.LogoURL),
	)
}

// UpsertPlayer makes the players row for p match p. A missing row is
// inserted; a row that differs in any attribute is overwritten in full; an
// identical row is left alone.
func UpsertPlayer(ctx context.Context, q db.Querier, p provider.Player) (UpsertOutcome, error) {
	existing, err := loadPlayer(ctx, q, p.ID)
	switch {
	case errors.Is(err, db.ErrNoRows):
		if err := insertPlayer(ctx, q, p); err != nil {
			return 0, fmt.Errorf("insert player %d: %w", p.ID, err)
		}
		return UpsertInserted, nil
	case err != nil:
		return 0, fmt.Errorf("load player %d: %w", p.ID, err)
	case existing == p:
		return UpsertUnchanged, nil
	}

	if err := updatePlayer(ctx, q, p); err != nil {
		return 0, fmt.Errorf("update player %d: %w", p.ID, err)
	}
	return UpsertUpdated, nil
}

func loadPlayer(ctx context.Context, q db.Querier, id int64) (provider.Player, error) {
	var (
		position, first, last, shoots *string
		birthdate, country, headshot  *string
		teamID                        *int64
		height, weight, sweater       *int64
	)
	err := q.QueryRow(ctx, `
		SELECT position_code, first_name, last_name, shoots_catches, current_team_id,
		       birthdate, height_inches, weight_lbs, sweater_number, birth_country, headshot_url
		FROM `+config.PlayersTable+` WHERE player_id = ?`, id,
	).Scan(&position, &first, &last, &shoots, &teamID,
		&birthdate, &height, &weight, &sweater, &country, &headshot)
	if err != nil {
		return provider.Player{}, err
	}
	return provider.Player{
		ID:            id,
		PositionCode:  deref(position),
		FirstName:     deref(first),
		LastName:      deref(last),
		ShootsCatches: deref(shoots),
		CurrentTeamID: deref(teamID),
		Birthdate:     deref(birthdate),
		HeightInches:  int(deref(height)),
		WeightLbs:     int(deref(weight)),
		SweaterNumber: int(deref(sweater)),
		BirthCountry:  deref(country),
		HeadshotURL:   deref(headshot),
	}, nil
}

func insertPlayer(ctx context.Context, q db.Querier, p provider.Player) error {
	return q.Exec(ctx, `
		INSERT INTO `+config.PlayersTable+` (
			player_id, position_code, first_name, last_name, shoots_catches, current_team_id,
			birthdate, height_inches, weight_lbs, sweater_number, birth_country, headshot_url
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, nilEmpty(p.PositionCode), nilEmpty(p.FirstName), nilEmpty(p.LastName),
		nilEmpty(p.ShootsCatches), nilZero(p.CurrentTeamID), nilEmpty(p.Birthdate),
		nilZero(p.HeightInches), nilZero(p.WeightLbs), nilZero(p.SweaterNumber),
		nilEmpty(p.BirthCountry), nilEmpty(p.HeadshotURL),
	)
}

func updatePlayer(ctx context.Context, q db.Querier, p provider.Player) error {
	return q.Exec(ctx, `
		UPDATE `+config.PlayersTable+` SET
			position_code = ?, first_name = ?, last_name = ?, shoots_catches = ?,
			current_team_id = ?, birthdate = ?, height_inches = ?, weight_lbs = ?,
			sweater_number = ?, birth_country = ?, headshot_url = ?
		WHERE player_id = ?`,
		nilEmpty(p.PositionCode), nilEmpty(p.FirstName), nilEmpty(p.LastName),
		nilEmpty(p.ShootsCatches), nilZero(p.CurrentTeamID), nilEmpty(p.Birthdate),
		nilZero(p.HeightInches), nilZero(p.WeightLbs), nilZero(p.SweaterNumber),
		nilEmpty(p.BirthCountry), nilEmpty(p.HeadshotURL),
		p.ID,
	)
}

// nilEmpty returns nil for empty strings so they are stored as NULL.
func nilEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nilZero[T int | int64](v T) any {
	if v == 0 {
		return nil
	}
	return v
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
