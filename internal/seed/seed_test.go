package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/db"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/db/dbtest"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/provider"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/provider/providertest"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/retry"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/seed"
)

func testExecutor() *retry.Executor {
	e := retry.New(3, 0, dbtest.Logger())
	e.Jitter = func() float64 { return 0 }
	return e
}

func mcdavid() provider.Player {
	return provider.Player{
		ID: 8478402, PositionCode: "C", FirstName: "Connor", LastName: "McDavid",
		ShootsCatches: "L", CurrentTeamID: 22, Birthdate: "1997-01-13",
		HeightInches: 73, WeightLbs: 194, SweaterNumber: 97, BirthCountry: "CAN",
	}
}

func TestUpsertPlayerInsertUpdateUnchanged(t *testing.T) {
	store := dbtest.Open(t)
	ctx := context.Background()
	dbtest.SeedTeam(t, store, 22, "EDM")

	p := mcdavid()
	outcome, err := seed.UpsertPlayer(ctx, store, p)
	require.NoError(t, err)
	assert.Equal(t, seed.UpsertInserted, outcome)

	outcome, err = seed.UpsertPlayer(ctx, store, p)
	require.NoError(t, err)
	assert.Equal(t, seed.UpsertUnchanged, outcome)

	p.WeightLbs = 196
	p.HeadshotURL = "https://assets/97.png"
	outcome, err = seed.UpsertPlayer(ctx, store, p)
	require.NoError(t, err)
	assert.Equal(t, seed.UpsertUpdated, outcome)

	var weight int
	var headshot string
	require.NoError(t, store.QueryRow(ctx,
		`SELECT weight_lbs, headshot_url FROM players WHERE player_id = ?`, p.ID).Scan(&weight, &headshot))
	assert.Equal(t, 196, weight)
	assert.Equal(t, "https://assets/97.png", headshot)
	assert.Equal(t, 1, dbtest.Count(t, store, "players"))
}

func TestUpsertPlayerClearsTeamWhenReleased(t *testing.T) {
	store := dbtest.Open(t)
	ctx := context.Background()
	dbtest.SeedTeam(t, store, 22, "EDM")

	p := mcdavid()
	_, err := seed.UpsertPlayer(ctx, store, p)
	require.NoError(t, err)

	p.CurrentTeamID = 0
	outcome, err := seed.UpsertPlayer(ctx, store, p)
	require.NoError(t, err)
	assert.Equal(t, seed.UpsertUpdated, outcome)

	var team *int64
	require.NoError(t, store.QueryRow(ctx,
		`SELECT current_team_id FROM players WHERE player_id = ?`, p.ID).Scan(&team))
	assert.Nil(t, team)
}

func TestEnsurePlayerRetriesProfileFetch(t *testing.T) {
	store := dbtest.Open(t)
	ctx := context.Background()
	dbtest.SeedTeam(t, store, 22, "EDM")

	fake := providertest.New()
	p := mcdavid()
	fake.Players[p.ID] = &p
	fake.FailFirst["PlayerProfile"] = 2

	u := seed.NewPlayerUpserter(fake, testExecutor(), dbtest.Logger())
	err := store.InTx(ctx, func(tx db.Querier) error {
		outcome, err := u.EnsurePlayer(ctx, tx, p.ID)
		assert.Equal(t, seed.UpsertInserted, outcome)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 3, fake.Calls("PlayerProfile"))
}

func TestEnsurePlayerGivesUpAfterBudget(t *testing.T) {
	store := dbtest.Open(t)
	ctx := context.Background()

	fake := providertest.New()
	fake.FailFirst["PlayerProfile"] = 10

	u := seed.NewPlayerUpserter(fake, testExecutor(), dbtest.Logger())
	err := store.InTx(ctx, func(tx db.Querier) error {
		_, err := u.EnsurePlayer(ctx, tx, 1)
		return err
	})
	assert.ErrorIs(t, err, retry.ErrRetriesExhausted)
	assert.Equal(t, 0, dbtest.Count(t, store, "players"))
}

func TestSeedTeamsAndRosters(t *testing.T) {
	store := dbtest.Open(t)
	ctx := context.Background()

	fake := providertest.New()
	fake.TeamList = []provider.Team{
		{ID: 10, Name: "Toronto Maple Leafs", Abbreviation: "TOR", Conference: "Eastern", Division: "Atlantic"},
		{ID: 22, Name: "Edmonton Oilers", Abbreviation: "EDM", Conference: "Western", Division: "Pacific"},
	}
	fake.Rosters["EDM"] = []provider.Player{mcdavid()}
	fake.Rosters["EDM"][0].CurrentTeamID = 0

	result := seed.SeedTeams(ctx, store, fake, testExecutor(), dbtest.Logger())
	require.NoError(t, result.Err())
	assert.Equal(t, 2, result.TeamsUpserted)

	result = seed.SeedRosters(ctx, store, fake, testExecutor(), "20252026", dbtest.Logger())
	assert.Equal(t, 1, result.PlayersInserted)
	require.Len(t, result.Errors, 1, "TOR roster is missing from the fake")
	assert.Contains(t, result.Errors[0], "TOR")

	var team int64
	require.NoError(t, store.QueryRow(ctx,
		`SELECT current_team_id FROM players WHERE player_id = ?`, int64(8478402)).Scan(&team))
	assert.Equal(t, int64(22), team)
}

func TestSeedRostersRequiresTeams(t *testing.T) {
	store := dbtest.Open(t)
	result := seed.SeedRosters(context.Background(), store, providertest.New(), testExecutor(), "20252026", dbtest.Logger())
	assert.Error(t, result.Err())
}

func TestSeedResultSummary(t *testing.T) {
	var r seed.SeedResult
	r.CountPlayer(seed.UpsertInserted)
	r.CountPlayer(seed.UpsertUnchanged)
	r.AddErrorf("roster %s: %v", "TOR", "boom")
	assert.Equal(t, "teams=0 players_inserted=1 players_updated=0 players_unchanged=1 errors=1", r.Summary())
}
