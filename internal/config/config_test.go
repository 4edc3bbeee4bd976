package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite:///tmp/nhl.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultSeason, cfg.Season)
	assert.Equal(t, []int{GameTypeRegular}, cfg.GameTypes)
	assert.Equal(t, []int{GameTypeRegular, GameTypePlayoff}, cfg.RefreshGameTypes)
	assert.Equal(t, 5, cfg.Retries)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.Equal(t, 250*time.Millisecond, cfg.GameDelay)
	assert.Equal(t, "https://api-web.nhle.com/v1", cfg.NHLAPIBaseURL)
	assert.Equal(t, time.Duration(0), cfg.RefreshInterval)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "America/New_York", cfg.Location().String())
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/nhl")
	t.Setenv("NHL_SEASON", "20242025")
	t.Setenv("NHL_GAME_TYPES", "2, 3")
	t.Setenv("INGEST_RETRIES", "3")
	t.Setenv("INGEST_GAME_DELAY", "1s")
	t.Setenv("NHL_API_BASE_URL", "http://localhost:9000/v1/")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("REFRESH_INTERVAL", "6h")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "20242025", cfg.Season)
	assert.Equal(t, []int{2, 3}, cfg.GameTypes)
	assert.Equal(t, 3, cfg.Retries)
	assert.Equal(t, time.Second, cfg.GameDelay)
	assert.Equal(t, "http://localhost:9000/v1", cfg.NHLAPIBaseURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 6*time.Hour, cfg.RefreshInterval)
	assert.True(t, cfg.IsProduction())
}

func TestLoadValidation(t *testing.T) {
	cases := map[string][2]string{
		"zero retries":   {"INGEST_RETRIES", "0"},
		"bad season":     {"NHL_SEASON", "2025"},
		"bad game type":  {"NHL_GAME_TYPES", "7"},
		"bad refresh":    {"NHL_REFRESH_GAME_TYPES", "0"},
		"bad env":        {"ENVIRONMENT", "qa"},
		"bad timezone":   {"INGEST_TIMEZONE", "Mars/Olympus"},
		"pool inversion": {"DB_POOL_MIN_CONNS", "10"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "sqlite:///tmp/nhl.db")
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestEnvHelpersFallBack(t *testing.T) {
	t.Setenv("X_INT", "nope")
	t.Setenv("X_DUR", "soon")
	t.Setenv("X_LIST", " , ")
	assert.Equal(t, 7, envInt("X_INT", 7))
	assert.Equal(t, time.Minute, envDuration("X_DUR", time.Minute))
	assert.Equal(t, []string{"d"}, envList("X_LIST", []string{"d"}))
	assert.Equal(t, []int{2}, envIntList("X_LIST", []int{2}))
}
