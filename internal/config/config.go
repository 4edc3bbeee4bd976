// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // INGEST_TIMEZONE must resolve in minimal containers

	"github.com/go-playground/validator/v10"
)

// --------------------------------------------------------------------------
// League defaults
// --------------------------------------------------------------------------

const (
	// DefaultSeason is the season ingested when --season is not given.
	DefaultSeason = "20252026"

	// Provider game type codes.
	GameTypePreseason = 1
	GameTypeRegular   = 2
	GameTypePlayoff   = 3

	// GameUpdateCursor is the last_update key advanced by game ingestion.
	GameUpdateCursor = "game_update"
)

// --------------------------------------------------------------------------
// Table names, matching the migrations
// --------------------------------------------------------------------------

const (
	TeamsTable           = "teams"
	PlayersTable         = "players"
	GamesTable           = "games"
	SkaterGameStatsTable = "skater_game_stats"
	GoalieGameStatsTable = "goalie_game_stats"
	GoalsTable           = "goals"
	AssistsTable         = "assists"
	LastUpdateTable      = "last_update"
)

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database. postgres:// URLs use pgxpool, sqlite:// URLs use a local file.
	DatabaseURL    string `validate:"required"`
	DBPoolMinConns int    `validate:"gte=0"`
	DBPoolMaxConns int    `validate:"gte=1,gtefield=DBPoolMinConns"`
	DBPoolMaxLife  time.Duration

	// Provider
	NHLAPIBaseURL        string        `validate:"required,url"`
	NHLStatsBaseURL      string        `validate:"required,url"`
	NHLRequestsPerMinute int           `validate:"gte=1"`
	NHLHTTPTimeout       time.Duration `validate:"gt=0"`
	Season               string        `validate:"len=8,numeric"`
	GameTypes            []int         `validate:"min=1,dive,gte=1,lte=3"`
	RefreshGameTypes     []int         `validate:"min=1,dive,gte=1,lte=3"`

	// Ingestion
	Retries    int           `validate:"gte=1"`
	RetryDelay time.Duration `validate:"gte=0"`
	GameDelay  time.Duration `validate:"gte=0"`
	Timezone   string        `validate:"required"`

	// API server
	APIHost     string
	APIPort     int `validate:"gte=1,lte=65535"`
	Environment string `validate:"oneof=development staging production"`
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int `validate:"gte=1"`
	RateLimitWindow   time.Duration

	// Periodic refresh from the API process; zero disables.
	RefreshInterval time.Duration `validate:"gte=0"`
}

var validate = validator.New()

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	cfg := &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 4),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		NHLAPIBaseURL:        strings.TrimRight(envOr("NHL_API_BASE_URL", "https://api-web.nhle.com/v1"), "/"),
		NHLStatsBaseURL:      strings.TrimRight(envOr("NHL_STATS_BASE_URL", "https://api.nhle.com/stats/rest/en"), "/"),
		NHLRequestsPerMinute: envInt("NHL_REQUESTS_PER_MINUTE", 240),
		NHLHTTPTimeout:       envDuration("NHL_HTTP_TIMEOUT", 30*time.Second),
		Season:               envOr("NHL_SEASON", DefaultSeason),
		GameTypes:            envIntList("NHL_GAME_TYPES", []int{GameTypeRegular}),
		RefreshGameTypes:     envIntList("NHL_REFRESH_GAME_TYPES", []int{GameTypeRegular, GameTypePlayoff}),

		Retries:    envInt("INGEST_RETRIES", 5),
		RetryDelay: envDuration("INGEST_RETRY_DELAY", time.Second),
		GameDelay:  envDuration("INGEST_GAME_DELAY", 250*time.Millisecond),
		Timezone:   envOr("INGEST_TIMEZONE", "America/New_York"),

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		RefreshInterval: envDuration("REFRESH_INTERVAL", 0),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid INGEST_TIMEZONE %q: %w", cfg.Timezone, err)
	}
	return cfg, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Location returns the time zone that decides what "yesterday" means for
// the ingestion cutoff. Load has already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

func envIntList(key string, fallback []int) []int {
	parts := envList(key, nil)
	if len(parts) == 0 {
		return fallback
	}
	result := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return fallback
		}
		result = append(result, n)
	}
	return result
}
