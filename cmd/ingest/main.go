// Command ingest is the NHL data ingestion CLI.
//
// Usage:
//
//	nhl-ingest migrate up
//	nhl-ingest teams
//	nhl-ingest players --season 20252026
//	nhl-ingest games backfill --season 20252026
//	nhl-ingest games refresh --since 2025-11-01
//	nhl-ingest games reprocess --id 2025020001 --id 2025020002
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/config"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/db"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/ingest"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/provider/nhl"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/retry"
	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/seed"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "nhl-ingest",
		Short:         "NHL game data ingestion CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(teamsCmd())
	root.AddCommand(playersCmd())
	root.AddCommand(gamesCmd())
	root.AddCommand(migrateCmd())

	if err := root.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// deps bundles everything a command needs once config and the store are up.
type deps struct {
	cfg    *config.Config
	store  db.DB
	client *nhl.Client
	exec   *retry.Executor
}

func (d *deps) runner() *ingest.Runner {
	return ingest.NewRunner(d.store, d.client, d.exec, ingest.OptionsFromConfig(d.cfg),
		logger.With("component", "ingest"))
}

// --------------------------------------------------------------------------
// teams / players commands
// --------------------------------------------------------------------------

func teamsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "Sync teams from standings and the stats team list",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(func(ctx context.Context, d *deps) error {
				start := time.Now()
				result := seed.SeedTeams(ctx, d.store, d.client, d.exec, logger.With("component", "seed"))
				logger.Info("Team sync finished", "duration", time.Since(start).Round(time.Second), "summary", result.Summary())
				return result.Err()
			})
		},
	}
}

func playersCmd() *cobra.Command {
	var season string
	cmd := &cobra.Command{
		Use:   "players",
		Short: "Sync teams, then every team's roster for a season",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(func(ctx context.Context, d *deps) error {
				seedLogger := logger.With("component", "seed")
				start := time.Now()
				result := seed.SeedTeams(ctx, d.store, d.client, d.exec, seedLogger)
				if err := result.Err(); err != nil {
					return err
				}
				result.Add(seed.SeedRosters(ctx, d.store, d.client, d.exec, season, seedLogger))
				logger.Info("Player sync finished", "season", season,
					"duration", time.Since(start).Round(time.Second), "summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("seed error", "error", e)
				}
				return result.Err()
			})
		},
	}
	cmd.Flags().StringVar(&season, "season", config.DefaultSeason, "Season (e.g. 20252026)")
	return cmd
}

// --------------------------------------------------------------------------
// games command
// --------------------------------------------------------------------------

func gamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Ingest completed games",
	}
	cmd.AddCommand(gamesBackfillCmd())
	cmd.AddCommand(gamesRefreshCmd())
	cmd.AddCommand(gamesReprocessCmd())
	return cmd
}

func gamesBackfillCmd() *cobra.Command {
	var season string
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Ingest every completed game of a season up to yesterday",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(func(ctx context.Context, d *deps) error {
				result, err := d.runner().Backfill(ctx, season)
				logger.Info("Backfill finished", "summary", result.Summary())
				return err
			})
		},
	}
	cmd.Flags().StringVar(&season, "season", "", "Season (defaults to NHL_SEASON)")
	return cmd
}

func gamesRefreshCmd() *cobra.Command {
	var since string
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Ingest games from the day after the cursor through yesterday",
		RunE: func(cmd *cobra.Command, args []string) error {
			if since != "" {
				if _, err := time.Parse(ingest.DateLayout, since); err != nil {
					return fmt.Errorf("--since must be YYYY-MM-DD: %w", err)
				}
			}
			return runSeed(func(ctx context.Context, d *deps) error {
				result, err := d.runner().Refresh(ctx, since)
				logger.Info("Refresh finished", "summary", result.Summary())
				return err
			})
		},
	}
	cmd.Flags().StringVar(&since, "since", "", "First date to ingest (YYYY-MM-DD), overrides the cursor")
	return cmd
}

func gamesReprocessCmd() *cobra.Command {
	var ids []int64
	cmd := &cobra.Command{
		Use:   "reprocess [ids...]",
		Short: "Re-ingest specific games without moving the cursor",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range args {
				id, err := strconv.ParseInt(a, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid game id %q: %w", a, err)
				}
				ids = append(ids, id)
			}
			if len(ids) == 0 {
				return fmt.Errorf("--id is required")
			}
			return runSeed(func(ctx context.Context, d *deps) error {
				result, err := d.runner().Games(ctx, ids)
				logger.Info("Reprocess finished", "summary", result.Summary())
				return err
			})
		},
	}
	cmd.Flags().Int64SliceVar(&ids, "id", nil, "Game ID to reprocess (repeatable)")
	return cmd
}

// --------------------------------------------------------------------------
// migrate command
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(func(m *db.Migrator) error { return m.Up() })
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1 step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("steps must be a positive integer, got %q", args[0])
				}
				steps = n
			}
			return runMigrate(func(m *db.Migrator) error { return m.Down(steps) })
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(func(m *db.Migrator) error {
				version, dirty, ok, err := m.Version()
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("no migrations applied")
					return nil
				}
				fmt.Printf("version %d (dirty=%t)\n", version, dirty)
				return nil
			})
		},
	})
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// runSeed handles config loading, DB connection, provider wiring and context
// cancellation.
func runSeed(fn func(ctx context.Context, d *deps) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := db.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer store.Close()

	d := &deps{
		cfg:   cfg,
		store: store,
		client: nhl.NewClient(cfg.NHLAPIBaseURL, cfg.NHLStatsBaseURL, cfg.NHLRequestsPerMinute,
			cfg.NHLHTTPTimeout, logger.With("component", "nhl")),
		exec: retry.New(cfg.Retries, cfg.RetryDelay, logger.With("component", "retry")),
	}
	return fn(ctx, d)
}

// runMigrate opens a migrator on DATABASE_URL. It does not need the rest of
// the configuration to be valid.
func runMigrate(fn func(m *db.Migrator) error) error {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return fmt.Errorf("DATABASE_URL must be set")
	}
	m, err := db.NewMigrator(url, logger.With("component", "migrate"))
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}
