package db

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrator applies the embedded schema migrations for the dialect named by
// the database URL.
type Migrator struct {
	m      *migrate.Migrate
	logger *slog.Logger
}

// NewMigrator builds a migrator for databaseURL. Postgres URLs are routed
// through the pgx/v5 migrate driver; sqlite:// URLs use the pure-Go driver.
func NewMigrator(databaseURL string, logger *slog.Logger) (*Migrator, error) {
	dir, url, err := migrationTarget(databaseURL)
	if err != nil {
		return nil, err
	}

	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations %s: %w", dir, err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return &Migrator{m: m, logger: logger}, nil
}

// Up applies every pending migration. No pending change is not an error.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	mg.logVersion("migrations applied")
	return nil
}

// Down rolls back the given number of migrations.
func (mg *Migrator) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("down steps must be > 0")
	}
	if err := mg.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down %d: %w", steps, err)
	}
	mg.logVersion("migrations rolled back")
	return nil
}

// Version returns the applied version. ok is false when nothing has been
// applied yet.
func (mg *Migrator) Version() (version uint, dirty bool, ok bool, err error) {
	version, dirty, err = mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, fmt.Errorf("read version: %w", err)
	}
	return version, dirty, true, nil
}

// Close releases the migration source and database handles.
func (mg *Migrator) Close() {
	srcErr, dbErr := mg.m.Close()
	if srcErr != nil {
		mg.logger.Warn("close migration source", "error", srcErr)
	}
	if dbErr != nil {
		mg.logger.Warn("close migration db", "error", dbErr)
	}
}

func (mg *Migrator) logVersion(msg string) {
	version, dirty, ok, err := mg.Version()
	if err != nil || !ok {
		mg.logger.Info(msg, "version", "none")
		return
	}
	mg.logger.Info(msg, "version", version, "dirty", dirty)
}

// MigrateUp is a convenience for callers that only need the schema current.
func MigrateUp(databaseURL string, logger *slog.Logger) error {
	mg, err := NewMigrator(databaseURL, logger)
	if err != nil {
		return err
	}
	defer mg.Close()
	return mg.Up()
}

func migrationTarget(databaseURL string) (dir, url string, err error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"):
		return "migrations/postgres", "pgx5://" + strings.TrimPrefix(databaseURL, "postgres://"), nil
	case strings.HasPrefix(databaseURL, "postgresql://"):
		return "migrations/postgres", "pgx5://" + strings.TrimPrefix(databaseURL, "postgresql://"), nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return "migrations/sqlite", databaseURL, nil
	default:
		return "", "", fmt.Errorf("unsupported DATABASE_URL scheme: %q", redactURL(databaseURL))
	}
}
