// Package dbtest opens migrated, file-backed SQLite stores for package tests.
package dbtest

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/db"
)

// Open returns a fresh SQLite store in t.TempDir with the schema applied.
func Open(t testing.TB) db.DB {
	t.Helper()

	url := "sqlite://" + filepath.Join(t.TempDir(), "hockey.db")
	require.NoError(t, db.MigrateUp(url, Logger()))

	store, err := db.NewSQLite(context.Background(), url[len("sqlite://"):])
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

// Logger discards output.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Count returns the number of rows in table.
func Count(t testing.TB, store db.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, store.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

// SeedTeam inserts a minimal team row so foreign keys resolve.
func SeedTeam(t testing.TB, store db.DB, id int64, abbrev string) {
	t.Helper()
	require.NoError(t, store.Exec(context.Background(),
		`INSERT INTO teams (team_id, team_name, team_abbreviation) VALUES (?, ?, ?)`,
		id, abbrev, abbrev))
}
