// Package db provides the relational store used by ingestion. Two backends
// share one interface: a pgxpool-based Postgres pool for deployments and a
// file-backed SQLite database for local analytics and tests.
//
// Statements are written once with "?" placeholders and rebound per dialect,
// so the upsert SQL in the game writer is identical for both backends.
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/config"
)

// ErrNoRows is returned by Row.Scan when a query matched nothing, regardless
// of backend.
var ErrNoRows = errors.New("db: no rows in result set")

// Dialect names.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// Row is a single-row query result.
type Row interface {
	Scan(dest ...any) error
}

// Rows is a multi-row query result. Close must be called.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Querier runs statements. Both DB and the transaction handle passed to
// InTx implement it.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) error
	QueryRow(ctx context.Context, query string, args ...any) Row
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// DB is a connection to the ingestion store.
type DB interface {
	Querier

	// InTx runs fn inside a single transaction. The transaction commits when
	// fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(tx Querier) error) error

	Ping(ctx context.Context) error
	Dialect() string
	Close()
}

// Open connects to the database named by cfg.DatabaseURL. postgres:// and
// postgresql:// URLs use pgxpool; sqlite:// URLs open a local file.
func Open(ctx context.Context, cfg *config.Config) (DB, error) {
	switch {
	case strings.HasPrefix(cfg.DatabaseURL, "postgres://"), strings.HasPrefix(cfg.DatabaseURL, "postgresql://"):
		return NewPostgres(ctx, cfg)
	case strings.HasPrefix(cfg.DatabaseURL, "sqlite://"):
		return NewSQLite(ctx, strings.TrimPrefix(cfg.DatabaseURL, "sqlite://"))
	default:
		return nil, fmt.Errorf("unsupported DATABASE_URL scheme: %q", redactURL(cfg.DatabaseURL))
	}
}

func bindType(dialect string) int {
	if dialect == Postgres {
		return sqlx.DOLLAR
	}
	return sqlx.QUESTION
}

func redactURL(u string) string {
	if i := strings.Index(u, "://"); i >= 0 {
		return u[:i+3] + "..."
	}
	return "..."
}
