package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Local is a file-backed SQLite store.
type Local struct {
	*sqlx.DB
}

var _ DB = (*Local)(nil)

// Pragmas applied to every connection through the DSN.
var sqlitePragmas = []string{
	"_pragma=foreign_keys(1)",
	"_pragma=busy_timeout(5000)",
}

// NewSQLite opens (creating if needed) the SQLite database at path. The pool
// is limited to one connection so writes are serialized.
func NewSQLite(ctx context.Context, path string) (*Local, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	dbx, err := sqlx.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	dbx.SetMaxOpenConns(1)

	if err := dbx.PingContext(ctx); err != nil {
		dbx.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &Local{DB: dbx}, nil
}

func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(sqlitePragmas, "&")
}

// Dialect reports SQLite.
func (l *Local) Dialect() string { return SQLite }

// Close releases the database handle.
func (l *Local) Close() { _ = l.DB.Close() }

// Ping verifies the database is reachable.
func (l *Local) Ping(ctx context.Context) error { return l.DB.PingContext(ctx) }

func (l *Local) Exec(ctx context.Context, query string, args ...any) error {
	_, err := l.DB.ExecContext(ctx, query, args...)
	return err
}

func (l *Local) QueryRow(ctx context.Context, query string, args ...any) Row {
	return sqlRow{l.DB.QueryRowContext(ctx, query, args...)}
}

func (l *Local) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := l.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{rows}, nil
}

// InTx runs fn in a transaction; commit on nil, rollback otherwise.
func (l *Local) InTx(ctx context.Context, fn func(tx Querier) error) error {
	tx, err := l.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(sqliteTx{tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type sqliteTx struct{ tx *sqlx.Tx }

func (t sqliteTx) Exec(ctx context.Context, query string, args ...any) error {
	_, err := t.tx.ExecContext(ctx, query, args...)
	return err
}

func (t sqliteTx) QueryRow(ctx context.Context, query string, args ...any) Row {
	return sqlRow{t.tx.QueryRowContext(ctx, query, args...)}
}

func (t sqliteTx) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{rows}, nil
}

type sqlRow struct{ row *sql.Row }

func (r sqlRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoRows
	}
	return err
}

// sqlRows adapts *sql.Rows to Rows, whose Close has no result.
type sqlRows struct{ rows *sql.Rows }

func (r sqlRows) Next() bool             { return r.rows.Next() }
func (r sqlRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r sqlRows) Err() error             { return r.rows.Err() }
func (r sqlRows) Close()                 { _ = r.rows.Close() }
