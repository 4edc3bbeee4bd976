package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/kaitlynwarhurst/NHL-Data-Fun/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

var _ DB = (*Pool)(nil)

// NewPostgres creates and validates a new connection pool.
func NewPostgres(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// Dialect reports Postgres.
func (p *Pool) Dialect() string { return Postgres }

// Exec runs a statement written with "?" placeholders.
func (p *Pool) Exec(ctx context.Context, query string, args ...any) error {
	return pgExec(ctx, p.Pool, query, args...)
}

// QueryRow runs a single-row query written with "?" placeholders.
func (p *Pool) QueryRow(ctx context.Context, query string, args ...any) Row {
	return pgRow{p.Pool.QueryRow(ctx, rebindPG(query), args...)}
}

// Query runs a multi-row query written with "?" placeholders.
func (p *Pool) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	return pgQuery(ctx, p.Pool, query, args...)
}

// InTx runs fn in a transaction; commit on nil, rollback otherwise.
func (p *Pool) InTx(ctx context.Context, fn func(tx Querier) error) error {
	tx, err := p.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// Rollback after a successful Commit is a no-op.
	defer tx.Rollback(context.Background())

	if err := fn(pgTx{tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type pgTx struct{ tx pgx.Tx }

func (t pgTx) Exec(ctx context.Context, query string, args ...any) error {
	_, err := t.tx.Exec(ctx, rebindPG(query), args...)
	return err
}

func (t pgTx) QueryRow(ctx context.Context, query string, args ...any) Row {
	return pgRow{t.tx.QueryRow(ctx, rebindPG(query), args...)}
}

func (t pgTx) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := t.tx.Query(ctx, rebindPG(query), args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func pgExec(ctx context.Context, pool *pgxpool.Pool, query string, args ...any) error {
	_, err := pool.Exec(ctx, rebindPG(query), args...)
	return err
}

func pgQuery(ctx context.Context, pool *pgxpool.Pool, query string, args ...any) (Rows, error) {
	rows, err := pool.Query(ctx, rebindPG(query), args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type pgRow struct{ row pgx.Row }

func (r pgRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoRows
	}
	return err
}

func rebindPG(query string) string {
	return sqlx.Rebind(bindType(Postgres), query)
}
