// Package postgres wires a pgx connection pool with a squirrel statement builder.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultMaxPoolSize  = 10
	defaultConnTimeout  = 20 * time.Second
	defaultConnAttempts = 5
)

// Executor is implemented by *pgxpool.Pool, pgx.Tx and pgxmock pools.
type Executor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Postgres struct {
	maxPoolSize  int32
	connTimeout  time.Duration
	connAttempts int

	Builder squirrel.StatementBuilderType
	Pool    *pgxpool.Pool
}

// Option configures Postgres.
type Option func(*Postgres)

// MaxPoolSize sets the pool's max connections.
func MaxPoolSize(size int) Option {
	return func(p *Postgres) {
		p.maxPoolSize = int32(size)
	}
}

// ConnAttempts sets how many times the initial ping is retried.
func ConnAttempts(attempts int) Option {
	return func(p *Postgres) {
		p.connAttempts = attempts
	}
}

// New connects to url and waits until the database answers a ping.
func New(url string, opts ...Option) (*Postgres, error) {
	pg := &Postgres{
		maxPoolSize:  defaultMaxPoolSize,
		connTimeout:  defaultConnTimeout,
		connAttempts: defaultConnAttempts,
		Builder:      squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	for _, opt := range opts {
		opt(pg)
	}

	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("postgres - New - pgxpool.ParseConfig: %w", err)
	}
	poolConfig.MaxConns = pg.maxPoolSize

	ctx, cancel := context.WithTimeout(context.Background(), pg.connTimeout)
	defer cancel()

	pg.Pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres - New - pgxpool.NewWithConfig: %w", err)
	}

	for attempt := 1; ; attempt++ {
		err = pg.Pool.Ping(ctx)
		if err == nil {
			return pg, nil
		}
		if attempt >= pg.connAttempts {
			pg.Pool.Close()
			return nil, fmt.Errorf("postgres - New - ping after %d attempts: %w", attempt, err)
		}
		select {
		case <-ctx.Done():
			pg.Pool.Close()
			return nil, fmt.Errorf("postgres - New - ping: %w", ctx.Err())
		case <-time.After(time.Second):
		}
	}
}

// InTransaction runs fn inside a transaction, rolling back when fn fails.
func (p *Postgres) InTransaction(ctx context.Context, fn func(tx Executor) error) error {
	tx, err := p.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Close closes the pool.
func (p *Postgres) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
}
