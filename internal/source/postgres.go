package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"priceview/internal/history"
)

// PostgresOptions parameterise the PostgreSQL source.
type PostgresOptions struct {
	DSN             string
	Query           string
	MaxConns        int
	ConnMaxLifetime time.Duration
}

// Postgres reads observations through a pgx connection pool.
type Postgres struct {
	opts   PostgresOptions
	logger zerolog.Logger
}

// NewPostgres constructs a PostgreSQL source.
func NewPostgres(opts PostgresOptions, logger zerolog.Logger) *Postgres {
	return &Postgres{
		opts:   opts,
		logger: logger.With().Str("component", "postgres_source").Logger(),
	}
}

// Name identifies the source in errors and logs.
func (p *Postgres) Name() string { return "postgres" }

// NewPool configures a PostgreSQL connection pool.
func NewPool(ctx context.Context, opts PostgresOptions) (*pgxpool.Pool, error) {
	if opts.DSN == "" {
		return nil, errors.New("postgres dsn is required")
	}

	poolConfig, err := pgxpool.ParseConfig(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}
	if opts.MaxConns > 0 {
		poolConfig.MaxConns = int32(opts.MaxConns)
	}
	if opts.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = opts.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	return pool, nil
}

// Fetch runs the configured query and closes the pool once rows are read.
func (p *Postgres) Fetch(ctx context.Context) (history.Table, error) {
	if p.opts.Query == "" {
		return history.Table{}, errors.New("query is required")
	}
	pool, err := NewPool(ctx, p.opts)
	if err != nil {
		return history.Table{}, err
	}
	defer pool.Close()

	rows, err := pool.Query(ctx, p.opts.Query)
	if err != nil {
		return history.Table{}, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var table history.Table
	for _, fd := range rows.FieldDescriptions() {
		table.Header = append(table.Header, fd.Name)
	}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return history.Table{}, fmt.Errorf("read row: %w", err)
		}
		table.Rows = append(table.Rows, formatRow(values))
	}
	if err := rows.Err(); err != nil {
		return history.Table{}, fmt.Errorf("iterate rows: %w", err)
	}

	p.logger.Debug().Int("rows", len(table.Rows)).Msg("query complete")
	return table, nil
}

var _ history.Source = (*Postgres)(nil)
