package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"priceview/internal/history"
)

// SQL drivers registered with database/sql.
const (
	DriverSQLite     = "sqlite"
	DriverClickHouse = "clickhouse"
)

// SQLOptions parameterise a database/sql backed source.
type SQLOptions struct {
	Driver   string
	DSN      string
	Query    string
	MaxConns int
}

// SQL runs a query whose result set is the observation table.
type SQL struct {
	opts   SQLOptions
	logger zerolog.Logger
}

// NewSQL constructs a query source for the sqlite or clickhouse drivers.
func NewSQL(opts SQLOptions, logger zerolog.Logger) *SQL {
	return &SQL{
		opts:   opts,
		logger: logger.With().Str("component", opts.Driver+"_source").Logger(),
	}
}

// Name identifies the source in errors and logs.
func (s *SQL) Name() string { return s.opts.Driver }

// Fetch opens a short-lived connection, runs the query and reads every row.
func (s *SQL) Fetch(ctx context.Context) (history.Table, error) {
	if s.opts.DSN == "" {
		return history.Table{}, fmt.Errorf("%s dsn is required", s.opts.Driver)
	}
	if s.opts.Query == "" {
		return history.Table{}, errors.New("query is required")
	}

	db, err := sql.Open(s.opts.Driver, s.opts.DSN)
	if err != nil {
		return history.Table{}, fmt.Errorf("%s open: %w", s.opts.Driver, err)
	}
	defer db.Close()
	if s.opts.MaxConns > 0 {
		db.SetMaxOpenConns(s.opts.MaxConns)
	}

	if err := db.PingContext(ctx); err != nil {
		return history.Table{}, fmt.Errorf("%s ping: %w", s.opts.Driver, err)
	}

	rows, err := db.QueryContext(ctx, s.opts.Query)
	if err != nil {
		return history.Table{}, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	table, err := scanRows(rows)
	if err != nil {
		return history.Table{}, err
	}
	s.logger.Debug().Int("rows", len(table.Rows)).Msg("query complete")
	return table, nil
}

func scanRows(rows *sql.Rows) (history.Table, error) {
	cols, err := rows.Columns()
	if err != nil {
		return history.Table{}, fmt.Errorf("read columns: %w", err)
	}

	table := history.Table{Header: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return history.Table{}, fmt.Errorf("scan row: %w", err)
		}
		table.Rows = append(table.Rows, formatRow(values))
	}
	if err := rows.Err(); err != nil {
		return history.Table{}, fmt.Errorf("iterate rows: %w", err)
	}
	return table, nil
}

var _ history.Source = (*SQL)(nil)
