package source

import (
	"fmt"

	"github.com/rs/zerolog"

	"priceview/internal/config"
	"priceview/internal/history"
)

// New builds the source selected by cfg.Kind.
func New(cfg config.SourceConfig, logger zerolog.Logger) (history.Source, error) {
	switch cfg.ResolveKind() {
	case config.SourceCSV:
		return NewCSV(CSVOptions{Path: cfg.Path, Delimiter: DelimiterRune(cfg.CSVDelimiter())}, logger), nil
	case config.SourceXLSX:
		_, dateCol, _ := cfg.ColumnNames()
		return NewXLSX(XLSXOptions{Path: cfg.Path, Sheet: cfg.Sheet, DateColumn: dateCol}, logger), nil
	case config.SourceSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = cfg.Path
		}
		return NewSQL(SQLOptions{Driver: DriverSQLite, DSN: dsn, Query: cfg.Query, MaxConns: cfg.MaxConns}, logger), nil
	case config.SourceClickHouse:
		return NewSQL(SQLOptions{Driver: DriverClickHouse, DSN: cfg.DSN, Query: cfg.Query, MaxConns: cfg.MaxConns}, logger), nil
	case config.SourcePostgres:
		return NewPostgres(PostgresOptions{
			DSN:             cfg.DSN,
			Query:           cfg.Query,
			MaxConns:        cfg.MaxConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		}, logger), nil
	case config.SourceHTTP:
		return NewHTTP(HTTPOptions{URL: cfg.URL, Timeout: cfg.Timeout, UserAgent: cfg.UserAgent}, logger), nil
	case "":
		return nil, fmt.Errorf("cannot infer source kind from %q", cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported source kind %q", cfg.Kind)
	}
}

// LoadOptions converts source configuration into history load options.
func LoadOptions(cfg config.SourceConfig) history.LoadOptions {
	product, date, price := cfg.ColumnNames()
	return history.LoadOptions{
		Columns:     history.Columns{Product: product, Date: date, Price: price},
		DateLayouts: cfg.DateLayouts,
	}
}
