package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"priceview/internal/history"
)

// CSVOptions parameterise a delimited file source.
type CSVOptions struct {
	Path      string
	Delimiter rune
}

// CSV reads observations from a delimited text file.
type CSV struct {
	opts   CSVOptions
	logger zerolog.Logger
}

// NewCSV constructs a CSV source.
func NewCSV(opts CSVOptions, logger zerolog.Logger) *CSV {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	return &CSV{
		opts:   opts,
		logger: logger.With().Str("component", "csv_source").Logger(),
	}
}

// Name identifies the source in errors and logs.
func (c *CSV) Name() string { return c.opts.Path }

// Fetch reads the whole file. The first record is the header.
func (c *CSV) Fetch(ctx context.Context) (history.Table, error) {
	if c.opts.Path == "" {
		return history.Table{}, errors.New("csv path is required")
	}
	f, err := os.Open(c.opts.Path)
	if err != nil {
		return history.Table{}, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	return readCSV(ctx, f, c.opts.Delimiter)
}

func readCSV(ctx context.Context, r io.Reader, delim rune) (history.Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	// Trimming would swallow empty fields when the delimiter is itself a space.
	reader.TrimLeadingSpace = !unicode.IsSpace(delim)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return history.Table{}, errors.New("csv is empty")
	}
	if err != nil {
		return history.Table{}, fmt.Errorf("read csv header: %w", err)
	}

	table := history.Table{Header: header}
	for {
		if err := ctx.Err(); err != nil {
			return history.Table{}, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return history.Table{}, fmt.Errorf("read csv: %w", err)
		}
		table.Rows = append(table.Rows, record)
	}
	return table, nil
}

// DelimiterRune returns the first rune of s, or a comma when s is empty.
func DelimiterRune(s string) rune {
	if s == "" {
		return ','
	}
	if s == `\t` {
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

var _ history.Source = (*CSV)(nil)
