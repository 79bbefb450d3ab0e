package source

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"priceview/internal/history"
)

// XLSXOptions parameterise a spreadsheet source.
type XLSXOptions struct {
	Path string
	// Sheet defaults to the first sheet of the workbook.
	Sheet string
	// DateColumn names the column whose numeric cells are spreadsheet date serials.
	DateColumn string
}

// XLSX reads observations from an Excel workbook.
type XLSX struct {
	opts   XLSXOptions
	logger zerolog.Logger
}

// NewXLSX constructs a workbook source.
func NewXLSX(opts XLSXOptions, logger zerolog.Logger) *XLSX {
	if opts.DateColumn == "" {
		opts.DateColumn = history.DefaultColumns().Date
	}
	return &XLSX{
		opts:   opts,
		logger: logger.With().Str("component", "xlsx_source").Logger(),
	}
}

// Name identifies the source in errors and logs.
func (x *XLSX) Name() string { return x.opts.Path }

// Fetch reads the configured sheet. The first non-empty row is the header.
func (x *XLSX) Fetch(ctx context.Context) (history.Table, error) {
	if x.opts.Path == "" {
		return history.Table{}, errors.New("xlsx path is required")
	}
	f, err := excelize.OpenFile(x.opts.Path)
	if err != nil {
		return history.Table{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			x.logger.Warn().Err(err).Msg("close workbook")
		}
	}()

	sheet := x.opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return history.Table{}, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return history.Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if err := ctx.Err(); err != nil {
		return history.Table{}, err
	}

	for len(rows) > 0 && blank(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return history.Table{}, fmt.Errorf("sheet %q is empty", sheet)
	}

	table := history.Table{Header: rows[0], Rows: rows[1:]}
	dateIdx := -1
	for i, name := range table.Header {
		if strings.EqualFold(strings.TrimSpace(name), x.opts.DateColumn) {
			dateIdx = i
			break
		}
	}
	if dateIdx >= 0 {
		for _, row := range table.Rows {
			if dateIdx < len(row) {
				row[dateIdx] = serialToDate(row[dateIdx])
			}
		}
	}

	x.logger.Debug().Str("sheet", sheet).Int("rows", len(table.Rows)).Msg("read workbook")
	return table, nil
}

// serialToDate converts a spreadsheet date serial to an ISO date and leaves
// anything else untouched.
func serialToDate(cell string) string {
	serial, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || serial <= 0 {
		return cell
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return cell
	}
	return t.Format(dateLayout)
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

var _ history.Source = (*XLSX)(nil)
