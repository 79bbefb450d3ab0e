package history

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultDateLayouts are tried in order when no layouts are configured.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
}

// ParseTable converts a raw table into observations in source order.
func ParseTable(t Table, opts LoadOptions) ([]Observation, error) {
	cols := opts.Columns
	if cols == (Columns{}) {
		cols = DefaultColumns()
	}
	layouts := opts.DateLayouts
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}

	productIdx, dateIdx, priceIdx, err := columnIndexes(t.Header, cols)
	if err != nil {
		return nil, err
	}
	width := max(productIdx, dateIdx, priceIdx) + 1

	out := make([]Observation, 0, len(t.Rows))
	for i, row := range t.Rows {
		line := i + 2
		if blankRow(row) {
			continue
		}
		if len(row) < width {
			return nil, fmt.Errorf("row %d: expected at least %d cells, got %d", line, width, len(row))
		}

		product := strings.TrimSpace(row[productIdx])
		if product == "" {
			return nil, fmt.Errorf("row %d: empty %s", line, cols.Product)
		}

		date, err := ParseDate(row[dateIdx], layouts)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		price, err := ParsePrice(row[priceIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		out = append(out, Observation{Product: product, Date: date, Price: price})
	}
	return out, nil
}

// ParseDate parses value with the first matching layout and truncates it to the calendar day.
func ParseDate(value string, layouts []string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", v)
}

// ParsePrice parses a non-negative USD amount, tolerating a leading "$" and thousands separators.
func ParsePrice(value string) (decimal.Decimal, error) {
	v := strings.TrimSpace(value)
	v = strings.TrimPrefix(v, "$")
	v = strings.ReplaceAll(v, ",", "")
	if v == "" {
		return decimal.Decimal{}, errors.New("empty price")
	}
	price, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid price %q: %w", value, err)
	}
	if price.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("negative price %s", price.String())
	}
	return price, nil
}

// Day keeps the calendar date of t, at midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func columnIndexes(header []string, cols Columns) (product, date, price int, err error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	var missing []string
	lookup := func(name string) int {
		i, ok := index[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}
	product = lookup(cols.Product)
	date = lookup(cols.Date)
	price = lookup(cols.Price)

	if len(missing) > 0 {
		return 0, 0, 0, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return product, date, price, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
