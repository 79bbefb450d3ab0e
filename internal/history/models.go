package history

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Observation is one recorded USD price for a product on a calendar day.
type Observation struct {
	Product string
	Date    time.Time
	Price   decimal.Decimal
}

// Table is the raw tabular payload produced by a data source.
type Table struct {
	Header []string
	Rows   [][]string
}

// Source yields the rows an observation store is built from.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (Table, error)
}

// Columns names the required columns of the input table.
type Columns struct {
	Product string
	Date    string
	Price   string
}

// DefaultColumns returns the column names used by the exported price sheets.
func DefaultColumns() Columns {
	return Columns{Product: "Product", Date: "Date", Price: "Price_USD"}
}

// LoadOptions tune how a table is turned into observations.
type LoadOptions struct {
	Columns     Columns
	DateLayouts []string
}
