package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"priceview/internal/selection"
)

// KPI colour hints.
const (
	ColorHigh    = "green"
	ColorLow     = "red"
	ColorCurrent = "blue"
)

// StatLine is one entry of the KPI bar.
type StatLine struct {
	Text  string `json:"text" yaml:"text"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// StatsText is the rendered KPI bar. Highest, Lowest and Current are empty
// when the selection has no data.
type StatsText struct {
	Product StatLine `json:"product" yaml:"product"`
	Highest StatLine `json:"highest" yaml:"highest"`
	Lowest  StatLine `json:"lowest" yaml:"lowest"`
	Current StatLine `json:"current" yaml:"current"`
}

// Lines returns the non-empty lines in display order.
func (s StatsText) Lines() []StatLine {
	out := make([]StatLine, 0, 4)
	for _, l := range []StatLine{s.Product, s.Highest, s.Lowest, s.Current} {
		if l.Text != "" {
			out = append(out, l)
		}
	}
	return out
}

// FormatPrice renders a USD amount without trailing zeros, e.g. $15 or $12.5.
func FormatPrice(d decimal.Decimal) string {
	return "$" + d.String()
}

// NewStatsText formats stats for product.
func NewStatsText(product string, stats selection.Stats) StatsText {
	return StatsText{
		Product: StatLine{Text: "Product: " + product},
		Highest: StatLine{Text: statLine("Highest", stats.High), Color: ColorHigh},
		Lowest:  StatLine{Text: statLine("Lowest", stats.Low), Color: ColorLow},
		Current: StatLine{Text: statLine("Current", stats.Latest), Color: ColorCurrent},
	}
}

func statLine(label string, p selection.Point) string {
	return fmt.Sprintf("%s: %s on %s", label, FormatPrice(p.Price), p.Date.Format(time.DateOnly))
}
