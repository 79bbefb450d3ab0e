package selection

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"priceview/internal/history"
)

// Selection is the resolved (product, range) pair driving a single render.
type Selection struct {
	Product string     `json:"product" yaml:"product"`
	Range   RangeToken `json:"range" yaml:"range"`
}

// Point is one plotted (date, price) pair.
type Point struct {
	Date  time.Time       `json:"date" yaml:"date"`
	Price decimal.Decimal `json:"price" yaml:"price"`
}

// Stats summarises a filtered series.
type Stats struct {
	High   Point `json:"high" yaml:"high"`
	Low    Point `json:"low" yaml:"low"`
	Latest Point `json:"latest" yaml:"latest"`
}

// Result is the outcome of a selection.
type Result struct {
	Selection     Selection `json:"selection" yaml:"selection"`
	Series        []Point   `json:"series" yaml:"series"`
	Stats         Stats     `json:"stats" yaml:"stats"`
	ReferenceDate time.Time `json:"reference_date" yaml:"reference_date"`
	Cutoff        time.Time `json:"cutoff" yaml:"cutoff"`
	Bounded       bool      `json:"bounded" yaml:"bounded"`
}

// EmptySeriesError is returned when the range filter leaves no observations.
type EmptySeriesError struct {
	Product string
	Range   RangeToken
	Cutoff  time.Time
}

func (e *EmptySeriesError) Error() string {
	if e.Cutoff.IsZero() {
		return fmt.Sprintf("no observations for %q in range %s", e.Product, e.Range)
	}
	return fmt.Sprintf("no observations for %q in range %s (since %s)", e.Product, e.Range, e.Cutoff.Format(time.DateOnly))
}

// ObservationReader is the part of the observation store the engine needs.
type ObservationReader interface {
	ObservationsFor(product string) ([]history.Observation, error)
}

var _ ObservationReader = (*history.Store)(nil)

// Select filters the product's observations to the selected range and computes its stats.
// The reference date is the latest observation of the product's full history.
func Select(store ObservationReader, sel Selection) (Result, error) {
	if !sel.Range.Valid() {
		return Result{}, fmt.Errorf("select %q: %w %d", sel.Product, ErrUnknownRange, int(sel.Range))
	}

	observations, err := store.ObservationsFor(sel.Product)
	if err != nil {
		return Result{}, err
	}

	reference := referenceDate(observations)
	cutoff, bounded := Resolve(sel.Range, reference)

	series := make([]Point, 0, len(observations))
	for _, o := range observations {
		if bounded && o.Date.Before(cutoff) {
			continue
		}
		series = append(series, Point{Date: o.Date, Price: o.Price})
	}

	if len(series) == 0 {
		return Result{}, &EmptySeriesError{Product: sel.Product, Range: sel.Range, Cutoff: cutoff}
	}

	result := Result{
		Selection:     sel,
		Series:        series,
		Stats:         Summarize(series),
		ReferenceDate: reference,
		Bounded:       bounded,
	}
	if bounded {
		result.Cutoff = cutoff
	}
	return result, nil
}

// Summarize computes high, low and latest over a date-ascending series.
// Price ties resolve to the earliest date; date ties resolve to the last element.
func Summarize(series []Point) Stats {
	if len(series) == 0 {
		return Stats{}
	}
	stats := Stats{High: series[0], Low: series[0], Latest: series[0]}
	for _, p := range series[1:] {
		if p.Price.GreaterThan(stats.High.Price) {
			stats.High = p
		}
		if p.Price.LessThan(stats.Low.Price) {
			stats.Low = p
		}
		if !p.Date.Before(stats.Latest.Date) {
			stats.Latest = p
		}
	}
	return stats
}

func referenceDate(observations []history.Observation) time.Time {
	var ref time.Time
	for _, o := range observations {
		if o.Date.After(ref) {
			ref = o.Date
		}
	}
	return ref
}
