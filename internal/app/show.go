package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"priceview/internal/selection"
	"priceview/internal/service"
)

// Output formats understood by Show.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

type reportPoint struct {
	Price string `json:"price" yaml:"price"`
	Date  string `json:"date" yaml:"date"`
}

type showReport struct {
	Product       string               `json:"product" yaml:"product"`
	Range         selection.RangeToken `json:"range" yaml:"range"`
	ReferenceDate string               `json:"reference_date,omitempty" yaml:"reference_date,omitempty"`
	Cutoff        string               `json:"cutoff,omitempty" yaml:"cutoff,omitempty"`
	Points        int                  `json:"points" yaml:"points"`
	Highest       *reportPoint         `json:"highest,omitempty" yaml:"highest,omitempty"`
	Lowest        *reportPoint         `json:"lowest,omitempty" yaml:"lowest,omitempty"`
	Current       *reportPoint         `json:"current,omitempty" yaml:"current,omitempty"`
	Notice        string               `json:"notice,omitempty" yaml:"notice,omitempty"`
}

// Show prints the stats of one selection.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = FormatTable
	}
	if format != FormatTable && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("unsupported format %q", opts.Format)
	}

	store, err := a.loadStore(ctx)
	if err != nil {
		return err
	}
	sel, err := resolveSelection(store, opts.Product, opts.Range)
	if err != nil {
		return err
	}

	viewer := a.newViewer(store, nil)
	res, err := viewer.Select(sel)
	report := showReport{Product: sel.Product, Range: sel.Range}
	var empty *selection.EmptySeriesError
	switch {
	case errors.As(err, &empty):
		report.Notice = service.NoticeEmpty
	case err != nil:
		return err
	default:
		report.ReferenceDate = res.ReferenceDate.Format(time.DateOnly)
		if res.Bounded {
			report.Cutoff = res.Cutoff.Format(time.DateOnly)
		}
		report.Points = len(res.Series)
		report.Highest = newReportPoint(res.Stats.High)
		report.Lowest = newReportPoint(res.Stats.Low)
		report.Current = newReportPoint(res.Stats.Latest)
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(a.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case FormatYAML:
		enc := yaml.NewEncoder(a.Out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	}

	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "Product\t%s\n", report.Product)
	fmt.Fprintf(writer, "Range\t%s\n", report.Range)
	if report.Notice != "" {
		fmt.Fprintf(writer, "Notice\t%s\n", report.Notice)
		return writer.Flush()
	}
	if report.Cutoff != "" {
		fmt.Fprintf(writer, "Since\t%s\n", report.Cutoff)
	}
	fmt.Fprintf(writer, "Points\t%d\n", report.Points)
	stats := service.NewStatsText(sel.Product, res.Stats)
	for _, line := range []service.StatLine{stats.Highest, stats.Lowest, stats.Current} {
		label, value, _ := strings.Cut(line.Text, ": ")
		fmt.Fprintf(writer, "%s\t%s\n", label, value)
	}
	return writer.Flush()
}

func newReportPoint(p selection.Point) *reportPoint {
	return &reportPoint{Price: service.FormatPrice(p.Price), Date: p.Date.Format(time.DateOnly)}
}
