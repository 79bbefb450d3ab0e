package render

import (
	"errors"
	"fmt"
	"io"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"priceview/internal/selection"
)

// Chart presentation defaults.
const (
	XTitle    = "Date"
	YTitle    = "Price (USD)"
	HoverMode = "x unified"
	Template  = "plotly_dark"
)

// ChartSpec describes a price trend chart independently of how it is drawn.
type ChartSpec struct {
	Title     string      `json:"title"`
	XTitle    string      `json:"x_title"`
	YTitle    string      `json:"y_title"`
	Dates     []time.Time `json:"x"`
	Prices    []float64   `json:"y"`
	Markers   bool        `json:"markers"`
	HoverMode string      `json:"hover_mode"`
	Template  string      `json:"template"`
}

// Options control raster output.
type Options struct {
	Width  int
	Height int
}

// Title returns the chart title for product.
func Title(product string) string {
	return product + " Price Trend"
}

// NewChartSpec builds the chart for a product's points, which may be empty.
func NewChartSpec(product string, points []selection.Point) ChartSpec {
	spec := ChartSpec{
		Title:     Title(product),
		XTitle:    XTitle,
		YTitle:    YTitle,
		Dates:     make([]time.Time, len(points)),
		Prices:    make([]float64, len(points)),
		Markers:   true,
		HoverMode: HoverMode,
		Template:  Template,
	}
	for i, p := range points {
		spec.Dates[i] = p.Date
		spec.Prices[i] = p.Price.InexactFloat64()
	}
	return spec
}

// Empty reports whether the chart has nothing to plot.
func (s ChartSpec) Empty() bool {
	return len(s.Dates) == 0
}

var (
	colorBackground = drawing.ColorFromHex("111111")
	colorCanvas     = drawing.ColorFromHex("1e1e1e")
	colorText       = drawing.ColorFromHex("f2f5fa")
	colorGrid       = drawing.ColorFromHex("283442")
	colorLine       = drawing.ColorFromHex("636efa")
)

func darkAxisStyle() chart.Style {
	return chart.Style{
		FontColor:   colorText,
		StrokeColor: colorGrid,
	}
}

// PNG draws spec as a PNG image.
func PNG(w io.Writer, spec ChartSpec, opts Options) error {
	if len(spec.Dates) != len(spec.Prices) {
		return errors.New("chart dates and prices differ in length")
	}
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 720
	}

	priceFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "$%.2f")
	}

	lineStyle := chart.Style{
		StrokeColor: colorLine,
		StrokeWidth: 2,
	}
	if spec.Markers {
		lineStyle.DotColor = colorLine
		lineStyle.DotWidth = 4
	}

	series := chart.TimeSeries{
		Name:    "Price",
		XValues: spec.Dates,
		YValues: spec.Prices,
		Style:   lineStyle,
	}

	title := spec.Title
	if spec.Empty() {
		// go-chart needs at least one plottable series, so draw an invisible one.
		now := time.Now().UTC()
		series.XValues = []time.Time{now.AddDate(0, 0, -1), now}
		series.YValues = []float64{0, 1}
		series.Style = chart.Style{StrokeColor: drawing.ColorTransparent, DotColor: drawing.ColorTransparent}
		title = fmt.Sprintf("%s (no data in range)", spec.Title)
	}

	graph := chart.Chart{
		Title:      title,
		TitleStyle: chart.Style{FontColor: colorText},
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{
			FillColor: colorBackground,
			Padding:   chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		Canvas: chart.Style{FillColor: colorCanvas},
		XAxis: chart.XAxis{
			Name:           spec.XTitle,
			NameStyle:      chart.Style{FontColor: colorText},
			Style:          darkAxisStyle(),
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           spec.YTitle,
			NameStyle:      chart.Style{FontColor: colorText},
			Style:          darkAxisStyle(),
			ValueFormatter: priceFormatter,
		},
		Series: []chart.Series{series},
	}
	x, y := axisRanges(spec)
	if x != nil {
		graph.XAxis.Range = x
	}
	if y != nil {
		graph.YAxis.Range = y
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph, chart.Style{
		FillColor:   colorCanvas,
		FontColor:   colorText,
		StrokeColor: colorGrid,
	})}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// axisRanges pads degenerate ranges; go-chart refuses to draw a zero-width axis.
func axisRanges(spec ChartSpec) (x, y *chart.ContinuousRange) {
	if spec.Empty() {
		return nil, nil
	}

	first, last := spec.Dates[0], spec.Dates[0]
	for _, d := range spec.Dates {
		if d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}
	if first.Equal(last) {
		x = &chart.ContinuousRange{
			Min: chart.TimeToFloat64(first.AddDate(0, 0, -1)),
			Max: chart.TimeToFloat64(last.AddDate(0, 0, 1)),
		}
	}

	low, high := spec.Prices[0], spec.Prices[0]
	for _, p := range spec.Prices {
		low = min(low, p)
		high = max(high, p)
	}
	if low == high {
		y = &chart.ContinuousRange{Min: low - 1, Max: high + 1}
	}
	return x, y
}
