package service

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"priceview/internal/history"
	"priceview/internal/interaction"
	"priceview/internal/metrics"
	"priceview/internal/selection"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func obs(product string, date time.Time, price string) history.Observation {
	return history.Observation{Product: product, Date: date, Price: decimal.RequireFromString(price)}
}

func newTestViewer(t *testing.T) *Viewer {
	t.Helper()
	store, err := history.NewStore([]history.Observation{
		obs("Widget", day(2025, 3, 1), "8"),
		obs("Widget", day(2025, 1, 1), "10"),
		obs("Widget", day(2025, 2, 1), "15"),
		obs("Gizmo", day(2025, 1, 5), "3.5"),
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return NewViewer(store, metrics.New(prometheus.NewRegistry()), zerolog.Nop())
}

// emptyCatalog lists a product that has no observations.
type emptyCatalog struct{}

func (emptyCatalog) Products() []string { return []string{"Ghost"} }
func (emptyCatalog) ObservationsFor(string) ([]history.Observation, error) {
	return nil, nil
}

func TestUpdateInitialLoad(t *testing.T) {
	v := newTestViewer(t)

	frame, err := v.Update(interaction.State{}, interaction.Event{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if frame.State.Selection != (selection.Selection{Product: "Widget", Range: selection.AllTime}) {
		t.Fatalf("unexpected selection %+v", frame.State.Selection)
	}
	if frame.Chart.Title != "Widget Price Trend" || len(frame.Chart.Dates) != 3 {
		t.Fatalf("unexpected chart %+v", frame.Chart)
	}

	want := StatsText{
		Product: StatLine{Text: "Product: Widget"},
		Highest: StatLine{Text: "Highest: $15 on 2025-02-01", Color: ColorHigh},
		Lowest:  StatLine{Text: "Lowest: $8 on 2025-03-01", Color: ColorLow},
		Current: StatLine{Text: "Current: $8 on 2025-03-01", Color: ColorCurrent},
	}
	if frame.Stats != want {
		t.Fatalf("expected %+v, got %+v", want, frame.Stats)
	}
	if frame.Notice != "" {
		t.Fatalf("unexpected notice %q", frame.Notice)
	}
}

func TestUpdateButtonThenDropdown(t *testing.T) {
	v := newTestViewer(t)

	first, err := v.Update(interaction.State{}, interaction.Event{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	month, err := v.Update(first.State, interaction.Event{Product: "Widget", Trigger: interaction.TriggerLastMonth})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(month.Chart.Dates) != 2 {
		t.Fatalf("last month should keep 2 points, got %d", len(month.Chart.Dates))
	}

	gizmo, err := v.Update(month.State, interaction.Event{Product: "Gizmo", Trigger: interaction.TriggerProduct})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if gizmo.State.Selection.Range != selection.LastMonth {
		t.Fatalf("dropdown change should keep the range, got %s", gizmo.State.Selection.Range)
	}
	if gizmo.Stats.Current.Text != "Current: $3.5 on 2025-01-05" {
		t.Fatalf("unexpected current line %q", gizmo.Stats.Current.Text)
	}
}

func TestUpdateUnknownProduct(t *testing.T) {
	v := newTestViewer(t)

	_, err := v.Update(interaction.State{}, interaction.Event{Product: "Gadget", Trigger: interaction.TriggerProduct})
	var unknown *history.UnknownProductError
	if !errors.As(err, &unknown) || unknown.Product != "Gadget" {
		t.Fatalf("expected UnknownProductError for Gadget, got %v", err)
	}
}

func TestUpdateEmptyRange(t *testing.T) {
	v := NewViewer(emptyCatalog{}, nil, zerolog.Nop())

	frame, err := v.Update(interaction.State{}, interaction.Event{})
	if err != nil {
		t.Fatalf("empty range should not fail: %v", err)
	}
	if frame.Notice != NoticeEmpty {
		t.Fatalf("expected notice %q, got %q", NoticeEmpty, frame.Notice)
	}
	if !frame.Chart.Empty() || frame.Chart.Title != "Ghost Price Trend" {
		t.Fatalf("expected empty chart, got %+v", frame.Chart)
	}
	if lines := frame.Stats.Lines(); len(lines) != 1 {
		t.Fatalf("only the product line should be shown, got %+v", lines)
	}
}

func TestUpdateControllerErrors(t *testing.T) {
	v := newTestViewer(t)
	if _, err := v.Update(interaction.State{}, interaction.Event{Trigger: "btn-1y"}); !errors.Is(err, interaction.ErrUnknownTrigger) {
		t.Fatalf("expected ErrUnknownTrigger, got %v", err)
	}
}

func TestFormatPrice(t *testing.T) {
	cases := map[string]string{"15": "$15", "12.50": "$12.5", "0.99": "$0.99"}
	for in, want := range cases {
		if got := FormatPrice(decimal.RequireFromString(in)); got != want {
			t.Fatalf("FormatPrice(%s) = %q, want %q", in, got, want)
		}
	}
}
