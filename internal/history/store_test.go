package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type staticSource struct {
	table Table
	err   error
}

func (s staticSource) Name() string { return "static" }

func (s staticSource) Fetch(ctx context.Context) (Table, error) {
	return s.table, s.err
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLoadGroupsAndSortsByDate(t *testing.T) {
	src := staticSource{table: Table{
		Header: []string{"Product", "Date", "Price_USD"},
		Rows: [][]string{
			{"Widget", "2025-03-01", "8"},
			{"Gizmo", "2025-01-15", "99.5"},
			{"Widget", "2025-01-01", "10"},
			{"Widget", "2025-02-01", "15"},
		},
	}}

	store, err := Load(context.Background(), src, LoadOptions{})
	if err != nil {
		t.Fatalf("load should succeed: %v", err)
	}

	products := store.Products()
	if len(products) != 2 || products[0] != "Widget" || products[1] != "Gizmo" {
		t.Fatalf("products should keep source order, got %v", products)
	}
	if store.Len() != 4 {
		t.Fatalf("expected 4 observations, got %d", store.Len())
	}

	obs, err := store.ObservationsFor("Widget")
	if err != nil {
		t.Fatalf("Widget should be known: %v", err)
	}
	want := []time.Time{date(2025, 1, 1), date(2025, 2, 1), date(2025, 3, 1)}
	for i, o := range obs {
		if !o.Date.Equal(want[i]) {
			t.Fatalf("observation %d: expected %s, got %s", i, want[i], o.Date)
		}
		if o.Product != "Widget" {
			t.Fatalf("observation %d filed under wrong product %q", i, o.Product)
		}
	}

	first, last, err := store.Span("Widget")
	if err != nil || !first.Equal(want[0]) || !last.Equal(want[2]) {
		t.Fatalf("unexpected span %s..%s (%v)", first, last, err)
	}
}

func TestLoadKeepsSourceOrderForDuplicateDates(t *testing.T) {
	src := staticSource{table: Table{
		Header: []string{"Date", "Price_USD", "Product"},
		Rows: [][]string{
			{"2025-01-02", "5", "Widget"},
			{"2025-01-01", "7", "Widget"},
			{"2025-01-02", "6", "Widget"},
		},
	}}

	store, err := Load(context.Background(), src, LoadOptions{})
	if err != nil {
		t.Fatalf("load should succeed: %v", err)
	}
	obs, _ := store.ObservationsFor("Widget")
	if !obs[1].Price.Equal(decimal.NewFromInt(5)) || !obs[2].Price.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("equal dates should keep source order, got %v then %v", obs[1].Price, obs[2].Price)
	}
}

func TestObservationsForReturnsCopy(t *testing.T) {
	store, err := NewStore([]Observation{{Product: "Widget", Date: date(2025, 1, 1), Price: decimal.NewFromInt(1)}})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	obs, _ := store.ObservationsFor("Widget")
	obs[0].Price = decimal.NewFromInt(100)

	again, _ := store.ObservationsFor("Widget")
	if !again[0].Price.Equal(decimal.NewFromInt(1)) {
		t.Fatal("store must not be mutated through returned slices")
	}
}

func TestObservationsForUnknownProduct(t *testing.T) {
	store, _ := NewStore([]Observation{{Product: "Widget", Date: date(2025, 1, 1), Price: decimal.NewFromInt(1)}})

	_, err := store.ObservationsFor("Gadget")
	var unknown *UnknownProductError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownProductError, got %v", err)
	}
	if unknown.Product != "Gadget" {
		t.Fatalf("error should name the product, got %q", unknown.Product)
	}
	if store.Has("Gadget") || store.Count("Gadget") != 0 {
		t.Fatal("unknown products must not have buckets")
	}
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		src  Source
	}{
		{"nil source", nil},
		{"fetch failure", staticSource{err: errors.New("file not found")}},
		{"missing column", staticSource{table: Table{Header: []string{"Product", "Date"}, Rows: [][]string{{"Widget", "2025-01-01"}}}}},
		{"bad date", staticSource{table: Table{Header: []string{"Product", "Date", "Price_USD"}, Rows: [][]string{{"Widget", "yesterday", "1"}}}}},
		{"bad price", staticSource{table: Table{Header: []string{"Product", "Date", "Price_USD"}, Rows: [][]string{{"Widget", "2025-01-01", "abc"}}}}},
		{"negative price", staticSource{table: Table{Header: []string{"Product", "Date", "Price_USD"}, Rows: [][]string{{"Widget", "2025-01-01", "-1"}}}}},
		{"empty product", staticSource{table: Table{Header: []string{"Product", "Date", "Price_USD"}, Rows: [][]string{{" ", "2025-01-01", "1"}}}}},
		{"short row", staticSource{table: Table{Header: []string{"Product", "Date", "Price_USD"}, Rows: [][]string{{"Widget", "2025-01-01"}}}}},
		{"no rows", staticSource{table: Table{Header: []string{"Product", "Date", "Price_USD"}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(context.Background(), tc.src, LoadOptions{})
			var loadErr *LoadError
			if !errors.As(err, &loadErr) {
				t.Fatalf("expected LoadError, got %v", err)
			}
		})
	}
}

func TestParseTableCustomColumnsAndLayouts(t *testing.T) {
	table := Table{
		Header: []string{"\ufeffitem", "day", "usd"},
		Rows: [][]string{
			{"Widget", "03/01/2025", "$1,200.50"},
			{"", "", ""},
		},
	}
	obs, err := ParseTable(table, LoadOptions{
		Columns:     Columns{Product: "item", Date: "day", Price: "usd"},
		DateLayouts: []string{"01/02/2006"},
	})
	if err != nil {
		t.Fatalf("parse should succeed: %v", err)
	}
	if len(obs) != 1 {
		t.Fatalf("blank rows should be skipped, got %d observations", len(obs))
	}
	if !obs[0].Date.Equal(date(2025, 3, 1)) {
		t.Fatalf("unexpected date %s", obs[0].Date)
	}
	if !obs[0].Price.Equal(decimal.RequireFromString("1200.50")) {
		t.Fatalf("unexpected price %s", obs[0].Price)
	}
}

func TestParseDateTruncatesToDay(t *testing.T) {
	got, err := ParseDate("2025-02-01T18:30:00+02:00", DefaultDateLayouts)
	if err != nil {
		t.Fatalf("parse should succeed: %v", err)
	}
	if !got.Equal(date(2025, 2, 1)) {
		t.Fatalf("expected calendar day 2025-02-01, got %s", got)
	}
}
