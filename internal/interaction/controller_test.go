package interaction

import (
	"errors"
	"testing"

	"priceview/internal/selection"
)

var products = []string{"Widget", "Gizmo", "Doohickey"}

func resolved(product string, r selection.RangeToken) State {
	return State{Selection: selection.Selection{Product: product, Range: r}, Resolved: true}
}

func TestInitialLoadDefaults(t *testing.T) {
	got, err := Resolve(products, State{}, Event{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := selection.Selection{Product: "Widget", Range: selection.AllTime}
	if got.Selection != want || !got.Resolved {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	got, _ = Resolve(products, State{}, Event{Product: "Gizmo"})
	if got.Selection.Product != "Gizmo" || got.Selection.Range != selection.AllTime {
		t.Fatalf("initial load should honour the dropdown value, got %+v", got.Selection)
	}
}

func TestDropdownKeepsPriorRange(t *testing.T) {
	prior := resolved("Widget", selection.LastSixMonths)

	got, err := Resolve(products, prior, Event{Product: "Gizmo", Trigger: TriggerProduct})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := selection.Selection{Product: "Gizmo", Range: selection.LastSixMonths}
	if got.Selection != want {
		t.Fatalf("expected %+v, got %+v", want, got.Selection)
	}
}

func TestDropdownWithoutPriorDefaultsToAllTime(t *testing.T) {
	got, err := Resolve(products, State{}, Event{Product: "Gizmo", Trigger: TriggerProduct})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Selection.Range != selection.AllTime {
		t.Fatalf("expected all-time, got %s", got.Selection.Range)
	}
}

func TestButtonKeepsProduct(t *testing.T) {
	prior := resolved("Gizmo", selection.AllTime)

	cases := map[TriggerID]selection.RangeToken{
		TriggerLastMonth:     selection.LastMonth,
		TriggerLastSixMonths: selection.LastSixMonths,
		TriggerAllTime:       selection.AllTime,
	}
	for trigger, want := range cases {
		got, err := Resolve(products, prior, Event{Product: "Gizmo", Trigger: trigger})
		if err != nil {
			t.Fatalf("%s: %v", trigger, err)
		}
		if got.Selection.Product != "Gizmo" || got.Selection.Range != want {
			t.Fatalf("%s: expected (Gizmo, %s), got %+v", trigger, want, got.Selection)
		}
	}
}

func TestInferredTriggers(t *testing.T) {
	prior := resolved("Widget", selection.LastMonth)
	prior.Clicks = Clicks{LastMonth: 1}

	got, err := Resolve(products, prior, Event{Product: "Widget", Clicks: Clicks{LastMonth: 1, LastSixMonths: 1}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Selection != (selection.Selection{Product: "Widget", Range: selection.LastSixMonths}) {
		t.Fatalf("button counter increase should switch range, got %+v", got.Selection)
	}
	if got.Clicks.LastSixMonths != 1 {
		t.Fatal("resolved state should carry the new counters")
	}

	got, err = Resolve(products, prior, Event{Product: "Doohickey", Clicks: prior.Clicks})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Selection != (selection.Selection{Product: "Doohickey", Range: selection.LastMonth}) {
		t.Fatalf("dropdown change should keep range, got %+v", got.Selection)
	}

	got, err = Resolve(products, prior, Event{Product: "Widget", Clicks: prior.Clicks})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Selection != prior.Selection {
		t.Fatalf("no change should keep the prior selection, got %+v", got.Selection)
	}
}

func TestExplicitTriggerWinsOverCounters(t *testing.T) {
	prior := resolved("Widget", selection.AllTime)

	got, err := Resolve(products, prior, Event{Product: "Gizmo", Trigger: TriggerProduct, Clicks: Clicks{LastMonth: 3}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.Selection != (selection.Selection{Product: "Gizmo", Range: selection.AllTime}) {
		t.Fatalf("explicit dropdown trigger should win, got %+v", got.Selection)
	}
}

func TestResolveErrors(t *testing.T) {
	if _, err := Resolve(nil, State{}, Event{}); !errors.Is(err, ErrNoProducts) {
		t.Fatalf("expected ErrNoProducts, got %v", err)
	}
	if _, err := Resolve(products, State{}, Event{Trigger: "btn-1y"}); !errors.Is(err, ErrUnknownTrigger) {
		t.Fatalf("expected ErrUnknownTrigger, got %v", err)
	}

	prior := resolved("Widget", selection.AllTime)
	_, err := Resolve(products, prior, Event{Product: "Gizmo", Clicks: Clicks{AllTime: 1}})
	if !errors.Is(err, ErrAmbiguousTrigger) {
		t.Fatalf("expected ErrAmbiguousTrigger, got %v", err)
	}
}

func TestButtonFor(t *testing.T) {
	for _, r := range selection.Ranges() {
		id := ButtonFor(r)
		if buttonRanges[id] != r {
			t.Fatalf("ButtonFor(%s) = %q", r, id)
		}
	}
}
