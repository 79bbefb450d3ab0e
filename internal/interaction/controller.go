package interaction

import (
	"errors"
	"fmt"

	"priceview/internal/selection"
)

// TriggerID names the control that caused an update.
type TriggerID string

const (
	// TriggerNone means the shell could not name a control, e.g. on initial load.
	TriggerNone          TriggerID = ""
	TriggerProduct       TriggerID = "product-dropdown"
	TriggerLastMonth     TriggerID = "btn-1m"
	TriggerLastSixMonths TriggerID = "btn-6m"
	TriggerAllTime       TriggerID = "btn-all"
)

var (
	// ErrNoProducts is returned when there is nothing to select from.
	ErrNoProducts = errors.New("no products available")
	// ErrUnknownTrigger is returned for trigger ids not bound to any control.
	ErrUnknownTrigger = errors.New("unknown trigger")
	// ErrAmbiguousTrigger is returned when more than one control changed in a single update.
	ErrAmbiguousTrigger = errors.New("more than one control changed")
)

var buttonRanges = map[TriggerID]selection.RangeToken{
	TriggerLastMonth:     selection.LastMonth,
	TriggerLastSixMonths: selection.LastSixMonths,
	TriggerAllTime:       selection.AllTime,
}

// ButtonFor returns the trigger bound to a range token.
func ButtonFor(r selection.RangeToken) TriggerID {
	for id, token := range buttonRanges {
		if token == r {
			return id
		}
	}
	return TriggerNone
}

// Clicks holds the activation counters of the range buttons.
type Clicks struct {
	LastMonth     int `json:"btn_1m"`
	LastSixMonths int `json:"btn_6m"`
	AllTime       int `json:"btn_all"`
}

// Event is what the presentation shell reports for one update.
type Event struct {
	Product string    `json:"product"`
	Trigger TriggerID `json:"trigger"`
	Clicks  Clicks    `json:"clicks"`
}

// State is the last resolved selection plus the counters it was resolved from.
type State struct {
	Selection selection.Selection `json:"selection"`
	Clicks    Clicks              `json:"clicks"`
	Resolved  bool                `json:"resolved"`
}

// Valid reports whether id is a known control.
func (id TriggerID) Valid() bool {
	if id == TriggerNone || id == TriggerProduct {
		return true
	}
	_, ok := buttonRanges[id]
	return ok
}

// Resolve collapses an update into exactly one selection.
//
// An explicit trigger wins. Without one, the trigger is inferred from what changed
// since prior: an increased button counter or a different dropdown value. A dropdown
// change keeps the prior range, a button change keeps the current product, and an
// update with nothing to attribute it to re-renders the prior selection or, on first
// load, shows the first product over all time. A first load that already carries a
// dropdown value shows that product instead, matching the dropdown's rendered default.
func Resolve(products []string, prior State, ev Event) (State, error) {
	if len(products) == 0 {
		return State{}, ErrNoProducts
	}

	trigger := ev.Trigger
	if !trigger.Valid() {
		return State{}, fmt.Errorf("%w %q", ErrUnknownTrigger, string(trigger))
	}
	if trigger == TriggerNone {
		inferred, err := inferTrigger(prior, ev)
		if err != nil {
			return State{}, err
		}
		trigger = inferred
	}

	next := State{Clicks: ev.Clicks, Resolved: true}

	switch trigger {
	case TriggerProduct:
		rng := selection.AllTime
		if prior.Resolved {
			rng = prior.Selection.Range
		}
		next.Selection = selection.Selection{Product: currentProduct(products, prior, ev), Range: rng}
	case TriggerNone:
		if prior.Resolved {
			next.Selection = prior.Selection
			break
		}
		product := ev.Product
		if product == "" {
			product = products[0]
		}
		next.Selection = selection.Selection{Product: product, Range: selection.AllTime}
	default:
		next.Selection = selection.Selection{Product: currentProduct(products, prior, ev), Range: buttonRanges[trigger]}
	}

	return next, nil
}

func currentProduct(products []string, prior State, ev Event) string {
	switch {
	case ev.Product != "":
		return ev.Product
	case prior.Resolved && prior.Selection.Product != "":
		return prior.Selection.Product
	default:
		return products[0]
	}
}

func inferTrigger(prior State, ev Event) (TriggerID, error) {
	var changed []TriggerID
	if ev.Clicks.LastMonth > prior.Clicks.LastMonth {
		changed = append(changed, TriggerLastMonth)
	}
	if ev.Clicks.LastSixMonths > prior.Clicks.LastSixMonths {
		changed = append(changed, TriggerLastSixMonths)
	}
	if ev.Clicks.AllTime > prior.Clicks.AllTime {
		changed = append(changed, TriggerAllTime)
	}
	if prior.Resolved && ev.Product != "" && ev.Product != prior.Selection.Product {
		changed = append(changed, TriggerProduct)
	}

	switch len(changed) {
	case 0:
		return TriggerNone, nil
	case 1:
		return changed[0], nil
	default:
		return TriggerNone, fmt.Errorf("%w: %v", ErrAmbiguousTrigger, changed)
	}
}
