package selection

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// RangeToken selects the time window of a view.
type RangeToken int

const (
	// AllTime applies no lower bound.
	AllTime RangeToken = iota
	// LastMonth keeps the 30 days up to the reference date.
	LastMonth
	// LastSixMonths keeps the 180 days up to the reference date.
	LastSixMonths
)

// ErrUnknownRange is returned when a range token cannot be parsed.
var ErrUnknownRange = errors.New("unknown range")

var rangeNames = map[RangeToken]string{
	AllTime:       "all-time",
	LastMonth:     "1-month",
	LastSixMonths: "6-months",
}

var rangeAliases = map[string]RangeToken{
	"all-time": AllTime,
	"all":      AllTime,
	"1-month":  LastMonth,
	"1m":       LastMonth,
	"6-months": LastSixMonths,
	"6m":       LastSixMonths,
}

// Ranges lists every token in display order.
func Ranges() []RangeToken {
	return []RangeToken{LastMonth, LastSixMonths, AllTime}
}

// ParseRange maps a wire name ("1-month", "6-months", "all-time") or its short form to a token.
func ParseRange(s string) (RangeToken, error) {
	token, ok := rangeAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return AllTime, fmt.Errorf("%w %q", ErrUnknownRange, s)
	}
	return token, nil
}

// Valid reports whether r is one of the defined tokens.
func (r RangeToken) Valid() bool {
	_, ok := rangeNames[r]
	return ok
}

func (r RangeToken) String() string {
	if name, ok := rangeNames[r]; ok {
		return name
	}
	return fmt.Sprintf("range(%d)", int(r))
}

// MarshalText encodes the token by its wire name.
func (r RangeToken) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w %d", ErrUnknownRange, int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a wire name.
func (r *RangeToken) UnmarshalText(text []byte) error {
	token, err := ParseRange(string(text))
	if err != nil {
		return err
	}
	*r = token
	return nil
}

// Window returns the number of days covered by r; bounded is false for AllTime.
func Window(r RangeToken) (days int, bounded bool) {
	switch r {
	case LastMonth:
		return 30, true
	case LastSixMonths:
		return 180, true
	default:
		return 0, false
	}
}

// Resolve returns the inclusive start date for r anchored at reference.
// bounded is false when every observation qualifies.
func Resolve(r RangeToken, reference time.Time) (cutoff time.Time, bounded bool) {
	days, bounded := Window(r)
	if !bounded {
		return time.Time{}, false
	}
	return reference.AddDate(0, 0, -days), true
}
