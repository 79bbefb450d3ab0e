package history

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"
)

// Store holds every observation grouped by product, each group in ascending date order.
// It is built once and never mutated, so it is safe for concurrent readers.
type Store struct {
	products []string
	series   map[string][]Observation
	total    int
}

// Load fetches the source table and builds a store from it.
func Load(ctx context.Context, src Source, opts LoadOptions) (*Store, error) {
	if src == nil {
		return nil, &LoadError{Err: errors.New("no data source configured")}
	}

	table, err := src.Fetch(ctx)
	if err != nil {
		return nil, &LoadError{Source: src.Name(), Err: err}
	}

	observations, err := ParseTable(table, opts)
	if err != nil {
		return nil, &LoadError{Source: src.Name(), Err: err}
	}

	store, err := NewStore(observations)
	if err != nil {
		return nil, &LoadError{Source: src.Name(), Err: err}
	}
	return store, nil
}

// NewStore groups observations by product. Product order follows first appearance.
func NewStore(observations []Observation) (*Store, error) {
	if len(observations) == 0 {
		return nil, errors.New("no observations")
	}

	s := &Store{series: make(map[string][]Observation)}
	for _, o := range observations {
		if o.Product == "" {
			return nil, errors.New("observation without product")
		}
		if o.Price.IsNegative() {
			return nil, fmt.Errorf("negative price for %s on %s", o.Product, o.Date.Format(time.DateOnly))
		}
		if _, ok := s.series[o.Product]; !ok {
			s.products = append(s.products, o.Product)
		}
		s.series[o.Product] = append(s.series[o.Product], o)
	}

	for _, obs := range s.series {
		sort.SliceStable(obs, func(i, j int) bool {
			return obs[i].Date.Before(obs[j].Date)
		})
		s.total += len(obs)
	}
	return s, nil
}

// Products lists distinct product names in source order.
func (s *Store) Products() []string {
	out := make([]string, len(s.products))
	copy(out, s.products)
	return out
}

// Has reports whether product was seen during load.
func (s *Store) Has(product string) bool {
	_, ok := s.series[product]
	return ok
}

// ObservationsFor returns a copy of the product's observations in ascending date order.
func (s *Store) ObservationsFor(product string) ([]Observation, error) {
	obs, ok := s.series[product]
	if !ok {
		return nil, &UnknownProductError{Product: product}
	}
	out := make([]Observation, len(obs))
	copy(out, obs)
	return out, nil
}

// Span returns the first and last observation dates of product.
func (s *Store) Span(product string) (first, last time.Time, err error) {
	obs, ok := s.series[product]
	if !ok {
		return time.Time{}, time.Time{}, &UnknownProductError{Product: product}
	}
	return obs[0].Date, obs[len(obs)-1].Date, nil
}

// Count returns the number of observations for product, zero if unknown.
func (s *Store) Count(product string) int {
	return len(s.series[product])
}

// Len returns the total number of observations.
func (s *Store) Len() int {
	return s.total
}
