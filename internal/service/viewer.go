package service

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"priceview/internal/history"
	"priceview/internal/interaction"
	"priceview/internal/metrics"
	"priceview/internal/render"
	"priceview/internal/selection"
)

// NoticeEmpty is shown in place of stats when a range holds no observations.
const NoticeEmpty = "no data in range"

// Catalog is the read side of the observation store.
type Catalog interface {
	selection.ObservationReader
	Products() []string
}

var _ Catalog = (*history.Store)(nil)

// Frame is everything the presentation shell needs to draw one update.
type Frame struct {
	State  interaction.State `json:"state"`
	Chart  render.ChartSpec  `json:"chart"`
	Stats  StatsText         `json:"stats"`
	Notice string            `json:"notice,omitempty"`
}

// Viewer turns user interactions into rendered frames.
type Viewer struct {
	catalog Catalog
	metrics *metrics.Recorder
	logger  zerolog.Logger
}

// NewViewer constructs a viewer over catalog. rec may be nil.
func NewViewer(catalog Catalog, rec *metrics.Recorder, logger zerolog.Logger) *Viewer {
	return &Viewer{
		catalog: catalog,
		metrics: rec,
		logger:  logger.With().Str("component", "viewer").Logger(),
	}
}

// Products lists the selectable products in dropdown order.
func (v *Viewer) Products() []string {
	return v.catalog.Products()
}

// Select runs the selection engine and records the outcome.
func (v *Viewer) Select(sel selection.Selection) (selection.Result, error) {
	start := time.Now()
	res, err := selection.Select(v.catalog, sel)
	v.metrics.RecordLatency("select", time.Since(start))
	v.metrics.RecordSelection(sel.Range.String(), outcome(err))
	return res, err
}

// Update resolves an interaction against the prior state and renders the result.
// An empty range is not an error: the frame carries NoticeEmpty and an empty chart.
func (v *Viewer) Update(prior interaction.State, ev interaction.Event) (Frame, error) {
	state, err := interaction.Resolve(v.catalog.Products(), prior, ev)
	if err != nil {
		return Frame{}, err
	}

	sel := state.Selection
	res, err := v.Select(sel)
	var empty *selection.EmptySeriesError
	switch {
	case errors.As(err, &empty):
		v.logger.Debug().Str("product", sel.Product).Stringer("range", sel.Range).Msg("empty selection")
		return Frame{
			State:  state,
			Chart:  render.NewChartSpec(sel.Product, nil),
			Stats:  StatsText{Product: StatLine{Text: "Product: " + sel.Product}},
			Notice: NoticeEmpty,
		}, nil
	case err != nil:
		return Frame{}, err
	}

	v.logger.Debug().
		Str("product", sel.Product).
		Stringer("range", sel.Range).
		Int("points", len(res.Series)).
		Msg("selection rendered")

	return Frame{
		State: state,
		Chart: render.NewChartSpec(sel.Product, res.Series),
		Stats: NewStatsText(sel.Product, res.Stats),
	}, nil
}

func outcome(err error) string {
	var (
		empty   *selection.EmptySeriesError
		unknown *history.UnknownProductError
	)
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.As(err, &empty):
		return metrics.OutcomeEmpty
	case errors.As(err, &unknown):
		return metrics.OutcomeUnknownProduct
	default:
		return metrics.OutcomeError
	}
}
