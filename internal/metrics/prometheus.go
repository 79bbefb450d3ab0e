package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Selection outcomes.
const (
	OutcomeOK             = "ok"
	OutcomeEmpty          = "empty"
	OutcomeUnknownProduct = "unknown_product"
	OutcomeError          = "error"
)

// Recorder exposes viewer metrics through Prometheus.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	gatherer prometheus.Gatherer

	selections    *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	observations  prometheus.Gauge
	products      prometheus.Gauge
	cacheLookups  *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDurations *prometheus.HistogramVec
}

// New creates a recorder registered with reg. A nil reg uses a fresh registry.
func New(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Recorder{
		gatherer: reg,
		selections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "priceview_selections_total",
				Help: "Total number of selections served by range and outcome",
			},
			[]string{"range", "outcome"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "priceview_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		observations: factory.NewGauge(prometheus.GaugeOpts{
			Name: "priceview_observations",
			Help: "Number of observations loaded into the store",
		}),
		products: factory.NewGauge(prometheus.GaugeOpts{
			Name: "priceview_products",
			Help: "Number of distinct products loaded into the store",
		}),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "priceview_chart_cache_lookups_total",
				Help: "Chart cache lookups by result",
			},
			[]string{"result"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "priceview_http_requests_total",
				Help: "HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		httpDurations: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "priceview_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

// RecordSelection counts one selection.
func (r *Recorder) RecordSelection(rng, outcome string) {
	if r == nil {
		return
	}
	r.selections.WithLabelValues(rng, outcome).Inc()
}

// RecordLatency records operation latency.
func (r *Recorder) RecordLatency(op string, d time.Duration) {
	if r == nil {
		return
	}
	r.latency.WithLabelValues(op).Observe(d.Seconds())
}

// RecordStore records the size of the loaded store.
func (r *Recorder) RecordStore(products, observations int) {
	if r == nil {
		return
	}
	r.products.Set(float64(products))
	r.observations.Set(float64(observations))
}

// RecordCache counts a chart cache hit or miss.
func (r *Recorder) RecordCache(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

// RecordHTTP records one served request.
func (r *Recorder) RecordHTTP(route, method string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpDurations.WithLabelValues(route).Observe(d.Seconds())
}

// Handler serves the recorder's registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
