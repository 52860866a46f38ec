package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Page fetch outcomes.
const (
	OutcomeApplied = "applied"
	OutcomeFailed  = "failed"
	OutcomeStale   = "stale"
)

// Metrics holds all Prometheus collectors for the client.
// Following the explicit dependency injection pattern, this struct
// is passed to all components that need to record metrics. A nil *Metrics
// records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	// Outgoing API requests
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpInFlight        prometheus.Gauge

	// Transaction page
	pageFetchesTotal  *prometheus.CounterVec
	pageOutcomesTotal *prometheus.CounterVec
	pageListSize      prometheus.Gauge
}

// NewMetrics creates a new Metrics instance and registers all collectors.
// If registry is nil, a fresh registry is created.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	factory := promauto.With(registry)

	return &Metrics{
		gatherer: registry,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compte_http_requests_total",
				Help: "Total number of API requests by status code and method",
			},
			[]string{"code", "method"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "compte_http_request_duration_seconds",
				Help:    "Duration of API requests in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"code", "method"},
		),
		httpInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "compte_http_requests_in_flight",
				Help: "Number of API requests currently in flight",
			},
		),

		pageFetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compte_page_fetches_total",
				Help: "Total number of transaction page fetches issued by scope and category",
			},
			[]string{"scope", "category"},
		),
		pageOutcomesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compte_page_fetch_outcomes_total",
				Help: "Total number of transaction page fetch results by outcome (applied, failed, stale)",
			},
			[]string{"outcome"},
		),
		pageListSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "compte_page_transactions",
				Help: "Number of transactions currently displayed",
			},
		),
	}
}

// RecordPageFetch records that the page issued a fetch.
func (m *Metrics) RecordPageFetch(scope, category string) {
	if m == nil {
		return
	}
	m.pageFetchesTotal.WithLabelValues(scope, category).Inc()
}

// RecordPageOutcome records how a fetch result was handled. listSize is the
// number of displayed transactions afterwards.
func (m *Metrics) RecordPageOutcome(outcome string, listSize int) {
	if m == nil {
		return
	}
	m.pageOutcomesTotal.WithLabelValues(outcome).Inc()
	m.pageListSize.Set(float64(listSize))
}

// InstrumentTransport wraps next (http.DefaultTransport when nil) so every API
// request is counted and timed.
func (m *Metrics) InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if m == nil {
		return next
	}
	return promhttp.InstrumentRoundTripperInFlight(m.httpInFlight,
		promhttp.InstrumentRoundTripperCounter(m.httpRequestsTotal,
			promhttp.InstrumentRoundTripperDuration(m.httpRequestDuration, next),
		),
	)
}

// Handler serves the collected metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
