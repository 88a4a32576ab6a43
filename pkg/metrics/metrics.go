// Package metrics defines the Prometheus collectors used by the service and
// exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	SpellChecksTotal     *prometheus.CounterVec
	NearestTermDistance  prometheus.Histogram
	QueriesRecorded      prometheus.Counter
	VocabularyTerms      prometheus.Gauge
	TokensIngested       prometheus.Counter
	CacheHitsTotal       prometheus.Counter
	CacheMissesTotal     prometheus.Counter
	PatternErrorsTotal   *prometheus.CounterVec
}

// New creates all collectors and registers them with reg. A nil registerer
// uses the global default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		SpellChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spell_checks_total",
				Help: "Spell checks by outcome (correct, suggested, empty_vocabulary).",
			},
			[]string{"outcome"},
		),
		NearestTermDistance: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "nearest_term_distance",
				Help:    "Edit distance between a misspelled word and its nearest vocabulary term.",
				Buckets: []float64{0, 1, 2, 3, 4, 6, 8, 12},
			},
		),
		QueriesRecorded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "search_queries_recorded_total",
				Help: "Total search queries recorded by the tracker.",
			},
		),
		VocabularyTerms: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "vocabulary_terms",
				Help: "Number of unique terms in the vocabulary.",
			},
		),
		TokensIngested: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "vocabulary_tokens_ingested_total",
				Help: "Total tokens ingested into the vocabulary.",
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "suggest_cache_hits_total",
				Help: "Total number of spell-check cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "suggest_cache_misses_total",
				Help: "Total number of spell-check cache misses.",
			},
		),
		PatternErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pattern_errors_total",
				Help: "Regex pattern failures by reason (invalid, timeout).",
			},
			[]string{"reason"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.SpellChecksTotal,
		m.NearestTermDistance,
		m.QueriesRecorded,
		m.VocabularyTerms,
		m.TokensIngested,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.PatternErrorsTotal,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
