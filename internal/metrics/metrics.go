// Package metrics exposes Prometheus counters for the retrieval core.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters shared across the search subsystem.
type Metrics struct {
	registry *prometheus.Registry

	PathDecisions    *prometheus.CounterVec // labels: path
	QuotaDenied      prometheus.Counter
	ExternalDegrades *prometheus.CounterVec // labels: reason
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	SearchStrategies *prometheus.CounterVec // labels: strategy
}

// New creates metrics registered on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		PathDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "modify_search_path_decisions_total",
			Help: "Routing verdicts by search path.",
		}, []string{"path"}),
		QuotaDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "modify_search_quota_denied_total",
			Help: "External search calls denied by the daily quota.",
		}),
		ExternalDegrades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "modify_search_external_degrades_total",
			Help: "External pipeline degrades to the internal planner, by reason.",
		}, []string{"reason"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "modify_search_cache_hits_total",
			Help: "Result cache hits.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "modify_search_cache_misses_total",
			Help: "Result cache misses.",
		}),
		SearchStrategies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "modify_search_strategies_total",
			Help: "Which retrieval tier produced the final answer.",
		}, []string{"strategy"}),
	}

	registry.MustRegister(
		m.PathDecisions,
		m.QuotaDenied,
		m.ExternalDegrades,
		m.CacheHits,
		m.CacheMisses,
		m.SearchStrategies,
	)

	return m
}

// Handler returns an HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
