package rag

import (
	"log/slog"

	"github.com/yyvop9/modify-final-project/internal/metrics"
)

// Path is the routing verdict for a query.
type Path string

const (
	// PathInternal serves the query from the product catalog only.
	PathInternal Path = "INTERNAL"
	// PathExternal augments the query with external image search first.
	PathExternal Path = "EXTERNAL"
)

// Router maps a query to a search path.
type Router struct {
	gate    *NameEntityGate
	enabled bool
	metrics *metrics.Metrics
}

// NewRouter creates a Router. When enabled is false every query routes
// internal regardless of its content.
func NewRouter(gate *NameEntityGate, enabled bool, m *metrics.Metrics) *Router {
	return &Router{gate: gate, enabled: enabled, metrics: m}
}

// DeterminePath returns the path for a query. Routing never fails: any
// panic inside the gate is swallowed and the query falls back to the
// internal path.
func (r *Router) DeterminePath(query string) (path Path) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("path routing panicked, defaulting to internal", "recover", rec)
			path = PathInternal
		}
		r.metrics.PathDecisions.WithLabelValues(string(path)).Inc()
	}()

	if !r.enabled {
		return PathInternal
	}
	if r.gate.ContainsName(query) {
		slog.Info("routing query to external path", "query", query)
		return PathExternal
	}
	return PathInternal
}
