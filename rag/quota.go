package rag

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yyvop9/modify-final-project/internal/metrics"
	"github.com/yyvop9/modify-final-project/store/kv"
)

// quotaTTL outlives the UTC day the counter belongs to, so a counter created
// at 23:59 still expires on its own instead of leaking.
const quotaTTL = 25 * time.Hour

// QuotaGuard rations external search calls against a daily budget. The
// counter lives in the shared KV store so every replica draws from the same
// budget.
type QuotaGuard struct {
	kv      kv.KV
	limit   int64
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewQuotaGuard creates a guard with the given daily limit. A limit of zero
// or less means unlimited.
func NewQuotaGuard(store kv.KV, limit int64, m *metrics.Metrics) *QuotaGuard {
	return &QuotaGuard{kv: store, limit: limit, metrics: m, now: time.Now}
}

// Acquire consumes one unit of today's quota and reports the remaining
// budget (-1 when unlimited). It denies when the budget is exhausted or the
// counter store is unreachable; a broken counter must not let callers spend
// an unbounded number of paid calls.
func (g *QuotaGuard) Acquire(ctx context.Context) (bool, int64) {
	if g.limit <= 0 {
		return true, -1
	}

	key := g.todayKey()
	value, ok, err := g.kv.CheckAndIncr(ctx, key, g.limit, quotaTTL)
	if err != nil {
		slog.Error("quota counter unavailable, denying external search", "err", err)
		g.metrics.QuotaDenied.Inc()
		return false, 0
	}
	if !ok {
		slog.Warn("daily external search quota exhausted", "key", key, "limit", g.limit)
		g.metrics.QuotaDenied.Inc()
		return false, 0
	}

	remaining := g.limit - value
	slog.Debug("external search quota acquired", "used", value, "remaining", remaining)
	return true, remaining
}

func (g *QuotaGuard) todayKey() string {
	return fmt.Sprintf("search_api_quota:%s", g.now().UTC().Format("2006-01-02"))
}
