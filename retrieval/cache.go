package retrieval

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/yyvop9/modify-final-project/internal/metrics"
	"github.com/yyvop9/modify-final-project/store"
	"github.com/yyvop9/modify-final-project/store/kv"
)

const cacheTTL = 10 * time.Minute

// cachedPlan is the serialized form of a planner answer.
type cachedPlan struct {
	Strategy Strategy         `json:"strategy"`
	Products []*store.Product `json:"products"`
}

// ResultCache memoizes planner answers keyed by the full search input. It is
// advisory: every failure is logged and treated as a miss, never surfaced.
type ResultCache struct {
	kv      kv.KV
	metrics *metrics.Metrics
}

// NewResultCache creates a cache over the shared KV store. A nil kv disables
// caching entirely.
func NewResultCache(store kv.KV, m *metrics.Metrics) *ResultCache {
	return &ResultCache{kv: store, metrics: m}
}

// Fingerprint derives a deterministic cache key from everything the ladder
// can consult: both query vectors, the query and its keywords, the gender
// filter, the limit, and which path produced the vectors. Leaving any of
// these out would let unrelated searches collide on one key.
func Fingerprint(input *PlanInput) string {
	h := sha256.New()
	var buf [4]byte
	writeVector := func(vector []float32) {
		for _, v := range vector {
			binary.LittleEndian.PutUint32(buf[:], uint32(int32(v*1e6)))
			h.Write(buf[:])
		}
		h.Write([]byte{0})
	}
	writeString := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}

	writeVector(input.TextVector)
	writeVector(input.VisualVector)
	writeString(input.Query)
	for _, keyword := range input.Keywords {
		writeString(keyword)
	}
	if input.Gender != nil {
		h.Write([]byte(*input.Gender))
	}
	h.Write([]byte{0})
	binary.LittleEndian.PutUint32(buf[:], uint32(input.Limit))
	h.Write(buf[:])
	if input.External {
		h.Write([]byte{1})
	}
	return "search_result:" + hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached answer for key, or nil on miss.
func (c *ResultCache) Get(ctx context.Context, key string) ([]*store.Product, Strategy) {
	if c.kv == nil {
		return nil, ""
	}

	data, err := c.kv.Get(ctx, key)
	if err != nil {
		if err != kv.ErrKeyNotFound {
			slog.Warn("result cache read failed", "err", err)
		}
		c.metrics.CacheMisses.Inc()
		return nil, ""
	}

	var plan cachedPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		slog.Warn("result cache entry corrupt, ignoring", "err", err)
		c.metrics.CacheMisses.Inc()
		return nil, ""
	}

	c.metrics.CacheHits.Inc()
	return plan.Products, plan.Strategy
}

// Put stores an answer. Empty answers are not cached; they are usually the
// product of a transient degradation and should be retried.
func (c *ResultCache) Put(ctx context.Context, key string, products []*store.Product, strategy Strategy) {
	if c.kv == nil || len(products) == 0 {
		return
	}

	data, err := json.Marshal(cachedPlan{Strategy: strategy, Products: products})
	if err != nil {
		slog.Warn("result cache encode failed", "err", err)
		return
	}
	if err := c.kv.SetWithTTL(ctx, key, data, cacheTTL); err != nil {
		slog.Warn("result cache write failed", "err", err)
	}
}
