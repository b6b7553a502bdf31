package retrieval

import (
	"context"
	"log/slog"

	"github.com/yyvop9/modify-final-project/ai"
	"github.com/yyvop9/modify-final-project/internal/metrics"
	"github.com/yyvop9/modify-final-project/store"
)

// Strategy labels the retrieval tier that produced the answer.
type Strategy string

const (
	StrategyKeyword Strategy = "KEYWORD"
	StrategyVector  Strategy = "VECTOR"
	StrategyVisual  Strategy = "VISUAL"
	StrategyRecency Strategy = "RECENCY"
	StrategyRelaxed Strategy = "RELAXED"
	StrategyLatest  Strategy = "LATEST"
)

// PlanInput is everything the planner needs to answer a query.
type PlanInput struct {
	Query string
	// Keywords are the extracted catalog keywords, most specific first.
	Keywords     []string
	TextVector   []float32
	VisualVector []float32
	Gender       *string
	Limit        int
	// External marks vectors produced by the external pipeline: the visual
	// vector is a real reference image, so visual similarity leads.
	External bool
}

// PlanResult is the planner's answer.
type PlanResult struct {
	Products  []*store.Product
	Strategy  Strategy
	FromCache bool
}

// tier is one rung of the fallback ladder. A tier returning no rows or an
// error passes the query down the ladder; errors never abort the plan.
type tier struct {
	strategy Strategy
	run      func(ctx context.Context, limit int, exclude []int32) ([]*store.Product, error)
}

// Planner executes an explicit, ordered list of retrieval tiers and
// accumulates deduplicated results until the limit is filled.
type Planner struct {
	store   *store.Store
	cache   *ResultCache
	metrics *metrics.Metrics
}

// NewPlanner creates a planner.
func NewPlanner(s *store.Store, cache *ResultCache, m *metrics.Metrics) *Planner {
	return &Planner{store: s, cache: cache, metrics: m}
}

// Plan runs the tier ladder for the input. The answer is empty only when the
// catalog itself is empty; the final tier has no filters at all.
func (p *Planner) Plan(ctx context.Context, input *PlanInput) (*PlanResult, error) {
	if input.Limit <= 0 {
		input.Limit = 10
	}

	key := Fingerprint(input)
	if products, strategy := p.cache.Get(ctx, key); len(products) > 0 {
		slog.Debug("search plan served from cache", "strategy", strategy)
		return &PlanResult{Products: products, Strategy: strategy, FromCache: true}, nil
	}

	var (
		accumulated []*store.Product
		seen        = map[int32]struct{}{}
		strategy    Strategy
	)
	for _, t := range p.tiers(input) {
		remaining := input.Limit - len(accumulated)
		if remaining <= 0 {
			break
		}

		exclude := make([]int32, 0, len(seen))
		for id := range seen {
			exclude = append(exclude, id)
		}

		products, err := t.run(ctx, remaining, exclude)
		if err != nil {
			slog.Warn("retrieval tier failed, trying next", "strategy", t.strategy, "err", err)
			continue
		}
		for _, product := range products {
			if _, dup := seen[product.ID]; dup {
				continue
			}
			seen[product.ID] = struct{}{}
			accumulated = append(accumulated, product)
		}
		if len(products) > 0 && strategy == "" {
			strategy = t.strategy
		}
	}

	if strategy == "" {
		strategy = StrategyLatest
	}
	p.metrics.SearchStrategies.WithLabelValues(string(strategy)).Inc()
	slog.Info("search plan executed",
		"strategy", strategy, "results", len(accumulated), "external", input.External)

	p.cache.Put(ctx, key, accumulated, strategy)
	return &PlanResult{Products: accumulated, Strategy: strategy}, nil
}

// tiers builds the ladder for the input. The external ladder leads with
// visual similarity because its visual vector embeds a real reference image;
// the internal ladder leads with the keyword match because catalog names are
// the strongest signal for plain garment queries.
func (p *Planner) tiers(input *PlanInput) []tier {
	hasText := len(input.TextVector) == store.TextVectorDim && !ai.IsZeroVector(input.TextVector)
	hasVisual := len(input.VisualVector) == store.VisualVectorDim && !ai.IsZeroVector(input.VisualVector)

	var ladder []tier
	if input.External {
		if hasVisual {
			ladder = append(ladder, p.visualTier(input.VisualVector, input.Gender))
		}
		if hasText {
			ladder = append(ladder, p.textTier(StrategyVector, input.TextVector, input.Gender))
		}
		// Relaxed cascade: retry the full query as a keyword match with the
		// gender filter dropped before giving up on relevance entirely.
		if input.Query != "" {
			ladder = append(ladder, p.keywordTier(StrategyRelaxed, []string{input.Query}, nil, input.TextVector))
		}
	} else {
		if len(input.Keywords) > 0 {
			ladder = append(ladder, p.keywordTier(StrategyKeyword, input.Keywords, input.Gender, input.TextVector))
		}
		if hasText {
			ladder = append(ladder, p.textTier(StrategyVector, input.TextVector, input.Gender))
		}
		ladder = append(ladder, p.recencyTier(StrategyRecency, input.Gender))
	}

	// Same text vector, no gender filter. Only meaningful when a gender
	// filter could have excluded rows above.
	if hasText && input.Gender != nil {
		ladder = append(ladder, p.textTier(StrategyRelaxed, input.TextVector, nil))
	}
	return append(ladder, p.recencyTier(StrategyLatest, nil))
}

// keywordTier tries each keyword in order, most specific first, accumulating
// matches until the rung's limit fills.
func (p *Planner) keywordTier(strategy Strategy, keywords []string, gender *string, textVector []float32) tier {
	var orderVector []float32
	if len(textVector) == store.TextVectorDim && !ai.IsZeroVector(textVector) {
		orderVector = textVector
	}
	return tier{
		strategy: strategy,
		run: func(ctx context.Context, limit int, exclude []int32) ([]*store.Product, error) {
			seen := map[int32]struct{}{}
			for _, id := range exclude {
				seen[id] = struct{}{}
			}

			var matched []*store.Product
			for _, keyword := range keywords {
				if len(matched) >= limit {
					break
				}
				excludeNow := make([]int32, 0, len(seen))
				for id := range seen {
					excludeNow = append(excludeNow, id)
				}
				products, err := p.store.SearchProductsByKeyword(ctx, &store.KeywordProductSearch{
					Keyword:     keyword,
					Gender:      gender,
					OrderVector: orderVector,
					ExcludeIDs:  excludeNow,
					Limit:       limit - len(matched),
				})
				if err != nil {
					return matched, err
				}
				for _, product := range products {
					seen[product.ID] = struct{}{}
					matched = append(matched, product)
				}
			}
			return matched, nil
		},
	}
}

func (p *Planner) textTier(strategy Strategy, vector []float32, gender *string) tier {
	return tier{
		strategy: strategy,
		run: func(ctx context.Context, limit int, exclude []int32) ([]*store.Product, error) {
			return p.store.SearchProductsByTextVector(ctx, &store.VectorProductSearch{
				Vector:     vector,
				Gender:     gender,
				ExcludeIDs: exclude,
				Limit:      limit,
			})
		},
	}
}

func (p *Planner) visualTier(vector []float32, gender *string) tier {
	return tier{
		strategy: StrategyVisual,
		run: func(ctx context.Context, limit int, exclude []int32) ([]*store.Product, error) {
			return p.store.SearchProductsByVisualVector(ctx, &store.VectorProductSearch{
				Vector:     vector,
				Gender:     gender,
				ExcludeIDs: exclude,
				Limit:      limit,
			})
		},
	}
}

func (p *Planner) recencyTier(strategy Strategy, gender *string) tier {
	return tier{
		strategy: strategy,
		run: func(ctx context.Context, limit int, exclude []int32) ([]*store.Product, error) {
			return p.store.ListLatestProducts(ctx, &store.LatestProductSearch{
				Gender:     gender,
				ExcludeIDs: exclude,
				Limit:      limit,
			})
		},
	}
}
