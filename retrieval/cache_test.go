package retrieval

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yyvop9/modify-final-project/internal/metrics"
	"github.com/yyvop9/modify-final-project/store"
	"github.com/yyvop9/modify-final-project/store/kv"
)

type memoryKV struct {
	mu     sync.Mutex
	values map[string][]byte
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: map[string][]byte{}}
}

func (m *memoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	if !ok {
		return nil, kv.ErrKeyNotFound
	}
	return value, nil
}

func (m *memoryKV) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memoryKV) CheckAndIncr(context.Context, string, int64, time.Duration) (int64, bool, error) {
	return 0, false, nil
}

func (m *memoryKV) Close() {}

func TestFingerprintDeterministic(t *testing.T) {
	gender := store.GenderFemale

	a := Fingerprint(&PlanInput{TextVector: textVec(), Gender: &gender, Limit: 10})
	b := Fingerprint(&PlanInput{TextVector: filledVec(store.TextVectorDim), Gender: &gender, Limit: 10})
	require.Equal(t, a, b)
}

func TestFingerprintSensitivity(t *testing.T) {
	gender := store.GenderFemale
	base := &PlanInput{
		Query:        "겨울 코트",
		Keywords:     []string{"겨울코트", "겨울", "코트"},
		TextVector:   textVec(),
		VisualVector: visualVec(),
		Gender:       &gender,
		Limit:        10,
	}
	baseKey := Fingerprint(base)

	variants := []func(input *PlanInput){
		func(input *PlanInput) { input.TextVector[0] = 0.5 },
		func(input *PlanInput) { input.VisualVector[0] = 0.5 },
		func(input *PlanInput) { input.Query = "여름 코트" },
		func(input *PlanInput) { input.Keywords = []string{"원피스"} },
		func(input *PlanInput) { input.Gender = nil },
		func(input *PlanInput) { input.Limit = 20 },
		func(input *PlanInput) { input.External = true },
	}
	for i, mutate := range variants {
		variant := &PlanInput{
			Query:        base.Query,
			Keywords:     append([]string{}, base.Keywords...),
			TextVector:   filledVec(store.TextVectorDim),
			VisualVector: filledVec(store.VisualVectorDim),
			Gender:       &gender,
			Limit:        base.Limit,
		}
		mutate(variant)
		require.NotEqual(t, baseKey, Fingerprint(variant), "variant %d must change the key", i)
	}
}

func TestResultCacheRoundTrip(t *testing.T) {
	cache := NewResultCache(newMemoryKV(), metrics.New())
	ctx := context.Background()
	key := Fingerprint(&PlanInput{TextVector: textVec(), Limit: 10})

	products, strategy := cache.Get(ctx, key)
	require.Nil(t, products)
	require.Empty(t, strategy)

	cache.Put(ctx, key, []*store.Product{product(1), product(2)}, StrategyVector)

	products, strategy = cache.Get(ctx, key)
	require.Len(t, products, 2)
	require.Equal(t, int32(1), products[0].ID)
	require.Equal(t, StrategyVector, strategy)
}

func TestResultCacheSkipsEmptyAnswers(t *testing.T) {
	kvStore := newMemoryKV()
	cache := NewResultCache(kvStore, metrics.New())
	ctx := context.Background()
	key := Fingerprint(&PlanInput{TextVector: textVec(), Limit: 10})

	cache.Put(ctx, key, nil, StrategyLatest)
	require.Empty(t, kvStore.values)
}

func TestResultCacheDisabled(t *testing.T) {
	cache := NewResultCache(nil, metrics.New())
	ctx := context.Background()

	cache.Put(ctx, "k", []*store.Product{product(1)}, StrategyVector)
	products, _ := cache.Get(ctx, "k")
	require.Nil(t, products)
}

func TestPlannerCacheKeyedByVisualVector(t *testing.T) {
	driver := &fakeDriver{visualProducts: []*store.Product{product(1)}}
	m := metrics.New()
	planner := NewPlanner(
		store.New(driver, nil),
		NewResultCache(newMemoryKV(), m),
		m,
	)
	ctx := context.Background()

	first, err := planner.Plan(ctx, &PlanInput{
		VisualVector: visualVec(),
		External:     true,
		Limit:        1,
	})
	require.NoError(t, err)
	require.False(t, first.FromCache)
	require.Equal(t, int32(1), first.Products[0].ID)

	// A different reference image must not be answered from the first
	// image's cache entry.
	driver.visualProducts = []*store.Product{product(2)}
	otherImage := filledVec(store.VisualVectorDim)
	otherImage[0] = 0.9
	second, err := planner.Plan(ctx, &PlanInput{
		VisualVector: otherImage,
		External:     true,
		Limit:        1,
	})
	require.NoError(t, err)
	require.False(t, second.FromCache)
	require.Equal(t, int32(2), second.Products[0].ID)
}

func TestPlannerCacheKeyedByKeywords(t *testing.T) {
	driver := &fakeDriver{keywordProducts: []*store.Product{product(1)}}
	m := metrics.New()
	planner := NewPlanner(
		store.New(driver, nil),
		NewResultCache(newMemoryKV(), m),
		m,
	)
	ctx := context.Background()

	// Both queries carry fail-closed zero text vectors; their keywords alone
	// must keep their cache entries apart.
	first, err := planner.Plan(ctx, &PlanInput{
		Query:      "겨울 코트",
		Keywords:   []string{"코트"},
		TextVector: make([]float32, store.TextVectorDim),
		Limit:      1,
	})
	require.NoError(t, err)
	require.False(t, first.FromCache)

	driver.keywordProducts = []*store.Product{product(2)}
	second, err := planner.Plan(ctx, &PlanInput{
		Query:      "여름 원피스",
		Keywords:   []string{"원피스"},
		TextVector: make([]float32, store.TextVectorDim),
		Limit:      1,
	})
	require.NoError(t, err)
	require.False(t, second.FromCache)
	require.Equal(t, int32(2), second.Products[0].ID)
}

func TestPlannerUsesCache(t *testing.T) {
	driver := &fakeDriver{keywordProducts: []*store.Product{product(1)}}
	m := metrics.New()
	planner := NewPlanner(
		store.New(driver, nil),
		NewResultCache(newMemoryKV(), m),
		m,
	)

	input := &PlanInput{Keywords: []string{"코트"}, Limit: 1}
	first, err := planner.Plan(context.Background(), input)
	require.NoError(t, err)
	require.False(t, first.FromCache)

	second, err := planner.Plan(context.Background(), input)
	require.NoError(t, err)
	require.True(t, second.FromCache)
	require.Equal(t, first.Strategy, second.Strategy)
	require.Equal(t, []string{"keyword"}, driver.calls, "cached plan must not hit the database")
}
