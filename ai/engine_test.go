package ai

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Embedding: EmbeddingConfig{Model: "test-embed", Dimensions: 768},
		Vision:    VisionConfig{Model: "test-clip", Dimensions: 512},
		VLM:       VLMConfig{Model: "test-vlm"},
	}
}

func TestEngineInitializeIdempotent(t *testing.T) {
	engine := NewEngine(testConfig())
	require.NoError(t, engine.Initialize())

	first := engine.Embedding()
	require.NoError(t, engine.Initialize())
	require.Same(t, first, engine.Embedding())
}

func TestEngineInitializeConcurrent(t *testing.T) {
	engine := NewEngine(testConfig())

	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = engine.Initialize()
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.NotNil(t, engine.Vision())
	require.NotNil(t, engine.Describe())
}

func TestEngineUninitializedPanics(t *testing.T) {
	engine := NewEngine(testConfig())
	require.Panics(t, func() { engine.Embedding() })
}

func TestIsRefusal(t *testing.T) {
	require.True(t, IsRefusal(""))
	require.True(t, IsRefusal("I'm sorry, I cannot help with that."))
	require.True(t, IsRefusal("죄송합니다. 이미지를 분석할 수 없습니다."))
	require.False(t, IsRefusal("오버사이즈 울 코트에 와이드 슬랙스를 매치한 스타일입니다."))
}
