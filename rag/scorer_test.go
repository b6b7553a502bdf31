package rag

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeVision maps registered inputs to fixed vectors in a tiny visual space.
type fakeVision struct {
	promptVector []float32
	imageVectors map[image.Image][]float32
	err          error
}

func (f *fakeVision) EmbedText(context.Context, string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.promptVector, nil
}

func (f *fakeVision) EmbedImage(_ context.Context, img image.Image) ([]float32, error) {
	return f.imageVectors[img], nil
}

func (f *fakeVision) Dimensions() int { return 3 }

func testParams() ScoreParams {
	return ScoreParams{Floor: 0.18, PortraitBonus: 0.05, Offset: 0.15, Scale: 450}
}

func landscape() *image.RGBA { return image.NewRGBA(image.Rect(0, 0, 400, 300)) }
func portrait() *image.RGBA  { return image.NewRGBA(image.Rect(0, 0, 300, 400)) }

func TestScoreRanksAndFilters(t *testing.T) {
	strong := landscape()
	weak := landscape()
	below := landscape()

	vision := &fakeVision{
		promptVector: []float32{1, 0, 0},
		imageVectors: map[image.Image][]float32{
			strong: {0.9, 0.1, 0},  // cosine ~0.994
			weak:   {0.5, 0.8, 0},  // cosine ~0.530
			below:  {0.1, 0.99, 0}, // cosine ~0.100, under the floor
		},
	}
	scorer := NewImageScorer(vision, DefaultLexicon(), testParams())

	scored, err := scorer.Score(context.Background(), "지드래곤 공항패션", []image.Image{weak, nil, strong, below})
	require.NoError(t, err)
	require.Len(t, scored, 2)
	require.Equal(t, 2, scored[0].Index)
	require.Equal(t, 0, scored[1].Index)
	require.Greater(t, scored[0].Score, scored[1].Score)
}

func TestScorePortraitBonus(t *testing.T) {
	wide := landscape()
	tall := portrait()

	// Identical similarity; the portrait image must win by the bonus.
	vision := &fakeVision{
		promptVector: []float32{1, 0, 0},
		imageVectors: map[image.Image][]float32{
			wide: {0.5, 0, 0},
			tall: {0.5, 0, 0},
		},
	}
	scorer := NewImageScorer(vision, DefaultLexicon(), testParams())

	scored, err := scorer.Score(context.Background(), "지드래곤 공항패션", []image.Image{wide, tall})
	require.NoError(t, err)
	require.Len(t, scored, 2)
	require.Equal(t, 1, scored[0].Index)
	require.InDelta(t, 0.05, scored[0].Score-scored[1].Score, 1e-9)
}

func TestScoreStableTieOrder(t *testing.T) {
	first := landscape()
	second := landscape()

	vision := &fakeVision{
		promptVector: []float32{1, 0, 0},
		imageVectors: map[image.Image][]float32{
			first:  {0.7, 0, 0},
			second: {0.7, 0, 0},
		},
	}
	scorer := NewImageScorer(vision, DefaultLexicon(), testParams())

	scored, err := scorer.Score(context.Background(), "지드래곤 공항패션", []image.Image{first, second})
	require.NoError(t, err)
	require.Len(t, scored, 2)
	require.Equal(t, 0, scored[0].Index)
	require.Equal(t, 1, scored[1].Index)
}

func TestDisplayScoreClamps(t *testing.T) {
	scorer := NewImageScorer(&fakeVision{}, DefaultLexicon(), testParams())

	// (0.30 - 0.15) * 450 = 67.5, rounds to 68.
	require.Equal(t, 68, scorer.DisplayScore(0.30))
	// Far below the band clamps to the floor.
	require.Equal(t, 60, scorer.DisplayScore(0.19))
	// Far above the band clamps to the ceiling.
	require.Equal(t, 99, scorer.DisplayScore(0.9))
}

func TestScoringPrompt(t *testing.T) {
	scorer := NewImageScorer(&fakeVision{}, DefaultLexicon(), testParams())

	require.Contains(t, scorer.ScoringPrompt("제니 가방 추천"), "close-up product shot")
	require.Contains(t, scorer.ScoringPrompt("지드래곤 공항패션"), "full-body fashion style")
}
