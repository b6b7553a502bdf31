package rag

import (
	"context"
	"image"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/yyvop9/modify-final-project/ai"
)

// ScoreParams tune candidate ranking.
type ScoreParams struct {
	// Floor drops candidates whose similarity is at or below it.
	Floor float64
	// PortraitBonus is added to portrait-oriented images, which usually frame
	// a full outfit better than landscape crops.
	PortraitBonus float64
	// Offset and Scale map raw similarity into the display score range.
	Offset float64
	Scale  float64
}

// ScoredImage is a candidate that passed the similarity floor. Vector is the
// candidate's visual embedding, retained so the pipeline can reuse it for
// similarity search without embedding the image twice.
type ScoredImage struct {
	Index        int
	Image        image.Image
	Vector       []float32
	Score        float64
	DisplayScore int
}

// ImageScorer ranks candidate images by visual similarity to the query.
type ImageScorer struct {
	vision  ai.VisionService
	lexicon *Lexicon
	params  ScoreParams
}

// NewImageScorer creates a scorer.
func NewImageScorer(vision ai.VisionService, lexicon *Lexicon, params ScoreParams) *ImageScorer {
	return &ImageScorer{vision: vision, lexicon: lexicon, params: params}
}

// ScoringPrompt builds the visual-space anchor text for a query. Accessory
// queries anchor on product close-ups; everything else anchors on full-body
// outfit shots.
func (s *ImageScorer) ScoringPrompt(query string) string {
	for _, term := range s.lexicon.AccessoryTerms {
		if strings.Contains(query, term) {
			return "a close-up product shot of " + query
		}
	}
	return "a full-body fashion style photo of " + query
}

// Score embeds the prompt once, embeds each candidate image, and returns the
// survivors sorted by score descending. Ties keep the original search-result
// order. A nil slot in images is skipped, preserving positional alignment
// with the fetch stage.
func (s *ImageScorer) Score(ctx context.Context, query string, images []image.Image) ([]ScoredImage, error) {
	promptVector, err := s.vision.EmbedText(ctx, s.ScoringPrompt(query))
	if err != nil {
		return nil, errors.Wrap(err, "embed scoring prompt")
	}

	var scored []ScoredImage
	for i, img := range images {
		if img == nil {
			continue
		}
		imageVector, err := s.vision.EmbedImage(ctx, img)
		if err != nil {
			slog.Debug("candidate embedding failed", "index", i, "err", err)
			continue
		}

		score := ai.CosineSimilarity(promptVector, imageVector)
		bounds := img.Bounds()
		if bounds.Dy() > bounds.Dx() {
			score += s.params.PortraitBonus
		}
		if score <= s.params.Floor {
			continue
		}

		scored = append(scored, ScoredImage{
			Index:        i,
			Image:        img,
			Vector:       imageVector,
			Score:        score,
			DisplayScore: s.DisplayScore(score),
		})
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})
	return scored, nil
}

// DisplayScore maps a raw similarity onto a user-facing 60..99 confidence.
// Raw CLIP-style similarities cluster in a narrow band; the offset and scale
// spread that band across the display range.
func (s *ImageScorer) DisplayScore(score float64) int {
	display := int(math.Round((score - s.params.Offset) * s.params.Scale))
	if display < 60 {
		return 60
	}
	if display > 99 {
		return 99
	}
	return display
}
