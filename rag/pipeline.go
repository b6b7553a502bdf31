package rag

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/yyvop9/modify-final-project/ai"
	"github.com/yyvop9/modify-final-project/internal/metrics"
)

const (
	// searchResultCount is how many external hits to request per query. The
	// search client caps the actual fetch at the provider's page maximum.
	searchResultCount = 15
	// topCandidates is how many scored images survive into the analysis.
	topCandidates = 4
)

// Degrade reasons recorded when the external pipeline falls back to the
// internal path.
const (
	DegradeQuotaExhausted   = "quota_exhausted"
	DegradeNoSearchResults  = "no_search_results"
	DegradeNoValidCandidate = "no_valid_candidates"
	DegradePipelineError    = "pipeline_error"
)

// Candidate is one externally sourced reference image in the analysis.
type Candidate struct {
	ImageBase64 string `json:"image_base64"`
	Score       int    `json:"score"`
}

// Analysis is the user-facing artifact of a successful external run.
type Analysis struct {
	Summary        string      `json:"summary"`
	ReferenceImage string      `json:"reference_image"`
	Candidates     []Candidate `json:"candidates"`
}

// Result carries the vectors and analysis a query processing run produced.
// Path records the path that actually ran; a degraded external query reports
// PathInternal with the degrade reason set.
type Result struct {
	TextVector    []float32
	VisualVector  []float32
	Path          Path
	DegradeReason string
	Analysis      *Analysis
}

// Pipeline runs the external augmentation flow end to end.
type Pipeline struct {
	quota     *QuotaGuard
	search    SearchClient
	fetcher   *ImageFetcher
	scorer    *ImageScorer
	lexicon   *Lexicon
	embedding ai.EmbeddingService
	vision    ai.VisionService
	describe  ai.DescribeService
	metrics   *metrics.Metrics
}

// NewPipeline wires the pipeline stages together.
func NewPipeline(
	quota *QuotaGuard,
	search SearchClient,
	fetcher *ImageFetcher,
	scorer *ImageScorer,
	lexicon *Lexicon,
	engine *ai.Engine,
	m *metrics.Metrics,
) *Pipeline {
	return &Pipeline{
		quota:     quota,
		search:    search,
		fetcher:   fetcher,
		scorer:    scorer,
		lexicon:   lexicon,
		embedding: engine.Embedding(),
		vision:    engine.Vision(),
		describe:  engine.Describe(),
		metrics:   m,
	}
}

// ProcessExternal runs the full external flow: quota, search, fetch, score,
// summarize, embed. Every failure mode degrades to ProcessInternal with a
// logged and counted reason instead of surfacing an error, so the caller
// always gets usable vectors.
func (p *Pipeline) ProcessExternal(ctx context.Context, query string) *Result {
	if ok, _ := p.quota.Acquire(ctx); !ok {
		return p.degrade(ctx, query, DegradeQuotaExhausted)
	}

	results := p.search.SearchImages(ctx, query, searchResultCount)
	if len(results) == 0 {
		return p.degrade(ctx, query, DegradeNoSearchResults)
	}

	images := p.fetcher.FetchAll(ctx, results)
	// Score against the terse search phrase; conversational filler in the
	// scoring prompt drags similarity down for every candidate alike.
	scored, err := p.scorer.Score(ctx, p.lexicon.OptimizeQuery(query), images)
	if err != nil {
		slog.Error("candidate scoring failed", "err", err, "query", query)
		return p.degrade(ctx, query, DegradePipelineError)
	}
	if len(scored) == 0 {
		return p.degrade(ctx, query, DegradeNoValidCandidate)
	}
	if len(scored) > topCandidates {
		scored = scored[:topCandidates]
	}

	best := scored[0]
	summary := p.summarize(ctx, query, best)

	textVector, err := p.embedText(ctx, summary)
	if err != nil {
		slog.Error("summary embedding failed", "err", err, "query", query)
		return p.degrade(ctx, query, DegradePipelineError)
	}

	analysis, err := buildAnalysis(summary, scored)
	if err != nil {
		slog.Error("analysis assembly failed", "err", err, "query", query)
		return p.degrade(ctx, query, DegradePipelineError)
	}

	slog.Info("external pipeline completed",
		"query", query, "candidates", len(scored), "best_score", best.Score)
	return &Result{
		TextVector:   textVector,
		VisualVector: best.Vector,
		Path:         PathExternal,
		Analysis:     analysis,
	}
}

// ProcessInternal embeds the query into both vector spaces. Embedding
// failures fail closed to zero vectors; the planner skips vector tiers on
// zero vectors rather than searching with a degenerate one.
func (p *Pipeline) ProcessInternal(ctx context.Context, query string) *Result {
	textVector, err := p.embedText(ctx, query)
	if err != nil {
		slog.Error("query text embedding failed", "err", err, "query", query)
		textVector = make([]float32, p.embedding.Dimensions())
	}

	visualVector, err := p.vision.EmbedText(ctx, query)
	if err != nil {
		slog.Error("query visual embedding failed", "err", err, "query", query)
		visualVector = make([]float32, p.vision.Dimensions())
	}

	return &Result{
		TextVector:   textVector,
		VisualVector: visualVector,
		Path:         PathInternal,
	}
}

func (p *Pipeline) degrade(ctx context.Context, query, reason string) *Result {
	slog.Warn("external pipeline degraded to internal path", "reason", reason, "query", query)
	p.metrics.ExternalDegrades.WithLabelValues(reason).Inc()

	result := p.ProcessInternal(ctx, query)
	result.DegradeReason = reason
	return result
}

// summarize asks the vision model for a grounded description of the best
// candidate. Refusals and failures fall back to the raw query so the text
// vector still carries the user's intent.
func (p *Pipeline) summarize(ctx context.Context, query string, best ScoredImage) string {
	summary, err := p.describe.Describe(ctx, best.Image, SummaryPrompt())
	if err != nil {
		slog.Warn("image summary unavailable, using query text", "err", err, "query", query)
		return query
	}
	return strings.TrimSpace(summary)
}

func (p *Pipeline) embedText(ctx context.Context, text string) ([]float32, error) {
	vector, err := p.embedding.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if ai.IsZeroVector(vector) {
		return nil, errors.New("embedding service returned zero vector")
	}
	return vector, nil
}

func buildAnalysis(summary string, scored []ScoredImage) (*Analysis, error) {
	candidates := make([]Candidate, 0, len(scored))
	var reference string
	for i, s := range scored {
		uri, err := ai.EncodeImageDataURI(s.Image)
		if err != nil {
			return nil, err
		}
		encoded := strings.TrimPrefix(uri, "data:image/jpeg;base64,")
		if i == 0 {
			reference = encoded
		}
		candidates = append(candidates, Candidate{ImageBase64: encoded, Score: s.DisplayScore})
	}

	return &Analysis{
		Summary:        summary,
		ReferenceImage: reference,
		Candidates:     candidates,
	}, nil
}
