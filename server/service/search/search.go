// Package search composes the router, the augmentation pipeline, and the
// retrieval planner into the service the API handlers call.
package search

import (
	"bytes"
	"context"
	"encoding/base64"
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/yyvop9/modify-final-project/ai"
	"github.com/yyvop9/modify-final-project/rag"
	"github.com/yyvop9/modify-final-project/retrieval"
	"github.com/yyvop9/modify-final-project/store"
)

const defaultLimit = 12

// Request is a search query. ImageBase64 optionally carries a reference
// image whose visual embedding overrides the query-derived one.
type Request struct {
	Query       string `json:"query"`
	ImageBase64 string `json:"image_base64,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

// Response is the answer to a search request.
type Response struct {
	Products      []*store.Product `json:"products"`
	SearchPath    string           `json:"search_path"`
	Strategy      string           `json:"strategy"`
	DegradeReason string           `json:"degrade_reason,omitempty"`
	FromCache     bool             `json:"from_cache,omitempty"`
	Analysis      *rag.Analysis    `json:"analysis,omitempty"`
}

// Service answers search requests.
type Service struct {
	router   *rag.Router
	pipeline *rag.Pipeline
	planner  *retrieval.Planner
	vision   ai.VisionService
}

// NewService creates the search service.
func NewService(router *rag.Router, pipeline *rag.Pipeline, planner *retrieval.Planner, vision ai.VisionService) *Service {
	return &Service{router: router, pipeline: pipeline, planner: planner, vision: vision}
}

// RouteAndSearch routes the query, produces vectors on the chosen path, and
// plans catalog retrieval with them.
func (s *Service) RouteAndSearch(ctx context.Context, req *Request) (*Response, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" && req.ImageBase64 == "" {
		return nil, errors.New("query or image is required")
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	var result *rag.Result
	if query != "" && s.router.DeterminePath(query) == rag.PathExternal {
		result = s.pipeline.ProcessExternal(ctx, query)
	} else {
		result = s.pipeline.ProcessInternal(ctx, query)
	}

	if req.ImageBase64 != "" {
		vector, err := s.embedInlineImage(ctx, req.ImageBase64)
		if err != nil {
			slog.Warn("inline image ignored", "err", err)
		} else {
			// A user-supplied reference image is a stronger visual signal
			// than anything derived from the query text.
			result.VisualVector = vector
			result.Path = rag.PathExternal
		}
	}

	plan, err := s.planner.Plan(ctx, &retrieval.PlanInput{
		Query:        query,
		Keywords:     retrieval.ExtractKeywords(query),
		TextVector:   result.TextVector,
		VisualVector: result.VisualVector,
		Gender:       retrieval.DetectGender(query),
		Limit:        limit,
		External:     result.Path == rag.PathExternal,
	})
	if err != nil {
		return nil, errors.Wrap(err, "plan retrieval")
	}

	return &Response{
		Products:      plan.Products,
		SearchPath:    string(result.Path),
		Strategy:      string(plan.Strategy),
		DegradeReason: result.DegradeReason,
		FromCache:     plan.FromCache,
		Analysis:      result.Analysis,
	}, nil
}

// SearchByImage finds visually similar products for a standalone image.
func (s *Service) SearchByImage(ctx context.Context, imageBase64 string, limit int) (*Response, error) {
	if imageBase64 == "" {
		return nil, errors.New("image is required")
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	vector, err := s.embedInlineImage(ctx, imageBase64)
	if err != nil {
		return nil, errors.Wrap(err, "embed image")
	}

	plan, err := s.planner.Plan(ctx, &retrieval.PlanInput{
		VisualVector: vector,
		Limit:        limit,
		External:     true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "plan retrieval")
	}

	return &Response{
		Products:   plan.Products,
		SearchPath: string(rag.PathExternal),
		Strategy:   string(plan.Strategy),
		FromCache:  plan.FromCache,
	}, nil
}

func (s *Service) embedInlineImage(ctx context.Context, encoded string) ([]float32, error) {
	// Accept both a bare base64 payload and a data URI.
	if idx := strings.Index(encoded, ","); idx >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[idx+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.Wrap(err, "decode base64")
	}
	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}
	vector, err := s.vision.EmbedImage(ctx, img)
	if err != nil {
		return nil, errors.Wrap(err, "embed image")
	}
	return vector, nil
}
