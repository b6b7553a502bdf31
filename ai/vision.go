package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/sashabaranov/go-openai"
)

// VisionService embeds texts and images into a shared 512-dim visual space.
// Similarity between a prompt and an image is the cosine of their vectors.
type VisionService interface {
	// EmbedText embeds a scoring prompt into the visual space.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedImage embeds an image into the visual space.
	EmbedImage(ctx context.Context, img image.Image) ([]float32, error)

	// Dimensions returns the vector dimension.
	Dimensions() int
}

type visionService struct {
	client     *openai.Client
	model      string
	dimensions int
}

// NewVisionService creates a VisionService backed by an OpenAI-compatible
// multimodal embedding endpoint (CLIP-family models: jina-clip, etc). Image
// inputs are submitted as base64 data URIs, which is the convention those
// providers accept on the embeddings endpoint.
func NewVisionService(cfg *VisionConfig) (VisionService, error) {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &visionService{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}, nil
}

func (s *visionService) EmbedText(ctx context.Context, text string) ([]float32, error) {
	return s.embed(ctx, text)
}

func (s *visionService) EmbedImage(ctx context.Context, img image.Image) ([]float32, error) {
	dataURI, err := EncodeImageDataURI(img)
	if err != nil {
		return nil, err
	}
	return s.embed(ctx, dataURI)
}

func (s *visionService) embed(ctx context.Context, input string) ([]float32, error) {
	req := openai.EmbeddingRequest{
		Input: []string{input},
		Model: openai.EmbeddingModel(s.model),
	}

	resp, err := s.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create visual embedding failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("empty visual embedding response")
	}
	return resp.Data[0].Embedding, nil
}

func (s *visionService) Dimensions() int {
	return s.dimensions
}

// CosineSimilarity computes the cosine similarity of two vectors.
// Returns 0 for mismatched or degenerate inputs.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// EncodeImageDataURI encodes an image as a JPEG base64 data URI.
func EncodeImageDataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(95)); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
