package ai

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrDescriptionRefused is returned when the vision model echoes a refusal
// instead of describing the image.
var ErrDescriptionRefused = errors.New("vision model refused to describe image")

// refusalMarkers are substrings that indicate the model declined the request.
// Detection is best-effort; an undetected refusal degrades to a useless but
// harmless summary.
var refusalMarkers = []string{
	"i cannot",
	"i can't",
	"i'm sorry",
	"i am sorry",
	"unable to assist",
	"죄송",
	"분석 불가",
	"분석에 실패",
}

// DescribeService generates a natural-language description of an image.
type DescribeService interface {
	// Describe runs the vision model over the image with the given prompt.
	Describe(ctx context.Context, img image.Image, prompt string) (string, error)
}

type describeService struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewDescribeService creates a DescribeService on an OpenAI-compatible
// chat-completions endpoint with vision support.
func NewDescribeService(cfg *VLMConfig) (DescribeService, error) {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 600
	}

	return &describeService{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
	}, nil
}

func (s *describeService) Describe(ctx context.Context, img image.Image, prompt string) (string, error) {
	dataURI, err := EncodeImageDataURI(img)
	if err != nil {
		return "", err
	}

	req := openai.ChatCompletionRequest{
		Model:       s.model,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURI},
					},
				},
			},
		},
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("vision chat failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from vision model")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if IsRefusal(content) {
		slog.Warn("vision model refused description", "model", s.model)
		return "", ErrDescriptionRefused
	}
	return content, nil
}

// IsRefusal reports whether the model output looks like a refusal.
func IsRefusal(content string) bool {
	if content == "" {
		return true
	}
	lower := strings.ToLower(content)
	for _, marker := range refusalMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
