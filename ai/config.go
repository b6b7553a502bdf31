package ai

import (
	"github.com/yyvop9/modify-final-project/internal/profile"
)

// Config represents AI configuration.
type Config struct {
	Embedding EmbeddingConfig
	Vision    VisionConfig
	VLM       VLMConfig
}

// EmbeddingConfig represents text embedding configuration (768-dim).
type EmbeddingConfig struct {
	Provider   string
	Model      string
	APIKey     string
	BaseURL    string
	Dimensions int
}

// VisionConfig represents visual embedding configuration (512-dim, CLIP-style
// shared text/image space).
type VisionConfig struct {
	Provider   string
	Model      string
	APIKey     string
	BaseURL    string
	Dimensions int
}

// VLMConfig represents the image description model configuration.
type VLMConfig struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	MaxTokens   int
	Temperature float32
}

// NewConfigFromProfile creates AI config from profile.
func NewConfigFromProfile(p *profile.Profile) *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Provider:   p.AIEmbeddingProvider,
			Model:      p.AIEmbeddingModel,
			APIKey:     p.AIEmbeddingAPIKey,
			BaseURL:    p.AIEmbeddingBaseURL,
			Dimensions: 768,
		},
		Vision: VisionConfig{
			Provider:   p.AIVisionProvider,
			Model:      p.AIVisionModel,
			APIKey:     p.AIVisionAPIKey,
			BaseURL:    p.AIVisionBaseURL,
			Dimensions: 512,
		},
		VLM: VLMConfig{
			Provider:    p.AIVLMProvider,
			Model:       p.AIVLMModel,
			APIKey:      p.AIVLMAPIKey,
			BaseURL:     p.AIVLMBaseURL,
			MaxTokens:   600,
			Temperature: 0,
		},
	}
}
