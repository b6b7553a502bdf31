package profile

import (
	"os"
	"strconv"
)

// Profile is configuration to start the main server.
type Profile struct {
	// Text embedding configuration (768-dim semantic vectors)
	AIEmbeddingProvider string
	AIEmbeddingModel    string
	AIEmbeddingAPIKey   string
	AIEmbeddingBaseURL  string

	// Visual embedding configuration (512-dim CLIP-style vectors, text and image side)
	AIVisionProvider string
	AIVisionModel    string
	AIVisionAPIKey   string
	AIVisionBaseURL  string

	// VLM configuration (image description)
	AIVLMProvider string
	AIVLMModel    string
	AIVLMAPIKey   string
	AIVLMBaseURL  string

	// External image search (Google Custom Search JSON API)
	SearchAPIKey     string
	SearchEngineID   string
	SearchDailyQuota int // <= 0 means unlimited

	// Redis (quota counters and result cache)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Scoring defaults. Empirically chosen in production; tune with care.
	ScoreFloor       float64 // candidates at or below this raw score are dropped
	ScoreOffset      float64 // floor anchor of the display rescale
	ScoreScale       float64 // multiplier of the display rescale
	PortraitBonus    float64 // raw score bonus for portrait-oriented images
	FetchConcurrency int     // max in-flight candidate downloads
	MinImageSide     int     // shorter-side pixel floor for candidates

	// Heuristic word lists. When empty, compiled defaults are used.
	KnownNamesPath  string
	CommonNounsPath string

	Mode        string
	Addr        string
	Port        int
	Data        string
	Driver      string
	DSN         string
	InstanceURL string
	Version     string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsExternalSearchEnabled returns true if the external search credentials are configured.
func (p *Profile) IsExternalSearchEnabled() bool {
	return p.SearchAPIKey != "" && p.SearchEngineID != ""
}

// getEnvOrDefault returns environment variable value or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default value.
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvOrDefaultFloat returns environment variable value as float64 or default value.
func getEnvOrDefaultFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

// FromEnv loads configuration from environment variables.
func (p *Profile) FromEnv() {
	p.AIEmbeddingProvider = getEnvOrDefault("MODIFY_AI_EMBEDDING_PROVIDER", "siliconflow")
	p.AIEmbeddingModel = getEnvOrDefault("MODIFY_AI_EMBEDDING_MODEL", "BAAI/bge-m3")
	p.AIEmbeddingAPIKey = getEnvOrDefault("MODIFY_AI_EMBEDDING_API_KEY", "")
	p.AIEmbeddingBaseURL = getEnvOrDefault("MODIFY_AI_EMBEDDING_BASE_URL", "https://api.siliconflow.cn/v1")

	p.AIVisionProvider = getEnvOrDefault("MODIFY_AI_VISION_PROVIDER", "jina")
	p.AIVisionModel = getEnvOrDefault("MODIFY_AI_VISION_MODEL", "jina-clip-v2")
	p.AIVisionAPIKey = getEnvOrDefault("MODIFY_AI_VISION_API_KEY", "")
	p.AIVisionBaseURL = getEnvOrDefault("MODIFY_AI_VISION_BASE_URL", "https://api.jina.ai/v1")

	p.AIVLMProvider = getEnvOrDefault("MODIFY_AI_VLM_PROVIDER", "openai")
	p.AIVLMModel = getEnvOrDefault("MODIFY_AI_VLM_MODEL", "gpt-4o-mini")
	p.AIVLMAPIKey = getEnvOrDefault("MODIFY_AI_VLM_API_KEY", "")
	p.AIVLMBaseURL = getEnvOrDefault("MODIFY_AI_VLM_BASE_URL", "")

	p.SearchAPIKey = getEnvOrDefault("MODIFY_SEARCH_API_KEY", "")
	p.SearchEngineID = getEnvOrDefault("MODIFY_SEARCH_ENGINE_ID", "")
	p.SearchDailyQuota = getEnvOrDefaultInt("MODIFY_SEARCH_DAILY_QUOTA", 100)

	p.RedisAddr = getEnvOrDefault("MODIFY_REDIS_ADDR", "localhost:6379")
	p.RedisPassword = getEnvOrDefault("MODIFY_REDIS_PASSWORD", "")
	p.RedisDB = getEnvOrDefaultInt("MODIFY_REDIS_DB", 0)

	p.ScoreFloor = getEnvOrDefaultFloat("MODIFY_SCORE_FLOOR", 0.18)
	p.ScoreOffset = getEnvOrDefaultFloat("MODIFY_SCORE_OFFSET", 0.15)
	p.ScoreScale = getEnvOrDefaultFloat("MODIFY_SCORE_SCALE", 450)
	p.PortraitBonus = getEnvOrDefaultFloat("MODIFY_PORTRAIT_BONUS", 0.05)
	p.FetchConcurrency = getEnvOrDefaultInt("MODIFY_FETCH_CONCURRENCY", 5)
	p.MinImageSide = getEnvOrDefaultInt("MODIFY_MIN_IMAGE_SIDE", 250)

	p.KnownNamesPath = getEnvOrDefault("MODIFY_KNOWN_NAMES_PATH", "")
	p.CommonNounsPath = getEnvOrDefault("MODIFY_COMMON_NOUNS_PATH", "")
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}
	if p.FetchConcurrency <= 0 {
		p.FetchConcurrency = 5
	}
	if p.MinImageSide <= 0 {
		p.MinImageSide = 250
	}
	return nil
}
