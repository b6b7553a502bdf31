package ai

import (
	"log/slog"
	"sync"

	"github.com/pkg/errors"
)

// Engine aggregates the model services behind one explicitly constructed,
// dependency-injected handle. Construction is cheap; Initialize builds the
// underlying clients exactly once and is safe to call from concurrent
// first-callers.
type Engine struct {
	config *Config

	mu          sync.Mutex
	initialized bool

	embedding EmbeddingService
	vision    VisionService
	describe  DescribeService
}

// NewEngine creates an uninitialized Engine.
func NewEngine(cfg *Config) *Engine {
	return &Engine{config: cfg}
}

// Initialize builds the model service clients. It is idempotent: subsequent
// calls return immediately once the first call succeeds.
func (e *Engine) Initialize() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return nil
	}

	embedding, err := NewEmbeddingService(&e.config.Embedding)
	if err != nil {
		return errors.Wrap(err, "init embedding service")
	}
	vision, err := NewVisionService(&e.config.Vision)
	if err != nil {
		return errors.Wrap(err, "init vision service")
	}
	describe, err := NewDescribeService(&e.config.VLM)
	if err != nil {
		return errors.Wrap(err, "init describe service")
	}

	e.embedding = embedding
	e.vision = vision
	e.describe = describe
	e.initialized = true

	slog.Info("AI engine initialized",
		"embedding_model", e.config.Embedding.Model,
		"vision_model", e.config.Vision.Model,
		"vlm_model", e.config.VLM.Model,
	)
	return nil
}

// Embedding returns the text embedding service. Panics if not initialized.
func (e *Engine) Embedding() EmbeddingService {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		panic("ai: engine not initialized")
	}
	return e.embedding
}

// Vision returns the visual embedding service. Panics if not initialized.
func (e *Engine) Vision() VisionService {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		panic("ai: engine not initialized")
	}
	return e.vision
}

// Describe returns the image description service. Panics if not initialized.
func (e *Engine) Describe() DescribeService {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		panic("ai: engine not initialized")
	}
	return e.describe
}
