package gemini

import (
	"context"
	"errors"
)

// Embedder implements ai.Embedder with the Gemini embedding model.
type Embedder struct {
	generator *Generator
}

func NewEmbedder(generator *Generator) *Embedder {
	return &Embedder{generator: generator}
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.generator == nil {
		return nil, errors.New("gemini generator is not configured")
	}
	return e.generator.Embed(ctx, text)
}

// Model returns the embedding model name. Cached vectors are keyed by it.
func (e *Embedder) Model() string {
	if e.generator == nil {
		return ""
	}
	return e.generator.EmbeddingModel()
}
