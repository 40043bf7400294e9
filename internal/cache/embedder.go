package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ai"
)

const KeyPrefix = "resume-matcher:embedding:"

// Embedder serves embeddings from a Store and asks the wrapped embedder only
// on a miss. Store failures are logged and never fail the call.
type Embedder struct {
	next   ai.Embedder
	store  Store
	model  string
	logger *zap.Logger
}

func NewEmbedder(next ai.Embedder, store Store, model string, logger *zap.Logger) *Embedder {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Embedder{
		next:   next,
		store:  store,
		model:  model,
		logger: logger,
	}
}

// Key returns the cache key of the text embedded by the model.
func Key(model, text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return KeyPrefix + model + ":" + hex.EncodeToString(sum[:])
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := Key(e.model, text)

	vector, err := e.store.Get(ctx, key)
	switch {
	case err == nil:
		e.logger.Debug("embedding cache hit", zap.String("key", key))
		return vector, nil
	case !errors.Is(err, ErrMiss):
		e.logger.Warn("reading embedding cache", zap.String("key", key), zap.Error(err))
	}

	vector, err = e.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := e.store.Set(ctx, key, vector); err != nil {
		e.logger.Warn("writing embedding cache", zap.String("key", key), zap.Error(err))
	}

	return vector, nil
}
