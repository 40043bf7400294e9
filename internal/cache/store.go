// Package cache keeps text embeddings so repeated texts are not sent to the
// embedding model again.
package cache

import (
	"context"
	"errors"
	"sync"
)

// ErrMiss is returned by Store.Get when no vector is stored under the key.
var ErrMiss = errors.New("cache miss")

// Store persists embedding vectors by key. Implementations are safe for
// concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]float32, error)
	Set(ctx context.Context, key string, vector []float32) error
}

// Memory is an in-process Store.
type Memory struct {
	mu      sync.RWMutex
	vectors map[string][]float32
}

func NewMemory() *Memory {
	return &Memory{vectors: make(map[string][]float32)}
}

func (m *Memory) Get(_ context.Context, key string) ([]float32, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	vector, ok := m.vectors[key]
	if !ok {
		return nil, ErrMiss
	}
	return append([]float32(nil), vector...), nil
}

func (m *Memory) Set(_ context.Context, key string, vector []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.vectors[key] = append([]float32(nil), vector...)
	return nil
}

// Len returns the number of stored vectors.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.vectors)
}
