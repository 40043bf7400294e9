package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type countingEmbedder struct {
	mu     sync.Mutex
	calls  int
	vector []float32
	err    error
}

func (c *countingEmbedder) Embed(context.Context, string) ([]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.vector, c.err
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]float32, error) {
	return nil, errors.New("connection refused")
}

func (brokenStore) Set(context.Context, string, []float32) error {
	return errors.New("connection refused")
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestKey(t *testing.T) {
	key := Key("text-embedding-004", "  hello  ")

	assert.True(t, strings.HasPrefix(key, KeyPrefix+"text-embedding-004:"))
	assert.Equal(t, key, Key("text-embedding-004", "hello"))
	assert.NotEqual(t, key, Key("other-model", "hello"))
	assert.NotEqual(t, key, Key("text-embedding-004", "hello!"))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	vector := []float32{1, 2, 3}
	require.NoError(t, store.Set(ctx, "k", vector))
	vector[0] = 42

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, got)
	assert.Equal(t, 1, store.Len())
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	store := NewRedis(client, time.Hour)

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, store.Set(ctx, "k", []float32{0.25, -0.5}))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, -0.5}, got)
	assert.Equal(t, time.Hour, mr.TTL("k"))

	mr.FastForward(2 * time.Hour)
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisStoreCorruptedValue(t *testing.T) {
	mr, client := newTestRedis(t)
	require.NoError(t, mr.Set("k", "not json"))

	_, err := NewRedis(client, 0).Get(context.Background(), "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}

func TestNewRedisClient(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := NewRedisClient(context.Background(), RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	assert.NoError(t, client.Close())
}

func TestEmbedderCachesVectors(t *testing.T) {
	ctx := context.Background()
	next := &countingEmbedder{vector: []float32{0.1, 0.2}}
	store := NewMemory()
	embedder := NewEmbedder(next, store, "model", zap.NewNop())

	first, err := embedder.Embed(ctx, "hello")
	require.NoError(t, err)
	second, err := embedder.Embed(ctx, " hello ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, 1, store.Len())
}

func TestEmbedderWithRedisStore(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	next := &countingEmbedder{vector: []float32{1, 0}}
	embedder := NewEmbedder(next, NewRedis(client, time.Minute), "model", nil)

	_, err := embedder.Embed(ctx, "job text")
	require.NoError(t, err)
	_, err = embedder.Embed(ctx, "job text")
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.True(t, mr.Exists(Key("model", "job text")))
}

func TestEmbedderDoesNotCacheFailures(t *testing.T) {
	next := &countingEmbedder{err: errors.New("quota exceeded")}
	store := NewMemory()
	embedder := NewEmbedder(next, store, "model", nil)

	_, err := embedder.Embed(context.Background(), "hello")
	assert.Error(t, err)
	assert.Zero(t, store.Len())
}

func TestEmbedderIgnoresStoreErrors(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	next := &countingEmbedder{vector: []float32{0.3}}
	embedder := NewEmbedder(next, brokenStore{}, "model", zap.New(core))

	got, err := embedder.Embed(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, []float32{0.3}, got)
	assert.Equal(t, 1, logs.FilterMessage("reading embedding cache").Len())
	assert.Equal(t, 1, logs.FilterMessage("writing embedding cache").Len())
}
