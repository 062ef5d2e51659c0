package cached

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VivekMaurya83/LawDecodes/internal/core/domain"
)

// countingEmbedder is a deterministic fake that records how often the
// underlying service is hit.
type countingEmbedder struct {
	embedCalls int
	batchCalls int
	batchTexts []string
	failNext   bool
}

func (e *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.embedCalls++
	if e.failNext {
		return nil, fmt.Errorf("embedder down")
	}
	return vectorFor(text), nil
}

func (e *countingEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.batchCalls++
	e.batchTexts = append([]string(nil), texts...)
	if e.failNext {
		return nil, fmt.Errorf("embedder down")
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = vectorFor(text)
	}
	return vectors, nil
}

func (e *countingEmbedder) Dimensions() int { return 3 }

func (e *countingEmbedder) ModelName() string { return "fake-model" }

func (e *countingEmbedder) Ping(_ context.Context) error { return nil }

func (e *countingEmbedder) Close() error { return nil }

// vectorFor derives a stable vector from the text length.
func vectorFor(text string) []float32 {
	return []float32{float32(len(text)), 1, 0}
}

// mapStore is an in-memory EmbeddingCacheStore.
type mapStore struct {
	entries map[string][]float32
	puts    int
	getErr  error
}

func newMapStore() *mapStore {
	return &mapStore{entries: make(map[string][]float32)}
}

func (s *mapStore) Get(_ context.Context, key string) ([]float32, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	vector, ok := s.entries[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return vector, nil
}

func (s *mapStore) Put(_ context.Context, key string, vector []float32) error {
	s.puts++
	s.entries[key] = vector
	return nil
}

func (s *mapStore) Len(_ context.Context) (int, error) { return len(s.entries), nil }

func (s *mapStore) Close() error { return nil }

func TestEmbed_CachesRepeatCalls(t *testing.T) {
	inner := &countingEmbedder{}
	svc, err := NewEmbeddingService(inner, nil, 10)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := svc.Embed(ctx, "the effective date clause")
	require.NoError(t, err)

	second, err := svc.Embed(ctx, "the effective date clause")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.embedCalls)
}

func TestEmbed_KeyIgnoresWhitespaceDifferences(t *testing.T) {
	inner := &countingEmbedder{}
	svc, err := NewEmbeddingService(inner, nil, 10)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Embed(ctx, "the  effective\ndate clause")
	require.NoError(t, err)

	// Same passage with different spacing shares the cache entry.
	_, err = svc.Embed(ctx, "the effective date clause")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.embedCalls)
}

func TestEmbed_WritesThroughToStore(t *testing.T) {
	inner := &countingEmbedder{}
	store := newMapStore()
	svc, err := NewEmbeddingService(inner, store, 10)
	require.NoError(t, err)

	_, err = svc.Embed(context.Background(), "clause text")
	require.NoError(t, err)

	assert.Equal(t, 1, store.puts)
}

func TestEmbed_HitsPersistentStoreAfterLRUEviction(t *testing.T) {
	inner := &countingEmbedder{}
	store := newMapStore()
	// LRU of one entry forces eviction on the second distinct text.
	svc, err := NewEmbeddingService(inner, store, 1)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Embed(ctx, "first clause")
	require.NoError(t, err)
	_, err = svc.Embed(ctx, "second clause")
	require.NoError(t, err)

	// Evicted from LRU but still in the store, so no new inner call.
	vector, err := svc.Embed(ctx, "first clause")
	require.NoError(t, err)
	assert.Equal(t, vectorFor("first clause"), vector)
	assert.Equal(t, 2, inner.embedCalls)
}

func TestEmbedBatch_OnlyComputesMisses(t *testing.T) {
	inner := &countingEmbedder{}
	svc, err := NewEmbeddingService(inner, nil, 10)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Embed(ctx, "cached text")
	require.NoError(t, err)

	vectors, err := svc.EmbedBatch(ctx, []string{"cached text", "new text"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)

	assert.Equal(t, vectorFor("cached text"), vectors[0])
	assert.Equal(t, vectorFor("new text"), vectors[1])
	assert.Equal(t, []string{"new text"}, inner.batchTexts)
}

func TestEmbedBatch_AllCachedSkipsInner(t *testing.T) {
	inner := &countingEmbedder{}
	svc, err := NewEmbeddingService(inner, nil, 10)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.EmbedBatch(ctx, []string{"a clause", "b clause"})
	require.NoError(t, err)
	require.Equal(t, 1, inner.batchCalls)

	_, err = svc.EmbedBatch(ctx, []string{"a clause", "b clause"})
	require.NoError(t, err)
	assert.Equal(t, 1, inner.batchCalls)
}

func TestEmbedBatch_PreservesInputOrder(t *testing.T) {
	inner := &countingEmbedder{}
	svc, err := NewEmbeddingService(inner, nil, 10)
	require.NoError(t, err)
	ctx := context.Background()

	// Prime the middle entry only.
	_, err = svc.Embed(ctx, "bb")
	require.NoError(t, err)

	vectors, err := svc.EmbedBatch(ctx, []string{"a", "bb", "ccc"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)

	assert.Equal(t, vectorFor("a"), vectors[0])
	assert.Equal(t, vectorFor("bb"), vectors[1])
	assert.Equal(t, vectorFor("ccc"), vectors[2])
}

func TestEmbed_StoreReadFailureFallsThrough(t *testing.T) {
	inner := &countingEmbedder{}
	store := newMapStore()
	store.getErr = fmt.Errorf("disk error")
	svc, err := NewEmbeddingService(inner, store, 10)
	require.NoError(t, err)

	vector, err := svc.Embed(context.Background(), "clause")
	require.NoError(t, err)
	assert.Equal(t, vectorFor("clause"), vector)
	assert.Equal(t, 1, inner.embedCalls)
}

func TestEmbed_InnerFailurePropagates(t *testing.T) {
	inner := &countingEmbedder{failNext: true}
	svc, err := NewEmbeddingService(inner, nil, 10)
	require.NoError(t, err)

	_, err = svc.Embed(context.Background(), "clause")
	assert.Error(t, err)
}

func TestNewEmbeddingService_RequiresInner(t *testing.T) {
	_, err := NewEmbeddingService(nil, nil, 10)
	assert.Error(t, err)
}

func TestDelegates(t *testing.T) {
	inner := &countingEmbedder{}
	svc, err := NewEmbeddingService(inner, nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 3, svc.Dimensions())
	assert.Equal(t, "fake-model", svc.ModelName())
	assert.NoError(t, svc.Ping(context.Background()))
	assert.NoError(t, svc.Close())
}
