// Package cached provides a caching decorator for embedding services.
//
// Embeddings are keyed by a SHA-256 hash of the model name and the
// whitespace-normalised input text, so identical passages across
// documents share one entry. Lookups go through an in-process LRU
// first, then the optional persistent store, and only fall through to
// the wrapped service on a full miss. Store write failures are logged
// and swallowed; the cache is an optimisation, never a correctness
// dependency.
package cached

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/VivekMaurya83/LawDecodes/internal/core/domain"
	"github.com/VivekMaurya83/LawDecodes/internal/core/ports/driven"
	"github.com/VivekMaurya83/LawDecodes/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultCacheSize is the default in-process LRU capacity.
const DefaultCacheSize = 4096

// EmbeddingService wraps another embedding service with a two-level cache.
type EmbeddingService struct {
	inner driven.EmbeddingService
	store driven.EmbeddingCacheStore
	cache *lru.Cache[string, []float32]
}

// NewEmbeddingService creates a caching decorator around inner.
// The store is optional; when nil, caching is memory-only. The decorator
// does not take ownership of the store - the caller closes it.
func NewEmbeddingService(inner driven.EmbeddingService, store driven.EmbeddingCacheStore, size int) (*EmbeddingService, error) {
	if inner == nil {
		return nil, fmt.Errorf("cached: inner embedding service is required")
	}
	if size <= 0 {
		size = DefaultCacheSize
	}

	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("cached: create lru: %w", err)
	}

	return &EmbeddingService{
		inner: inner,
		store: store,
		cache: cache,
	}, nil
}

// Embed returns the cached embedding for text, computing it on a miss.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	key := s.hashKey(text)

	if vector, ok := s.lookup(ctx, key); ok {
		return vector, nil
	}

	vector, err := s.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	s.remember(ctx, key, vector)
	return vector, nil
}

// EmbedBatch embeds texts, computing only the entries absent from cache.
// Results are returned in input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, len(texts))
	keys := make([]string, len(texts))

	var missed []string
	var missedIdx []int
	for i, text := range texts {
		keys[i] = s.hashKey(text)
		if vector, ok := s.lookup(ctx, keys[i]); ok {
			vectors[i] = vector
			continue
		}
		missed = append(missed, text)
		missedIdx = append(missedIdx, i)
	}

	if len(missed) == 0 {
		return vectors, nil
	}
	logger.Debug("Embedding cache: %d hit, %d miss", len(texts)-len(missed), len(missed))

	computed, err := s.inner.EmbedBatch(ctx, missed)
	if err != nil {
		return nil, err
	}
	if len(computed) != len(missed) {
		return nil, fmt.Errorf("cached: expected %d embeddings, got %d", len(missed), len(computed))
	}

	for i, vector := range computed {
		idx := missedIdx[i]
		vectors[idx] = vector
		s.remember(ctx, keys[idx], vector)
	}

	return vectors, nil
}

// lookup checks the LRU, then the persistent store.
func (s *EmbeddingService) lookup(ctx context.Context, key string) ([]float32, bool) {
	if vector, ok := s.cache.Get(key); ok {
		return vector, true
	}

	if s.store == nil {
		return nil, false
	}

	vector, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Embedding cache read failed: %v", err)
		}
		return nil, false
	}

	s.cache.Add(key, vector)
	return vector, true
}

// remember writes through to both cache levels.
func (s *EmbeddingService) remember(ctx context.Context, key string, vector []float32) {
	s.cache.Add(key, vector)

	if s.store == nil {
		return
	}
	if err := s.store.Put(ctx, key, vector); err != nil {
		logger.Warn("Embedding cache write failed: %v", err)
	}
}

// hashKey derives the cache key from the model name and the
// whitespace-normalised text. Including the model keeps entries from
// different models apart.
func (s *EmbeddingService) hashKey(text string) string {
	h := sha256.New()
	h.Write([]byte(s.inner.ModelName()))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(strings.Fields(text), " ")))
	return hex.EncodeToString(h.Sum(nil))
}

// Dimensions returns the embedding vector size of the wrapped service.
func (s *EmbeddingService) Dimensions() int {
	return s.inner.Dimensions()
}

// ModelName returns the name of the wrapped embedding model.
func (s *EmbeddingService) ModelName() string {
	return s.inner.ModelName()
}

// Ping validates the wrapped service is reachable.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close releases the wrapped service. The persistent store is owned by
// the caller and is not closed here.
func (s *EmbeddingService) Close() error {
	return s.inner.Close()
}
