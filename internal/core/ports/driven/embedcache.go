package driven

import "context"

// EmbeddingCacheStore persists embeddings keyed by content hash.
// A missing key is a cache miss (domain.ErrNotFound), not corruption.
//
// Values are idempotent per key, so concurrent writers racing on the
// same key are harmless; implementations only need to serialise the
// write-then-flush of individual puts.
type EmbeddingCacheStore interface {
	// Get returns the cached vector for the given content hash.
	// Returns domain.ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]float32, error)

	// Put stores a vector under the given content hash.
	Put(ctx context.Context, key string, vector []float32) error

	// Len returns the number of persisted entries.
	Len(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
