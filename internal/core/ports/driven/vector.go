package driven

import (
	"context"

	"github.com/VivekMaurya83/LawDecodes/internal/core/domain"
)

// VectorIndex provides dense-embedding similarity retrieval over chunks.
// The index owns query embedding: callers pass text, not vectors.
type VectorIndex interface {
	// Build embeds and indexes the given chunks, replacing any previous
	// contents. Chunks whose embedding fails are logged and skipped.
	Build(ctx context.Context, chunks []domain.Chunk) error

	// Query returns the top-k chunks by cosine similarity, selected
	// with maximal-marginal-relevance so near-duplicates are suppressed.
	// diversityWeight is the MMR lambda: 1.0 is pure relevance.
	Query(ctx context.Context, text string, k int, diversityWeight float64) ([]domain.RetrievedChunk, error)

	// Close releases resources.
	Close() error
}
