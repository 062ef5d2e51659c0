package driven

import (
	"context"

	"github.com/VivekMaurya83/LawDecodes/internal/core/domain"
)

// LexicalIndex provides keyword (BM25) retrieval over chunks.
//
// Implementations must apply the same text preprocessing at build time
// and at query time; asymmetric preprocessing silently breaks recall.
type LexicalIndex interface {
	// Build indexes the given chunks, replacing any previous contents.
	Build(ctx context.Context, chunks []domain.Chunk) error

	// Query returns the top-k chunks ranked by term overlap.
	// Chunks that match no query term are excluded. Ties are broken
	// by chunk ordinal so ordering is stable.
	Query(ctx context.Context, text string, k int) ([]domain.RetrievedChunk, error)
}
