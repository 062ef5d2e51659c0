package driving

import (
	"context"

	"github.com/VivekMaurya83/LawDecodes/internal/core/domain"
)

// Retriever provides grounded chunk retrieval to external actors.
type Retriever interface {
	// Retrieve returns the chunks most relevant to the query, in rank
	// order. An empty result means "no grounding available" and is not
	// an error; Retrieve only fails on invalid input.
	Retrieve(ctx context.Context, query string, opts domain.RetrievalOptions) ([]domain.RetrievedChunk, error)
}

// CitationValidator judges whether a generated answer's quoted claims
// are traceable to the retrieved chunks. It never alters which chunks
// were retrieved.
type CitationValidator interface {
	// Validate extracts quoted spans from the answer and matches them
	// against the chunks.
	Validate(answer string, chunks []domain.RetrievedChunk) domain.CitationResult
}
