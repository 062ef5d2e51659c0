package driving

import (
	"context"

	"github.com/VivekMaurya83/LawDecodes/internal/core/domain"
)

// Answer is a generated, citation-validated response.
type Answer struct {
	// Text is the cleaned answer text.
	Text string

	// Citations are the validated citations, capped per settings.
	Citations []domain.Citation

	// CitationCount is the number of quotes that validated before
	// the cap applied.
	CitationCount int

	// Confidence is the mean similarity of accepted citations.
	Confidence float64

	// Retrieved is the grounding context the answer was generated from.
	Retrieved []domain.RetrievedChunk
}

// ChatService answers questions against the ingested documents,
// grounding each answer in verifiable source quotes.
type ChatService interface {
	// Ask retrieves context, generates an answer, validates its
	// citations and records the exchange in conversation memory.
	// Generation failures surface as domain.ErrGenerationFailed.
	Ask(ctx context.Context, question string) (*Answer, error)
}
