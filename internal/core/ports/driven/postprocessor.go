package driven

import (
	"context"

	"github.com/VivekMaurya83/LawDecodes/internal/core/domain"
)

// PostProcessor processes document content to produce chunks.
// PostProcessors are chained in a pipeline; today the pipeline is
// chunking only, but the seam is where term normalisation or section
// tagging would slot in.
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a document and returns chunks.
	// A chunk-creating processor (the chunker) receives nil and returns
	// new chunks; a chunk-modifying processor receives and returns them.
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the document through all processors in order.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
