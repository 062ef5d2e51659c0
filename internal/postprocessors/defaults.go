package postprocessors

import (
	"github.com/VivekMaurya83/LawDecodes/internal/core/domain"
	"github.com/VivekMaurya83/LawDecodes/internal/postprocessors/chunker"
)

// DefaultPipeline builds the standard ingestion pipeline from settings.
// Today that is chunking only.
func DefaultPipeline(settings domain.ChunkingSettings) *Pipeline {
	var opts []chunker.Option
	if settings.ChunkSize > 0 {
		opts = append(opts, chunker.WithChunkSize(settings.ChunkSize))
	}
	if settings.ChunkOverlap >= 0 {
		opts = append(opts, chunker.WithOverlap(settings.ChunkOverlap))
	}
	return NewPipeline(chunker.New(opts...))
}
