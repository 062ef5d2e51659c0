package driving

import (
	"context"

	"github.com/VivekMaurya83/LawDecodes/internal/core/domain"
)

// ConversationMemory is the token-bounded rolling conversation buffer.
// Each chat session owns its own instance.
type ConversationMemory interface {
	// AddInteraction appends a user/assistant exchange. Source
	// attributions are folded into the assistant turn as a compact
	// inline tag. Compression or truncation happens here when the
	// buffer overflows; AddInteraction never fails.
	AddInteraction(ctx context.Context, userText, assistantText string, sources []domain.SourceRef)

	// History returns the formatted conversation history, summary
	// turn first when present.
	History() string

	// Stats reports memory usage.
	Stats() domain.MemoryStats

	// Clear drops all turns and the summary.
	Clear()
}
