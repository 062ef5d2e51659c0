package domain

// TurnRole identifies the speaker of a conversation turn.
type TurnRole string

const (
	// RoleUser marks a user query turn.
	RoleUser TurnRole = "user"

	// RoleAssistant marks an assistant answer turn.
	RoleAssistant TurnRole = "assistant"

	// RoleSummary marks the compressed summary turn that replaces
	// older turns when memory overflows.
	RoleSummary TurnRole = "summary"
)

// ConversationTurn is a single message in the rolling conversation buffer.
type ConversationTurn struct {
	// Role is who produced the turn.
	Role TurnRole

	// Content is the turn text. Assistant turns carry a compact inline
	// source tag rather than full citation objects.
	Content string
}

// SourceRef is a compact attribution appended to assistant turns:
// document title plus a locator within it.
type SourceRef struct {
	// Document is the source document title.
	Document string

	// Locator identifies where in the document, e.g. a chunk ordinal.
	Locator string
}

// MemoryStats reports conversation memory usage.
type MemoryStats struct {
	// Turns is the number of turns in the compressed representation,
	// counting the summary slot as one turn when present.
	Turns int

	// Size is the history length in bytes.
	Size int

	// TokenEstimate is the estimated token count of the history.
	TokenEstimate int

	// SummaryActive reports whether older turns have been collapsed
	// into a summary.
	SummaryActive bool
}
