package domain

// MatchType describes how a quoted span was matched against a chunk.
type MatchType string

const (
	// MatchExact means the quote appears verbatim (case-insensitive)
	// in the chunk text.
	MatchExact MatchType = "exact"

	// MatchFuzzy means the quote matched by string similarity above
	// the acceptance threshold.
	MatchFuzzy MatchType = "fuzzy"
)

// Citation links a quoted span of generated text to the retrieved chunk
// it was traced to. A Citation only exists when the similarity cleared
// the acceptance threshold.
type Citation struct {
	// Quote is the quoted span, truncated for display.
	Quote string

	// ChunkID identifies the chunk the quote was attributed to.
	ChunkID string

	// Document is the title of the chunk's source document.
	Document string

	// Position is the chunk's ordinal within its document.
	Position int

	// Similarity is the match score in [0,1]. Exact matches score 1.0.
	Similarity float64

	// Match records whether this was an exact or fuzzy match.
	Match MatchType
}

// CitationResult is the outcome of validating a generated answer
// against its retrieved chunks.
type CitationResult struct {
	// Answer is the cleaned answer text with duplicated lines removed.
	Answer string

	// Citations holds the accepted citations in order of appearance,
	// capped at MaxCitations.
	Citations []Citation

	// CitationCount is the number of quotes that validated, which may
	// exceed len(Citations) when the cap applied.
	CitationCount int

	// Confidence is the mean similarity of accepted citations,
	// zero when nothing validated.
	Confidence float64
}
