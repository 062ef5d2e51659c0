package domain

// Provenance identifies which retrieval strategy produced a result.
type Provenance string

const (
	// ProvenanceLexical marks results from keyword (BM25) retrieval.
	ProvenanceLexical Provenance = "lexical"

	// ProvenanceSemantic marks results from vector similarity retrieval.
	ProvenanceSemantic Provenance = "semantic"

	// ProvenanceDateOverride marks results from the date-indicator scan
	// that short-circuits normal ranking for temporal queries.
	ProvenanceDateOverride Provenance = "date-override"

	// ProvenanceMerged marks results after fusion of multiple strategies.
	ProvenanceMerged Provenance = "merged"
)

// RetrievedChunk is a chunk paired with its relevance score and the
// strategy that produced it.
type RetrievedChunk struct {
	// Chunk is the matched passage.
	Chunk Chunk

	// Score is the strategy-specific relevance score. Scores from
	// different provenances are not comparable with each other.
	Score float64

	// Provenance records which retrieval path produced this result.
	Provenance Provenance
}

// RetrievalOptions configures a single retrieval call.
type RetrievalOptions struct {
	// K is the maximum number of chunks to return.
	K int

	// PoolSize is the candidate pool requested from each sub-retriever
	// before fusion. Zero means 2*K.
	PoolSize int
}
