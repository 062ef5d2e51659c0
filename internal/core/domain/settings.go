package domain

import "fmt"

// ChunkingSettings holds text splitting configuration.
type ChunkingSettings struct {
	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// ChunkOverlap is the maximum overlap between consecutive chunks.
	ChunkOverlap int
}

// RetrievalSettings holds hybrid retrieval configuration.
// The fusion keeps lexical results ahead of semantic results on ties;
// the numeric weights only influence the rerank stage.
type RetrievalSettings struct {
	// TopK is the number of chunks returned per query.
	TopK int

	// PoolSize is the candidate pool requested from each sub-retriever
	// before fusion.
	PoolSize int

	// DiversityWeight is the MMR lambda for vector retrieval:
	// 1.0 is pure relevance, 0.0 is pure diversity.
	DiversityWeight float64

	// LexicalWeight and SemanticWeight bias the rerank stage.
	LexicalWeight  float64
	SemanticWeight float64
}

// CitationSettings holds citation validation configuration.
type CitationSettings struct {
	// MinQuoteLength is the minimum quoted-span length considered.
	MinQuoteLength int

	// FuzzyConsiderThreshold is the similarity bar above which a fuzzy
	// match is tracked as a candidate.
	FuzzyConsiderThreshold float64

	// FuzzyAcceptThreshold is the similarity bar a candidate must clear
	// to become a citation. Must be strictly greater than
	// FuzzyConsiderThreshold.
	FuzzyAcceptThreshold float64

	// MaxCitations caps how many citations a response carries.
	MaxCitations int

	// QuoteDisplayLength is where quotes are truncated for display.
	QuoteDisplayLength int
}

// MemorySettings holds conversation memory configuration.
type MemorySettings struct {
	// MaxTokens is the hard ceiling on history size. The buffer never
	// exceeds it regardless of compression outcome.
	MaxTokens int

	// SummaryThreshold is the token estimate that triggers compression
	// of older turns into a summary turn.
	SummaryThreshold int

	// KeepRecentTurns is how many of the newest turns stay verbatim
	// through compression.
	KeepRecentTurns int
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Model is the embedding model name.
	Model string

	// APIKey is the provider API key.
	APIKey string

	// Dimensions is the embedding vector size.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	return e.Model != "" && e.APIKey != ""
}

// LLMSettings holds generation provider configuration.
type LLMSettings struct {
	// Model is the generation model name.
	Model string

	// APIKey is the provider API key.
	APIKey string

	// MaxOutputTokens bounds generated responses.
	MaxOutputTokens int

	// Temperature controls randomness. Kept low for legal accuracy.
	Temperature float64
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	return l.Model != "" && l.APIKey != ""
}

// AppSettings holds all engine settings.
type AppSettings struct {
	Chunking  ChunkingSettings
	Retrieval RetrievalSettings
	Citation  CitationSettings
	Memory    MemorySettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// AI providers are left unconfigured; without them the engine degrades
// to lexical-only retrieval and truncation-only memory.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chunking: ChunkingSettings{
			ChunkSize:    800,
			ChunkOverlap: 200,
		},
		Retrieval: RetrievalSettings{
			TopK:            5,
			PoolSize:        10,
			DiversityWeight: 0.5,
			LexicalWeight:   0.6,
			SemanticWeight:  0.4,
		},
		Citation: CitationSettings{
			MinQuoteLength:         10,
			FuzzyConsiderThreshold: 0.5,
			FuzzyAcceptThreshold:   0.6,
			MaxCitations:           3,
			QuoteDisplayLength:     100,
		},
		Memory: MemorySettings{
			MaxTokens:        2000,
			SummaryThreshold: 1500,
			KeepRecentTurns:  2,
		},
		Embedding: EmbeddingSettings{
			Model:      "text-embedding-004",
			Dimensions: 768,
		},
		LLM: LLMSettings{
			Model:           "gemini-2.5-flash",
			MaxOutputTokens: 2048,
			Temperature:     0.1,
		},
	}
}

// Validate checks settings for internal consistency.
func (s AppSettings) Validate() error {
	if s.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive", ErrInvalidInput)
	}
	if s.Chunking.ChunkOverlap < 0 || s.Chunking.ChunkOverlap >= s.Chunking.ChunkSize {
		return fmt.Errorf("%w: chunk overlap must be in [0, chunk size)", ErrInvalidInput)
	}
	if s.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: top-k must be positive", ErrInvalidInput)
	}
	if s.Retrieval.DiversityWeight < 0 || s.Retrieval.DiversityWeight > 1 {
		return fmt.Errorf("%w: diversity weight must be in [0,1]", ErrInvalidInput)
	}
	if s.Citation.FuzzyAcceptThreshold <= s.Citation.FuzzyConsiderThreshold {
		return fmt.Errorf("%w: acceptance threshold must exceed consideration threshold", ErrInvalidInput)
	}
	if s.Citation.MaxCitations <= 0 {
		return fmt.Errorf("%w: max citations must be positive", ErrInvalidInput)
	}
	if s.Memory.SummaryThreshold > s.Memory.MaxTokens {
		return fmt.Errorf("%w: summary threshold must not exceed the memory ceiling", ErrInvalidInput)
	}
	if s.Memory.KeepRecentTurns < 1 {
		return fmt.Errorf("%w: at least one recent turn must stay verbatim", ErrInvalidInput)
	}
	return nil
}
