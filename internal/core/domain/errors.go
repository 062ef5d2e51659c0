package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// For the embedding cache store this means a cache miss, not corruption.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Vector/semantic retrieval is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Features requiring generation (answers, memory compression) are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrGenerationFailed indicates a text generation call failed.
	// Always caught at a component boundary: memory compression falls back
	// to truncation, citation validation returns zero citations.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrCorruptIndex indicates a persisted index failed verification on load.
	// The caller rebuilds the index from source chunks instead of erroring.
	ErrCorruptIndex = errors.New("corrupt index")

	// ErrLexicalUnavailable indicates the lexical index is not configured.
	ErrLexicalUnavailable = errors.New("lexical index unavailable")

	// ErrVectorUnavailable indicates the vector index is not configured.
	ErrVectorUnavailable = errors.New("vector index unavailable")
)
