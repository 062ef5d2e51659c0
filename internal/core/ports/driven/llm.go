package driven

import "context"

// LLMService provides text generation for answers and memory compression.
// This is an optional service - when nil, features degrade gracefully:
// retrieval still works and memory compression falls back to truncation.
//
// Failures are surfaced as wrapped domain.ErrGenerationFailed, never as
// a crash.
type LLMService interface {
	// Generate produces a text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Summarise compresses content to at most maxLength tokens while
	// preserving the detail the prompt template asks for.
	Summarise(ctx context.Context, content string, maxLength int) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
