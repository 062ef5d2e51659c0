// Package gemini provides an LLM service adapter using the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/VivekMaurya83/LawDecodes/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultModel = "gemini-1.5-flash"

	// DefaultRequestsPerMinute matches the free-tier quota for generation requests.
	DefaultRequestsPerMinute = 15
)

// Config holds configuration for the Gemini LLM service.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the generative model to use (default: gemini-1.5-flash).
	Model string

	// RequestsPerMinute throttles outgoing API calls (default: 15).
	RequestsPerMinute int
}

// LLMService provides text generation using the Gemini API.
type LLMService struct {
	client    *genai.Client
	limiter   *rate.Limiter
	modelName string
}

// NewLLMService creates a new Gemini LLM service.
func NewLLMService(ctx context.Context, cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &LLMService{
		client:    client,
		limiter:   rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
		modelName: cfg.Model,
	}, nil
}

// Generate produces a text completion from a prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("gemini: rate limit wait: %w", err)
	}

	model := s.client.GenerativeModel(s.modelName)
	if opts.MaxTokens > 0 {
		model.GenerationConfig.SetMaxOutputTokens(int32(opts.MaxTokens))
	}
	if opts.Temperature > 0 {
		model.GenerationConfig.SetTemperature(float32(opts.Temperature))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", err
	}
	return text, nil
}

// defaultSummarisePrompt wraps content that arrives without its own instructions.
const defaultSummarisePrompt = `Summarise the following in %d tokens or less.
Be concise and preserve the key points.

%s

Summary:`

// Summarise compresses content to at most maxLength tokens.
// Content that already carries summarisation instructions (as the memory
// compaction prompt does) is passed through unchanged.
func (s *LLMService) Summarise(ctx context.Context, content string, maxLength int) (string, error) {
	prompt := content
	if !strings.Contains(strings.ToLower(content), "summar") {
		prompt = fmt.Sprintf(defaultSummarisePrompt, maxLength, content)
	}

	result, err := s.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   maxLength,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("summarise: %w", err)
	}

	return strings.TrimSpace(result), nil
}

// responseText extracts the concatenated text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil {
			return "", fmt.Errorf("gemini: prompt blocked: %v", resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("gemini: no response candidates returned")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: candidate has no content (finish reason: %v)", candidate.FinishReason)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini: response contained no text parts")
	}

	return sb.String(), nil
}

// ModelName returns the name of the model being used.
func (s *LLMService) ModelName() string {
	return s.modelName
}

// Ping validates the service is reachable by listing available models.
// This is a lightweight check that validates the API key without running inference.
func (s *LLMService) Ping(ctx context.Context) error {
	it := s.client.ListModels(ctx)
	_, err := it.Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("gemini: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return s.client.Close()
}
