package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/VivekMaurya83/LawDecodes/internal/core/domain"
	"github.com/VivekMaurya83/LawDecodes/internal/core/ports/driven"
	"github.com/VivekMaurya83/LawDecodes/internal/core/ports/driving"
	"github.com/VivekMaurya83/LawDecodes/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatService answers questions against the indexed corpus. Each answer
// is grounded in retrieved chunks, validated for citations and recorded
// in conversation memory.
type ChatService struct {
	retriever driving.Retriever
	validator driving.CitationValidator
	memory    driving.ConversationMemory
	llm       driven.LLMService
	prompts   driven.PromptStore
	settings  domain.AppSettings
}

// NewChatService creates a chat service. All dependencies except the
// LLM are required; without an LLM, Ask fails with ErrLLMUnavailable
// while retrieval-only callers remain unaffected.
func NewChatService(
	retriever driving.Retriever,
	validator driving.CitationValidator,
	memory driving.ConversationMemory,
	llm driven.LLMService,
	prompts driven.PromptStore,
	settings domain.AppSettings,
) *ChatService {
	return &ChatService{
		retriever: retriever,
		validator: validator,
		memory:    memory,
		llm:       llm,
		prompts:   prompts,
		settings:  settings,
	}
}

// Ask retrieves context for the question, generates an answer, validates
// its citations and records the exchange.
func (s *ChatService) Ask(ctx context.Context, question string) (*driving.Answer, error) {
	logger.Section("Chat")
	logger.Debug("Question: %q", question)

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	history := s.memory.History()

	// Follow-up questions are rewritten to standalone ones so retrieval
	// sees the full context. Rewrite failures fall back to the original.
	searchQuery := s.condense(ctx, history, question)

	retrieved, err := s.retriever.Retrieve(ctx, searchQuery, domain.RetrievalOptions{
		K:        s.settings.Retrieval.TopK,
		PoolSize: s.settings.Retrieval.PoolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}
	logger.Debug("Retrieved %d chunks for grounding", len(retrieved))

	prompt, err := s.buildPrompt(formatContext(retrieved), history, question)
	if err != nil {
		return nil, err
	}

	raw, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   s.settings.LLM.MaxOutputTokens,
		Temperature: s.settings.LLM.Temperature,
	})
	if err != nil {
		logger.Warn("Generation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	result := s.validator.Validate(raw, retrieved)
	logger.Info("Answer generated: %d citations, confidence %.2f",
		result.CitationCount, result.Confidence)

	sources := make([]domain.SourceRef, 0, len(result.Citations))
	for _, c := range result.Citations {
		sources = append(sources, domain.SourceRef{
			Document: c.Document,
			Locator:  fmt.Sprintf("chunk %d", c.Position+1),
		})
	}
	s.memory.AddInteraction(ctx, question, result.Answer, sources)

	return &driving.Answer{
		Text:          result.Answer,
		Citations:     result.Citations,
		CitationCount: result.CitationCount,
		Confidence:    result.Confidence,
		Retrieved:     retrieved,
	}, nil
}

// condense rewrites a follow-up question into a standalone one using
// the conversation history. Any failure returns the original question.
func (s *ChatService) condense(ctx context.Context, history, question string) string {
	if history == "" {
		return question
	}

	tmpl, err := s.prompts.Load(driven.PromptCondenseQuestion)
	if err != nil {
		logger.Warn("Condense prompt unavailable: %v", err)
		return question
	}

	rewritten, err := s.llm.Generate(ctx, fmt.Sprintf(tmpl, history, question), driven.GenerateOptions{
		MaxTokens:   256,
		Temperature: 0,
	})
	if err != nil || strings.TrimSpace(rewritten) == "" {
		logger.Warn("Question rewrite failed, using original: %v", err)
		return question
	}

	rewritten = strings.TrimSpace(rewritten)
	logger.Debug("Question rewritten: %q", rewritten)
	return rewritten
}

func (s *ChatService) buildPrompt(contextBlock, history, question string) (string, error) {
	tmpl, err := s.prompts.Load(driven.PromptLegalQA)
	if err != nil {
		return "", fmt.Errorf("load qa prompt: %w", err)
	}
	return fmt.Sprintf(tmpl, contextBlock, history, question), nil
}

// formatContext renders retrieved chunks as the grounding block of the
// QA prompt, each labelled with its source so the model can cite it.
func formatContext(retrieved []domain.RetrievedChunk) string {
	if len(retrieved) == 0 {
		return "No relevant documents found."
	}

	var sb strings.Builder
	for _, r := range retrieved {
		fmt.Fprintf(&sb, "[Source: %s (chunk %d/%d)]\n%s\n\n",
			r.Chunk.Document, r.Chunk.Position+1, r.Chunk.TotalChunks, r.Chunk.Content)
	}
	return strings.TrimSpace(sb.String())
}
