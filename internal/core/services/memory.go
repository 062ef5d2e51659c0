package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/VivekMaurya83/LawDecodes/internal/core/domain"
	"github.com/VivekMaurya83/LawDecodes/internal/core/ports/driven"
	"github.com/VivekMaurya83/LawDecodes/internal/core/ports/driving"
	"github.com/VivekMaurya83/LawDecodes/internal/logger"
)

// Ensure MemoryService implements the interface.
var _ driving.ConversationMemory = (*MemoryService)(nil)

// History formatting prefixes.
const (
	userPrefix      = "Legal Query: "
	assistantPrefix = "Legal Assistant: "
	summaryPrefix   = "Legal Context Summary: "
)

// maxSourcesPerTurn caps how many attributions fold into a turn.
const maxSourcesPerTurn = 3

// tokenEncoding is the tiktoken encoding used for estimates.
const tokenEncoding = "cl100k_base"

// MemoryService is a token-bounded conversation buffer with a single
// summary slot. When the history outgrows the summary threshold, older
// turns compress into the slot via the LLM; if compression is
// unavailable or fails, the oldest turns are dropped instead. The hard
// ceiling always holds.
type MemoryService struct {
	llm      driven.LLMService // optional
	prompts  driven.PromptStore
	settings domain.MemorySettings

	mu      sync.Mutex
	turns   []domain.ConversationTurn
	summary string

	encOnce sync.Once
	enc     *tiktoken.Tiktoken
}

// NewMemoryService creates a conversation memory. The LLM is optional
// (can be nil); without it overflow is handled by truncation only.
func NewMemoryService(
	llm driven.LLMService,
	prompts driven.PromptStore,
	settings domain.MemorySettings,
) *MemoryService {
	return &MemoryService{
		llm:      llm,
		prompts:  prompts,
		settings: settings,
	}
}

// AddInteraction appends a user/assistant exchange, folding source
// attributions into the assistant turn, then enforces the memory bounds.
func (m *MemoryService) AddInteraction(ctx context.Context, userText, assistantText string, sources []domain.SourceRef) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.turns = append(m.turns,
		domain.ConversationTurn{Role: domain.RoleUser, Content: userText},
		domain.ConversationTurn{Role: domain.RoleAssistant, Content: withSourceTag(assistantText, sources)},
	)

	m.enforceBounds(ctx)
}

// withSourceTag appends a compact inline attribution to an assistant
// response, e.g. "[Sources Referenced: msa.pdf (chunk 3), nda.pdf (chunk 1)]".
func withSourceTag(response string, sources []domain.SourceRef) string {
	if len(sources) == 0 {
		return response
	}
	if len(sources) > maxSourcesPerTurn {
		sources = sources[:maxSourcesPerTurn]
	}

	refs := make([]string, len(sources))
	for i, src := range sources {
		refs[i] = fmt.Sprintf("%s (%s)", src.Document, src.Locator)
	}
	return response + "\n[Sources Referenced: " + strings.Join(refs, ", ") + "]"
}

// History returns the formatted conversation, summary first when present.
func (m *MemoryService) History() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.formatHistory()
}

// Stats reports memory usage.
func (m *MemoryService) Stats() domain.MemoryStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	history := m.formatHistory()
	turns := len(m.turns)
	if m.summary != "" {
		turns++
	}
	return domain.MemoryStats{
		Turns:         turns,
		Size:          len(history),
		TokenEstimate: m.estimateTokens(history),
		SummaryActive: m.summary != "",
	}
}

// Clear drops all turns and the summary.
func (m *MemoryService) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns = nil
	m.summary = ""
}

// formatHistory renders the buffer. Callers hold the lock.
func (m *MemoryService) formatHistory() string {
	var sb strings.Builder
	if m.summary != "" {
		sb.WriteString(summaryPrefix)
		sb.WriteString(m.summary)
		sb.WriteString("\n")
	}
	for _, turn := range m.turns {
		switch turn.Role {
		case domain.RoleUser:
			sb.WriteString(userPrefix)
		case domain.RoleAssistant:
			sb.WriteString(assistantPrefix)
		}
		sb.WriteString(turn.Content)
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// enforceBounds compresses or truncates until the buffer fits.
// Callers hold the lock.
func (m *MemoryService) enforceBounds(ctx context.Context) {
	estimate := m.estimateTokens(m.formatHistory())
	if estimate > m.settings.SummaryThreshold {
		logger.Debug("Memory at %d tokens exceeds summary threshold %d",
			estimate, m.settings.SummaryThreshold)
		if !m.compress(ctx) {
			m.truncateTo(m.settings.SummaryThreshold)
		}
	}

	// Compression output is LLM-controlled, so the ceiling is enforced
	// unconditionally afterwards.
	m.truncateTo(m.settings.MaxTokens)
}

// compress folds everything but the most recent turns into the summary
// slot. Returns false when no LLM is available or summarisation fails.
func (m *MemoryService) compress(ctx context.Context) bool {
	if m.llm == nil {
		logger.Debug("No LLM available, skipping memory compression")
		return false
	}

	keep := m.settings.KeepRecentTurns
	if keep >= len(m.turns) {
		return false
	}

	older := m.turns[:len(m.turns)-keep]
	recent := m.turns[len(m.turns)-keep:]

	var sb strings.Builder
	if m.summary != "" {
		sb.WriteString(summaryPrefix)
		sb.WriteString(m.summary)
		sb.WriteString("\n")
	}
	for _, turn := range older {
		prefix := userPrefix
		if turn.Role == domain.RoleAssistant {
			prefix = assistantPrefix
		}
		sb.WriteString(prefix)
		sb.WriteString(turn.Content)
		sb.WriteString("\n")
	}

	content := sb.String()
	if m.prompts != nil {
		if tmpl, err := m.prompts.Load(driven.PromptMemorySummary); err == nil {
			content = fmt.Sprintf(tmpl, content)
		}
	}

	summary, err := m.llm.Summarise(ctx, content, m.settings.SummaryThreshold/2)
	if err != nil || strings.TrimSpace(summary) == "" {
		logger.Warn("Memory compression failed, falling back to truncation: %v", err)
		return false
	}

	m.summary = strings.TrimSpace(summary)
	m.turns = append([]domain.ConversationTurn(nil), recent...)
	logger.Info("Memory compressed: %d older turns folded into summary", len(older))
	return true
}

// truncateTo drops the oldest content until the history estimate fits
// within limit. The summary goes first, then turns from the front. The
// last turn is never dropped; if it alone exceeds the limit its content
// is cut instead.
func (m *MemoryService) truncateTo(limit int) {
	if limit <= 0 {
		return
	}

	for m.estimateTokens(m.formatHistory()) > limit {
		switch {
		case m.summary != "":
			m.summary = ""
			logger.Debug("Memory truncation dropped the summary")
		case len(m.turns) > 1:
			m.turns = m.turns[1:]
		case len(m.turns) == 1:
			// A single oversized turn is cut from the front, keeping
			// the most recent half, until it fits.
			words := strings.Fields(m.turns[0].Content)
			if len(words) < 2 {
				return
			}
			m.turns[0].Content = strings.Join(words[len(words)/2:], " ")
		default:
			return
		}
	}
}

// estimateTokens counts tokens with tiktoken, falling back to a word
// count when the encoding cannot be loaded (e.g. offline).
func (m *MemoryService) estimateTokens(text string) int {
	m.encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding(tokenEncoding)
		if err != nil {
			logger.Warn("Token encoding unavailable, using word-count estimates: %v", err)
			return
		}
		m.enc = enc
	})

	if m.enc != nil {
		return len(m.enc.Encode(text, nil, nil))
	}
	return len(strings.Fields(text))
}
