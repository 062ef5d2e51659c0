package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/VivekMaurya83/LawDecodes/internal/core/domain"
	"github.com/VivekMaurya83/LawDecodes/internal/core/ports/driven"
)

// stubLLM returns canned responses.
type stubLLM struct {
	generateResponses []string
	generateErr       error
	generateCalls     int
	prompts           []string

	summariseResult string
	summariseErr    error
	summariseCalls  int
}

func (s *stubLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.generateErr != nil {
		return "", s.generateErr
	}
	resp := ""
	if s.generateCalls < len(s.generateResponses) {
		resp = s.generateResponses[s.generateCalls]
	}
	s.generateCalls++
	return resp, nil
}

func (s *stubLLM) Summarise(_ context.Context, _ string, _ int) (string, error) {
	s.summariseCalls++
	if s.summariseErr != nil {
		return "", s.summariseErr
	}
	return s.summariseResult, nil
}

func (s *stubLLM) ModelName() string            { return "stub" }
func (s *stubLLM) Ping(_ context.Context) error { return nil }
func (s *stubLLM) Close() error                 { return nil }

// stubPrompts serves templates from a map.
type stubPrompts struct {
	templates map[string]string
}

func (s *stubPrompts) Load(name string) (string, error) {
	if tmpl, ok := s.templates[name]; ok {
		return tmpl, nil
	}
	return "", errors.New("unknown prompt: " + name)
}

func (s *stubPrompts) Reload() {}

func memoryPrompts() *stubPrompts {
	return &stubPrompts{templates: map[string]string{
		driven.PromptMemorySummary: "Summarise this conversation: %s",
	}}
}

// longTurn is roughly 60 common words, so the token estimate lands near
// 60 whether tiktoken or the word-count fallback is active.
func longTurn() string {
	return strings.TrimSpace(strings.Repeat("the contract term applies ", 15))
}

func TestMemory_AddInteractionFormatsHistory(t *testing.T) {
	m := NewMemoryService(nil, nil, domain.MemorySettings{
		MaxTokens: 10000, SummaryThreshold: 9000, KeepRecentTurns: 2,
	})

	m.AddInteraction(context.Background(), "What is the payment term?",
		"Payment is due monthly.",
		[]domain.SourceRef{{Document: "contract.txt", Locator: "chunk 3"}})

	history := m.History()
	if !strings.Contains(history, "Legal Query: What is the payment term?") {
		t.Errorf("missing user turn, got %q", history)
	}
	if !strings.Contains(history, "Legal Assistant: Payment is due monthly.") {
		t.Errorf("missing assistant turn, got %q", history)
	}
	if !strings.Contains(history, "[Sources Referenced: contract.txt (chunk 3)]") {
		t.Errorf("missing source tag, got %q", history)
	}

	stats := m.Stats()
	if stats.Turns != 2 {
		t.Errorf("expected 2 turns, got %d", stats.Turns)
	}
	if stats.SummaryActive {
		t.Error("summary should not be active")
	}
	if stats.TokenEstimate <= 0 || stats.Size <= 0 {
		t.Errorf("expected positive usage, got %+v", stats)
	}
}

func TestMemory_SourceTagCapped(t *testing.T) {
	m := NewMemoryService(nil, nil, domain.MemorySettings{
		MaxTokens: 10000, SummaryThreshold: 9000, KeepRecentTurns: 2,
	})

	sources := []domain.SourceRef{
		{Document: "a.pdf", Locator: "chunk 1"},
		{Document: "b.pdf", Locator: "chunk 2"},
		{Document: "c.pdf", Locator: "chunk 3"},
		{Document: "d.pdf", Locator: "chunk 4"},
	}
	m.AddInteraction(context.Background(), "question", "answer", sources)

	history := m.History()
	if !strings.Contains(history, "c.pdf") {
		t.Error("expected third source present")
	}
	if strings.Contains(history, "d.pdf") {
		t.Error("expected fourth source dropped")
	}
}

func TestMemory_CompressionOnThreshold(t *testing.T) {
	llm := &stubLLM{summariseResult: "Parties discussed recurring contract terms."}
	m := NewMemoryService(llm, memoryPrompts(), domain.MemorySettings{
		MaxTokens: 10000, SummaryThreshold: 150, KeepRecentTurns: 2,
	})

	// First exchange stays under the threshold; the second crosses it.
	m.AddInteraction(context.Background(), longTurn(), longTurn(), nil)
	m.AddInteraction(context.Background(), longTurn(), longTurn(), nil)

	if llm.summariseCalls == 0 {
		t.Fatal("expected summarisation to run")
	}
	stats := m.Stats()
	if !stats.SummaryActive {
		t.Error("expected summary active after compression")
	}
	if stats.Turns != 3 {
		t.Errorf("expected summary + 2 recent turns, got %d", stats.Turns)
	}
	if !strings.HasPrefix(m.History(), "Legal Context Summary: Parties discussed") {
		t.Errorf("expected summary first in history, got %q", m.History()[:60])
	}
}

func TestMemory_CompressionFailureTruncates(t *testing.T) {
	llm := &stubLLM{summariseErr: errors.New("provider down")}
	m := NewMemoryService(llm, memoryPrompts(), domain.MemorySettings{
		MaxTokens: 10000, SummaryThreshold: 150, KeepRecentTurns: 2,
	})

	m.AddInteraction(context.Background(), longTurn(), longTurn(), nil)
	m.AddInteraction(context.Background(), longTurn(), longTurn(), nil)

	stats := m.Stats()
	if stats.SummaryActive {
		t.Error("summary should not be active after failed compression")
	}
	if stats.TokenEstimate > 150 {
		t.Errorf("expected truncation under threshold, got %d tokens", stats.TokenEstimate)
	}
	if stats.Turns == 0 {
		t.Error("expected recent turns to survive truncation")
	}
}

func TestMemory_NoLLMTruncates(t *testing.T) {
	m := NewMemoryService(nil, nil, domain.MemorySettings{
		MaxTokens: 10000, SummaryThreshold: 150, KeepRecentTurns: 2,
	})

	m.AddInteraction(context.Background(), longTurn(), longTurn(), nil)
	m.AddInteraction(context.Background(), longTurn(), longTurn(), nil)

	stats := m.Stats()
	if stats.SummaryActive {
		t.Error("summary cannot be active without an LLM")
	}
	if stats.TokenEstimate > 150 {
		t.Errorf("expected truncation under threshold, got %d tokens", stats.TokenEstimate)
	}
}

func TestMemory_HardCeiling(t *testing.T) {
	m := NewMemoryService(nil, nil, domain.MemorySettings{
		MaxTokens: 50, SummaryThreshold: 40, KeepRecentTurns: 1,
	})

	// A single oversized exchange must still land under the ceiling.
	m.AddInteraction(context.Background(), longTurn(), longTurn(), nil)

	stats := m.Stats()
	if stats.TokenEstimate > 50 {
		t.Errorf("ceiling violated: %d tokens", stats.TokenEstimate)
	}
	if stats.Turns == 0 {
		t.Error("expected at least one turn to survive")
	}
}

func TestMemory_Clear(t *testing.T) {
	m := NewMemoryService(nil, nil, domain.MemorySettings{
		MaxTokens: 10000, SummaryThreshold: 9000, KeepRecentTurns: 2,
	})

	m.AddInteraction(context.Background(), "question", "answer", nil)
	m.Clear()

	if m.History() != "" {
		t.Errorf("expected empty history after clear, got %q", m.History())
	}
	stats := m.Stats()
	if stats.Turns != 0 || stats.TokenEstimate != 0 {
		t.Errorf("expected zeroed stats, got %+v", stats)
	}
}
