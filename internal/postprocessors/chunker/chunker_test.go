package chunker

import (
	"context"
	"strings"
	"testing"

	"github.com/VivekMaurya83/LawDecodes/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, p.chunkSize)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, p.overlap)
		}
	})

	t.Run("custom values", func(t *testing.T) {
		p := New(WithChunkSize(500), WithOverlap(100))
		if p.chunkSize != 500 {
			t.Errorf("expected chunkSize 500, got %d", p.chunkSize)
		}
		if p.overlap != 100 {
			t.Errorf("expected overlap 100, got %d", p.overlap)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		p := New(WithChunkSize(100), WithOverlap(150))
		if p.overlap >= p.chunkSize {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		p := New(WithChunkSize(0), WithOverlap(-1))
		if p.chunkSize != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", p.chunkSize)
		}
		if p.overlap != DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", p.overlap)
		}
	})
}

func TestProcessor_Process_EmptyContent(t *testing.T) {
	p := New()
	doc := &domain.Document{ID: "doc-1", Title: "contract.txt", Content: ""}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty content, got %d", len(chunks))
	}
}

func TestProcessor_Process_SmallContent(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(20))
	doc := &domain.Document{
		ID:      "doc-1",
		Title:   "contract.txt",
		Content: "The Effective Date is 4 Sep 2025.",
	}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected exactly 1 chunk for content below chunk size, got %d", len(chunks))
	}
	if chunks[0].Content != doc.Content {
		t.Errorf("single chunk should equal the input, got %q", chunks[0].Content)
	}
	if chunks[0].Position != 0 || chunks[0].TotalChunks != 1 {
		t.Errorf("expected position 0 of 1, got %d of %d", chunks[0].Position, chunks[0].TotalChunks)
	}
}

func TestProcessor_Process_ParagraphsPreferred(t *testing.T) {
	p := New(WithChunkSize(60), WithOverlap(0))
	doc := &domain.Document{
		ID:      "doc-1",
		Title:   "contract.txt",
		Content: "First clause of the agreement text.\n\nSecond clause of the agreement text.",
	}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected paragraph split into 2 chunks, got %d", len(chunks))
	}
	if strings.Contains(chunks[0].Content, "Second") {
		t.Errorf("first chunk should stop at the paragraph break: %q", chunks[0].Content)
	}
}

func TestProcessor_Process_StableIDs(t *testing.T) {
	p := New(WithChunkSize(50), WithOverlap(10))
	doc := &domain.Document{
		ID:      "doc-1",
		Title:   "lease.txt",
		Content: strings.Repeat("The tenant shall pay rent monthly. ", 10),
	}

	first, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("re-chunking changed the chunk count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("chunk %d ID not stable: %q vs %q", i, first[i].ID, second[i].ID)
		}
		if first[i].ID == "" || !strings.HasPrefix(first[i].ID, "lease.txt#") {
			t.Errorf("chunk ID should be derived from the document: %q", first[i].ID)
		}
	}
}

func TestProcessor_Process_Ordinals(t *testing.T) {
	p := New(WithChunkSize(40), WithOverlap(5))
	doc := &domain.Document{
		ID:      "doc-1",
		Title:   "terms.txt",
		Content: strings.Repeat("Clause text here. ", 20),
	}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if chunk.Position != i {
			t.Errorf("expected position %d, got %d", i, chunk.Position)
		}
		if chunk.TotalChunks != len(chunks) {
			t.Errorf("chunk %d reports total %d, want %d", i, chunk.TotalChunks, len(chunks))
		}
		if len(chunk.Content) > 40 {
			t.Errorf("chunk %d exceeds chunk size: %d chars", i, len(chunk.Content))
		}
	}
}

func TestProcessor_Process_NoSeparators(t *testing.T) {
	p := New(WithChunkSize(10), WithOverlap(0))
	doc := &domain.Document{
		ID:      "doc-1",
		Title:   "raw.txt",
		Content: strings.Repeat("x", 25),
	}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Raw rune fallback: 10 + 10 + 5
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks from raw splitting, got %d", len(chunks))
	}
	if chunks[0].Content != strings.Repeat("x", 10) {
		t.Errorf("unexpected first chunk: %q", chunks[0].Content)
	}
}
