// Package chunker splits document text into overlapping passages with
// stable identifiers.
//
// Splitting is recursive over a prioritized separator list: paragraph
// breaks first, then line breaks, sentence ends, word boundaries, and
// finally raw runes. Coarser separators are preferred; finer splitting
// only happens where a piece would exceed the chunk size.
package chunker

import (
	"context"
	"fmt"
	"strings"

	"github.com/VivekMaurya83/LawDecodes/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 800

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// separators, coarsest first. The empty string means raw rune splitting.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Processor splits document content into overlapping chunks.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
// Empty content produces no chunks, not an error.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	pieces := p.splitText(doc.Content, separators)

	chunks := make([]domain.Chunk, 0, len(pieces))
	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			// Deterministic ID: re-chunking the same document yields
			// the same identifiers.
			ID:       fmt.Sprintf("%s#%04d", doc.Title, len(chunks)),
			Document: doc.Title,
			Content:  piece,
			Position: len(chunks),
		})
	}

	for i := range chunks {
		chunks[i].TotalChunks = len(chunks)
	}

	return chunks, nil
}

// splitText recursively splits text, trying the coarsest separator that
// occurs in it and descending to finer separators only for pieces that
// still exceed the chunk size.
func (p *Processor) splitText(text string, seps []string) []string {
	if text == "" {
		return nil
	}

	sep := seps[len(seps)-1]
	rest := []string{}
	for i, s := range seps {
		if s == "" || strings.Contains(text, s) {
			sep = s
			rest = seps[i+1:]
			break
		}
	}

	var splits []string
	if sep == "" {
		splits = splitRunes(text, p.chunkSize)
	} else {
		// Keep the separator attached so merged chunks read naturally.
		splits = strings.SplitAfter(text, sep)
	}

	var final []string
	var good []string
	for _, s := range splits {
		if len(s) <= p.chunkSize {
			good = append(good, s)
			continue
		}
		// Flush accumulated small pieces, then split the oversized
		// piece with the next finer separator.
		final = append(final, p.merge(good)...)
		good = nil
		final = append(final, p.splitText(s, rest)...)
	}
	final = append(final, p.merge(good)...)

	return final
}

// merge combines consecutive small pieces into chunks of at most
// chunkSize characters, carrying at most overlap characters of trailing
// context into the next chunk.
func (p *Processor) merge(splits []string) []string {
	var chunks []string
	var window []string
	windowLen := 0

	for _, s := range splits {
		if windowLen+len(s) > p.chunkSize && windowLen > 0 {
			chunks = append(chunks, strings.Join(window, ""))

			// Shrink the window to the overlap budget before starting
			// the next chunk.
			for windowLen > p.overlap || (windowLen+len(s) > p.chunkSize && windowLen > 0) {
				windowLen -= len(window[0])
				window = window[1:]
			}
		}
		window = append(window, s)
		windowLen += len(s)
	}

	if windowLen > 0 {
		chunks = append(chunks, strings.Join(window, ""))
	}

	return chunks
}

// splitRunes splits text into pieces of at most size runes.
// Raw splitting is the last resort for text with no separators at all.
func splitRunes(text string, size int) []string {
	runes := []rune(text)
	var pieces []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[start:end]))
	}
	return pieces
}
