// Package lexical provides an in-process BM25 keyword index over chunks.
// It plays the role a full-text engine would in a larger deployment,
// with preprocessing tuned for legal text.
package lexical

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/VivekMaurya83/LawDecodes/internal/core/domain"
	"github.com/VivekMaurya83/LawDecodes/internal/core/ports/driven"
	"github.com/VivekMaurya83/LawDecodes/internal/logger"
)

// BM25 parameters. Standard Okapi values.
const (
	k1 = 1.5
	b  = 0.75
)

// Ensure Index implements the interface.
var _ driven.LexicalIndex = (*Index)(nil)

// Index is a BM25 Okapi index. Build replaces the corpus wholesale;
// queries afterwards are read-only and safe for concurrent use.
type Index struct {
	mu        sync.RWMutex
	chunks    []domain.Chunk
	termFreqs []map[string]int
	docLens   []int
	avgDocLen float64
	docFreq   map[string]int
}

// New creates an empty lexical index.
func New() *Index {
	return &Index{docFreq: make(map[string]int)}
}

// Build indexes the given chunks, replacing any previous contents.
func (idx *Index) Build(_ context.Context, chunks []domain.Chunk) error {
	termFreqs := make([]map[string]int, len(chunks))
	docLens := make([]int, len(chunks))
	docFreq := make(map[string]int)
	totalLen := 0

	for i, chunk := range chunks {
		terms := Tokenize(chunk.Content)
		tf := make(map[string]int, len(terms))
		for _, term := range terms {
			tf[term]++
		}
		for term := range tf {
			docFreq[term]++
		}
		termFreqs[i] = tf
		docLens[i] = len(terms)
		totalLen += len(terms)
	}

	avg := 0.0
	if len(chunks) > 0 {
		avg = float64(totalLen) / float64(len(chunks))
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.chunks = append([]domain.Chunk(nil), chunks...)
	idx.termFreqs = termFreqs
	idx.docLens = docLens
	idx.avgDocLen = avg
	idx.docFreq = docFreq

	logger.Debug("Lexical index built: %d chunks, %d terms", len(chunks), len(docFreq))
	return nil
}

// Query returns the top-k chunks ranked by BM25 score.
// Chunks matching no query term are excluded. Ties break by ordinal so
// ordering is stable across runs.
func (idx *Index) Query(_ context.Context, text string, k int) ([]domain.RetrievedChunk, error) {
	terms := Tokenize(text)
	if len(terms) == 0 || k <= 0 {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	n := len(idx.chunks)
	if n == 0 {
		return nil, nil
	}

	results := make([]domain.RetrievedChunk, 0, n)
	for i := range idx.chunks {
		score := idx.score(terms, i)
		if score <= 0 {
			continue
		}
		results = append(results, domain.RetrievedChunk{
			Chunk:      idx.chunks[i],
			Score:      score,
			Provenance: domain.ProvenanceLexical,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Chunk.Document != results[j].Chunk.Document {
			return results[i].Chunk.Document < results[j].Chunk.Document
		}
		return results[i].Chunk.Position < results[j].Chunk.Position
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// score computes the BM25 Okapi score of chunk i against the query terms.
func (idx *Index) score(terms []string, i int) float64 {
	tf := idx.termFreqs[i]
	dl := float64(idx.docLens[i])
	n := float64(len(idx.chunks))

	score := 0.0
	for _, term := range terms {
		f := float64(tf[term])
		if f == 0 {
			continue
		}
		df := float64(idx.docFreq[term])
		idf := math.Log(1 + (n-df+0.5)/(df+0.5))
		norm := f + k1*(1-b+b*dl/idx.avgDocLen)
		score += idf * f * (k1 + 1) / norm
	}
	return score
}
