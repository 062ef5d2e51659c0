// Package vector provides an in-process dense-embedding index with
// diversity-aware (maximal-marginal-relevance) selection and snapshot
// persistence.
package vector

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/VivekMaurya83/LawDecodes/internal/core/domain"
	"github.com/VivekMaurya83/LawDecodes/internal/core/ports/driven"
	"github.com/VivekMaurya83/LawDecodes/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index stores one embedding per chunk and answers similarity queries.
// Build replaces the contents wholesale; queries afterwards are
// read-only and safe for concurrent use.
type Index struct {
	mu       sync.RWMutex
	embedder driven.EmbeddingService
	chunks   []domain.Chunk
	vectors  [][]float32
}

// New creates an empty vector index backed by the given embedding service.
// Wrap the service in the caching decorator so identical chunk text
// never re-embeds.
func New(embedder driven.EmbeddingService) *Index {
	return &Index{embedder: embedder}
}

// Build embeds and indexes the given chunks, replacing any previous
// contents. A chunk whose embedding fails is logged and skipped rather
// than aborting the build.
func (idx *Index) Build(ctx context.Context, chunks []domain.Chunk) error {
	if idx.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	kept := make([]domain.Chunk, 0, len(chunks))
	vectors := make([][]float32, 0, len(chunks))

	embedded, err := idx.embedder.EmbedBatch(ctx, texts)
	if err == nil && len(embedded) == len(chunks) {
		kept = chunks
		vectors = embedded
	} else {
		// Batch failed; embed individually so one bad chunk doesn't
		// take down the index.
		logger.Warn("Batch embedding failed (%v), falling back to per-chunk embedding", err)
		for i, chunk := range chunks {
			vec, embedErr := idx.embedder.Embed(ctx, texts[i])
			if embedErr != nil {
				logger.Warn("Skipping chunk %s: embedding failed: %v", chunk.ID, embedErr)
				continue
			}
			kept = append(kept, chunk)
			vectors = append(vectors, vec)
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.chunks = append([]domain.Chunk(nil), kept...)
	idx.vectors = vectors

	logger.Debug("Vector index built: %d/%d chunks embedded", len(kept), len(chunks))
	return nil
}

// Query returns the top-k chunks by cosine similarity, selected
// greedily with MMR so near-duplicate chunks are suppressed.
// diversityWeight is the MMR lambda: 1.0 is pure relevance, 0.0 pure
// diversity.
func (idx *Index) Query(ctx context.Context, text string, k int, diversityWeight float64) ([]domain.RetrievedChunk, error) {
	if idx.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if k <= 0 {
		return nil, nil
	}

	query, err := idx.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.chunks) == 0 {
		return nil, nil
	}

	// Candidate pool wider than k, then greedy diversity selection.
	pool := idx.topByRelevance(query, 2*k)
	selected := idx.mmrSelect(query, pool, k, diversityWeight)

	results := make([]domain.RetrievedChunk, 0, len(selected))
	for _, c := range selected {
		results = append(results, domain.RetrievedChunk{
			Chunk:      idx.chunks[c.index],
			Score:      c.similarity,
			Provenance: domain.ProvenanceSemantic,
		})
	}
	return results, nil
}

// Close releases resources. The index does not own its embedder.
func (idx *Index) Close() error {
	return nil
}

// candidate pairs a chunk index with its query similarity.
type candidate struct {
	index      int
	similarity float64
}

// topByRelevance returns up to n candidates sorted by cosine similarity,
// ties broken by ordinal.
func (idx *Index) topByRelevance(query []float32, n int) []candidate {
	candidates := make([]candidate, len(idx.chunks))
	for i := range idx.chunks {
		candidates[i] = candidate{index: i, similarity: cosine(query, idx.vectors[i])}
	}

	// Insertion-stable ordering: similarity desc, ordinal asc.
	sortCandidates(candidates)

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}

// mmrSelect greedily picks k candidates maximising
// lambda*relevance - (1-lambda)*redundancy, where redundancy is the
// highest similarity to anything already selected.
func (idx *Index) mmrSelect(query []float32, pool []candidate, k int, lambda float64) []candidate {
	var selected []candidate
	remaining := append([]candidate(nil), pool...)

	for len(selected) < k && len(remaining) > 0 {
		bestPos := 0
		bestScore := math.Inf(-1)

		for pos, cand := range remaining {
			redundancy := 0.0
			for _, sel := range selected {
				sim := cosine(idx.vectors[cand.index], idx.vectors[sel.index])
				if sim > redundancy {
					redundancy = sim
				}
			}
			score := lambda*cand.similarity - (1-lambda)*redundancy
			if score > bestScore {
				bestScore = score
				bestPos = pos
			}
		}

		selected = append(selected, remaining[bestPos])
		remaining = append(remaining[:bestPos], remaining[bestPos+1:]...)
	}

	return selected
}

// cosine computes cosine similarity between two vectors.
// Mismatched or zero-magnitude vectors score zero rather than erroring.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// sortCandidates orders by similarity descending, ordinal ascending.
func sortCandidates(candidates []candidate) {
	// Small pools; a simple insertion sort keeps the tie-break explicit.
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0; j-- {
			a, b := candidates[j-1], candidates[j]
			if b.similarity > a.similarity || (b.similarity == a.similarity && b.index < a.index) {
				candidates[j-1], candidates[j] = b, a
			} else {
				break
			}
		}
	}
}
