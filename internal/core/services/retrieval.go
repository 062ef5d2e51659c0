package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/VivekMaurya83/LawDecodes/internal/core/domain"
	"github.com/VivekMaurya83/LawDecodes/internal/core/ports/driven"
	"github.com/VivekMaurya83/LawDecodes/internal/core/ports/driving"
	"github.com/VivekMaurya83/LawDecodes/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.Retriever = (*RetrievalService)(nil)

// Temporal query detection. A query containing any of these words takes
// the date-override path before normal ranking.
var temporalKeywords = []string{
	"date", "when", "effective", "start", "begin", "commence",
	"time", "dated", "deadline", "expire", "expiry", "due",
}

// Month names and their abbreviations also mark a query as temporal.
var monthTokens = map[string]bool{
	"jan": true, "january": true, "feb": true, "february": true,
	"mar": true, "march": true, "apr": true, "april": true, "may": true,
	"jun": true, "june": true, "jul": true, "july": true,
	"aug": true, "august": true, "sep": true, "sept": true, "september": true,
	"oct": true, "october": true, "nov": true, "november": true,
	"dec": true, "december": true,
}

// Substrings that mark a chunk as date-bearing. Overlapping indicators
// count independently, so "effective date:" scores on both the colon and
// the bare form.
var dateIndicators = []string{
	"effective date:", "effective date", "execution date", "signed on",
	"dated", "invoice date", "due date", "termination date",
}

var (
	// Written dates like "4 sep 2025" or "12 January 24".
	reWrittenDate = regexp.MustCompile(`(?i)\b\d{1,2}\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\w*\s+\d{2,4}\b`)

	// Bare 4-digit years like "2025".
	reYearToken = regexp.MustCompile(`\b(19|20)\d{2}\b`)

	// Canonical effective-date clauses get a fixed boost on top of
	// indicator counts so the controlling date outranks incidental
	// date mentions.
	reCanonicalEffective = regexp.MustCompile(`(?i)effective\s+date:\s*\d{1,2}\s+\w+\s+\d{2,4}`)
)

const canonicalDateBoost = 10

// RetrievalService performs hybrid retrieval over the indexed corpus:
// BM25 and vector sub-searches run in parallel, results fuse with
// lexical priority, and temporal queries short-circuit through a
// date-indicator scan.
type RetrievalService struct {
	lexical  driven.LexicalIndex
	vector   driven.VectorIndex
	settings domain.RetrievalSettings

	mu     sync.RWMutex
	corpus []domain.Chunk
}

// NewRetrievalService creates a retrieval service. The vector index is
// optional (can be nil); without it retrieval degrades to lexical-only.
func NewRetrievalService(
	lexical driven.LexicalIndex,
	vector driven.VectorIndex,
	settings domain.RetrievalSettings,
) *RetrievalService {
	return &RetrievalService{
		lexical:  lexical,
		vector:   vector,
		settings: settings,
	}
}

// Index builds the underlying indexes over the given chunks and retains
// the corpus for the date-override scan. It replaces any previous
// contents.
func (s *RetrievalService) Index(ctx context.Context, chunks []domain.Chunk) error {
	logger.Section("Index Build")
	logger.Debug("Indexing %d chunks", len(chunks))

	if s.lexical != nil {
		if err := s.lexical.Build(ctx, chunks); err != nil {
			return fmt.Errorf("build lexical index: %w", err)
		}
	}
	if s.vector != nil {
		if err := s.vector.Build(ctx, chunks); err != nil {
			return fmt.Errorf("build vector index: %w", err)
		}
	}

	s.mu.Lock()
	s.corpus = append([]domain.Chunk(nil), chunks...)
	s.mu.Unlock()

	logger.Info("Indexed %d chunks", len(chunks))
	return nil
}

// Retrieve returns the top chunks for the query.
func (s *RetrievalService) Retrieve(
	ctx context.Context, query string, opts domain.RetrievalOptions,
) ([]domain.RetrievedChunk, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	k := opts.K
	if k <= 0 {
		k = s.settings.TopK
	}
	pool := opts.PoolSize
	if pool <= 0 {
		pool = s.settings.PoolSize
	}
	if pool < 2*k {
		pool = 2 * k
	}
	logger.Debug("K: %d, Pool: %d", k, pool)

	// Temporal queries try the date scan first and only fall through to
	// normal ranking when no chunk carries a date indicator.
	if isTemporalQuery(query) {
		if hits := s.dateOverride(query); len(hits) > 0 {
			logger.Info("Date override: %d date-bearing chunks", len(hits))
			if len(hits) > k {
				hits = hits[:k]
			}
			return hits, nil
		}
		logger.Debug("Date override found nothing, falling back to hybrid ranking")
	}

	// Run sub-searches in parallel.
	var lexHits, vecHits []domain.RetrievedChunk
	var lexErr, vecErr error

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		lexHits, lexErr = s.lexicalSearch(ctx, query, pool)
	}()
	go func() {
		defer wg.Done()
		vecHits, vecErr = s.vectorSearch(ctx, query, pool)
	}()
	wg.Wait()

	// Degrade to whichever side succeeded. Both failing means no
	// grounding is available, which callers treat as an empty result
	// rather than an error.
	if lexErr != nil && vecErr != nil {
		logger.Warn("Both retrieval paths failed: lexical=%v, vector=%v", lexErr, vecErr)
		return nil, nil
	}
	if lexErr != nil {
		logger.Warn("Lexical retrieval failed, using vector results only: %v", lexErr)
		lexHits = nil
	}
	if vecErr != nil {
		logger.Warn("Vector retrieval failed, using lexical results only: %v", vecErr)
		vecHits = nil
	}

	fused := fuse(lexHits, vecHits)
	logger.Debug("Fused %d lexical + %d vector into %d candidates",
		len(lexHits), len(vecHits), len(fused))

	reranked := s.rerank(query, fused)
	if len(reranked) > k {
		reranked = reranked[:k]
	}
	logger.Info("Final results: %d", len(reranked))
	return reranked, nil
}

func (s *RetrievalService) lexicalSearch(ctx context.Context, query string, pool int) ([]domain.RetrievedChunk, error) {
	if s.lexical == nil {
		return nil, domain.ErrLexicalUnavailable
	}
	hits, err := s.lexical.Query(ctx, query, pool)
	if err != nil {
		return nil, fmt.Errorf("lexical query: %w", err)
	}
	logger.Debug("Lexical search: %d hits", len(hits))
	return hits, nil
}

func (s *RetrievalService) vectorSearch(ctx context.Context, query string, pool int) ([]domain.RetrievedChunk, error) {
	if s.vector == nil {
		return nil, domain.ErrVectorUnavailable
	}
	hits, err := s.vector.Query(ctx, query, pool, s.settings.DiversityWeight)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}
	logger.Debug("Vector search: %d hits", len(hits))
	return hits, nil
}

// isTemporalQuery reports whether the query asks about dates or timing.
// Keywords, bare month or year tokens and written dates all qualify.
func isTemporalQuery(query string) bool {
	lower := strings.ToLower(query)
	wordSet := make(map[string]bool)
	for _, w := range strings.Fields(lower) {
		wordSet[strings.Trim(w, ".,;:?!")] = true
	}
	for _, kw := range temporalKeywords {
		if wordSet[kw] {
			return true
		}
	}
	for w := range wordSet {
		if monthTokens[w] {
			return true
		}
	}
	return reYearToken.MatchString(lower) || reWrittenDate.MatchString(lower)
}

// dateOverride scans the corpus for date-bearing chunks and ranks them
// by indicator occurrence count. Canonical "effective date: <date>"
// clauses receive a fixed boost. Ties break by document then ordinal.
func (s *RetrievalService) dateOverride(query string) []domain.RetrievedChunk {
	s.mu.RLock()
	corpus := s.corpus
	s.mu.RUnlock()

	var hits []domain.RetrievedChunk
	for _, chunk := range corpus {
		content := strings.ToLower(chunk.Content)

		score := 0
		for _, indicator := range dateIndicators {
			score += strings.Count(content, indicator)
		}
		score += len(reWrittenDate.FindAllString(content, -1))
		if reCanonicalEffective.MatchString(content) {
			score += canonicalDateBoost
		}

		if score > 0 {
			hits = append(hits, domain.RetrievedChunk{
				Chunk:      chunk,
				Score:      float64(score),
				Provenance: domain.ProvenanceDateOverride,
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].Chunk.Document != hits[j].Chunk.Document {
			return hits[i].Chunk.Document < hits[j].Chunk.Document
		}
		return hits[i].Chunk.Position < hits[j].Chunk.Position
	})

	return hits
}

// fuse combines the two result lists, lexical first, deduplicating by
// chunk text. A chunk found by both paths is marked merged.
func fuse(lexHits, vecHits []domain.RetrievedChunk) []domain.RetrievedChunk {
	seen := make(map[string]int) // content -> index into fused
	fused := make([]domain.RetrievedChunk, 0, len(lexHits)+len(vecHits))

	for _, hit := range lexHits {
		if _, ok := seen[hit.Chunk.Content]; ok {
			continue
		}
		seen[hit.Chunk.Content] = len(fused)
		fused = append(fused, hit)
	}
	for _, hit := range vecHits {
		if i, ok := seen[hit.Chunk.Content]; ok {
			fused[i].Provenance = domain.ProvenanceMerged
			continue
		}
		seen[hit.Chunk.Content] = len(fused)
		fused = append(fused, hit)
	}

	return fused
}

// rerank orders fused candidates by query-term occurrence counts in the
// chunk text, biased by the provenance weights. The sort is stable so
// ties preserve fusion order, which keeps lexical results ahead.
func (s *RetrievalService) rerank(query string, candidates []domain.RetrievedChunk) []domain.RetrievedChunk {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return candidates
	}

	weight := func(p domain.Provenance) float64 {
		switch p {
		case domain.ProvenanceLexical:
			if s.settings.LexicalWeight > 0 {
				return s.settings.LexicalWeight
			}
		case domain.ProvenanceSemantic:
			if s.settings.SemanticWeight > 0 {
				return s.settings.SemanticWeight
			}
		}
		return 1.0
	}

	scores := make([]float64, len(candidates))
	for i, cand := range candidates {
		content := strings.ToLower(cand.Chunk.Content)
		count := 0
		for _, term := range terms {
			count += strings.Count(content, term)
		}
		scores[i] = float64(count) * weight(cand.Provenance)
	}

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	out := make([]domain.RetrievedChunk, len(candidates))
	for i, idx := range order {
		out[i] = candidates[idx]
	}
	return out
}
