package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/VivekMaurya83/LawDecodes/internal/core/domain"
	"github.com/VivekMaurya83/LawDecodes/internal/core/ports/driving"
	"github.com/VivekMaurya83/LawDecodes/internal/logger"
)

// Ensure CitationService implements the interface.
var _ driving.CitationValidator = (*CitationService)(nil)

// reQuotedSpan matches double-quoted spans in generated text.
var reQuotedSpan = regexp.MustCompile(`"([^"]+)"`)

// CitationService validates that quoted claims in a generated answer
// trace back to the retrieved chunks. Quotes that cannot be traced are
// dropped rather than reported, so a fabricated quote lowers the
// citation count and confidence instead of surfacing as a source.
type CitationService struct {
	settings domain.CitationSettings
}

// NewCitationService creates a citation validator.
func NewCitationService(settings domain.CitationSettings) *CitationService {
	return &CitationService{settings: settings}
}

// Validate cleans the answer, extracts its quoted spans and matches each
// against the chunks. The returned result carries the cleaned answer,
// the accepted citations capped at MaxCitations, the pre-cap count and
// the mean similarity as confidence.
func (s *CitationService) Validate(answer string, chunks []domain.RetrievedChunk) domain.CitationResult {
	cleaned := dedupeLines(answer)

	var citations []domain.Citation
	seen := make(map[string]bool)

	for _, match := range reQuotedSpan.FindAllStringSubmatch(cleaned, -1) {
		quote := match[1]
		if utf8.RuneCountInString(quote) <= s.settings.MinQuoteLength || seen[quote] {
			continue
		}
		seen[quote] = true

		if citation, ok := s.traceQuote(quote, chunks); ok {
			citations = append(citations, citation)
		} else {
			logger.Debug("Untraceable quote dropped: %q", truncate(quote, 60))
		}
	}

	confidence := 0.0
	for _, c := range citations {
		confidence += c.Similarity
	}
	if len(citations) > 0 {
		confidence /= float64(len(citations))
		if confidence > 1.0 {
			confidence = 1.0
		}
	}

	count := len(citations)
	if len(citations) > s.settings.MaxCitations {
		citations = citations[:s.settings.MaxCitations]
	}

	logger.Debug("Citations: %d validated, confidence %.2f", count, confidence)
	return domain.CitationResult{
		Answer:        cleaned,
		Citations:     citations,
		CitationCount: count,
		Confidence:    confidence,
	}
}

// traceQuote finds the chunk a quote came from. An exact
// case-insensitive substring match wins immediately with similarity 1.0;
// otherwise the best fuzzy candidate above the consideration threshold
// is accepted if it clears the acceptance threshold.
func (s *CitationService) traceQuote(quote string, chunks []domain.RetrievedChunk) (domain.Citation, bool) {
	quoteLower := strings.ToLower(quote)

	var best *domain.Chunk
	bestSim := 0.0

	for i := range chunks {
		content := chunks[i].Chunk.Content

		if strings.Contains(strings.ToLower(content), quoteLower) {
			return s.newCitation(chunks[i].Chunk, quote, 1.0, domain.MatchExact), true
		}

		sim := sequenceRatio(quoteLower, strings.ToLower(content))
		if sim > bestSim && sim > s.settings.FuzzyConsiderThreshold {
			bestSim = sim
			best = &chunks[i].Chunk
		}
	}

	if best != nil && bestSim > s.settings.FuzzyAcceptThreshold {
		return s.newCitation(*best, quote, bestSim, domain.MatchFuzzy), true
	}
	return domain.Citation{}, false
}

func (s *CitationService) newCitation(chunk domain.Chunk, quote string, sim float64, match domain.MatchType) domain.Citation {
	return domain.Citation{
		Quote:      truncate(quote, s.settings.QuoteDisplayLength),
		ChunkID:    chunk.ID,
		Document:   chunk.Document,
		Position:   chunk.Position,
		Similarity: sim,
		Match:      match,
	}
}

// dedupeLines removes repeated lines, keeping first occurrences in
// order. LLMs occasionally emit duplicated paragraphs; deduping before
// extraction keeps repeated quotes from inflating counts.
func dedupeLines(text string) string {
	lines := strings.Split(text, "\n")
	seen := make(map[string]bool, len(lines))
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// truncate shortens s to max runes. Slicing runes rather than bytes
// keeps multi-byte characters intact in displayed quotes.
func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max]) + "..."
}

// sequenceRatio is a similarity measure over two strings in [0,1]:
// twice the number of characters in common matching blocks divided by
// the total length. Matching blocks are found by recursively taking the
// longest common substring and matching the remainders on each side.
func sequenceRatio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	matches := matchingChars([]rune(a), []rune(b))
	return 2.0 * float64(matches) / float64(len([]rune(a))+len([]rune(b)))
}

func matchingChars(a, b []rune) int {
	aStart, bStart, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingChars(a[:aStart], b[:bStart])
	total += matchingChars(a[aStart+size:], b[bStart+size:])
	return total
}

// longestCommonSubstring returns the start offsets and length of the
// longest run of runes common to a and b. Earliest occurrence wins ties.
func longestCommonSubstring(a, b []rune) (aStart, bStart, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	// lengths[j] is the length of the common run ending at a[i-1], b[j-1].
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > size {
					size = curr[j]
					aStart = i - size
					bStart = j - size
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}
	return aStart, bStart, size
}
