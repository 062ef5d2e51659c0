package lexical

import (
	"regexp"
	"strings"
)

// Legal text preprocessing, applied identically at index time and query
// time. Asymmetry here breaks recall, which is why both paths funnel
// through Tokenize.
var (
	// "effective date" mentions are expanded with morphological variants
	// so temporal queries match clauses like "Effective Date: ...".
	reEffectiveDate = regexp.MustCompile(`effective\s+date`)

	// Written dates ("4 Sep 2025", "12 january 24") gain generic date terms.
	reWrittenDate = regexp.MustCompile(`(\d{1,2})\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\w*\s+(\d{2,4})`)

	// Contract party synonyms.
	reCompany = regexp.MustCompile(`\bcompany\b`)

	// Four-digit years are additionally tagged as generic date terms.
	reYear = regexp.MustCompile(`(\d{4})`)

	// Punctuation is stripped except periods, colons, hyphens and
	// slashes, which preserves citation-like tokens and date formats.
	rePunct = regexp.MustCompile(`[^\w\s.:\-/]`)

	reSpace = regexp.MustCompile(`\s+`)
)

// Normalize lowercases text and applies the legal domain expansions.
func Normalize(text string) string {
	t := strings.ToLower(text)
	t = reEffectiveDate.ReplaceAllString(t, "effective date effectivedate contract-date agreement-date")
	t = reWrittenDate.ReplaceAllString(t, "$1 $2 $3 date effective-date contract-date")
	t = reCompany.ReplaceAllString(t, "company entity corporation organization")
	t = reYear.ReplaceAllString(t, "$1 year date")
	t = rePunct.ReplaceAllString(t, " ")
	t = reSpace.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// Tokenize normalizes text and splits it into scoring terms.
func Tokenize(text string) []string {
	n := Normalize(text)
	if n == "" {
		return nil
	}
	return strings.Fields(n)
}
