// Package match finds approximate correspondences between two documents'
// extracted content: lines of free text, table column names and table rows.
//
// Only names and lines are compared fuzzily. Once columns are paired, rows are
// joined on exact cell equality.
package match

import (
	"strings"

	"github.com/Harjeet1309/pdfmerge/internal/fuzzy"
)

// DefaultLineThreshold is the minimum token-set score for two lines to match.
const DefaultLineThreshold = 85

// LineSet is a set of unique, non-empty text lines. Membership is what
// matters; the slice keeps first-occurrence order so results are repeatable.
type LineSet []string

// Dedupe trims each line, drops empty ones and drops exact duplicates.
// Applying Dedupe to its own output returns the same set.
func Dedupe(lines []string) LineSet {
	seen := make(map[string]struct{}, len(lines))
	out := make(LineSet, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}

// LineMatcher returns the lines of a that have an approximate counterpart in b.
// Implementations must return a subset of a with no duplicates.
type LineMatcher interface {
	Match(a, b LineSet) LineSet
}

// ScanMatcher compares every line of A against the lines of B in order and
// keeps the A line on the first B line scoring at least Threshold. The first
// qualifying B line wins; no attempt is made to find the best one.
// Cost is O(|A|*|B|) comparisons.
type ScanMatcher struct {
	Threshold int

	// Score defaults to fuzzy.TokenSetRatio.
	Score func(a, b string) int
}

// NewScanMatcher returns a ScanMatcher using token-set similarity.
// A non-positive threshold selects DefaultLineThreshold.
func NewScanMatcher(threshold int) *ScanMatcher {
	if threshold <= 0 {
		threshold = DefaultLineThreshold
	}
	return &ScanMatcher{Threshold: threshold, Score: fuzzy.TokenSetRatio}
}

// Match implements LineMatcher.
func (m *ScanMatcher) Match(a, b LineSet) LineSet {
	score := m.Score
	if score == nil {
		score = fuzzy.TokenSetRatio
	}

	common := make([]string, 0)
	for _, la := range a {
		for _, lb := range b {
			if score(la, lb) >= m.Threshold {
				common = append(common, la)
				break
			}
		}
	}
	return Dedupe(common)
}
