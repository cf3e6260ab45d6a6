package match

import (
	"strings"

	"github.com/Harjeet1309/pdfmerge/internal/fuzzy"
)

// DefaultColumnThreshold is the minimum edit-distance score for two column
// names to pair up. It is applied to whole names, so it is stricter than the
// token-set comparison used for lines.
const DefaultColumnThreshold = 80

// ColumnMatch pairs a column of the left table with a column of the right
// table whose names scored at or above the column threshold.
type ColumnMatch struct {
	Left       string `json:"left"`
	Right      string `json:"right"`
	LeftIndex  int    `json:"left_index"`
	RightIndex int    `json:"right_index"`
	Score      int    `json:"score"`
}

// MatchColumns returns every (a, b) column pair whose lowercased names score
// at least threshold, in a-outer, b-inner order. A column may appear in
// several pairs. Callers that need one join key take the first pair.
func MatchColumns(a, b []string, threshold int) []ColumnMatch {
	var matches []ColumnMatch
	for i, colA := range a {
		lowerA := strings.ToLower(colA)
		for j, colB := range b {
			score := fuzzy.Ratio(lowerA, strings.ToLower(colB))
			if score < threshold {
				continue
			}
			matches = append(matches, ColumnMatch{
				Left:       colA,
				Right:      colB,
				LeftIndex:  i,
				RightIndex: j,
				Score:      score,
			})
		}
	}
	return matches
}
