// Package fuzzy scores approximate string equality on a 0-100 scale.
//
// Scoring is delegated to go-fuzzywuzzy:
//
//   - Ratio: whole-string similarity from the insert/delete edit distance.
//     Character order and case matter. An empty string scores 0 against
//     anything, including another empty string.
//   - TokenSetRatio: word-order independent similarity over cleansed tokens
//     (ASCII only, lowercase, punctuation replaced by spaces). A string whose
//     tokens are all contained in the other scores 100.
//
// Scores are rounded half up, so 12.5 rounds to 13.
package fuzzy

import (
	fuzzywuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// Ratio returns the edit-distance similarity of a and b in [0, 100].
func Ratio(a, b string) int {
	return fuzzywuzzy.Ratio(a, b)
}

// TokenSetRatio returns the token-set similarity of a and b in [0, 100].
// Strings that cleanse to no tokens score 0.
func TokenSetRatio(a, b string) int {
	const asciiOnly, cleanse = true, true
	return fuzzywuzzy.TokenSetRatio(a, b, asciiOnly, cleanse)
}
