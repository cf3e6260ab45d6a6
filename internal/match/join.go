package match

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Harjeet1309/pdfmerge/internal/table"
)

// ErrNoColumnMatches is returned by Join when there is no column pair to
// join on.
var ErrNoColumnMatches = errors.New("no matching columns")

// JoinMode selects how matched columns become a join key.
type JoinMode string

const (
	// JoinSingle joins on the first column match only.
	JoinSingle JoinMode = "single"

	// JoinComposite joins on all column matches at once.
	JoinComposite JoinMode = "composite"
)

// ParseJoinMode converts a configuration string to a JoinMode.
func ParseJoinMode(s string) (JoinMode, error) {
	switch JoinMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", JoinSingle:
		return JoinSingle, nil
	case JoinComposite:
		return JoinComposite, nil
	default:
		return "", fmt.Errorf("unknown join mode %q", s)
	}
}

const (
	leftSuffix  = "_x"
	rightSuffix = "_y"
	keySep      = "\x1f"
)

// Join performs an inner equi-join of left and right on the matched columns.
//
// Each pair of rows whose key cells are exactly equal strings is emitted once,
// in left-row then right-row order. Blank key cells match each other. All
// columns of both tables are kept; names present on both sides get "_x" / "_y"
// suffixes, except that a key pair sharing one name is emitted as a single
// column.
//
// Join returns ErrNoColumnMatches when matches is empty. No equal keys is not
// an error: the result has the joined columns and zero rows.
func Join(left, right table.Table, matches []ColumnMatch, mode JoinMode) (table.Table, error) {
	if len(matches) == 0 {
		return table.Table{}, ErrNoColumnMatches
	}

	keys := matches[:1]
	if mode == JoinComposite {
		keys = dedupeKeyPairs(matches)
	}

	for _, k := range keys {
		if k.LeftIndex < 0 || k.LeftIndex >= len(left.Columns) ||
			k.RightIndex < 0 || k.RightIndex >= len(right.Columns) {
			return table.Table{}, fmt.Errorf("column match %q/%q out of range", k.Left, k.Right)
		}
	}

	// Right-hand key columns that share the left key's name collapse into it.
	dropRight := make(map[int]bool)
	for _, k := range keys {
		if left.Columns[k.LeftIndex] == right.Columns[k.RightIndex] {
			dropRight[k.RightIndex] = true
		}
	}

	var rightCols []int
	for i := range right.Columns {
		if !dropRight[i] {
			rightCols = append(rightCols, i)
		}
	}

	columns := joinedColumns(left.Columns, right.Columns, rightCols)

	index := make(map[string][]int)
	for ri := range right.Rows {
		key := rowKey(right, ri, keys, func(k ColumnMatch) int { return k.RightIndex })
		index[key] = append(index[key], ri)
	}

	rows := make([][]string, 0)
	for li := range left.Rows {
		key := rowKey(left, li, keys, func(k ColumnMatch) int { return k.LeftIndex })
		for _, ri := range index[key] {
			row := make([]string, 0, len(columns))
			for c := range left.Columns {
				row = append(row, left.Cell(li, c))
			}
			for _, c := range rightCols {
				row = append(row, right.Cell(ri, c))
			}
			rows = append(rows, row)
		}
	}

	return table.Table{Columns: columns, Rows: rows}, nil
}

// dedupeKeyPairs drops repeated uses of a left or right column so that a
// composite key compares each column once.
func dedupeKeyPairs(matches []ColumnMatch) []ColumnMatch {
	usedLeft := make(map[int]bool)
	usedRight := make(map[int]bool)
	var keys []ColumnMatch
	for _, m := range matches {
		if usedLeft[m.LeftIndex] || usedRight[m.RightIndex] {
			continue
		}
		usedLeft[m.LeftIndex] = true
		usedRight[m.RightIndex] = true
		keys = append(keys, m)
	}
	return keys
}

// rowKey joins the key cells of row. Empty cells are ordinary values, so two
// blank keys are equal.
func rowKey(t table.Table, row int, keys []ColumnMatch, col func(ColumnMatch) int) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = t.Cell(row, col(k))
	}
	return strings.Join(parts, keySep)
}

func joinedColumns(left, right []string, rightCols []int) []string {
	leftNames := make(map[string]bool, len(left))
	for _, name := range left {
		leftNames[name] = true
	}
	rightNames := make(map[string]bool, len(rightCols))
	for _, c := range rightCols {
		rightNames[right[c]] = true
	}

	columns := make([]string, 0, len(left)+len(rightCols))
	for _, name := range left {
		if rightNames[name] {
			name += leftSuffix
		}
		columns = append(columns, name)
	}
	for _, c := range rightCols {
		name := right[c]
		if leftNames[name] {
			name += rightSuffix
		}
		columns = append(columns, name)
	}
	return columns
}
