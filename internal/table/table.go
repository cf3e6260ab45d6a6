// Package table holds the rectangular string table shared by extraction,
// matching and output.
//
// A Table is treated as immutable once built: every operation in this module
// returns a new Table instead of editing one in place.
package table

import (
	"strconv"
	"strings"
)

// Table is an ordered list of column names plus ordered rows of string cells.
// Column names are not required to be unique. A row may be shorter than
// Columns; missing cells read as "".
type Table struct {
	Columns []string
	Rows    [][]string
}

// New builds a table from columns and rows, copying both.
func New(columns []string, rows [][]string) Table {
	t := Table{
		Columns: append([]string(nil), columns...),
		Rows:    make([][]string, len(rows)),
	}
	for i, row := range rows {
		t.Rows[i] = append([]string(nil), row...)
	}
	return t
}

// Unnamed builds a table with positional column names "0", "1", ...
// wide enough for the longest row. Short rows are padded with "".
func Unnamed(rows [][]string) Table {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	columns := make([]string, width)
	for i := range columns {
		columns[i] = strconv.Itoa(i)
	}

	out := Table{Columns: columns, Rows: make([][]string, len(rows))}
	for i, row := range rows {
		padded := make([]string, width)
		copy(padded, row)
		out.Rows[i] = padded
	}
	return out
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Empty reports whether the table has no data rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// Cell returns the value at row, col or "" when the row is short.
func (t Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// Concat stacks tables vertically. The result's columns are the union of all
// input columns in first-seen order; a column name that repeats inside one
// input table keeps its repetition. Cells absent from a source table are "".
func Concat(tables ...Table) Table {
	switch len(tables) {
	case 0:
		return Table{}
	case 1:
		return New(tables[0].Columns, tables[0].Rows)
	}

	var columns []string
	// positions[name] lists the output indices already allotted to name.
	positions := make(map[string][]int)

	mappings := make([][]int, len(tables))
	for ti, t := range tables {
		seen := make(map[string]int)
		mapping := make([]int, len(t.Columns))
		for ci, name := range t.Columns {
			occurrence := seen[name]
			seen[name]++
			if occurrence < len(positions[name]) {
				mapping[ci] = positions[name][occurrence]
				continue
			}
			columns = append(columns, name)
			positions[name] = append(positions[name], len(columns)-1)
			mapping[ci] = len(columns) - 1
		}
		mappings[ti] = mapping
	}

	var rows [][]string
	for ti, t := range tables {
		for ri := range t.Rows {
			row := make([]string, len(columns))
			for ci, out := range mappings[ti] {
				row[out] = t.Cell(ri, ci)
			}
			rows = append(rows, row)
		}
	}

	return Table{Columns: columns, Rows: rows}
}

// String renders the table as tab separated text, header first.
func (t Table) String() string {
	var b strings.Builder
	b.WriteString(strings.Join(t.Columns, "\t"))
	b.WriteByte('\n')
	for _, row := range t.Rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteByte('\n')
	}
	return b.String()
}
