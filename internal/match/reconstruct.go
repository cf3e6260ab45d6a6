package match

import (
	"strings"

	"github.com/Harjeet1309/pdfmerge/internal/table"
)

// DefaultHeaderKeywords mark a line as a table header. They come from the
// student roster documents the service was first built for; deployments with
// other documents should configure their own.
var DefaultHeaderKeywords = []string{"RollNo", "Name", "Department", "Grade"}

// Reconstructor turns matched free-text lines back into a table by finding a
// header line and splitting every line on whitespace.
type Reconstructor struct {
	// Keywords are matched case-insensitively as substrings of a line.
	Keywords []string
}

// NewReconstructor returns a Reconstructor using keywords, or
// DefaultHeaderKeywords when keywords is empty.
func NewReconstructor(keywords []string) *Reconstructor {
	if len(keywords) == 0 {
		keywords = DefaultHeaderKeywords
	}
	return &Reconstructor{Keywords: keywords}
}

// Reconstruct builds a table from lines.
//
// The first line (in set order) containing a keyword becomes the header and
// its tokens the column names; every other line becomes a row. Set order is
// not document order, so a header is only reliable when the source kept it.
//
// If no header is found, or any data row has a different token count than the
// header, the header is dropped and every line (header included) becomes a
// row of a positional table. Reconstruct never fails.
func (r *Reconstructor) Reconstruct(lines LineSet) table.Table {
	header := -1
	for i, line := range lines {
		if r.isHeader(line) {
			header = i
			break
		}
	}

	rows := make([][]string, 0, len(lines))
	for i, line := range lines {
		if i == header {
			continue
		}
		rows = append(rows, strings.Fields(line))
	}

	if header < 0 {
		return table.Unnamed(rows)
	}

	columns := strings.Fields(lines[header])
	for _, row := range rows {
		if len(row) != len(columns) {
			all := make([][]string, 0, len(lines))
			for _, line := range lines {
				all = append(all, strings.Fields(line))
			}
			return table.Unnamed(all)
		}
	}

	return table.Table{Columns: columns, Rows: rows}
}

func (r *Reconstructor) isHeader(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range r.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
