// Package templates renders the HTML pages of the comparison UI as templ
// components. Edit the .templ files and run `templ generate` to refresh the
// _templ.go files.
package templates

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Harjeet1309/pdfmerge/internal/core"
	"github.com/Harjeet1309/pdfmerge/internal/table"
)

// PreviewRows is how many result rows the result page shows inline.
const PreviewRows = 20

// IndexView holds the settings shown next to the upload form.
type IndexView struct {
	MaxFileSize     int64
	LineThreshold   int
	ColumnThreshold int
	Reconstruct     bool
	JoinMode        string
}

func (v IndexView) settings() string {
	s := fmt.Sprintf("Maximum file size %s. Line threshold %d, column threshold %d, join mode %s",
		formatBytes(v.MaxFileSize), v.LineThreshold, v.ColumnThreshold, v.JoinMode)
	if v.Reconstruct {
		s += ", text results rebuilt into tables"
	}
	return s + "."
}

func resultSummary(res *core.Result) string {
	return fmt.Sprintf("Found %d common row(s) by %s comparison.", res.Table.Len(), res.Mode)
}

func resultCSVURL(id string) string {
	return "/results/" + url.PathEscape(id) + "/csv"
}

// previewRows returns the first PreviewRows rows, padded to the header width.
func previewRows(t table.Table) [][]string {
	n := min(t.Len(), PreviewRows)
	rows := make([][]string, n)
	for i := range rows {
		row := make([]string, len(t.Columns))
		for c := range row {
			row[c] = t.Cell(i, c)
		}
		rows[i] = row
	}
	return rows
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return strings.TrimSuffix(strings.TrimSuffix(fmt.Sprintf("%.1f", float64(n)/float64(div)), "0"), ".") +
		" " + string("KMGTPE"[exp]) + "B"
}
