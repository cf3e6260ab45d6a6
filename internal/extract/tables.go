package extract

import (
	"context"
	"errors"
	"math"

	"rsc.io/pdf"

	"github.com/Harjeet1309/pdfmerge/internal/table"
)

// ErrNoTables is returned when a document parses but holds no table.
var ErrNoTables = errors.New("no tables found")

// Defaults for PDFTables.
const (
	DefaultMinTableRows    = 2
	DefaultMinTableColumns = 2
)

// PDFTables detects whitespace-separated tables from glyph positions.
//
// A table is a run of consecutive rows that each split into at least
// MinColumns segments. The first row of the run is the header; every segment
// of a later row is placed in the header column it overlaps most, or the
// nearest one. Runs shorter than MinRows (header included) are ignored.
type PDFTables struct {
	MinRows    int
	MinColumns int
}

// ExtractTables returns all tables of all pages in reading order. It returns
// ErrNoTables if the document has none.
func (p PDFTables) ExtractTables(ctx context.Context, doc *Document) ([]table.Table, error) {
	var tables []table.Table
	err := walkPages(ctx, doc, func(_ int, texts []pdf.Text) {
		tables = append(tables, p.detect(groupRows(texts))...)
	})
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, ErrNoTables
	}
	return tables, nil
}

func (p PDFTables) limits() (minRows, minCols int) {
	minRows, minCols = p.MinRows, p.MinColumns
	if minRows <= 0 {
		minRows = DefaultMinTableRows
	}
	if minCols <= 0 {
		minCols = DefaultMinTableColumns
	}
	return minRows, minCols
}

func (p PDFTables) detect(rows []row) []table.Table {
	minRows, minCols := p.limits()

	var (
		tables []table.Table
		block  [][]segment
	)
	flush := func() {
		if len(block) >= minRows {
			tables = append(tables, buildTable(block))
		}
		block = nil
	}

	for _, r := range rows {
		segs := r.segments()
		if len(segs) >= minCols {
			block = append(block, segs)
			continue
		}
		flush()
	}
	flush()

	return tables
}

func buildTable(block [][]segment) table.Table {
	header := block[0]
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = h.text
	}

	rows := make([][]string, 0, len(block)-1)
	for _, segs := range block[1:] {
		cells := make([]string, len(header))
		for _, s := range segs {
			c := nearestColumn(header, s)
			if cells[c] != "" {
				cells[c] += " "
			}
			cells[c] += s.text
		}
		rows = append(rows, cells)
	}

	return table.Table{Columns: columns, Rows: rows}
}

// nearestColumn prefers the header segment with the widest horizontal
// overlap; without any overlap it picks the smallest gap. A negative overlap
// is the gap.
func nearestColumn(header []segment, s segment) int {
	best := 0
	bestOverlap := math.Inf(-1)
	for i, h := range header {
		overlap := math.Min(s.x1, h.x1) - math.Max(s.x0, h.x0)
		if overlap > bestOverlap {
			best, bestOverlap = i, overlap
		}
	}
	return best
}
