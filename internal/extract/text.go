package extract

import (
	"context"

	"rsc.io/pdf"
)

// PDFText extracts visual lines of text, page by page.
type PDFText struct{}

// ExtractLines returns every non-empty line of doc in reading order. Lines of
// all pages are concatenated; duplicates are kept.
func (PDFText) ExtractLines(ctx context.Context, doc *Document) ([]string, error) {
	var lines []string
	err := walkPages(ctx, doc, func(_ int, texts []pdf.Text) {
		lines = append(lines, pageLines(texts)...)
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func pageLines(texts []pdf.Text) []string {
	var lines []string
	for _, r := range groupRows(texts) {
		if l := r.line(); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
