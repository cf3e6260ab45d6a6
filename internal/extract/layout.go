package extract

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
	"rsc.io/pdf"
)

// Layout thresholds, as fractions of the glyph font size.
const (
	rowTolerance = 0.5
	wordGap      = 0.15
	cellGap      = 1.0
)

const defaultFontSize = 10.0

// row is one visual line of a page: glyphs sharing a baseline, sorted by X.
type row struct {
	y     float64
	texts []pdf.Text
}

// segment is a run of glyphs with no gap wider than cellGap.
type segment struct {
	x0, x1 float64
	text   string
}

// walkPages opens doc with rsc.io/pdf and calls fn with the glyphs of every
// non-empty page in order. The parser panics on some malformed input; those
// panics are returned as errors.
func walkPages(ctx context.Context, doc *Document, fn func(page int, texts []pdf.Text)) (err error) {
	if doc.Empty() {
		return ErrEmptyDocument
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse %s: %v", doc.Name, r)
		}
	}()

	reader, err := pdf.NewReader(doc.Reader(), doc.Size())
	if err != nil {
		return fmt.Errorf("open %s: %w", doc.Name, err)
	}

	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		fn(i, page.Content().Text)
	}
	return nil
}

func fontSize(t pdf.Text) float64 {
	if t.FontSize <= 0 {
		return defaultFontSize
	}
	return t.FontSize
}

// groupRows clusters glyphs into rows by baseline, top of the page first.
func groupRows(texts []pdf.Text) []row {
	var rows []row
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}

		tol := rowTolerance * fontSize(t)
		placed := false
		for i := range rows {
			if math.Abs(rows[i].y-t.Y) <= tol {
				rows[i].texts = append(rows[i].texts, t)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, row{y: t.Y, texts: []pdf.Text{t}})
		}
	}

	// PDF user space grows upward.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })
	for _, r := range rows {
		sort.SliceStable(r.texts, func(i, j int) bool { return r.texts[i].X < r.texts[j].X })
	}
	return rows
}

// segments splits the row where the horizontal gap between glyphs is wider
// than cellGap, and inserts a space where it is wider than wordGap.
func (r row) segments() []segment {
	var (
		segs []segment
		b    strings.Builder
		cur  segment
		end  float64
	)

	flush := func() {
		cur.text = cleanText(b.String())
		if cur.text != "" {
			segs = append(segs, cur)
		}
		b.Reset()
	}

	for i, t := range r.texts {
		fs := fontSize(t)
		if i == 0 {
			cur = segment{x0: t.X}
		} else {
			gap := t.X - end
			switch {
			case gap > cellGap*fs:
				flush()
				cur = segment{x0: t.X}
			case gap > wordGap*fs:
				b.WriteByte(' ')
			}
		}

		b.WriteString(t.S)
		if e := t.X + t.W; i == 0 || e > end {
			end = e
		}
		cur.x1 = end
	}
	if len(r.texts) > 0 {
		flush()
	}
	return segs
}

// line renders the row as a single line of text.
func (r row) line() string {
	segs := r.segments()
	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		parts = append(parts, s.text)
	}
	return strings.Join(parts, " ")
}

// cleanText folds compatibility characters (ligatures, full-width forms) and
// collapses runs of whitespace.
func cleanText(s string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}
