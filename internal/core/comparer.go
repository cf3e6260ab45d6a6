package core

// comparer.go decides between table and text comparison and assembles the
// result.
//
// Table mode is taken only when both documents yield at least one table. In
// table mode a missing column correspondence ends the comparison; there is no
// fallback to text. Extraction failures never surface as errors: they push
// the comparison to text mode (tables) or count as a document without lines
// (text). Compare returns an error only when the caller's context ends.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Harjeet1309/pdfmerge/internal/extract"
	"github.com/Harjeet1309/pdfmerge/internal/logging"
	"github.com/Harjeet1309/pdfmerge/internal/match"
	"github.com/Harjeet1309/pdfmerge/internal/table"
)

// Comparer runs one comparison at a time on the calling goroutine. A Comparer
// holds no per-comparison state and may be shared.
type Comparer struct {
	Tables  TableExtractor
	Text    TextExtractor
	Lines   match.LineMatcher
	Options Options
}

// NewComparer returns a Comparer backed by the PDF extractors and the scan
// line matcher.
func NewComparer(opts Options) *Comparer {
	opts = opts.withDefaults()
	return &Comparer{
		Tables:  extract.PDFTables{},
		Text:    extract.PDFText{},
		Lines:   match.NewScanMatcher(opts.LineThreshold),
		Options: opts,
	}
}

// Compare finds the data docA and docB have in common.
func (c *Comparer) Compare(ctx context.Context, docA, docB *extract.Document) (*Result, error) {
	start := time.Now()
	opts := c.Options.withDefaults()
	res := &Result{CreatedAt: start}

	if docA.Empty() || docB.Empty() {
		res.Outcome = OutcomeMissingInput
		res.Duration = time.Since(start)
		return res, nil
	}

	logger := logging.WithFields(ctx, "doc_a", docA.Name, "doc_b", docB.Name)

	ta := c.extractTable(ctx, opts, docA)
	tb := c.extractTable(ctx, opts, docB)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, ex := range []struct {
		doc *extract.Document
		te  TableExtraction
	}{{docA, ta}, {docB, tb}} {
		if !ex.te.OK() {
			logger.Warn("table extraction failed", "document", ex.doc.Name, "error", ex.te.Failure)
			res.Failures = append(res.Failures, fmt.Sprintf("%s: tables: %v", ex.doc.Name, ex.te.Failure))
		}
	}

	if ta.OK() && tb.OK() {
		logger.Info("comparing tables",
			"columns_a", len(ta.Table.Columns), "rows_a", ta.Table.Len(),
			"columns_b", len(tb.Table.Columns), "rows_b", tb.Table.Len(),
		)
		c.compareTables(res, opts, ta.Table, tb.Table)
	} else {
		logger.Info("comparing text")
		if err := c.compareText(ctx, res, opts, docA, docB); err != nil {
			return nil, err
		}
	}

	res.Duration = time.Since(start)
	logger.Info("comparison finished",
		"outcome", res.Outcome,
		"mode", res.Mode,
		"rows", res.Table.Len(),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (c *Comparer) extractTable(ctx context.Context, opts Options, doc *extract.Document) TableExtraction {
	tables, err := callWithTimeout(ctx, opts.ExtractTimeout, func(ctx context.Context) ([]table.Table, error) {
		return c.Tables.ExtractTables(ctx, doc)
	})
	if err != nil {
		return TableExtraction{Failure: err}
	}
	if len(tables) == 0 {
		return TableExtraction{Failure: extract.ErrNoTables}
	}
	return TableExtraction{Table: table.Concat(tables...)}
}

func (c *Comparer) compareTables(res *Result, opts Options, a, b table.Table) {
	res.Mode = ModeTable
	res.ColumnMatches = match.MatchColumns(a.Columns, b.Columns, opts.ColumnThreshold)

	joined, err := match.Join(a, b, res.ColumnMatches, opts.JoinMode)
	switch {
	case errors.Is(err, match.ErrNoColumnMatches):
		res.Outcome = OutcomeNoMatchingColumns
		return
	case err != nil:
		res.Outcome = OutcomeNoMatchingColumns
		res.Failures = append(res.Failures, fmt.Sprintf("join: %v", err))
		return
	}

	res.Table = joined
	if joined.Empty() {
		res.Outcome = OutcomeNoMatchingRows
		return
	}
	res.Outcome = OutcomeSuccess
	res.Filename = TableFilename
}

func (c *Comparer) compareText(ctx context.Context, res *Result, opts Options, docA, docB *extract.Document) error {
	res.Mode = ModeText

	linesA := c.extractLines(ctx, res, opts, docA)
	linesB := c.extractLines(ctx, res, opts, docB)
	if err := ctx.Err(); err != nil {
		return err
	}

	matcher := c.Lines
	if matcher == nil {
		matcher = match.NewScanMatcher(opts.LineThreshold)
	}
	common := matcher.Match(match.Dedupe(linesA), match.Dedupe(linesB))
	res.CommonLines = common

	if len(common) == 0 {
		res.Outcome = OutcomeNoCommonText
		return nil
	}

	res.Table = textTable(common, opts)
	res.Outcome = OutcomeSuccess
	res.Filename = TextFilename
	return nil
}

func (c *Comparer) extractLines(ctx context.Context, res *Result, opts Options, doc *extract.Document) []string {
	lines, err := callWithTimeout(ctx, opts.ExtractTimeout, func(ctx context.Context) ([]string, error) {
		return c.Text.ExtractLines(ctx, doc)
	})
	if err != nil {
		logging.FromContext(ctx).Warn("text extraction failed", "document", doc.Name, "error", err)
		res.Failures = append(res.Failures, fmt.Sprintf("%s: text: %v", doc.Name, err))
		return nil
	}
	return lines
}

// textTable renders common lines as the downloadable table. A reconstruction
// that leaves no data rows (only a header line was common) falls back to one
// line per row so no matched text is lost.
func textTable(common match.LineSet, opts Options) table.Table {
	if opts.Reconstruct {
		t := match.NewReconstructor(opts.HeaderKeywords).Reconstruct(common)
		if !t.Empty() {
			return t
		}
	}

	rows := make([][]string, len(common))
	for i, line := range common {
		rows[i] = []string{line}
	}
	return table.Table{Columns: []string{CommonTextColumn}, Rows: rows}
}

// callWithTimeout runs fn on its own goroutine under a deadline of d. The
// call is abandoned, not interrupted, when the deadline passes; fn sees the
// cancelled context and is expected to return soon after. Panics in fn are
// returned as errors.
func callWithTimeout[T any](ctx context.Context, d time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	type outcome struct {
		v   T
		err error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("extractor panic: %v", r)}
			}
		}()
		v, err := fn(ctx)
		done <- outcome{v: v, err: err}
	}()

	select {
	case o := <-done:
		return o.v, o.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
