package core

import (
	"context"
	"time"

	"github.com/Harjeet1309/pdfmerge/internal/extract"
	"github.com/Harjeet1309/pdfmerge/internal/match"
	"github.com/Harjeet1309/pdfmerge/internal/table"
)

// Outcome classifies how a comparison ended.
type Outcome string

const (
	OutcomeSuccess           Outcome = "success"
	OutcomeMissingInput      Outcome = "missing_input"
	OutcomeNoMatchingColumns Outcome = "no_matching_columns"
	OutcomeNoMatchingRows    Outcome = "no_matching_rows"
	OutcomeNoCommonText      Outcome = "no_common_text"
)

// Mode is the path a comparison took after table extraction.
type Mode string

const (
	ModeNone  Mode = ""
	ModeTable Mode = "table"
	ModeText  Mode = "text"
)

// Download names for a successful result.
const (
	TableFilename = "common_data.csv"
	TextFilename  = "common_text_data.csv"
)

// CommonTextColumn names the single column of a text result that is not
// reconstructed into a table.
const CommonTextColumn = "common_text"

// TableExtractor finds tables in a document. It may return several tables
// per page; an error or an empty result means the document has no usable
// table.
type TableExtractor interface {
	ExtractTables(ctx context.Context, doc *extract.Document) ([]table.Table, error)
}

// TextExtractor returns the non-empty text lines of a document, all pages
// concatenated.
type TextExtractor interface {
	ExtractLines(ctx context.Context, doc *extract.Document) ([]string, error)
}

// TableExtraction is the result of extracting tables from one document:
// either a Table or a Failure.
type TableExtraction struct {
	Table   table.Table
	Failure error
}

// OK reports whether a table was extracted.
func (e TableExtraction) OK() bool {
	return e.Failure == nil
}

// Options tune a comparison. Zero thresholds, keywords, join mode and
// timeout select the defaults. Reconstruct is used as given, so a zero
// Options compares without rebuilding tables from text; start from
// DefaultOptions to keep it on.
type Options struct {
	LineThreshold   int
	ColumnThreshold int
	Reconstruct     bool
	HeaderKeywords  []string
	JoinMode        match.JoinMode
	ExtractTimeout  time.Duration
}

// DefaultExtractTimeout bounds a single extraction call.
const DefaultExtractTimeout = 30 * time.Second

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		LineThreshold:   match.DefaultLineThreshold,
		ColumnThreshold: match.DefaultColumnThreshold,
		Reconstruct:     true,
		HeaderKeywords:  match.DefaultHeaderKeywords,
		JoinMode:        match.JoinSingle,
		ExtractTimeout:  DefaultExtractTimeout,
	}
}

func (o Options) withDefaults() Options {
	if o.LineThreshold <= 0 {
		o.LineThreshold = match.DefaultLineThreshold
	}
	if o.ColumnThreshold <= 0 {
		o.ColumnThreshold = match.DefaultColumnThreshold
	}
	if len(o.HeaderKeywords) == 0 {
		o.HeaderKeywords = match.DefaultHeaderKeywords
	}
	if o.JoinMode == "" {
		o.JoinMode = match.JoinSingle
	}
	if o.ExtractTimeout <= 0 {
		o.ExtractTimeout = DefaultExtractTimeout
	}
	return o
}

// Result is everything a caller needs to present one comparison.
type Result struct {
	ID            string              `json:"id,omitempty"`
	Outcome       Outcome             `json:"outcome"`
	Mode          Mode                `json:"mode,omitempty"`
	Table         table.Table         `json:"-"`
	ColumnMatches []match.ColumnMatch `json:"column_matches,omitempty"`
	CommonLines   []string            `json:"common_lines,omitempty"`
	Filename      string              `json:"filename,omitempty"`
	Documents     []extract.Info      `json:"documents,omitempty"`
	Failures      []string            `json:"extraction_failures,omitempty"`
	Duration      time.Duration       `json:"duration_ns"`
	CreatedAt     time.Time           `json:"created_at"`
}

// HasData reports whether the result carries a table to download.
func (r *Result) HasData() bool {
	return r != nil && r.Outcome == OutcomeSuccess
}
