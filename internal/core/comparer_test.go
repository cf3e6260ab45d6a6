package core

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Harjeet1309/pdfmerge/internal/extract"
	"github.com/Harjeet1309/pdfmerge/internal/match"
	"github.com/Harjeet1309/pdfmerge/internal/table"
)

type tablesFunc func(ctx context.Context, doc *extract.Document) ([]table.Table, error)

func (f tablesFunc) ExtractTables(ctx context.Context, doc *extract.Document) ([]table.Table, error) {
	return f(ctx, doc)
}

type linesFunc func(ctx context.Context, doc *extract.Document) ([]string, error)

func (f linesFunc) ExtractLines(ctx context.Context, doc *extract.Document) ([]string, error) {
	return f(ctx, doc)
}

var errNoTable = errors.New("no table detected")

// tablesByName serves fixed tables per document name; unknown names fail.
func tablesByName(m map[string][]table.Table) tablesFunc {
	return func(_ context.Context, doc *extract.Document) ([]table.Table, error) {
		if ts, ok := m[doc.Name]; ok {
			return ts, nil
		}
		return nil, errNoTable
	}
}

func linesByName(m map[string][]string) linesFunc {
	return func(_ context.Context, doc *extract.Document) ([]string, error) {
		if ls, ok := m[doc.Name]; ok {
			return ls, nil
		}
		return nil, errors.New("unreadable")
	}
}

func docs() (*extract.Document, *extract.Document) {
	return extract.NewDocument("a.pdf", []byte("%PDF-a")), extract.NewDocument("b.pdf", []byte("%PDF-b"))
}

func newTestComparer(tables TableExtractor, text TextExtractor) *Comparer {
	c := NewComparer(DefaultOptions())
	c.Tables = tables
	c.Text = text
	return c
}

func TestCompare_MissingInput(t *testing.T) {
	var calls int32
	count := tablesFunc(func(context.Context, *extract.Document) ([]table.Table, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errNoTable
	})
	c := newTestComparer(count, linesByName(nil))
	a, _ := docs()

	for _, pair := range [][2]*extract.Document{{a, nil}, {nil, a}, {a, extract.NewDocument("e.pdf", nil)}} {
		res, err := c.Compare(context.Background(), pair[0], pair[1])
		if err != nil {
			t.Fatalf("Compare() error = %v", err)
		}
		if res.Outcome != OutcomeMissingInput {
			t.Errorf("Outcome = %q, want %q", res.Outcome, OutcomeMissingInput)
		}
	}
	if calls != 0 {
		t.Errorf("extractor called %d times for missing input", calls)
	}
}

func TestCompare_TableJoin(t *testing.T) {
	c := newTestComparer(tablesByName(map[string][]table.Table{
		"a.pdf": {table.New([]string{"ID", "Name"}, [][]string{{"1", "Alice"}, {"2", "Bob"}})},
		"b.pdf": {table.New([]string{"Id", "Score"}, [][]string{{"1", "90"}, {"3", "70"}})},
	}), linesByName(nil))
	a, b := docs()

	res, err := c.Compare(context.Background(), a, b)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	if res.Outcome != OutcomeSuccess || res.Mode != ModeTable {
		t.Fatalf("Outcome/Mode = %q/%q, want success/table", res.Outcome, res.Mode)
	}
	if res.Filename != TableFilename {
		t.Errorf("Filename = %q, want %q", res.Filename, TableFilename)
	}
	wantCols := []string{"ID", "Name", "Id", "Score"}
	if !reflect.DeepEqual(res.Table.Columns, wantCols) {
		t.Errorf("Columns = %v, want %v", res.Table.Columns, wantCols)
	}
	if !reflect.DeepEqual(res.Table.Rows, [][]string{{"1", "Alice", "1", "90"}}) {
		t.Errorf("Rows = %v", res.Table.Rows)
	}
	if len(res.ColumnMatches) != 1 || res.ColumnMatches[0].Score != 100 {
		t.Errorf("ColumnMatches = %+v", res.ColumnMatches)
	}
	if !res.HasData() {
		t.Error("HasData() = false for a successful join")
	}
}

func TestCompare_NoMatchingColumnsDoesNotFallBack(t *testing.T) {
	var textCalls int32
	text := linesFunc(func(context.Context, *extract.Document) ([]string, error) {
		atomic.AddInt32(&textCalls, 1)
		return []string{"same line"}, nil
	})
	c := newTestComparer(tablesByName(map[string][]table.Table{
		"a.pdf": {table.New([]string{"Invoice"}, [][]string{{"1"}})},
		"b.pdf": {table.New([]string{"Grade"}, [][]string{{"A"}})},
	}), text)
	a, b := docs()

	res, err := c.Compare(context.Background(), a, b)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if res.Outcome != OutcomeNoMatchingColumns {
		t.Errorf("Outcome = %q, want %q", res.Outcome, OutcomeNoMatchingColumns)
	}
	if textCalls != 0 {
		t.Errorf("text extractor called %d times in table mode", textCalls)
	}
	if res.HasData() {
		t.Error("HasData() = true without a match")
	}
}

func TestCompare_NoMatchingRows(t *testing.T) {
	c := newTestComparer(tablesByName(map[string][]table.Table{
		"a.pdf": {table.New([]string{"ID"}, [][]string{{"1"}})},
		"b.pdf": {table.New([]string{"ID"}, [][]string{{"2"}})},
	}), linesByName(nil))
	a, b := docs()

	res, _ := c.Compare(context.Background(), a, b)
	if res.Outcome != OutcomeNoMatchingRows {
		t.Errorf("Outcome = %q, want %q", res.Outcome, OutcomeNoMatchingRows)
	}
	if res.Mode != ModeTable {
		t.Errorf("Mode = %q, want table", res.Mode)
	}
}

func TestCompare_MultipleTablesAreConcatenated(t *testing.T) {
	c := newTestComparer(tablesByName(map[string][]table.Table{
		"a.pdf": {
			table.New([]string{"ID", "Name"}, [][]string{{"1", "Alice"}}),
			table.New([]string{"ID", "Name"}, [][]string{{"2", "Bob"}}),
		},
		"b.pdf": {table.New([]string{"ID", "Score"}, [][]string{{"2", "88"}})},
	}), linesByName(nil))
	a, b := docs()

	res, _ := c.Compare(context.Background(), a, b)
	if res.Outcome != OutcomeSuccess {
		t.Fatalf("Outcome = %q, want success", res.Outcome)
	}
	want := [][]string{{"2", "Bob", "88"}}
	if !reflect.DeepEqual(res.Table.Rows, want) {
		t.Errorf("Rows = %v, want %v", res.Table.Rows, want)
	}
}

func TestCompare_OneTableFailureForcesTextMode(t *testing.T) {
	c := newTestComparer(
		tablesByName(map[string][]table.Table{
			"a.pdf": {table.New([]string{"ID"}, [][]string{{"1"}})},
		}),
		linesByName(map[string][]string{
			"a.pdf": {"Roll1 Alice CS", "Roll2 Bob EE"},
			"b.pdf": {"Roll1 Alice CompSci"},
		}),
	)
	a, b := docs()

	res, err := c.Compare(context.Background(), a, b)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if res.Mode != ModeText || res.Outcome != OutcomeSuccess {
		t.Fatalf("Outcome/Mode = %q/%q, want success/text", res.Outcome, res.Mode)
	}
	if res.Filename != TextFilename {
		t.Errorf("Filename = %q, want %q", res.Filename, TextFilename)
	}
	if !reflect.DeepEqual([]string(res.CommonLines), []string{"Roll1 Alice CS"}) {
		t.Errorf("CommonLines = %v", res.CommonLines)
	}
	// No header keyword: a positional table of the common line.
	if !reflect.DeepEqual(res.Table.Rows, [][]string{{"Roll1", "Alice", "CS"}}) {
		t.Errorf("Rows = %v", res.Table.Rows)
	}
	if len(res.Failures) != 1 || !strings.Contains(res.Failures[0], "b.pdf") {
		t.Errorf("Failures = %v, want the b.pdf table failure", res.Failures)
	}
}

func TestCompare_BothNullNoCommonText(t *testing.T) {
	c := newTestComparer(
		tablesByName(nil),
		linesByName(map[string][]string{
			"a.pdf": {"alpha beta gamma"},
			"b.pdf": {"completely different words"},
		}),
	)
	a, b := docs()

	res, err := c.Compare(context.Background(), a, b)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if res.Outcome != OutcomeNoCommonText || res.Mode != ModeText {
		t.Errorf("Outcome/Mode = %q/%q, want no_common_text/text", res.Outcome, res.Mode)
	}
	if !res.Table.Empty() || res.Filename != "" {
		t.Errorf("no data expected, got table %v file %q", res.Table, res.Filename)
	}
}

func TestCompare_EmptyTableListIsFailure(t *testing.T) {
	empty := tablesFunc(func(context.Context, *extract.Document) ([]table.Table, error) {
		return nil, nil
	})
	c := newTestComparer(empty, linesByName(map[string][]string{
		"a.pdf": {"shared line"},
		"b.pdf": {"shared line"},
	}))
	a, b := docs()

	res, _ := c.Compare(context.Background(), a, b)
	if res.Mode != ModeText {
		t.Errorf("Mode = %q, want text", res.Mode)
	}
}

func TestCompare_TextExtractionFailureCountsAsNoLines(t *testing.T) {
	c := newTestComparer(tablesByName(nil), linesByName(nil))
	a, b := docs()

	res, err := c.Compare(context.Background(), a, b)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if res.Outcome != OutcomeNoCommonText {
		t.Errorf("Outcome = %q, want %q", res.Outcome, OutcomeNoCommonText)
	}
	// Two table failures and two text failures.
	if len(res.Failures) != 4 {
		t.Errorf("Failures = %v, want 4 entries", res.Failures)
	}
}

func TestCompare_Reconstruction(t *testing.T) {
	lines := map[string][]string{
		"a.pdf": {"RollNo Name Dept", "1 Alice CS", "2 Bob EE"},
		"b.pdf": {"RollNo Name Dept", "1 Alice CS", "2 Bob EE", "3 Carol ME"},
	}

	t.Run("header found", func(t *testing.T) {
		c := newTestComparer(tablesByName(nil), linesByName(lines))
		a, b := docs()

		res, _ := c.Compare(context.Background(), a, b)
		if !reflect.DeepEqual(res.Table.Columns, []string{"RollNo", "Name", "Dept"}) {
			t.Errorf("Columns = %v", res.Table.Columns)
		}
		if res.Table.Len() != 2 {
			t.Errorf("rows = %d, want 2", res.Table.Len())
		}
	})

	t.Run("disabled", func(t *testing.T) {
		c := newTestComparer(tablesByName(nil), linesByName(lines))
		c.Options.Reconstruct = false
		a, b := docs()

		res, _ := c.Compare(context.Background(), a, b)
		if !reflect.DeepEqual(res.Table.Columns, []string{CommonTextColumn}) {
			t.Errorf("Columns = %v, want [%s]", res.Table.Columns, CommonTextColumn)
		}
		if res.Table.Len() != 3 || res.Table.Cell(1, 0) != "1 Alice CS" {
			t.Errorf("Rows = %v", res.Table.Rows)
		}
	})

	t.Run("header only keeps the line", func(t *testing.T) {
		c := newTestComparer(tablesByName(nil), linesByName(map[string][]string{
			"a.pdf": {"Grade report", "x"},
			"b.pdf": {"Grade report", "y"},
		}))
		a, b := docs()

		res, _ := c.Compare(context.Background(), a, b)
		if res.Outcome != OutcomeSuccess {
			t.Fatalf("Outcome = %q", res.Outcome)
		}
		if !reflect.DeepEqual(res.Table.Rows, [][]string{{"Grade report"}}) {
			t.Errorf("Rows = %v, want the header line as data", res.Table.Rows)
		}
	})
}

func TestCompare_CompositeJoin(t *testing.T) {
	c := newTestComparer(tablesByName(map[string][]table.Table{
		"a.pdf": {table.New([]string{"ID", "Name"}, [][]string{{"1", "Alice"}, {"2", "Bob"}})},
		"b.pdf": {table.New([]string{"Id", "Names"}, [][]string{{"1", "Alicia"}, {"2", "Bob"}})},
	}), linesByName(nil))
	c.Options.JoinMode = match.JoinComposite
	a, b := docs()

	res, _ := c.Compare(context.Background(), a, b)
	if res.Table.Len() != 1 || res.Table.Cell(0, 1) != "Bob" {
		t.Errorf("composite rows = %v, want only Bob", res.Table.Rows)
	}
}

func TestCompare_ExtractionTimeout(t *testing.T) {
	blocking := tablesFunc(func(ctx context.Context, _ *extract.Document) ([]table.Table, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	c := newTestComparer(blocking, linesByName(map[string][]string{
		"a.pdf": {"shared line"},
		"b.pdf": {"shared line"},
	}))
	c.Options.ExtractTimeout = 20 * time.Millisecond
	a, b := docs()

	start := time.Now()
	res, err := c.Compare(context.Background(), a, b)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if time.Since(start) > time.Second {
		t.Errorf("timeout not applied, took %v", time.Since(start))
	}
	if res.Mode != ModeText || res.Outcome != OutcomeSuccess {
		t.Errorf("Outcome/Mode = %q/%q, want success/text", res.Outcome, res.Mode)
	}
}

func TestCompare_ExtractorPanic(t *testing.T) {
	panicky := tablesFunc(func(context.Context, *extract.Document) ([]table.Table, error) {
		panic("malformed xref")
	})
	c := newTestComparer(panicky, linesByName(map[string][]string{
		"a.pdf": {"shared line"},
		"b.pdf": {"shared line"},
	}))
	a, b := docs()

	res, err := c.Compare(context.Background(), a, b)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if res.Mode != ModeText {
		t.Errorf("Mode = %q, want text", res.Mode)
	}
	if len(res.Failures) == 0 || !strings.Contains(res.Failures[0], "malformed xref") {
		t.Errorf("Failures = %v", res.Failures)
	}
}

func TestCompare_CallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancelling := tablesFunc(func(context.Context, *extract.Document) ([]table.Table, error) {
		cancel()
		return nil, errNoTable
	})
	c := newTestComparer(cancelling, linesByName(nil))
	a, b := docs()

	res, err := c.Compare(ctx, a, b)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Compare() error = %v, want context.Canceled", err)
	}
	if res != nil {
		t.Errorf("Compare() result = %+v, want nil", res)
	}
}

func TestCompare_DocumentReadTwice(t *testing.T) {
	// Both extractors must see the full document.
	var seen []string
	read := func(doc *extract.Document) string {
		buf := make([]byte, doc.Size())
		_, _ = doc.Reader().Read(buf)
		return string(buf)
	}
	c := newTestComparer(
		tablesFunc(func(_ context.Context, doc *extract.Document) ([]table.Table, error) {
			seen = append(seen, read(doc))
			return nil, errNoTable
		}),
		linesFunc(func(_ context.Context, doc *extract.Document) ([]string, error) {
			seen = append(seen, read(doc))
			return nil, nil
		}),
	)
	a, b := docs()

	_, _ = c.Compare(context.Background(), a, b)

	want := []string{"%PDF-a", "%PDF-b", "%PDF-a", "%PDF-b"}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("extractors saw %q, want %q", seen, want)
	}
}

func TestCallWithTimeout(t *testing.T) {
	v, err := callWithTimeout(context.Background(), time.Second, func(context.Context) (int, error) {
		return 7, nil
	})
	if err != nil || v != 7 {
		t.Errorf("callWithTimeout() = %d, %v", v, err)
	}

	_, err = callWithTimeout(context.Background(), 10*time.Millisecond, func(ctx context.Context) (int, error) {
		time.Sleep(200 * time.Millisecond)
		return 1, nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("slow call error = %v, want DeadlineExceeded", err)
	}
}

func TestOptionsWithDefaults(t *testing.T) {
	got := Options{}.withDefaults()
	want := DefaultOptions()
	want.Reconstruct = false
	if !reflect.DeepEqual(got, want) {
		t.Errorf("withDefaults() = %+v, want %+v", got, want)
	}

	if !DefaultOptions().withDefaults().Reconstruct {
		t.Error("withDefaults() turned reconstruction off")
	}
}
