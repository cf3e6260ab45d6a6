package extract

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/Harjeet1309/pdfmerge/internal/table"
)

func TestGroupRows(t *testing.T) {
	texts := layout(
		placed{50, 690, "second"},
		placed{50, 700, "first"},
		placed{120, 701, "same"},
	)

	rows := groupRows(texts)

	if len(rows) != 2 {
		t.Fatalf("groupRows() = %d rows, want 2", len(rows))
	}
	if got := rows[0].line(); got != "first same" {
		t.Errorf("rows[0] = %q, want %q", got, "first same")
	}
	if got := rows[1].line(); got != "second" {
		t.Errorf("rows[1] = %q, want %q", got, "second")
	}
}

func TestSegments(t *testing.T) {
	r := groupRows(layout(placed{50, 700, "Roll No"}, placed{150, 700, "Name"}))[0]

	segs := r.segments()

	want := []segment{
		{x0: 50, x1: 85, text: "Roll No"},
		{x0: 150, x1: 170, text: "Name"},
	}
	if !reflect.DeepEqual(segs, want) {
		t.Errorf("segments() = %+v, want %+v", segs, want)
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ﬁle", "file"},
		{"  a\t b ", "a b"},
		{"ＡBC", "ABC"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := cleanText(tt.in); got != tt.want {
			t.Errorf("cleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPageLines(t *testing.T) {
	got := pageLines(layout(rosterPage...))

	want := []string{
		"RollNo Name Dept",
		"1 Alice CS",
		"2 Bob EE",
		"Signed by the registrar",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("pageLines() = %q, want %q", got, want)
	}
}

func TestDetectTables(t *testing.T) {
	got := PDFTables{}.detect(groupRows(layout(rosterPage...)))

	if len(got) != 1 {
		t.Fatalf("detect() found %d tables, want 1", len(got))
	}
	want := table.Table{
		Columns: []string{"RollNo", "Name", "Dept"},
		Rows:    [][]string{{"1", "Alice", "CS"}, {"2", "Bob", "EE"}},
	}
	if !reflect.DeepEqual(got[0], want) {
		t.Errorf("detect() = %v, want %v", got[0], want)
	}
}

func TestDetectTables_AlignmentAndMerging(t *testing.T) {
	page := []placed{
		{50, 700, "Item"}, {200, 700, "Amount"},
		{50, 685, "Paper"}, {215, 685, "12"},
		{50, 670, "Ink"}, {210, 670, "130"},
		{50, 655, "Total due"}, {120, 655, "x"}, {220, 655, "142"},
	}

	got := PDFTables{}.detect(groupRows(layout(page...)))

	if len(got) != 1 {
		t.Fatalf("detect() found %d tables, want 1", len(got))
	}
	wantRows := [][]string{{"Paper", "12"}, {"Ink", "130"}, {"Total due x", "142"}}
	if !reflect.DeepEqual(got[0].Rows, wantRows) {
		t.Errorf("rows = %q, want %q", got[0].Rows, wantRows)
	}
}

func TestDetectTables_TooShort(t *testing.T) {
	page := []placed{
		{50, 700, "Lonely"}, {150, 700, "Header"},
		{50, 650, "just prose below"},
	}
	if got := (PDFTables{}).detect(groupRows(layout(page...))); len(got) != 0 {
		t.Errorf("detect() = %v, want no tables", got)
	}
}

func TestDetectTables_SplitByProse(t *testing.T) {
	page := []placed{
		{50, 700, "A"}, {150, 700, "B"},
		{50, 685, "1"}, {150, 685, "2"},
		{50, 670, "an interruption"},
		{50, 655, "C"}, {150, 655, "D"},
		{50, 640, "3"}, {150, 640, "4"},
	}
	got := PDFTables{}.detect(groupRows(layout(page...)))
	if len(got) != 2 {
		t.Fatalf("detect() found %d tables, want 2", len(got))
	}
	if !reflect.DeepEqual(got[1].Columns, []string{"C", "D"}) {
		t.Errorf("second table columns = %v", got[1].Columns)
	}
}

func TestPDFText_ExtractLines(t *testing.T) {
	doc := NewDocument("roster.pdf", buildPDF(t, rosterPage, []placed{{72, 700, "Page two"}}))

	got, err := PDFText{}.ExtractLines(context.Background(), doc)
	if err != nil {
		t.Fatalf("ExtractLines() error = %v", err)
	}

	want := []string{
		"RollNo Name Dept",
		"1 Alice CS",
		"2 Bob EE",
		"Signed by the registrar",
		"Page two",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractLines() = %q, want %q", got, want)
	}
}

func TestPDFTables_ExtractTables(t *testing.T) {
	doc := NewDocument("roster.pdf", buildPDF(t, rosterPage))

	got, err := PDFTables{}.ExtractTables(context.Background(), doc)
	if err != nil {
		t.Fatalf("ExtractTables() error = %v", err)
	}
	if len(got) != 1 || !reflect.DeepEqual(got[0].Columns, []string{"RollNo", "Name", "Dept"}) {
		t.Errorf("ExtractTables() = %v", got)
	}
}

func TestPDFTables_NoTables(t *testing.T) {
	doc := NewDocument("prose.pdf", buildPDF(t, []placed{{72, 700, "Only a sentence"}}))

	_, err := PDFTables{}.ExtractTables(context.Background(), doc)
	if !errors.Is(err, ErrNoTables) {
		t.Errorf("ExtractTables() error = %v, want ErrNoTables", err)
	}
}

func TestExtractors_Garbage(t *testing.T) {
	doc := NewDocument("junk.pdf", []byte("this is definitely not a pdf file"))
	ctx := context.Background()

	if _, err := (PDFText{}).ExtractLines(ctx, doc); err == nil {
		t.Error("ExtractLines() on garbage should fail")
	}
	if _, err := (PDFTables{}).ExtractTables(ctx, doc); err == nil || errors.Is(err, ErrNoTables) {
		t.Errorf("ExtractTables() on garbage error = %v, want parse error", err)
	}
}

func TestExtractors_Empty(t *testing.T) {
	ctx := context.Background()
	if _, err := (PDFText{}).ExtractLines(ctx, nil); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("ExtractLines(nil) error = %v", err)
	}
	if _, err := (PDFTables{}).ExtractTables(ctx, NewDocument("x", nil)); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("ExtractTables(empty) error = %v", err)
	}
}

func TestExtractors_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := NewDocument("roster.pdf", buildPDF(t, rosterPage))
	if _, err := (PDFText{}).ExtractLines(ctx, doc); !errors.Is(err, context.Canceled) {
		t.Errorf("ExtractLines() error = %v, want context.Canceled", err)
	}
}

func TestReadDocument(t *testing.T) {
	doc, err := ReadDocument("a.pdf", strings.NewReader("%PDF-1.4 body"), 100)
	if err != nil {
		t.Fatalf("ReadDocument() error = %v", err)
	}
	if doc.Size() != 13 {
		t.Errorf("Size() = %d, want 13", doc.Size())
	}

	// Readers are independent.
	r1, r2 := doc.Reader(), doc.Reader()
	buf := make([]byte, 4)
	_, _ = r1.Read(buf)
	if n, _ := r2.Read(buf); n != 4 || string(buf) != "%PDF" {
		t.Errorf("second reader did not start at 0: %q", buf[:n])
	}

	if _, err := ReadDocument("big.pdf", strings.NewReader("0123456789"), 5); !errors.Is(err, ErrTooLarge) {
		t.Errorf("ReadDocument(oversize) error = %v, want ErrTooLarge", err)
	}
	if _, err := ReadDocument("none.pdf", strings.NewReader(""), 5); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("ReadDocument(empty) error = %v, want ErrEmptyDocument", err)
	}
}

func TestNewDocument_Copies(t *testing.T) {
	data := []byte("%PDF-1.4")
	doc := NewDocument("a.pdf", data)
	data[0] = 'X'
	if err := doc.CheckHeader(); err != nil {
		t.Errorf("document changed with caller buffer: %v", err)
	}
}

func TestCheckHeader(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
		want error
	}{
		{"pdf", NewDocument("a", []byte("%PDF-1.7\n...")), nil},
		{"leading junk", NewDocument("a", []byte("\x00\x00%PDF-1.4")), nil},
		{"html", NewDocument("a", []byte("<html></html>")), ErrNotPDF},
		{"nil", nil, ErrEmptyDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.CheckHeader()
			if !errors.Is(err, tt.want) {
				t.Errorf("CheckHeader() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestInspect(t *testing.T) {
	if _, err := Inspect(nil); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("Inspect(nil) error = %v", err)
	}

	info, err := Inspect(NewDocument("junk.pdf", []byte("not a pdf at all")))
	if err == nil {
		t.Error("Inspect(garbage) should fail")
	}
	if info.Valid || info.Problem == "" {
		t.Errorf("Inspect(garbage) info = %+v, want invalid with problem", info)
	}

	info, err = Inspect(NewDocument("roster.pdf", buildPDF(t, rosterPage, rosterPage)))
	if info.Size == 0 || info.Name != "roster.pdf" {
		t.Errorf("Inspect() info = %+v", info)
	}
	if err == nil && info.Pages != 2 {
		t.Errorf("Inspect() pages = %d, want 2", info.Pages)
	}
}
