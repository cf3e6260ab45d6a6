package extract

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"rsc.io/pdf"
)

// placed is a string drawn at an absolute position on a page.
type placed struct {
	x, y float64
	s    string
}

// glyphs lays s out the way rsc.io/pdf reports it for buildPDF output: one
// Text per non-space rune, 5 units wide at font size 10.
func glyphs(x, y float64, s string) []pdf.Text {
	var out []pdf.Text
	for _, r := range s {
		if r != ' ' {
			out = append(out, pdf.Text{Font: "Helvetica", FontSize: 10, X: x, Y: y, W: 5, S: string(r)})
		}
		x += 5
	}
	return out
}

func layout(items ...placed) []pdf.Text {
	var out []pdf.Text
	for _, p := range items {
		out = append(out, glyphs(p.x, p.y, p.s)...)
	}
	return out
}

// rosterPage is a three column table followed by a line of prose.
var rosterPage = []placed{
	{50, 700, "RollNo"}, {150, 700, "Name"}, {250, 700, "Dept"},
	{50, 685, "1"}, {150, 685, "Alice"}, {250, 685, "CS"},
	{50, 670, "2"}, {150, 670, "Bob"}, {250, 670, "EE"},
	{50, 600, "Signed by the registrar"},
}

// buildPDF writes a minimal PDF with one page per entry of pages. Text uses
// Helvetica at 10pt with every glyph 500/1000 em wide.
func buildPDF(t *testing.T, pages ...[]placed) []byte {
	t.Helper()

	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	// 1 catalog, 2 page tree, 3 font, then a page and its content per page.
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))

	widths := strings.TrimSpace(strings.Repeat("500 ", 126-32+1))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding " +
		"/FirstChar 32 /LastChar 126 /Widths [" + widths + "] >>")

	for i, items := range pages {
		var content strings.Builder
		for _, p := range items {
			fmt.Fprintf(&content, "BT /F1 10 Tf 1 0 0 1 %g %g Tm (%s) Tj ET\n", p.x, p.y, escapePDF(p.s))
		}
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", content.Len(), content.String()))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	return buf.Bytes()
}

func escapePDF(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`)
	return r.Replace(s)
}
