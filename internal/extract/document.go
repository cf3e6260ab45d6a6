// Package extract reads uploaded PDF documents: validation and page
// counting through pdfcpu, glyph geometry through rsc.io/pdf, and the line and
// table extractors built on that geometry.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrEmptyDocument is returned for a nil or zero-length document.
	ErrEmptyDocument = errors.New("document is empty")

	// ErrTooLarge is returned by ReadDocument when the input exceeds the limit.
	ErrTooLarge = errors.New("document exceeds size limit")

	// ErrNotPDF is returned when the input has no PDF header.
	ErrNotPDF = errors.New("document is not a PDF")
)

// headerWindow is how far into the file the %PDF- marker may appear.
const headerWindow = 1024

// Document is an owned, read-only copy of an uploaded file. Each call to
// Reader returns an independent reader positioned at the start, so one
// document can be read by any number of extraction attempts.
type Document struct {
	Name string
	data []byte
}

// NewDocument copies data into a new Document.
func NewDocument(name string, data []byte) *Document {
	return &Document{Name: name, data: append([]byte(nil), data...)}
}

// ReadDocument drains r into a Document. A positive maxSize bounds the number
// of bytes accepted.
func ReadDocument(name string, r io.Reader, maxSize int64) (*Document, error) {
	src := r
	if maxSize > 0 {
		src = io.LimitReader(r, maxSize+1)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%s: %w (%d bytes)", name, ErrTooLarge, maxSize)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrEmptyDocument)
	}

	return &Document{Name: name, data: data}, nil
}

// Empty reports whether d is nil or holds no bytes.
func (d *Document) Empty() bool {
	return d == nil || len(d.data) == 0
}

// Size returns the document length in bytes.
func (d *Document) Size() int64 {
	if d == nil {
		return 0
	}
	return int64(len(d.data))
}

// Reader returns a fresh reader over the document bytes.
func (d *Document) Reader() *bytes.Reader {
	if d == nil {
		return bytes.NewReader(nil)
	}
	return bytes.NewReader(d.data)
}

// CheckHeader returns ErrNotPDF unless a %PDF- marker appears near the start
// of the document.
func (d *Document) CheckHeader() error {
	if d.Empty() {
		return ErrEmptyDocument
	}
	head := d.data
	if len(head) > headerWindow {
		head = head[:headerWindow]
	}
	if !bytes.Contains(head, []byte("%PDF-")) {
		return fmt.Errorf("%s: %w", d.Name, ErrNotPDF)
	}
	return nil
}
