// Package pdf reads positioned words from PDF pages.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/Veraticus/thirteenf/internal/common"
	"github.com/Veraticus/thirteenf/internal/model"
	"github.com/ledongthuc/pdf"
)

// ErrPageRange is returned for page numbers outside the document.
var ErrPageRange = errors.New("page out of range")

// defaultPageHeight is US Letter height in points, used when a page has no usable MediaBox.
const defaultPageHeight = 792

var pdfMagic = []byte("%PDF-")

// Document is an open PDF file.
type Document struct {
	file      *os.File
	reader    *pdf.Reader
	path      string
	tolerance float64
}

// Open opens the PDF at path. Glyphs closer than tolerance points
// horizontally are merged into one word. It returns common.ErrNoInput when
// path does not exist and common.ErrNotPDF when the file lacks a PDF header.
func Open(path string, tolerance float64) (*Document, error) {
	if err := checkHeader(path); err != nil {
		return nil, err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}

	return &Document{
		file:      f,
		reader:    r,
		path:      path,
		tolerance: tolerance,
	}, nil
}

func checkHeader(path string) error {
	f, err := os.Open(path) // #nosec G304
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", common.ErrNoInput, path)
	}
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	header := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(f, header); err != nil || !bytes.Equal(header, pdfMagic) {
		return fmt.Errorf("%w: %s", common.ErrNotPDF, path)
	}
	return nil
}

// Close releases the underlying file.
func (d *Document) Close() error {
	return d.file.Close()
}

// NumPages returns the number of pages in the document.
func (d *Document) NumPages() int {
	return d.reader.NumPage()
}

// PageTokens returns the words of page n (1-based) in content order.
func (d *Document) PageTokens(n int) (tokens []model.Token, err error) {
	if n < 1 || n > d.NumPages() {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageRange, n, d.NumPages())
	}

	page := d.reader.Page(n)
	if page.V.IsNull() {
		slog.Warn("Skipping empty page", "file", d.path, "page", n)
		return nil, nil
	}

	// The PDF library panics on malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			tokens = nil
			err = fmt.Errorf("failed to read content of page %d: %v", n, r)
		}
	}()

	content := page.Content()
	glyphs := make([]glyph, 0, len(content.Text))
	for _, t := range content.Text {
		glyphs = append(glyphs, glyph{
			text: t.S,
			x:    t.X,
			y:    t.Y,
			w:    t.W,
			size: t.FontSize,
		})
	}

	return assembleWords(glyphs, pageHeight(page), d.tolerance), nil
}

// pageHeight reads the page's MediaBox, following inherited values.
func pageHeight(page pdf.Page) float64 {
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			if h := box.Index(3).Float64() - box.Index(1).Float64(); h > 0 {
				return h
			}
		}
	}
	return defaultPageHeight
}
