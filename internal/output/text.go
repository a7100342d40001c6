package output

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/thirteenf/internal/model"
)

// textFile is a buffered, newline-terminated UTF-8 line file.
type textFile struct {
	file  *os.File
	buf   *bufio.Writer
	path  string
	count int
}

func createTextFile(path string) (*textFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- path is chosen by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	return &textFile{file: f, buf: bufio.NewWriter(f), path: path}, nil
}

func (t *textFile) writeLine(s string) error {
	if _, err := t.buf.WriteString(s); err != nil {
		return fmt.Errorf("failed to write %s: %w", t.path, err)
	}
	if err := t.buf.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write %s: %w", t.path, err)
	}
	t.count++
	return nil
}

// Close flushes buffered lines and closes the file.
func (t *textFile) Close() error {
	if err := t.buf.Flush(); err != nil {
		_ = t.file.Close()
		return fmt.Errorf("failed to flush %s: %w", t.path, err)
	}
	return t.file.Close()
}

// Count returns the number of lines written.
func (t *textFile) Count() int {
	return t.count
}

// LineWriter writes reconstructed lines, one per line.
type LineWriter struct {
	*textFile
}

// CreateLineWriter creates (or truncates) the line text file at path.
func CreateLineWriter(path string) (*LineWriter, error) {
	tf, err := createTextFile(path)
	if err != nil {
		return nil, err
	}
	return &LineWriter{textFile: tf}, nil
}

// WriteLine appends one rendered line.
func (w *LineWriter) WriteLine(line model.Line) error {
	return w.writeLine(line.Text)
}

// RejectWriter writes noise lines for manual inspection. It implements
// classify.RejectSink.
type RejectWriter struct {
	*textFile
}

// CreateRejectWriter creates (or truncates) the reject file at path.
func CreateRejectWriter(path string) (*RejectWriter, error) {
	tf, err := createTextFile(path)
	if err != nil {
		return nil, err
	}
	return &RejectWriter{textFile: tf}, nil
}

// Reject writes the line as it was classified, without surrounding whitespace.
func (w *RejectWriter) Reject(line model.Line) error {
	return w.writeLine(strings.TrimSpace(line.Text))
}
