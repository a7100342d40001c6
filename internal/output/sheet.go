package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/thirteenf/internal/model"
	"github.com/xuri/excelize/v2"
)

// DefaultSheetName is the worksheet title used for the securities list.
const DefaultSheetName = "SEC 13F List"

// SheetWriter accumulates records into an xlsx workbook.
// Every cell is written as a string cell so identities keep leading zeros.
type SheetWriter struct {
	file  *excelize.File
	sheet string
	row   int
}

// NewSheetWriter creates a workbook whose single sheet holds the header row.
func NewSheetWriter(sheet string) (*SheetWriter, error) {
	if sheet == "" {
		sheet = DefaultSheetName
	}

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	w := &SheetWriter{file: f, sheet: sheet}
	if err := w.appendRow(model.SheetHeader); err != nil {
		_ = f.Close()
		return nil, err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	return w, nil
}

// Append adds one record row after the rows already written.
func (w *SheetWriter) Append(rec model.SecurityRecord) error {
	return w.appendRow(rec.Row())
}

// Rows returns the number of record rows written, excluding the header.
func (w *SheetWriter) Rows() int {
	return w.row - 1
}

func (w *SheetWriter) appendRow(values []string) error {
	w.row++
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, w.row)
		if err != nil {
			return fmt.Errorf("failed to address cell: %w", err)
		}
		if err := w.file.SetCellStr(w.sheet, cell, v); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}
	return nil
}

// Save persists the workbook to path.
func (w *SheetWriter) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

// Close releases the workbook.
func (w *SheetWriter) Close() error {
	return w.file.Close()
}

// ReadSheet re-opens a persisted workbook and returns every row of sheet as
// raw text. Rows shorter than the first (header) row are padded with empty
// strings, since trailing blank cells are not stored.
func ReadSheet(path, sheet string) ([][]string, error) {
	if sheet == "" {
		sheet = DefaultSheetName
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return rows, nil
	}

	width := len(rows[0])
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}

	return rows, nil
}
