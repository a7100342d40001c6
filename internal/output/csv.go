package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// WriteQuotedCSV writes rows with every field double-quoted, so downstream
// readers never coerce a value to a number. Embedded quotes are doubled.
func WriteQuotedCSV(w io.Writer, rows [][]string) error {
	bw := bufio.NewWriter(w)

	for _, row := range rows {
		for i, field := range row {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteByte('"')
			bw.WriteString(strings.ReplaceAll(field, `"`, `""`))
			bw.WriteByte('"')
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// ExportCSV re-reads the persisted workbook as text and writes its rows to csvPath.
// It returns the number of rows written, header included.
func ExportCSV(sheetPath, csvPath, sheet string) (int, error) {
	rows, err := ReadSheet(sheetPath, sheet)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(csvPath), 0750); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(csvPath) // #nosec G304 -- path is chosen by the operator
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", csvPath, err)
	}

	if err := WriteQuotedCSV(f, rows); err != nil {
		_ = f.Close()
		return 0, fmt.Errorf("failed to write %s: %w", csvPath, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to close %s: %w", csvPath, err)
	}

	return len(rows), nil
}
