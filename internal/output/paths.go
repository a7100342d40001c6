// Package output writes the conversion artifacts: line text, xlsx sheet,
// quoted CSV export and reject file.
package output

import (
	"path/filepath"
	"strings"
)

// Paths are the four artifacts derived from one base name.
type Paths struct {
	Text   string // Reconstructed lines
	Sheet  string // xlsx workbook
	CSV    string // Quoted export of the workbook
	Reject string // Noise lines
}

// PathsFor derives artifact paths from an input document path. When dir is
// non-empty the artifacts are placed there instead of next to the input.
func PathsFor(input, dir string) Paths {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if dir != "" {
		base = filepath.Join(dir, filepath.Base(base))
	}

	return Paths{
		Text:   base + ".txt",
		Sheet:  base + ".xlsx",
		CSV:    base + ".csv",
		Reject: base + ".bad.txt",
	}
}

// All returns the paths in write order.
func (p Paths) All() []string {
	return []string{p.Text, p.Reject, p.Sheet, p.CSV}
}

// Dir returns the directory the outputs are written to.
func (p Paths) Dir() string {
	return filepath.Dir(p.Text)
}
