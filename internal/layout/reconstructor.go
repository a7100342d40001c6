// Package layout rebuilds visual text rows from positioned page tokens.
package layout

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/thirteenf/internal/model"
)

// Reconstructor renders page tokens into lines that approximate the page's
// row and column structure using a fixed character pitch.
type Reconstructor struct {
	charWidth float64
}

// NewReconstructor creates a reconstructor for the given layout.
func NewReconstructor(l model.Layout) *Reconstructor {
	return &Reconstructor{charWidth: l.CharWidth}
}

// Reconstruct sorts the tokens of one page by (Top, X) and renders every
// distinct Top value as one line. Rows are keyed by exact equality of Top,
// so positions differing by a fraction of a unit yield separate lines.
// Trailing whitespace is removed from each rendered line.
func (r *Reconstructor) Reconstruct(page int, tokens []model.Token) []model.Line {
	if len(tokens) == 0 {
		return nil
	}

	sorted := make([]model.Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Top != sorted[j].Top {
			return sorted[i].Top < sorted[j].Top
		}
		return sorted[i].X < sorted[j].X
	})

	var (
		lines   []model.Line
		current strings.Builder
		width   int // rune length of current
	)
	currentTop := sorted[0].Top

	flush := func() {
		lines = append(lines, model.Line{
			Page: page,
			Top:  currentTop,
			Text: strings.TrimRight(current.String(), " \t"),
		})
		current.Reset()
		width = 0
	}

	for _, tok := range sorted {
		if tok.Top != currentTop {
			flush()
			currentTop = tok.Top
		}

		for col := r.column(tok.X); width < col; width++ {
			current.WriteByte(' ')
		}
		current.WriteString(tok.Text)
		current.WriteByte(' ')
		width += utf8.RuneCountInString(tok.Text) + 1
	}
	flush()

	return lines
}

// column returns the rendered column a token starting at x is padded to.
func (r *Reconstructor) column(x float64) int {
	col := math.Floor(x / r.charWidth)
	if math.IsNaN(col) || col < 0 {
		return 0
	}
	if col > maxColumn {
		return maxColumn
	}
	return int(col)
}

// maxColumn bounds padding for absurd offsets.
const maxColumn = 1 << 12
