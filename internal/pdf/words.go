package pdf

import (
	"sort"
	"strings"

	"github.com/Veraticus/thirteenf/internal/model"
)

// glyph is one positioned text run as reported by the PDF library.
// y is the baseline measured from the bottom of the page.
type glyph struct {
	text string
	x    float64
	y    float64
	w    float64
	size float64
}

func (g glyph) top(pageHeight float64) float64 {
	return pageHeight - (g.y + g.size)
}

func (g glyph) blank() bool {
	return strings.TrimSpace(g.text) == ""
}

// assembleWords merges glyphs into words. Glyphs sharing a top whose gap to
// the end of the previous glyph is at most tolerance belong to the same word.
// Blank glyphs are kept inside words but never start or end one.
func assembleWords(glyphs []glyph, pageHeight, tolerance float64) []model.Token {
	if len(glyphs) == 0 {
		return nil
	}

	sorted := make([]glyph, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := sorted[i].top(pageHeight), sorted[j].top(pageHeight)
		if ti != tj {
			return ti < tj
		}
		return sorted[i].x < sorted[j].x
	})

	var (
		tokens  []model.Token
		text    strings.Builder
		current model.Token
		end     float64
		open    bool
	)

	emit := func() {
		if open {
			current.Text = strings.TrimRight(text.String(), " \t")
			tokens = append(tokens, current)
		}
		text.Reset()
		open = false
	}

	for _, g := range sorted {
		top := g.top(pageHeight)
		if open && (top != current.Top || g.x-end > tolerance) {
			emit()
		}
		if !open {
			if g.blank() {
				continue
			}
			current = model.Token{X: g.x, Top: top}
			open = true
		}
		text.WriteString(g.text)
		end = g.x + g.w
	}
	emit()

	return tokens
}
