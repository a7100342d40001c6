package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/thirteenf/internal/common"
	"github.com/Veraticus/thirteenf/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chars lays out s as fixed-pitch glyphs starting at x on baseline y.
func chars(s string, x, y, pitch float64) []glyph {
	var out []glyph
	for i, r := range s {
		out = append(out, glyph{
			text: string(r),
			x:    x + float64(i)*pitch,
			y:    y,
			w:    pitch,
			size: 8,
		})
	}
	return out
}

func TestAssembleWords_SplitsOnGaps(t *testing.T) {
	var glyphs []glyph
	glyphs = append(glyphs, chars("ABCDEF", 0, 700, 6)...)
	glyphs = append(glyphs, chars("12", 42, 700, 6)...)
	glyphs = append(glyphs, chars("Acme Corp", 90, 700, 6)...)

	tokens := assembleWords(glyphs, 792, 3)

	require.Len(t, tokens, 3)
	assert.Equal(t, model.Token{Text: "ABCDEF", X: 0, Top: 84}, tokens[0])
	assert.Equal(t, model.Token{Text: "12", X: 42, Top: 84}, tokens[1])
	assert.Equal(t, "Acme Corp", tokens[2].Text, "blank glyphs stay inside a word")
}

func TestAssembleWords_Tolerance(t *testing.T) {
	glyphs := append(chars("AB", 0, 700, 6), chars("CD", 14, 700, 6)...)

	// Gap between B (ends at 12) and C (starts at 14) is 2 points.
	assert.Len(t, assembleWords(glyphs, 792, 3), 1)
	assert.Len(t, assembleWords(glyphs, 792, 1), 2)
}

func TestAssembleWords_RowsAndOrder(t *testing.T) {
	var glyphs []glyph
	glyphs = append(glyphs, chars("lower", 0, 600, 6)...)
	glyphs = append(glyphs, chars("right", 100, 700, 6)...)
	glyphs = append(glyphs, chars("left", 0, 700, 6)...)

	tokens := assembleWords(glyphs, 792, 3)

	require.Len(t, tokens, 3)
	assert.Equal(t, "left", tokens[0].Text)
	assert.Equal(t, "right", tokens[1].Text)
	assert.Equal(t, "lower", tokens[2].Text)
	assert.Greater(t, tokens[2].Top, tokens[0].Top)
}

func TestAssembleWords_BlankEdges(t *testing.T) {
	glyphs := chars("  AB  ", 0, 700, 6)

	tokens := assembleWords(glyphs, 792, 3)

	require.Len(t, tokens, 1)
	assert.Equal(t, "AB", tokens[0].Text)
	assert.InDelta(t, 12, tokens[0].X, 0)
}

func TestAssembleWords_Empty(t *testing.T) {
	assert.Empty(t, assembleWords(nil, 792, 3))
	assert.Empty(t, assembleWords(chars("   ", 0, 700, 6), 792, 3))
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.pdf"), 3)
	assert.ErrorIs(t, err, common.ErrNoInput)
}

func TestOpen_NotPDF(t *testing.T) {
	dir := t.TempDir()

	tests := map[string]string{
		"text.pdf":  "CUSIP NO ISSUER NAME\n",
		"empty.pdf": "",
		"short.pdf": "%PD",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(content), 0600))

			_, err := Open(path, 3)
			assert.ErrorIs(t, err, common.ErrNotPDF)
		})
	}
}
