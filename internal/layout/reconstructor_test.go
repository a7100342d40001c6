package layout

import (
	"fmt"
	"math"
	"testing"

	"github.com/Veraticus/thirteenf/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioTokens() []model.Token {
	return []model.Token{
		{Text: "Active", X: 378, Top: 10.2},
		{Text: "ABCDEF", X: 0, Top: 10.2},
		{Text: "3", X: 60, Top: 10.2},
		{Text: "Widgets", X: 258, Top: 10.2},
		{Text: "12", X: 42, Top: 10.2},
		{Text: "Acme Corp", X: 90, Top: 10.2},
		{Text: "*", X: 72, Top: 10.2},
	}
}

func TestReconstruct_SingleRow(t *testing.T) {
	r := NewReconstructor(model.DefaultLayout())

	lines := r.Reconstruct(1, scenarioTokens())

	require.Len(t, lines, 1)
	want := fmt.Sprintf("%-43s%-20s%s", "ABCDEF 12 3 *  Acme Corp", "Widgets", "Active")
	assert.Equal(t, want, lines[0].Text)
	assert.Equal(t, 1, lines[0].Page)
	assert.InDelta(t, 10.2, lines[0].Top, 0)
}

func TestReconstruct_RowsOrderedByTop(t *testing.T) {
	r := NewReconstructor(model.DefaultLayout())

	lines := r.Reconstruct(3, []model.Token{
		{Text: "second", X: 0, Top: 20},
		{Text: "first", X: 0, Top: 10},
		{Text: "third", X: 12, Top: 30},
	})

	require.Len(t, lines, 3)
	assert.Equal(t, "first", lines[0].Text)
	assert.Equal(t, "second", lines[1].Text)
	assert.Equal(t, "  third", lines[2].Text)
}

func TestReconstruct_ExactTopEquality(t *testing.T) {
	r := NewReconstructor(model.DefaultLayout())

	// Sub-unit differences in Top are distinct rows.
	lines := r.Reconstruct(1, []model.Token{
		{Text: "ABCDEF", X: 0, Top: 107.2},
		{Text: "12", X: 42, Top: 10.2},
		{Text: "3", X: 60, Top: 10.2001},
	})

	require.Len(t, lines, 3)
	assert.Equal(t, "       12", lines[0].Text)
	assert.Equal(t, "          3", lines[1].Text)
	assert.Equal(t, "ABCDEF", lines[2].Text)
}

func TestReconstruct_BlankRowsKept(t *testing.T) {
	r := NewReconstructor(model.DefaultLayout())

	lines := r.Reconstruct(1, []model.Token{
		{Text: "header", X: 0, Top: 1},
		{Text: "   ", X: 30, Top: 2},
		{Text: "footer", X: 0, Top: 3},
	})

	require.Len(t, lines, 3)
	assert.Equal(t, "", lines[1].Text)
}

func TestReconstruct_OverlappingTokens(t *testing.T) {
	r := NewReconstructor(model.DefaultLayout())

	// The second token's column is already passed, so it is appended directly.
	lines := r.Reconstruct(1, []model.Token{
		{Text: "LONGWORD", X: 0, Top: 5},
		{Text: "next", X: 12, Top: 5},
	})

	require.Len(t, lines, 1)
	assert.Equal(t, "LONGWORD next", lines[0].Text)
}

func TestReconstruct_DegenerateOffsets(t *testing.T) {
	r := NewReconstructor(model.DefaultLayout())

	lines := r.Reconstruct(1, []model.Token{
		{Text: "neg", X: -40, Top: 5},
		{Text: "nan", X: math.NaN(), Top: 6},
	})

	require.Len(t, lines, 2)
	assert.Equal(t, "neg", lines[0].Text)
	assert.Equal(t, "nan", lines[1].Text)
}

func TestReconstruct_CountsRunes(t *testing.T) {
	r := NewReconstructor(model.DefaultLayout())

	lines := r.Reconstruct(1, []model.Token{
		{Text: "ÉCOLE", X: 0, Top: 5},
		{Text: "X", X: 60, Top: 5},
	})

	require.Len(t, lines, 1)
	assert.Equal(t, "ÉCOLE     X", lines[0].Text)
}

func TestReconstruct_Empty(t *testing.T) {
	r := NewReconstructor(model.DefaultLayout())
	assert.Empty(t, r.Reconstruct(1, nil))
}

func TestReconstruct_DoesNotMutateInput(t *testing.T) {
	r := NewReconstructor(model.DefaultLayout())
	tokens := scenarioTokens()
	before := append([]model.Token(nil), tokens...)

	first := r.Reconstruct(1, tokens)
	second := r.Reconstruct(1, tokens)

	assert.Equal(t, before, tokens)
	assert.Equal(t, first, second)
}

func TestReconstruct_CharWidth(t *testing.T) {
	l := model.DefaultLayout()
	l.CharWidth = 3
	r := NewReconstructor(l)

	lines := r.Reconstruct(1, []model.Token{
		{Text: "a", X: 0, Top: 1},
		{Text: "b", X: 9, Top: 1},
	})

	require.Len(t, lines, 1)
	assert.Equal(t, "a  b", lines[0].Text)
}
