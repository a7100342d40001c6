package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/thirteenf/internal/model"
	"github.com/Veraticus/thirteenf/internal/output"
	"github.com/Veraticus/thirteenf/internal/pipeline"
)

func TestPageProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewPageProgress(&buf)

	p.PageDone(1, 2, 7)
	p.PageDone(2, 2, 5)

	assert.Equal(t, 12, p.Lines())
	assert.Contains(t, buf.String(), "Extracting pages")
}

func TestRenderSummary(t *testing.T) {
	result := &pipeline.Result{
		RunID:   "run-42",
		Paths:   output.PathsFor("13flist.pdf", "/out"),
		Records: make([]model.SecurityRecord, 3),
		Pages:   2,
		Lines:   14,
		Rejects: 11,
	}

	out := RenderSummary(result)
	assert.Contains(t, out, "Conversion Complete")
	assert.Contains(t, out, "run-42")
	assert.Contains(t, out, "Records: 3")
	assert.Contains(t, out, "13flist.bad.txt")

	result.DryRun = true
	out = RenderSummary(result)
	assert.Contains(t, out, "Dry run")
	assert.NotContains(t, out, "13flist.csv")
}

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"ID", "Name"}, [][]string{
		{"1", "AFLAC INC"},
		{"22"},
	})

	lines := strings.Split(out, "\n")
	assert.Contains(t, out, "AFLAC INC")
	assert.GreaterOrEqual(t, len(lines), 3)
}
