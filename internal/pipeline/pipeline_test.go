package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/thirteenf/internal/classify"
	"github.com/Veraticus/thirteenf/internal/model"
	"github.com/Veraticus/thirteenf/internal/output"
	"github.com/Veraticus/thirteenf/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConverter(t *testing.T, dir string, dryRun bool) (*Converter, output.Paths) {
	t.Helper()
	paths := output.PathsFor(filepath.Join(dir, "13flist2020q4.pdf"), "")
	c, err := NewConverter(Options{
		Layout: model.DefaultLayout(),
		Paths:  paths,
		DryRun: dryRun,
	})
	require.NoError(t, err)
	return c, paths
}

func TestConvert_Scenario(t *testing.T) {
	dir := t.TempDir()
	c, paths := newConverter(t, dir, false)

	src := testutil.NewTokenSource(testutil.ScenarioTokens())
	result, err := c.Convert(context.Background(), src)
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	assert.Equal(t, model.SecurityRecord{
		Identity:    "ABCDEF123",
		Flag:        "*",
		Name:        "Acme Corp",
		Description: "Widgets",
		Status:      "Active",
	}, result.Records[0])
	assert.Equal(t, 1, result.Pages)
	assert.Equal(t, 1, result.Lines)
	assert.Equal(t, 0, result.Rejects)
	assert.NotEmpty(t, result.RunID)

	csv, err := os.ReadFile(paths.CSV)
	require.NoError(t, err)
	assert.Equal(t,
		"\"Identity\",\"Flag\",\"Name\",\"Description\",\"Status\"\n"+
			"\"ABCDEF123\",\"*\",\"Acme Corp\",\"Widgets\",\"Active\"\n",
		string(csv))

	rejects, err := os.ReadFile(paths.Reject)
	require.NoError(t, err)
	assert.Empty(t, rejects)
}

func TestConvert_HeaderOnlyPage(t *testing.T) {
	dir := t.TempDir()
	c, paths := newConverter(t, dir, false)

	src := testutil.NewTokenSource([]model.Token{
		{Text: "Official List of Section 13(f) Securities", X: 150, Top: 30},
	})
	result, err := c.Convert(context.Background(), src)
	require.NoError(t, err)

	assert.Empty(t, result.Records)
	assert.Equal(t, 1, result.Rejects)

	rejects, err := os.ReadFile(paths.Reject)
	require.NoError(t, err)
	assert.Equal(t, "Official List of Section 13(f) Securities\n", string(rejects))

	rows, err := output.ReadSheet(paths.Sheet, "")
	require.NoError(t, err)
	assert.Equal(t, [][]string{model.SheetHeader}, rows)
}

func TestConvert_PartitionsLines(t *testing.T) {
	dir := t.TempDir()
	c, paths := newConverter(t, dir, false)

	src := testutil.NewTokenSource(testutil.ListPage(0), testutil.ListPage(1))
	result, err := c.Convert(context.Background(), src)
	require.NoError(t, err)

	text, err := os.ReadFile(paths.Text)
	require.NoError(t, err)
	rejects, err := os.ReadFile(paths.Reject)
	require.NoError(t, err)

	textLines := strings.Split(strings.TrimSuffix(string(text), "\n"), "\n")
	rejectLines := strings.Split(strings.TrimSuffix(string(rejects), "\n"), "\n")

	assert.Len(t, textLines, result.Lines)
	assert.Len(t, rejectLines, result.Rejects)
	assert.Equal(t, result.Lines, len(result.Records)+result.Rejects)
	assert.Equal(t, 2, result.Pages)

	// Each line appears in exactly one of the two outputs.
	classifier := classify.NewDefaultClassifier()
	var data, noise int
	for _, line := range textLines {
		if classifier.Classify(line) == model.TagData {
			data++
		} else {
			noise++
		}
	}
	assert.Equal(t, len(result.Records), data)
	assert.Equal(t, result.Rejects, noise)

	for _, rec := range result.Records {
		assert.Len(t, rec.Identity, 9)
	}
}

func TestConvert_Idempotent(t *testing.T) {
	type artifacts struct {
		text, csv, sheet []byte
		rows             [][]string
	}

	run := func(dir string) artifacts {
		c, paths := newConverter(t, dir, false)
		_, err := c.Convert(context.Background(), testutil.NewTokenSource(testutil.ListPage(0), testutil.ListPage(1)))
		require.NoError(t, err)

		var a artifacts
		a.text, err = os.ReadFile(paths.Text)
		require.NoError(t, err)
		a.csv, err = os.ReadFile(paths.CSV)
		require.NoError(t, err)
		a.sheet, err = os.ReadFile(paths.Sheet)
		require.NoError(t, err)
		a.rows, err = output.ReadSheet(paths.Sheet, "")
		require.NoError(t, err)
		return a
	}

	dir := t.TempDir()
	first := run(dir)
	// Zip entry times have two second resolution.
	time.Sleep(2100 * time.Millisecond)
	second := run(dir)

	assert.Equal(t, first.text, second.text)
	assert.Equal(t, first.csv, second.csv)
	assert.Equal(t, first.sheet, second.sheet, "xlsx bytes differ between runs")
	assert.Equal(t, first.rows, second.rows)
}

func TestConvert_LogsEveryPage(t *testing.T) {
	var logs bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelInfo})))
	t.Cleanup(func() { slog.SetDefault(previous) })

	c, _ := newConverter(t, t.TempDir(), true)
	result, err := c.Convert(context.Background(), testutil.NewTokenSource(testutil.ListPage(0), testutil.ListPage(1)))
	require.NoError(t, err)

	var pages []string
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		if strings.Contains(line, `"msg":"Processing page"`) {
			assert.Contains(t, line, `"level":"INFO"`)
			assert.Contains(t, line, `"run_id":"`+result.RunID+`"`)
			pages = append(pages, line)
		}
	}
	require.Len(t, pages, 2)
	assert.Contains(t, pages[0], `"page":1`)
	assert.Contains(t, pages[1], `"page":2`)
}

func TestConvert_DryRun(t *testing.T) {
	dir := t.TempDir()
	c, paths := newConverter(t, dir, true)

	result, err := c.Convert(context.Background(), testutil.NewTokenSource(testutil.ScenarioTokens()))
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Len(t, result.Records, 1)

	for _, p := range paths.All() {
		_, statErr := os.Stat(p)
		assert.True(t, os.IsNotExist(statErr), p)
	}
}

func TestConvert_ExtractError(t *testing.T) {
	dir := t.TempDir()
	c, paths := newConverter(t, dir, false)

	boom := errors.New("corrupt content stream")
	src := testutil.NewTokenSource(testutil.ScenarioTokens(), nil)
	src.Fail(2, boom)

	_, err := c.Convert(context.Background(), src)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageExtract, se.Stage)
	assert.Equal(t, 2, se.Page)

	// Output completed before the failure is left behind.
	text, readErr := os.ReadFile(paths.Text)
	require.NoError(t, readErr)
	assert.Contains(t, string(text), "ABCDEF")
}

func TestConvert_Canceled(t *testing.T) {
	c, _ := newConverter(t, t.TempDir(), true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Convert(ctx, testutil.NewTokenSource(testutil.ScenarioTokens()))
	assert.ErrorIs(t, err, context.Canceled)
	stage, ok := FailedStage(err)
	assert.True(t, ok)
	assert.Equal(t, StageExtract, stage)
}

func TestConvert_WriteError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	c, err := NewConverter(Options{
		Layout: model.DefaultLayout(),
		Paths:  output.PathsFor(filepath.Join(blocker, "list.pdf"), ""),
	})
	require.NoError(t, err)

	_, err = c.Convert(context.Background(), testutil.NewTokenSource(testutil.ScenarioTokens()))
	stage, ok := FailedStage(err)
	require.True(t, ok)
	assert.Equal(t, StageWrite, stage)
}

func TestConvert_NilSource(t *testing.T) {
	c, _ := newConverter(t, t.TempDir(), true)
	_, err := c.Convert(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestConvert_CustomClassifier(t *testing.T) {
	c, err := NewConverter(Options{
		Layout:     model.DefaultLayout(),
		DryRun:     true,
		Classifier: classify.ClassifierFunc(func(string) model.Tag { return model.TagNoise }),
	})
	require.NoError(t, err)

	result, err := c.Convert(context.Background(), testutil.NewTokenSource(testutil.ScenarioTokens()))
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	assert.Equal(t, 1, result.Rejects)
}

func TestNewConverter_InvalidLayout(t *testing.T) {
	l := model.DefaultLayout()
	l.CharWidth = 0
	_, err := NewConverter(Options{Layout: l})
	assert.ErrorIs(t, err, model.ErrInvalidLayout)
}

type recordingProgress struct {
	pages []string
}

func (p *recordingProgress) PageDone(page, total, lines int) {
	p.pages = append(p.pages, fmt.Sprintf("%d/%d:%d", page, total, lines))
}

func TestConvert_ReportsProgress(t *testing.T) {
	progress := &recordingProgress{}
	c, err := NewConverter(Options{
		Layout:   model.DefaultLayout(),
		DryRun:   true,
		Progress: progress,
	})
	require.NoError(t, err)

	_, err = c.Convert(context.Background(), testutil.NewTokenSource(testutil.ScenarioTokens(), nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"1/2:1", "2/2:0"}, progress.pages)
}

func TestStageError_Error(t *testing.T) {
	err := &StageError{Stage: StageExtract, Page: 3, Err: errors.New("bad")}
	assert.Equal(t, "extract failed on page 3: bad", err.Error())

	err = &StageError{Stage: StageWrite, Path: "out.csv", Err: errors.New("full")}
	assert.Equal(t, "write failed for out.csv: full", err.Error())

	err = &StageError{Stage: StageWrite, Err: errors.New("full")}
	assert.Equal(t, "write failed: full", err.Error())

	_, ok := FailedStage(errors.New("other"))
	assert.False(t, ok)
}
