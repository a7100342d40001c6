// Package pipeline runs the single-pass conversion from page tokens to
// records and output files.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/thirteenf/internal/classify"
	"github.com/Veraticus/thirteenf/internal/common"
	"github.com/Veraticus/thirteenf/internal/fields"
	"github.com/Veraticus/thirteenf/internal/layout"
	"github.com/Veraticus/thirteenf/internal/model"
	"github.com/Veraticus/thirteenf/internal/output"
	"github.com/google/uuid"
)

// TokenSource supplies the positioned words of a document, one page at a time.
type TokenSource interface {
	NumPages() int
	PageTokens(page int) ([]model.Token, error)
}

// Progress is notified after each page has been extracted.
type Progress interface {
	PageDone(page, total, lines int)
}

// Options configures a Converter.
type Options struct {
	Classifier classify.Classifier // Defaults to classify.NewDefaultClassifier
	Progress   Progress
	Paths      output.Paths
	SheetName  string
	Layout     model.Layout
	DryRun     bool // Reconstruct, classify and parse without writing files
}

// Result summarizes a completed run.
type Result struct {
	RunID   string
	Paths   output.Paths
	Records []model.SecurityRecord
	Pages   int
	Lines   int
	Rejects int
	DryRun  bool
}

// Converter runs the pipeline. Stages run strictly in order: all pages are
// extracted before any line is classified, and all lines are classified
// before the sheet is written.
type Converter struct {
	classifier    classify.Classifier
	progress      Progress
	reconstructor *layout.Reconstructor
	parser        *fields.Parser
	paths         output.Paths
	sheetName     string
	dryRun        bool
}

// NewConverter validates the layout and builds a converter.
func NewConverter(opts Options) (*Converter, error) {
	if err := opts.Layout.Validate(); err != nil {
		return nil, err
	}

	classifier := opts.Classifier
	if classifier == nil {
		classifier = classify.NewDefaultClassifier()
	}

	return &Converter{
		classifier:    classifier,
		progress:      opts.Progress,
		reconstructor: layout.NewReconstructor(opts.Layout),
		parser:        fields.NewParser(opts.Layout),
		paths:         opts.Paths,
		sheetName:     opts.SheetName,
		dryRun:        opts.DryRun,
	}, nil
}

// Convert reads every page of src and writes the run's artifacts.
func (c *Converter) Convert(ctx context.Context, src TokenSource) (*Result, error) {
	if src == nil {
		return nil, &StageError{Stage: StageExtract, Err: ErrNoSource}
	}

	result := &Result{
		RunID:  uuid.NewString(),
		Paths:  c.paths,
		DryRun: c.dryRun,
	}
	logger := slog.With("run_id", result.RunID)

	lines, err := c.extract(ctx, src, result.RunID, logger)
	if err != nil {
		return nil, err
	}
	result.Pages = src.NumPages()
	result.Lines = len(lines)

	records, rejects, err := c.classify(lines)
	if err != nil {
		return nil, err
	}
	result.Records = records
	result.Rejects = rejects

	logger.Info("Classified lines",
		"lines", len(lines),
		"records", len(records),
		"rejects", rejects)

	if c.dryRun {
		return result, nil
	}

	if err := c.write(records, logger); err != nil {
		return nil, err
	}

	return result, nil
}

// extract reconstructs the lines of every page and, unless this is a dry
// run, writes them to the line text file.
func (c *Converter) extract(ctx context.Context, src TokenSource, runID string, logger *slog.Logger) (lines []model.Line, err error) {
	var lw *output.LineWriter
	if !c.dryRun {
		lw, err = output.CreateLineWriter(c.paths.Text)
		if err != nil {
			return nil, &StageError{Stage: StageWrite, Path: c.paths.Text, Err: err}
		}
		defer func() {
			if closeErr := lw.Close(); closeErr != nil && err == nil {
				err = &StageError{Stage: StageWrite, Path: c.paths.Text, Err: closeErr}
			}
		}()
	}

	total := src.NumPages()
	for page := 1; page <= total; page++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &StageError{Stage: StageExtract, Page: page, Err: ctxErr}
		}

		common.LogInfo("Processing page", common.Fields{"run_id": runID, "page": page, "total": total})

		tokens, tokErr := src.PageTokens(page)
		if tokErr != nil {
			return nil, &StageError{Stage: StageExtract, Page: page, Err: tokErr}
		}

		pageLines := c.reconstructor.Reconstruct(page, tokens)
		if lw != nil {
			for _, line := range pageLines {
				if writeErr := lw.WriteLine(line); writeErr != nil {
					return nil, &StageError{Stage: StageWrite, Path: c.paths.Text, Err: writeErr}
				}
			}
		}
		lines = append(lines, pageLines...)

		if c.progress != nil {
			c.progress.PageDone(page, total, len(pageLines))
		}
	}

	if lw != nil {
		logger.Info("Text data has been saved", "path", c.paths.Text, "lines", lw.Count())
	}

	return lines, nil
}

// classify routes every line, parsing data lines and rejecting the rest.
func (c *Converter) classify(lines []model.Line) (records []model.SecurityRecord, rejects int, err error) {
	var sink classify.RejectSink
	if !c.dryRun {
		rw, createErr := output.CreateRejectWriter(c.paths.Reject)
		if createErr != nil {
			return nil, 0, &StageError{Stage: StageWrite, Path: c.paths.Reject, Err: createErr}
		}
		defer func() {
			if closeErr := rw.Close(); closeErr != nil && err == nil {
				err = &StageError{Stage: StageWrite, Path: c.paths.Reject, Err: closeErr}
			}
		}()
		sink = rw
	}

	router := classify.NewRouter(c.classifier, sink)
	for _, line := range lines {
		cl, routeErr := router.Route(line)
		if routeErr != nil {
			return nil, 0, &StageError{Stage: StageClassify, Page: line.Page, Path: c.paths.Reject, Err: routeErr}
		}
		if cl.Tag == model.TagData {
			records = append(records, c.parser.Parse(cl.Text))
		}
	}

	_, rejects = router.Counts()
	return records, rejects, nil
}

// write persists the sheet and then exports it, re-read as text, to CSV.
func (c *Converter) write(records []model.SecurityRecord, logger *slog.Logger) error {
	sw, err := output.NewSheetWriter(c.sheetName)
	if err != nil {
		return &StageError{Stage: StageWrite, Path: c.paths.Sheet, Err: err}
	}
	defer sw.Close()

	for i, rec := range records {
		if err := sw.Append(rec); err != nil {
			return &StageError{Stage: StageWrite, Path: c.paths.Sheet, Err: fmt.Errorf("record %d: %w", i+1, err)}
		}
	}
	if err := sw.Save(c.paths.Sheet); err != nil {
		return &StageError{Stage: StageWrite, Path: c.paths.Sheet, Err: err}
	}
	logger.Info("Spreadsheet has been saved", "path", c.paths.Sheet, "rows", sw.Rows())

	n, err := output.ExportCSV(c.paths.Sheet, c.paths.CSV, c.sheetName)
	if err != nil {
		return &StageError{Stage: StageWrite, Path: c.paths.CSV, Err: err}
	}
	logger.Info("CSV has been saved", "path", c.paths.CSV, "rows", n)

	return nil
}
