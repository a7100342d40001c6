package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/thirteenf/internal/classify"
	"github.com/Veraticus/thirteenf/internal/cli"
	"github.com/Veraticus/thirteenf/internal/common"
	"github.com/Veraticus/thirteenf/internal/config"
	"github.com/Veraticus/thirteenf/internal/output"
	"github.com/Veraticus/thirteenf/internal/pdf"
	"github.com/Veraticus/thirteenf/internal/pipeline"
)

// convertOptions are the resolved settings of one conversion.
type convertOptions struct {
	input        string
	outDir       string
	sheetName    string
	pattern      string
	dbPath       string
	user         string
	layout       config.LayoutConfig
	dryRun       bool
	showProgress bool
}

func convertCmd() *cobra.Command {
	var (
		outDir     string
		dbPath     string
		user       string
		sheetName  string
		dryRun     bool
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "convert <list.pdf>",
		Short: "Convert a 13(f) list PDF into text, xlsx and CSV",
		Long: `Convert reads every page of the PDF, rebuilds each text line from word
positions and writes:

  <base>.txt      every reconstructed line
  <base>.bad.txt  lines that are not security records
  <base>.xlsx     one row per record in the "SEC 13F List" sheet
  <base>.csv      the sheet re-exported with every field quoted

With --store the records are also handed to the record store.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			opts := convertOptions{
				input:        args[0],
				outDir:       cfg.Output.Dir,
				sheetName:    cfg.Output.SheetName,
				pattern:      cfg.Layout.LinePattern,
				dbPath:       cfg.Storage.Database,
				user:         cfg.Storage.User,
				layout:       cfg.Layout,
				dryRun:       dryRun,
				showProgress: !noProgress,
			}
			if cmd.Flags().Changed("out-dir") {
				opts.outDir = config.ExpandPath(outDir)
			}
			if cmd.Flags().Changed("store") {
				opts.dbPath = config.ExpandPath(dbPath)
			}
			if cmd.Flags().Changed("user") {
				opts.user = user
			}
			if cmd.Flags().Changed("sheet-name") {
				opts.sheetName = sheetName
			}

			layout, err := opts.layout.ToLayout()
			if err != nil {
				return err
			}

			doc, err := openDocument(opts.input, layout.XTolerance)
			if err != nil {
				return err
			}
			defer func() { _ = doc.Close() }()

			partialDir := ""
			if !opts.dryRun {
				partialDir = output.PathsFor(opts.input, opts.outDir).Dir()
			}
			handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
			ctx := handler.HandleInterrupts(cmd.Context(), partialDir)

			_, err = runConvert(ctx, opts, doc, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil && handler.WasInterrupted() {
				return common.NewUserError("conversion canceled", err)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "directory for outputs (default: next to the input)")
	cmd.Flags().StringVar(&dbPath, "store", "", "record store database to hand records to")
	cmd.Flags().StringVar(&user, "user", "", "user recorded in the audit log")
	cmd.Flags().StringVar(&sheetName, "sheet-name", output.DefaultSheetName, "worksheet title")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse without writing any files")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "hide the progress bar")

	return cmd
}

// openDocument opens the input PDF. A missing or non-PDF input is the
// user's mistake and is reported as such.
func openDocument(path string, tolerance float64) (*pdf.Document, error) {
	doc, err := pdf.Open(path, tolerance)
	switch {
	case err == nil:
		return doc, nil
	case errors.Is(err, common.ErrNoInput):
		return nil, common.NewUserError(fmt.Sprintf("input file %s does not exist", path), err)
	case errors.Is(err, common.ErrNotPDF):
		return nil, common.NewUserError(fmt.Sprintf("%s is not a PDF document", path), err)
	default:
		return nil, &pipeline.StageError{Stage: pipeline.StageExtract, Path: path, Err: err}
	}
}

// runConvert runs the pipeline over src and hands the records to the
// store when one is configured.
func runConvert(ctx context.Context, opts convertOptions, src pipeline.TokenSource, stdout, stderr io.Writer) (*pipeline.Result, error) {
	layout, err := opts.layout.ToLayout()
	if err != nil {
		return nil, err
	}

	classifier, err := classify.NewPatternClassifier(opts.pattern)
	if err != nil {
		return nil, err
	}
	common.LogDebug("Line classifier ready", common.Fields{"pattern": classifier.Pattern()})

	pipelineOpts := pipeline.Options{
		Classifier: classifier,
		Paths:      output.PathsFor(opts.input, opts.outDir),
		SheetName:  opts.sheetName,
		Layout:     layout,
		DryRun:     opts.dryRun,
	}
	if opts.showProgress {
		pipelineOpts.Progress = cli.NewPageProgress(stderr)
	}

	converter, err := pipeline.NewConverter(pipelineOpts)
	if err != nil {
		return nil, err
	}

	slog.Info("Converting", "input", filepath.Base(opts.input), "pages", src.NumPages())

	result, err := converter.Convert(ctx, src)
	if err != nil {
		return nil, err
	}

	if opts.dbPath != "" {
		if opts.dryRun {
			slog.Info("Dry run, records not stored", "database", opts.dbPath)
		} else if err := storeRecords(ctx, opts, result); err != nil {
			return nil, err
		}
	}

	if _, err := fmt.Fprintln(stdout, cli.RenderSummary(result)); err != nil {
		slog.Warn("Failed to write summary", "error", err)
	}

	return result, nil
}

func storeRecords(ctx context.Context, opts convertOptions, result *pipeline.Result) error {
	store, err := initStorage(ctx, opts.dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if _, err := store.SaveSecurities(ctx, result.RunID, opts.user, result.Records); err != nil {
		return fmt.Errorf("failed to store records: %w", err)
	}
	return nil
}
