package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/thirteenf/internal/cli"
	"github.com/Veraticus/thirteenf/internal/common"
	"github.com/Veraticus/thirteenf/internal/config"
	"github.com/Veraticus/thirteenf/internal/output"
	"github.com/Veraticus/thirteenf/internal/sheets"
)

func publishCmd() *cobra.Command {
	var (
		sheetName     string
		spreadsheetID string
	)

	cmd := &cobra.Command{
		Use:   "publish <list.xlsx>",
		Short: "Mirror a converted sheet to Google Sheets",
		Long: `Publish copies the rows of a converted workbook into a Google Sheets
spreadsheet, replacing the sheet's previous contents. Values are sent
as raw text so identifiers keep their leading zeros.

Credentials come from the sheets section of the config file or the
GOOGLE_SHEETS_* environment variables.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if sheetName == "" {
				sheetName = cfg.Output.SheetName
			}

			section := cfg.Sheets
			if spreadsheetID != "" {
				section.SpreadsheetID = spreadsheetID
			}
			sheetsCfg, err := config.LoadSheetsConfig(section, sheetName)
			if err != nil {
				return common.NewUserError("Google Sheets is not configured", err)
			}

			rows, err := output.ReadSheet(args[0], sheetName)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return common.NewUserError(fmt.Sprintf("sheet %q in %s is empty", sheetName, args[0]), common.ErrNoRecords)
			}

			publisher, err := sheets.NewPublisher(ctx, *sheetsCfg, slog.Default())
			if err != nil {
				return err
			}

			result, err := publisher.Publish(ctx, rows[0], rows[1:])
			if err != nil {
				return publishError(err)
			}

			msg := fmt.Sprintf("Published %d records to spreadsheet %s", result.Rows, result.SpreadsheetID)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(msg))
			if result.SpreadsheetURL != "" {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(result.SpreadsheetURL))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sheetName, "sheet-name", "", "worksheet title (default: output.sheet_name)")
	cmd.Flags().StringVar(&spreadsheetID, "spreadsheet-id", "", "existing spreadsheet to update (default: sheets.spreadsheet_id)")

	return cmd
}

// publishError turns failures that outlasted every retry into advice to
// try again later.
func publishError(err error) error {
	if common.IsRetryable(err) {
		return common.NewUserError("Google Sheets is not accepting requests right now; try again later", err)
	}
	return err
}
