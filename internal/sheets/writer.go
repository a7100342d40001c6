package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/thirteenf/internal/common"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Result describes a completed publish.
type Result struct {
	SpreadsheetID  string
	SpreadsheetURL string
	Rows           int
}

// Publisher writes a header and rows of text into one sheet of a
// spreadsheet, replacing what was there.
type Publisher struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewPublisher creates a publisher authenticated from config.
func NewPublisher(ctx context.Context, config Config, logger *slog.Logger) (*Publisher, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ts, err := tokenSource(ctx, config)
	if err != nil {
		return nil, err
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, ts)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return NewPublisherWithService(config, srv, logger)
}

// NewPublisherWithService creates a publisher on an existing service.
// Authentication settings are not checked.
func NewPublisherWithService(config Config, srv *sheets.Service, logger *slog.Logger) (*Publisher, error) {
	if err := config.validateSettings(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Publisher{
		config:  config,
		service: srv,
		logger:  logger,
	}, nil
}

// Publish replaces the sheet's contents with header followed by rows.
// Values are sent RAW so identifiers are never reinterpreted as numbers.
func (p *Publisher) Publish(ctx context.Context, header []string, rows [][]string) (*Result, error) {
	p.logger.Info("starting publish", "rows", len(rows), "sheet", p.config.SheetTitle)

	retryOpts := common.RetryOptions{
		MaxAttempts:  max(p.config.RetryAttempts, 1),
		InitialDelay: p.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	var target *sheets.Spreadsheet
	err := common.WithRetry(ctx, func() error {
		var err error
		target, err = p.getOrCreateSpreadsheet(ctx)
		return classifyAPIError(err)
	}, retryOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	sheetID, err := findSheet(target, p.config.SheetTitle)
	if err != nil {
		return nil, err
	}

	err = common.WithRetry(ctx, func() error {
		return classifyAPIError(p.clearSheet(ctx, target.SpreadsheetId))
	}, retryOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to clear sheet: %w", err)
	}

	values := prepareValues(header, rows)
	if err := p.writeData(ctx, target.SpreadsheetId, values, retryOpts); err != nil {
		return nil, fmt.Errorf("failed to write data: %w", err)
	}

	if p.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return classifyAPIError(p.applyFormatting(ctx, target.SpreadsheetId, sheetID, len(header)))
		}, retryOpts)
		if err != nil {
			// Formatting is cosmetic
			p.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	p.logger.Info("publish completed",
		"spreadsheet_id", target.SpreadsheetId,
		"rows_written", len(rows))

	return &Result{
		SpreadsheetID:  target.SpreadsheetId,
		SpreadsheetURL: target.SpreadsheetUrl,
		Rows:           len(rows),
	}, nil
}

// getOrCreateSpreadsheet gets the configured spreadsheet or creates a new one.
func (p *Publisher) getOrCreateSpreadsheet(ctx context.Context) (*sheets.Spreadsheet, error) {
	if p.config.SpreadsheetID != "" {
		existing, err := p.service.Spreadsheets.Get(p.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("unable to access spreadsheet %s: %w", p.config.SpreadsheetID, err)
		}
		return existing, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title: p.config.SpreadsheetName,
		},
		Sheets: []*sheets.Sheet{
			{
				Properties: &sheets.SheetProperties{
					Title: p.config.SheetTitle,
				},
			},
		},
	}

	created, err := p.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	p.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created, nil
}

// findSheet returns the id of the sheet with the given title.
func findSheet(spreadsheet *sheets.Spreadsheet, title string) (int64, error) {
	for _, s := range spreadsheet.Sheets {
		if s.Properties != nil && s.Properties.Title == title {
			return s.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("%w: %q in spreadsheet %s", common.ErrSheetMissing, title, spreadsheet.SpreadsheetId)
}

// clearSheet clears all data from the sheet.
func (p *Publisher) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := p.service.Spreadsheets.Values.Clear(spreadsheetID, quoteTitle(p.config.SheetTitle), &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// writeData writes values in batches, retrying each batch independently.
func (p *Publisher) writeData(ctx context.Context, spreadsheetID string, values [][]any, retryOpts common.RetryOptions) error {
	for i := 0; i < len(values); i += p.config.BatchSize {
		end := min(i+p.config.BatchSize, len(values))
		batch := values[i:end]
		rangeStr := fmt.Sprintf("%s!A%d", quoteTitle(p.config.SheetTitle), i+1)

		err := common.WithRetry(ctx, func() error {
			_, err := p.service.Spreadsheets.Values.Update(spreadsheetID, rangeStr, &sheets.ValueRange{Values: batch}).
				ValueInputOption("RAW").
				Context(ctx).
				Do()
			return classifyAPIError(err)
		}, retryOpts)
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		p.logger.Debug("wrote batch", "start_row", i+1, "rows", len(batch))
	}

	return nil
}

// applyFormatting bolds and freezes the header row and sizes the columns.
func (p *Publisher) applyFormatting(ctx context.Context, spreadsheetID string, sheetID int64, columns int) error {
	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   int64(columns),
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   int64(columns),
				},
			},
		},
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: sheetID,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount: 1,
					},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	}

	_, err := p.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}

// prepareValues converts the header and rows into API values.
func prepareValues(header []string, rows [][]string) [][]any {
	values := make([][]any, 0, len(rows)+1)
	values = append(values, toAny(header))
	for _, row := range rows {
		values = append(values, toAny(row))
	}
	return values
}

func toAny(row []string) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}

// quoteTitle quotes a sheet title for A1 notation.
func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// classifyAPIError maps API failures onto the retry policy: rate limits
// wait, other client errors fail immediately.
func classifyAPIError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case apiErr.Code >= 400 && apiErr.Code < 500:
		return &common.RetryableError{Err: err, Retryable: false}
	default:
		return err
	}
}
