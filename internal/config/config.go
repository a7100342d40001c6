// Package config loads thirteenf settings from defaults, the config file
// and THIRTEENF_* environment variables.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/thirteenf/internal/classify"
	"github.com/Veraticus/thirteenf/internal/model"
	"github.com/Veraticus/thirteenf/internal/output"
)

// Config is the complete thirteenf configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Sheets  SheetsConfig  `yaml:"sheets" mapstructure:"sheets"`
	Layout  LayoutConfig  `yaml:"layout" mapstructure:"layout"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // console or json
}

// LayoutConfig describes the page grid and the column spans of a data line.
// Spans are written "start:end"; an empty end runs to end of line.
type LayoutConfig struct {
	LinePattern string   `yaml:"line_pattern" mapstructure:"line_pattern"`
	Flag        string   `yaml:"flag" mapstructure:"flag"`
	Name        string   `yaml:"name" mapstructure:"name"`
	Description string   `yaml:"description" mapstructure:"description"`
	Status      string   `yaml:"status" mapstructure:"status"`
	Identity    []string `yaml:"identity" mapstructure:"identity"`
	CharWidth   float64  `yaml:"char_width" mapstructure:"char_width"`
	XTolerance  float64  `yaml:"x_tolerance" mapstructure:"x_tolerance"`
}

// OutputConfig controls where artifacts are written.
type OutputConfig struct {
	Dir       string `yaml:"dir" mapstructure:"dir"` // empty means next to the input
	SheetName string `yaml:"sheet_name" mapstructure:"sheet_name"`
}

// StorageConfig configures the optional record store.
type StorageConfig struct {
	Database string `yaml:"database" mapstructure:"database"` // empty disables storage on convert
	User     string `yaml:"user" mapstructure:"user"`
}

// SheetsConfig configures the Google Sheets mirror.
type SheetsConfig struct {
	ServiceAccountPath string `yaml:"service_account_path" mapstructure:"service_account_path"`
	ClientID           string `yaml:"client_id" mapstructure:"client_id"`
	ClientSecret       string `yaml:"client_secret" mapstructure:"client_secret"`
	RefreshToken       string `yaml:"refresh_token" mapstructure:"refresh_token"`
	TokenFile          string `yaml:"token_file" mapstructure:"token_file"`
	SpreadsheetID      string `yaml:"spreadsheet_id" mapstructure:"spreadsheet_id"`
	SpreadsheetName    string `yaml:"spreadsheet_name" mapstructure:"spreadsheet_name"`
	BatchSize          int    `yaml:"batch_size" mapstructure:"batch_size"`
}

// Default returns a configuration with the SEC list layout.
func Default() *Config {
	layout := model.DefaultLayout()

	identity := make([]string, len(layout.Identity))
	for i, span := range layout.Identity {
		identity[i] = FormatSpan(span)
	}

	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Layout: LayoutConfig{
			CharWidth:   layout.CharWidth,
			XTolerance:  layout.XTolerance,
			LinePattern: classify.DefaultPattern,
			Identity:    identity,
			Flag:        FormatSpan(layout.Flag),
			Name:        FormatSpan(layout.Name),
			Description: FormatSpan(layout.Description),
			Status:      FormatSpan(layout.Status),
		},
		Output: OutputConfig{
			SheetName: output.DefaultSheetName,
		},
		Storage: StorageConfig{
			Database: "",
			User:     "system",
		},
		Sheets: SheetsConfig{
			SpreadsheetName: "SEC 13F List",
			BatchSize:       1000,
		},
	}
}

// ToLayout builds the layout shared by the reconstructor and the parser.
func (c LayoutConfig) ToLayout() (model.Layout, error) {
	var layout model.Layout

	if len(c.Identity) != len(layout.Identity) {
		return layout, fmt.Errorf("%w: identity needs %d spans, got %d",
			model.ErrInvalidLayout, len(layout.Identity), len(c.Identity))
	}

	for i, s := range c.Identity {
		span, err := ParseSpan(s)
		if err != nil {
			return layout, fmt.Errorf("identity span %d: %w", i+1, err)
		}
		layout.Identity[i] = span
	}

	fields := []struct {
		dst  *model.Span
		name string
		raw  string
	}{
		{&layout.Flag, "flag", c.Flag},
		{&layout.Name, "name", c.Name},
		{&layout.Description, "description", c.Description},
		{&layout.Status, "status", c.Status},
	}
	for _, f := range fields {
		span, err := ParseSpan(f.raw)
		if err != nil {
			return layout, fmt.Errorf("%s span: %w", f.name, err)
		}
		*f.dst = span
	}

	layout.CharWidth = c.CharWidth
	layout.XTolerance = c.XTolerance

	if err := layout.Validate(); err != nil {
		return layout, err
	}
	return layout, nil
}

// ParseSpan parses "start:end" or "start:" into a span.
func ParseSpan(s string) (model.Span, error) {
	startStr, endStr, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return model.Span{}, fmt.Errorf("%w: span %q is not start:end", model.ErrInvalidLayout, s)
	}

	start, err := strconv.Atoi(strings.TrimSpace(startStr))
	if err != nil {
		return model.Span{}, fmt.Errorf("%w: span %q has bad start", model.ErrInvalidLayout, s)
	}

	end := -1
	if endStr = strings.TrimSpace(endStr); endStr != "" {
		end, err = strconv.Atoi(endStr)
		if err != nil {
			return model.Span{}, fmt.Errorf("%w: span %q has bad end", model.ErrInvalidLayout, s)
		}
	}

	return model.Span{Start: start, End: end}, nil
}

// FormatSpan is the inverse of ParseSpan.
func FormatSpan(span model.Span) string {
	if span.ToEOL() {
		return fmt.Sprintf("%d:", span.Start)
	}
	return fmt.Sprintf("%d:%d", span.Start, span.End)
}
