package config

import (
	"errors"
	"fmt"

	"github.com/Veraticus/thirteenf/internal/classify"
	"github.com/Veraticus/thirteenf/internal/common"
)

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

var validFormats = map[string]bool{"console": true, "json": true}

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, fmt.Errorf("%w: logging.level %q", common.ErrInvalidConfig, cfg.Logging.Level))
	}
	if !validFormats[cfg.Logging.Format] {
		errs = append(errs, fmt.Errorf("%w: logging.format %q", common.ErrInvalidConfig, cfg.Logging.Format))
	}

	if _, err := cfg.Layout.ToLayout(); err != nil {
		errs = append(errs, err)
	}
	if _, err := classify.NewPatternClassifier(cfg.Layout.LinePattern); err != nil {
		errs = append(errs, fmt.Errorf("%w: layout.line_pattern: %w", common.ErrInvalidConfig, err))
	}

	if cfg.Output.SheetName == "" {
		errs = append(errs, fmt.Errorf("%w: output.sheet_name is required", common.ErrInvalidConfig))
	}

	if cfg.Sheets.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: sheets.batch_size must be positive", common.ErrInvalidConfig))
	}

	return errors.Join(errs...)
}
