package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. THIRTEENF_LAYOUT_CHAR_WIDTH.
const EnvPrefix = "THIRTEENF"

// Load builds the configuration from v with the following priority
// (highest to lowest):
// 1. Values bound on v (flags)
// 2. Environment variables (THIRTEENF_*)
// 3. Whatever config file v has already read
// 4. Default values
func Load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Output.Dir = ExpandPath(cfg.Output.Dir)
	cfg.Storage.Database = ExpandPath(cfg.Storage.Database)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values. Every key needs a
// default so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)

	v.SetDefault("layout.char_width", defaults.Layout.CharWidth)
	v.SetDefault("layout.x_tolerance", defaults.Layout.XTolerance)
	v.SetDefault("layout.line_pattern", defaults.Layout.LinePattern)
	v.SetDefault("layout.identity", defaults.Layout.Identity)
	v.SetDefault("layout.flag", defaults.Layout.Flag)
	v.SetDefault("layout.name", defaults.Layout.Name)
	v.SetDefault("layout.description", defaults.Layout.Description)
	v.SetDefault("layout.status", defaults.Layout.Status)

	v.SetDefault("output.dir", defaults.Output.Dir)
	v.SetDefault("output.sheet_name", defaults.Output.SheetName)

	v.SetDefault("storage.database", defaults.Storage.Database)
	v.SetDefault("storage.user", defaults.Storage.User)

	v.SetDefault("sheets.service_account_path", defaults.Sheets.ServiceAccountPath)
	v.SetDefault("sheets.client_id", defaults.Sheets.ClientID)
	v.SetDefault("sheets.client_secret", defaults.Sheets.ClientSecret)
	v.SetDefault("sheets.refresh_token", defaults.Sheets.RefreshToken)
	v.SetDefault("sheets.token_file", defaults.Sheets.TokenFile)
	v.SetDefault("sheets.spreadsheet_id", defaults.Sheets.SpreadsheetID)
	v.SetDefault("sheets.spreadsheet_name", defaults.Sheets.SpreadsheetName)
	v.SetDefault("sheets.batch_size", defaults.Sheets.BatchSize)
}
