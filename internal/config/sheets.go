package config

import (
	"os"

	"github.com/Veraticus/thirteenf/internal/sheets"
)

// LoadSheetsConfig builds the Sheets publisher configuration. It follows
// this precedence:
// 1. The sheets section (from config file or THIRTEENF_SHEETS_* env vars)
// 2. Direct environment variables (GOOGLE_SHEETS_*)
// 3. Default values
func LoadSheetsConfig(section SheetsConfig, sheetTitle string) (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	if sheetTitle != "" {
		config.SheetTitle = sheetTitle
	}
	if section.BatchSize > 0 {
		config.BatchSize = section.BatchSize
	}

	config.ServiceAccountPath = ExpandPath(firstNonEmpty(section.ServiceAccountPath, os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")))
	config.ClientID = firstNonEmpty(section.ClientID, os.Getenv("GOOGLE_SHEETS_CLIENT_ID"))
	config.ClientSecret = firstNonEmpty(section.ClientSecret, os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET"))
	config.RefreshToken = firstNonEmpty(section.RefreshToken, os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN"))
	config.TokenFile = ExpandPath(firstNonEmpty(section.TokenFile, os.Getenv("GOOGLE_SHEETS_TOKEN_FILE")))
	config.SpreadsheetID = firstNonEmpty(section.SpreadsheetID, os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"))
	config.SpreadsheetName = firstNonEmpty(section.SpreadsheetName, os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME"), config.SpreadsheetName)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
