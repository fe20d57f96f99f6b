package config

import (
	"github.com/spf13/viper"

	"github.com/Veraticus/merchant-ops/internal/sheets"
)

// LoadSheetsConfig loads Google Sheets configuration. Values from viper (the
// config file or MERCHOPS_SHEETS_* variables) win over GOOGLE_SHEETS_*
// variables, which win over defaults.
func LoadSheetsConfig() (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()

	cfg.ServiceAccountPath = viper.GetString("sheets.service_account_path")
	cfg.ClientID = viper.GetString("sheets.client_id")
	cfg.ClientSecret = viper.GetString("sheets.client_secret")
	cfg.RefreshToken = viper.GetString("sheets.refresh_token")
	cfg.SpreadsheetID = viper.GetString("sheets.spreadsheet_id")
	if v := viper.GetString("sheets.spreadsheet_name"); v != "" {
		cfg.SpreadsheetName = v
	}
	if viper.IsSet("sheets.batch_size") {
		cfg.BatchSize = viper.GetInt("sheets.batch_size")
	}
	if viper.IsSet("sheets.retry_attempts") {
		cfg.RetryAttempts = viper.GetInt("sheets.retry_attempts")
	}
	if viper.IsSet("sheets.enable_formatting") {
		cfg.EnableFormatting = viper.GetBool("sheets.enable_formatting")
	}

	cfg.LoadFromEnv()
	cfg.ServiceAccountPath = ExpandPath(cfg.ServiceAccountPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SheetsTokenFile is where the interactive OAuth flow stores its token.
func SheetsTokenFile() string {
	if v := viper.GetString("sheets.token_file"); v != "" {
		return ExpandPath(v)
	}
	return ExpandPath("~/.config/merchops/sheets-token.json")
}
