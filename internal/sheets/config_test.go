package sheets

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/merchant-ops/internal/common"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		errMsg  string
		config  Config
	}{
		{
			name: "partial oauth credentials",
			config: Config{
				ClientID:      "test-client",
				RefreshToken:  "test-token",
				BatchSize:     100,
				RetryAttempts: 3,
				RetryDelay:    time.Second,
			},
			wantErr: common.ErrMissingConfig,
			errMsg:  "no Google Sheets authentication method configured",
		},
		{
			name: "both auth methods",
			config: Config{
				ClientID:           "id",
				ClientSecret:       "secret",
				RefreshToken:       "token",
				ServiceAccountPath: "/path/to/key.json",
				BatchSize:          100,
			},
			wantErr: common.ErrInvalidConfig,
			errMsg:  "multiple authentication methods",
		},
		{
			name: "zero retry delay is valid",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
				BatchSize:          100,
			},
		},
		{
			name: "zero batch size",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
			},
			wantErr: common.ErrInvalidConfig,
			errMsg:  "batch size must be positive",
		},
		{
			name: "negative retry delay",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
				BatchSize:          100,
				RetryAttempts:      3,
				RetryDelay:         -1 * time.Second,
			},
			wantErr: common.ErrInvalidConfig,
			errMsg:  "retry delay cannot be negative",
		},
		{
			name: "negative retry attempts",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
				BatchSize:          100,
				RetryAttempts:      -1,
			},
			wantErr: common.ErrInvalidConfig,
			errMsg:  "retry attempts cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultSpreadsheetName, cfg.SpreadsheetName)
	assert.Equal(t, 500, cfg.BatchSize)
	assert.True(t, cfg.EnableFormatting)
	assert.ErrorIs(t, cfg.Validate(), common.ErrMissingConfig)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "/keys/sa.json")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "sheet-123")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_NAME", "Ops Weekly")

	t.Run("fills empty fields", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.LoadFromEnv()

		assert.Equal(t, "/keys/sa.json", cfg.ServiceAccountPath)
		assert.Equal(t, "sheet-123", cfg.SpreadsheetID)
		assert.Equal(t, "Ops Weekly", cfg.SpreadsheetName)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.SpreadsheetID = "explicit"
		cfg.SpreadsheetName = "Explicit Name"
		cfg.LoadFromEnv()

		assert.Equal(t, "explicit", cfg.SpreadsheetID)
		assert.Equal(t, "Explicit Name", cfg.SpreadsheetName)
	})
}
