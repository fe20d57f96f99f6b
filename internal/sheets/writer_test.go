package sheets

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/merchant-ops/internal/model"
	"github.com/Veraticus/merchant-ops/internal/service"
)

func testSummary() service.ReportSummary {
	return service.ReportSummary{
		GeneratedAt:       time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC),
		TotalVolume:       250000,
		AvgSuccessRate:    94.5,
		ActiveMerchants:   1,
		TotalTransactions: 2500,
		MerchantCount:     2,
		ByStatus:          map[model.MerchantStatus]int{model.StatusActive: 1, model.StatusBlocked: 1},
		ByRisk:            map[model.RiskLevel]int{model.RiskLow: 1, model.RiskHigh: 1},
	}
}

func testMerchants() []model.Merchant {
	return []model.Merchant{
		{
			ID: "1", Name: "TechCorp Solutions", Country: "US",
			Status: model.StatusActive, RiskLevel: model.RiskLow,
			MonthlyVolume: 125000, ChargebackRatio: 0.8,
			Volume: 125000, SuccessRate: 98.5, Transactions: 1250,
			LastActivity: "2024-01-15",
		},
		{
			ID: "2", Name: "QuickBuy Store", Country: "UK",
			Status: model.StatusBlocked, RiskLevel: model.RiskHigh,
			MonthlyVolume: 125000, ChargebackRatio: 4.5,
			Volume: 125000, SuccessRate: 90.5, Transactions: 1250,
			LastActivity: "2024-01-10",
		},
	}
}

func TestBuildRows(t *testing.T) {
	rows := BuildRows(testMerchants(), testSummary())

	require.Len(t, rows, SummaryRows+2)
	assert.Equal(t, "Merchant Operations Report", rows[0][0])
	assert.Equal(t, "Jun 15, 2024 10:30 UTC", rows[0][1])
	assert.Equal(t, []any{"Total Volume", 250000.0}, rows[3])
	assert.Equal(t, []any{"Merchant Count", 2}, rows[7])

	assert.Equal(t, []any{"active", 1}, rows[10])
	assert.Equal(t, []any{"paused", 0}, rows[11])
	assert.Equal(t, []any{"blocked", 1}, rows[12])
	assert.Equal(t, []any{"high", 1}, rows[17])

	assert.Equal(t, DetailHeader, rows[SummaryRows-1])

	first := rows[SummaryRows]
	assert.Equal(t, "1", first[0])
	assert.Equal(t, "TechCorp Solutions", first[1])
	assert.Equal(t, "active", first[3])
	assert.InDelta(t, 0.008, first[6], 1e-9)
	assert.InDelta(t, 0.985, first[8], 1e-9)
	assert.Equal(t, "2024-01-15", first[10])

	assert.Equal(t, "2", rows[SummaryRows+1][0], "merchant order is preserved")
}

func TestBuildRows_NoMerchants(t *testing.T) {
	rows := BuildRows(nil, service.ReportSummary{})

	require.Len(t, rows, SummaryRows)
	assert.Equal(t, DetailHeader, rows[len(rows)-1])
}

func TestSheetIDByTitle(t *testing.T) {
	tabs := []*sheets.Sheet{
		{Properties: &sheets.SheetProperties{Title: "Summary", SheetId: 0}},
		{Properties: &sheets.SheetProperties{Title: SheetTitle, SheetId: 42}},
		{},
	}

	assert.Equal(t, int64(42), sheetIDByTitle(tabs, SheetTitle))
	assert.Equal(t, int64(-1), sheetIDByTitle(tabs, "Missing"))
}

func TestMockWriter(t *testing.T) {
	ctx := context.Background()
	mock := NewMockWriter()
	merchants := testMerchants()

	require.NoError(t, mock.Write(ctx, merchants, testSummary()))
	merchants[0].Name = "mutated"

	calls := mock.GetWriteCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "TechCorp Solutions", calls[0].Merchants[0].Name)
	assert.Equal(t, 2, calls[0].Summary.MerchantCount)

	boom := errors.New("quota exceeded")
	mock.SetWriteError(boom)
	assert.ErrorIs(t, mock.Write(ctx, nil, service.ReportSummary{}), boom)
	assert.Len(t, mock.GetWriteCalls(), 2)

	mock.Reset()
	assert.Empty(t, mock.GetWriteCalls())
}

func TestCallbackHandler(t *testing.T) {
	tests := []struct {
		wantErr  error
		name     string
		query    string
		wantCode string
		status   int
	}{
		{name: "valid code", query: "?state=abc&code=xyz", wantCode: "xyz", status: http.StatusOK},
		{name: "wrong state", query: "?state=nope&code=xyz", wantErr: ErrStateMismatch, status: http.StatusBadRequest},
		{name: "missing code", query: "?state=abc", status: http.StatusBadRequest},
		{name: "denied", query: "?state=abc&error=access_denied", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := make(chan callbackResult, 1)
			handler := callbackHandler("abc", results)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback"+tt.query, nil))

			assert.Equal(t, tt.status, rec.Code)
			res := <-results
			if tt.wantCode != "" {
				require.NoError(t, res.err)
				assert.Equal(t, tt.wantCode, res.code)
				return
			}
			require.Error(t, res.err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, res.err, tt.wantErr)
			}
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	token := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}

	require.NoError(t, SaveToken(path, token))

	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "refresh", loaded.RefreshToken)

	_, err = LoadToken(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestGetOrCreateToken_UsesStoredToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, SaveToken(path, &oauth2.Token{RefreshToken: "stored"}))

	token, err := GetOrCreateToken(context.Background(), OAuth2Config{TokenFile: path})
	require.NoError(t, err)
	assert.Equal(t, "stored", token.RefreshToken)
}
