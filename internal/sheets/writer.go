package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Veraticus/merchant-ops/internal/common"
	"github.com/Veraticus/merchant-ops/internal/model"
	"github.com/Veraticus/merchant-ops/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// DetailHeader is the column header row of the merchant detail section.
var DetailHeader = []any{
	"ID",
	"Name",
	"Country",
	"Status",
	"Risk Level",
	"Monthly Volume",
	"Chargeback Ratio",
	"Volume",
	"Success Rate",
	"Transactions",
	"Last Activity",
}

// Writer implements service.ReportWriter for Google Sheets.
type Writer struct {
	service  *sheets.Service
	logger   *slog.Logger
	progress func(done, total int)
	config   Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
	}, nil
}

// OnProgress registers fn to be called after every written batch with the
// number of rows written so far.
func (w *Writer) OnProgress(fn func(done, total int)) {
	w.progress = fn
}

// Write implements the ReportWriter interface.
func (w *Writer) Write(ctx context.Context, merchants []model.Merchant, summary service.ReportSummary) error {
	w.logger.Info("starting sheets export",
		"merchants", len(merchants),
		"generated_at", summary.GeneratedAt.Format(time.RFC3339))

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	var spreadsheetID string
	var sheetID int64
	err := common.WithRetry(ctx, func(ctx context.Context) error {
		var getErr error
		spreadsheetID, sheetID, getErr = w.getOrCreateSpreadsheet(ctx)
		return getErr
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	if clearErr := common.WithRetry(ctx, func(ctx context.Context) error {
		return w.clearSheet(ctx, spreadsheetID)
	}, retryOpts); clearErr != nil {
		return fmt.Errorf("failed to clear sheet: %w", clearErr)
	}

	values := BuildRows(merchants, summary)

	for start := 0; start < len(values); start += w.config.BatchSize {
		end := min(start+w.config.BatchSize, len(values))
		batch := values[start:end]
		err = common.WithRetry(ctx, func(ctx context.Context) error {
			return w.writeBatch(ctx, spreadsheetID, start, batch)
		}, retryOpts)
		if err != nil {
			return fmt.Errorf("failed to write data: %w", err)
		}
		if w.progress != nil {
			w.progress(end, len(values))
		}
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func(ctx context.Context) error {
			return w.applyFormatting(ctx, spreadsheetID, sheetID, len(values), len(merchants))
		}, retryOpts)
		if err != nil {
			// Formatting is cosmetic; the data is already written.
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("sheets export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))

	return nil
}

func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthConfig := OAuthConfig(config.ClientID, config.ClientSecret, "")
		tokenSource = oauthConfig.TokenSource(ctx, &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		})
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return srv, nil
}

// getOrCreateSpreadsheet returns the spreadsheet id and the id of the
// merchant tab, creating whichever is missing.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, int64, error) {
	if w.config.SpreadsheetID == "" {
		spreadsheet := &sheets.Spreadsheet{
			Properties: &sheets.SpreadsheetProperties{
				Title:    w.config.SpreadsheetName,
				TimeZone: w.config.TimeZone,
			},
			Sheets: []*sheets.Sheet{
				{Properties: &sheets.SheetProperties{Title: SheetTitle}},
			},
		}

		created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
		if err != nil {
			return "", 0, fmt.Errorf("unable to create spreadsheet: %w", err)
		}
		w.logger.Info("created new spreadsheet",
			"id", created.SpreadsheetId,
			"url", created.SpreadsheetUrl)

		// Later writes in this process reuse the same document.
		w.config.SpreadsheetID = created.SpreadsheetId
		return created.SpreadsheetId, sheetIDByTitle(created.Sheets, SheetTitle), nil
	}

	existing, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		return "", 0, fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
	}
	if id := sheetIDByTitle(existing.Sheets, SheetTitle); id >= 0 {
		return existing.SpreadsheetId, id, nil
	}

	resp, err := w.service.Spreadsheets.BatchUpdate(existing.SpreadsheetId, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: SheetTitle},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return "", 0, fmt.Errorf("unable to add %s tab: %w", SheetTitle, err)
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil {
		return "", 0, fmt.Errorf("unable to add %s tab: empty reply", SheetTitle)
	}
	return existing.SpreadsheetId, resp.Replies[0].AddSheet.Properties.SheetId, nil
}

func sheetIDByTitle(tabs []*sheets.Sheet, title string) int64 {
	for _, tab := range tabs {
		if tab.Properties != nil && tab.Properties.Title == title {
			return tab.Properties.SheetId
		}
	}
	return -1
}

func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, SheetTitle+"!A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (w *Writer) writeBatch(ctx context.Context, spreadsheetID string, start int, batch [][]any) error {
	rangeStr := fmt.Sprintf("%s!A%d", SheetTitle, start+1)
	_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, rangeStr, &sheets.ValueRange{Values: batch}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write batch starting at row %d: %w", start+1, err)
	}

	w.logger.Debug("wrote batch", "start_row", start+1, "rows", len(batch))
	return nil
}

// BuildRows lays out the report: a title row, the summary block, the status
// and risk breakdowns, then one row per merchant in the given order.
func BuildRows(merchants []model.Merchant, summary service.ReportSummary) [][]any {
	values := make([][]any, 0, SummaryRows+len(merchants))

	values = append(values,
		[]any{"Merchant Operations Report", summary.GeneratedAt.Format("Jan 2, 2006 15:04 MST")},
		[]any{},
		[]any{"Summary"},
		[]any{"Total Volume", summary.TotalVolume},
		[]any{"Average Success Rate", summary.AvgSuccessRate},
		[]any{"Active Merchants", summary.ActiveMerchants},
		[]any{"Total Transactions", summary.TotalTransactions},
		[]any{"Merchant Count", summary.MerchantCount},
		[]any{},
		[]any{"Status Breakdown"},
	)
	for _, status := range model.AllStatuses {
		values = append(values, []any{string(status), summary.ByStatus[status]})
	}

	values = append(values, []any{}, []any{"Risk Breakdown"})
	for _, risk := range model.AllRiskLevels {
		values = append(values, []any{string(risk), summary.ByRisk[risk]})
	}

	values = append(values, []any{}, []any{"Merchant Details"}, DetailHeader)

	for _, m := range merchants {
		values = append(values, []any{
			m.ID,
			m.Name,
			m.Country,
			string(m.Status),
			string(m.RiskLevel),
			m.MonthlyVolume,
			m.ChargebackRatio / 100,
			m.Volume,
			m.SuccessRate / 100,
			m.Transactions,
			m.LastActivity,
		})
	}

	return values
}

// SummaryRows is the number of rows BuildRows writes before the first merchant.
var SummaryRows = 10 + len(model.AllStatuses) + 2 + len(model.AllRiskLevels) + 3

func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, sheetID int64, totalRows, merchantRows int) error {
	firstDetail := int64(SummaryRows)
	lastRow := int64(totalRows)

	repeat := func(startRow, endRow, startCol, endCol int64, format *sheets.CellFormat, fields string) *sheets.Request {
		return &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    startRow,
					EndRowIndex:      endRow,
					StartColumnIndex: startCol,
					EndColumnIndex:   endCol,
				},
				Cell:   &sheets.CellData{UserEnteredFormat: format},
				Fields: fields,
			},
		}
	}

	currency := &sheets.CellFormat{NumberFormat: &sheets.NumberFormat{Type: "CURRENCY", Pattern: "$#,##0"}}
	percent := &sheets.CellFormat{NumberFormat: &sheets.NumberFormat{Type: "PERCENT", Pattern: "0.00%"}}

	requests := []*sheets.Request{
		repeat(0, 1, 0, 2, &sheets.CellFormat{TextFormat: &sheets.TextFormat{Bold: true, FontSize: 16}}, "userEnteredFormat.textFormat"),
		repeat(2, firstDetail, 0, 1, &sheets.CellFormat{TextFormat: &sheets.TextFormat{Bold: true}}, "userEnteredFormat.textFormat"),
		repeat(3, 4, 1, 2, currency, "userEnteredFormat.numberFormat"),
		repeat(firstDetail-1, firstDetail, 0, int64(len(DetailHeader)), &sheets.CellFormat{TextFormat: &sheets.TextFormat{Bold: true}}, "userEnteredFormat.textFormat"),
	}

	if merchantRows > 0 {
		requests = append(requests,
			repeat(firstDetail, lastRow, 5, 6, currency, "userEnteredFormat.numberFormat"),
			repeat(firstDetail, lastRow, 6, 7, percent, "userEnteredFormat.numberFormat"),
			repeat(firstDetail, lastRow, 7, 8, currency, "userEnteredFormat.numberFormat"),
			repeat(firstDetail, lastRow, 8, 9, percent, "userEnteredFormat.numberFormat"),
		)
	}

	requests = append(requests,
		&sheets.Request{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   int64(len(DetailHeader)),
				},
			},
		},
		&sheets.Request{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId:        sheetID,
					GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	)

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}
