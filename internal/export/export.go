// Package export writes the merchant report to files, stdout, a SQLite
// snapshot or Google Sheets.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/merchant-ops/internal/common"
	"github.com/Veraticus/merchant-ops/internal/dashboard"
	"github.com/Veraticus/merchant-ops/internal/model"
	"github.com/Veraticus/merchant-ops/internal/service"
	"github.com/Veraticus/merchant-ops/internal/storage"
)

// Format names an export destination.
type Format string

// Supported export formats.
const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatSQLite Format = "sqlite"
	FormatSheets Format = "sheets"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatJSON, FormatSQLite, FormatSheets}

// ParseFormat converts a flag value into a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want csv, json, sqlite or sheets)", common.ErrUnsupportedFormat, s)
}

// Progress is called as rows are written. total is fixed for one export.
type Progress func(done, total int)

// CSVHeader is the first row of a CSV export.
var CSVHeader = []string{
	"id", "name", "country", "status", "risk_level", "monthly_volume",
	"chargeback_ratio", "volume", "success_rate", "transactions", "last_activity",
}

// Exporter dispatches a merchant report to the writer for a format.
type Exporter struct {
	Stdout io.Writer
	// Sheets is required for FormatSheets.
	Sheets service.ReportWriter
	Now    func() time.Time
	Logger *slog.Logger
}

// Request describes one export.
type Request struct {
	Format Format
	// Output is a file path; empty or "-" means Stdout for csv and json.
	Output   string
	Progress Progress
}

// Export writes merchants in the requested format together with the
// dashboard summary computed over the same merchants.
func (e *Exporter) Export(ctx context.Context, merchants []model.Merchant, req Request) error {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}
	progress := req.Progress
	if progress == nil {
		progress = func(int, int) {}
	}

	summary := dashboard.Report(merchants, now())
	logger.Info("exporting merchants",
		"format", string(req.Format),
		"output", req.Output,
		"merchants", len(merchants))

	switch req.Format {
	case FormatCSV, FormatJSON:
		return e.writeStream(merchants, summary, req, progress)
	case FormatSQLite:
		if req.Output == "" || req.Output == "-" {
			return common.NewUserError("sqlite export needs --output",
				fmt.Errorf("%w: sqlite output path", common.ErrMissingConfig))
		}
		return writeSQLite(ctx, req.Output, merchants, summary, progress)
	case FormatSheets:
		if e.Sheets == nil {
			return fmt.Errorf("%w: no sheets writer configured", common.ErrMissingConfig)
		}
		if err := e.Sheets.Write(ctx, merchants, summary); err != nil {
			return fmt.Errorf("sheets export: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, req.Format)
	}
}

func (e *Exporter) writeStream(merchants []model.Merchant, summary service.ReportSummary, req Request, progress Progress) (err error) {
	out := e.Stdout
	if out == nil {
		out = os.Stdout
	}
	if req.Output != "" && req.Output != "-" {
		f, createErr := os.Create(req.Output) // #nosec G304
		if createErr != nil {
			return fmt.Errorf("failed to create %s: %w", req.Output, createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("failed to close %s: %w", req.Output, closeErr)
			}
		}()
		out = f
	}

	if req.Format == FormatCSV {
		return WriteCSV(out, merchants, progress)
	}
	return WriteJSON(out, merchants, summary, progress)
}

// WriteCSV writes a header row and one row per merchant.
func WriteCSV(w io.Writer, merchants []model.Merchant, progress Progress) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i, m := range merchants {
		if err := cw.Write(csvRecord(m)); err != nil {
			return fmt.Errorf("failed to write merchant %s: %w", m.ID, err)
		}
		if progress != nil {
			progress(i+1, len(merchants))
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRecord(m model.Merchant) []string {
	return []string{
		m.ID,
		m.Name,
		m.Country,
		string(m.Status),
		string(m.RiskLevel),
		strconv.FormatFloat(m.MonthlyVolume, 'f', -1, 64),
		strconv.FormatFloat(m.ChargebackRatio, 'f', -1, 64),
		strconv.FormatFloat(m.Volume, 'f', -1, 64),
		strconv.FormatFloat(m.SuccessRate, 'f', -1, 64),
		strconv.Itoa(m.Transactions),
		m.LastActivity,
	}
}

// Document is the JSON export layout.
type Document struct {
	GeneratedAt time.Time        `json:"generatedAt"`
	Summary     Summary          `json:"summary"`
	Merchants   []model.Merchant `json:"merchants"`
}

// Summary is the JSON form of service.ReportSummary.
type Summary struct {
	ByStatus          map[model.MerchantStatus]int `json:"byStatus"`
	ByRisk            map[model.RiskLevel]int      `json:"byRisk"`
	TotalVolume       float64                      `json:"totalVolume"`
	AvgSuccessRate    float64                      `json:"avgSuccessRate"`
	ActiveMerchants   int                          `json:"activeMerchants"`
	TotalTransactions int                          `json:"totalTransactions"`
	MerchantCount     int                          `json:"merchantCount"`
}

// WriteJSON writes merchants and summary as one indented Document.
func WriteJSON(w io.Writer, merchants []model.Merchant, summary service.ReportSummary, progress Progress) error {
	if merchants == nil {
		merchants = []model.Merchant{}
	}
	doc := Document{
		GeneratedAt: summary.GeneratedAt.UTC(),
		Summary: Summary{
			ByStatus:          summary.ByStatus,
			ByRisk:            summary.ByRisk,
			TotalVolume:       summary.TotalVolume,
			AvgSuccessRate:    summary.AvgSuccessRate,
			ActiveMerchants:   summary.ActiveMerchants,
			TotalTransactions: summary.TotalTransactions,
			MerchantCount:     summary.MerchantCount,
		},
		Merchants: merchants,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	if progress != nil {
		progress(len(merchants), len(merchants))
	}
	return nil
}

func writeSQLite(ctx context.Context, path string, merchants []model.Merchant, summary service.ReportSummary, progress Progress) error {
	snapshot, err := storage.NewSQLiteSnapshot(path)
	if err != nil {
		return err
	}
	defer func() { _ = snapshot.Close() }()

	if err := snapshot.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate snapshot: %w", err)
	}
	return snapshot.WriteMerchants(ctx, merchants, summary, progress)
}
