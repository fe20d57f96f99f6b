package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/merchant-ops/internal/model"
	"github.com/Veraticus/merchant-ops/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteSnapshot writes a point-in-time copy of the merchant collection to a
// SQLite file. The application never reads the snapshot back; it exists for
// offline analysis.
type SQLiteSnapshot struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteSnapshot opens (creating if needed) the snapshot database at dbPath.
func NewSQLiteSnapshot(dbPath string) (*SQLiteSnapshot, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping snapshot database: %w", err)
	}

	return &SQLiteSnapshot{db: db, dbPath: dbPath}, nil
}

// Path returns the snapshot file location.
func (s *SQLiteSnapshot) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteSnapshot) Close() error {
	return s.db.Close()
}

// WriteMerchants replaces the snapshot contents with merchants and records an
// export run. progress, if non-nil, is called after each merchant is written.
func (s *SQLiteSnapshot) WriteMerchants(ctx context.Context, merchants []model.Merchant, summary service.ReportSummary, progress func(done, total int)) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM merchant_monthly_data`); err != nil {
		return fmt.Errorf("failed to clear monthly data: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM merchants`); err != nil {
		return fmt.Errorf("failed to clear merchants: %w", err)
	}

	merchantStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO merchants (
			id, position, name, country, status, risk_level, monthly_volume,
			chargeback_ratio, volume, success_rate, transactions, last_activity
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare merchant insert: %w", err)
	}
	defer func() { _ = merchantStmt.Close() }()

	monthStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO merchant_monthly_data (
			merchant_id, month_index, month, volume, success_rate, transactions
		) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare monthly data insert: %w", err)
	}
	defer func() { _ = monthStmt.Close() }()

	for i, m := range merchants {
		if err := validateMerchant(&m); err != nil {
			return fmt.Errorf("merchant at index %d: %w", i, err)
		}
		if _, err := merchantStmt.ExecContext(ctx,
			m.ID, i, m.Name, m.Country, string(m.Status), string(m.RiskLevel), m.MonthlyVolume,
			m.ChargebackRatio, m.Volume, m.SuccessRate, m.Transactions, m.LastActivity,
		); err != nil {
			return fmt.Errorf("failed to insert merchant %s: %w", m.ID, err)
		}
		for j, d := range m.MonthlyData {
			if _, err := monthStmt.ExecContext(ctx,
				m.ID, j, d.Month, d.Volume, d.SuccessRate, d.Transactions,
			); err != nil {
				return fmt.Errorf("failed to insert monthly data for %s: %w", m.ID, err)
			}
		}
		if progress != nil {
			progress(i+1, len(merchants))
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO export_runs (
			generated_at, merchant_count, total_volume, avg_success_rate,
			active_merchants, total_transactions
		) VALUES (?, ?, ?, ?, ?, ?)`,
		summary.GeneratedAt.UTC(), len(merchants), summary.TotalVolume, summary.AvgSuccessRate,
		summary.ActiveMerchants, summary.TotalTransactions,
	); err != nil {
		return fmt.Errorf("failed to record export run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	slog.Info("Wrote merchant snapshot", "path", s.dbPath, "merchants", len(merchants))
	return nil
}
