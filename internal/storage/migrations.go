package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the schema version a snapshot database must reach.
const ExpectedSchemaVersion = 2

// Migration represents a snapshot schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Merchant tables",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS merchants (
					id TEXT PRIMARY KEY,
					position INTEGER NOT NULL,
					name TEXT NOT NULL,
					country TEXT NOT NULL,
					status TEXT NOT NULL CHECK (status IN ('active', 'paused', 'blocked')),
					risk_level TEXT NOT NULL CHECK (risk_level IN ('low', 'medium', 'high')),
					monthly_volume REAL NOT NULL DEFAULT 0,
					chargeback_ratio REAL NOT NULL DEFAULT 0,
					volume REAL NOT NULL DEFAULT 0,
					success_rate REAL NOT NULL DEFAULT 0,
					transactions INTEGER NOT NULL DEFAULT 0,
					last_activity TEXT
				)`,
				`CREATE INDEX IF NOT EXISTS idx_merchants_status ON merchants(status)`,
				`CREATE INDEX IF NOT EXISTS idx_merchants_risk ON merchants(risk_level)`,
				`CREATE TABLE IF NOT EXISTS merchant_monthly_data (
					merchant_id TEXT NOT NULL,
					month_index INTEGER NOT NULL,
					month TEXT NOT NULL,
					volume REAL NOT NULL,
					success_rate REAL NOT NULL,
					transactions INTEGER NOT NULL,
					PRIMARY KEY (merchant_id, month_index),
					FOREIGN KEY (merchant_id) REFERENCES merchants(id) ON DELETE CASCADE
				)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Export run summaries",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS export_runs (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					generated_at DATETIME NOT NULL,
					merchant_count INTEGER NOT NULL,
					total_volume REAL NOT NULL,
					avg_success_rate REAL NOT NULL,
					active_merchants INTEGER NOT NULL,
					total_transactions INTEGER NOT NULL
				)`,
			)
		},
	},
}

func execAll(tx *sql.Tx, queries ...string) error {
	for _, q := range queries {
		if _, err := tx.Exec(q); err != nil {
			return fmt.Errorf("failed to execute %q: %w", firstLine(q), err)
		}
	}
	return nil
}

func firstLine(q string) string {
	for i, r := range q {
		if r == '\n' {
			return q[:i]
		}
	}
	return q
}

// Migrate brings the snapshot schema up to ExpectedSchemaVersion.
func (s *SQLiteSnapshot) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	currentVersion, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		// PRAGMA does not accept bound parameters.
		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Debug("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("snapshot schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

func (s *SQLiteSnapshot) schemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
