package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial orders schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS orders (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					order_id TEXT NOT NULL UNIQUE,
					order_date DATE NOT NULL,
					customer_id TEXT NOT NULL,
					customer_name TEXT NOT NULL DEFAULT '',
					region TEXT NOT NULL,
					product TEXT NOT NULL,
					category TEXT NOT NULL,
					quantity INTEGER NOT NULL,
					unit_price REAL NOT NULL,
					cost_price REAL NOT NULL,
					discount REAL NOT NULL DEFAULT 0,
					sales_amount REAL NOT NULL,
					profit REAL NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_orders_date ON orders(order_date)`,
				`CREATE INDEX idx_orders_region ON orders(region)`,
				`CREATE INDEX idx_orders_product ON orders(product)`,
				`CREATE INDEX idx_orders_customer ON orders(customer_id)`,
				`CREATE INDEX idx_orders_category ON orders(category)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add demographic columns",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`ALTER TABLE orders ADD COLUMN payment_method TEXT NOT NULL DEFAULT 'Unknown'`,
				`ALTER TABLE orders ADD COLUMN age INTEGER NOT NULL DEFAULT 0`,
				`ALTER TABLE orders ADD COLUMN gender TEXT NOT NULL DEFAULT 'Unknown'`,
				`ALTER TABLE orders ADD COLUMN annual_income REAL NOT NULL DEFAULT 0`,
				`CREATE INDEX idx_orders_payment ON orders(payment_method)`,
				`CREATE INDEX idx_orders_age ON orders(age)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
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

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
