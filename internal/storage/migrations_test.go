package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestMigrate_FreshDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := NewSQLiteStorage(filepath.Join(tmpDir, "fresh.db"))
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}

	var version int
	if err := store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("Failed to read schema version: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("schema version = %d, want %d", version, ExpectedSchemaVersion)
	}

	// The demographic columns from the second migration must be queryable.
	var count int
	err = store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM orders WHERE payment_method IS NOT NULL AND age IS NOT NULL").Scan(&count)
	if err != nil {
		t.Fatalf("Demographic columns missing after migrate: %v", err)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	// A second run against a current schema is a no-op.
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() second run error: %v", err)
	}

	seedAggregateOrders(t, store)
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() with data error: %v", err)
	}

	count, err := store.CountOrders(ctx)
	if err != nil {
		t.Fatalf("CountOrders() error: %v", err)
	}
	if count != 4 {
		t.Errorf("CountOrders() after re-migrate = %d, want 4", count)
	}
}
