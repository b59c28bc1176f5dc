package migrations

import (
	"context"
	"database/sql"
	"testing"

	"ai-news-intel/internal/core"

	_ "modernc.org/sqlite"
)

func newTestDatabase(t *testing.T) *core.Database {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	return core.NewDatabase(db, core.NewLogger())
}

func TestNewsMigrations(t *testing.T) {
	coreDB := newTestDatabase(t)
	manager := NewManager(coreDB, core.NewLogger())

	ctx := context.Background()
	if err := manager.Migrate(ctx); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	var count int
	err := coreDB.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query migrations table: %v", err)
	}

	expectedMigrations := len(manager.Migrations())
	if count != expectedMigrations {
		t.Errorf("Expected %d migrations, got %d", expectedMigrations, count)
	}

	tables := []string{"news_articles", "deals", "ai_categories", "article_categories", "run_reports"}
	for _, table := range tables {
		var tableCount int
		err = coreDB.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&tableCount)
		if err != nil {
			t.Fatalf("Failed to check table %s: %v", table, err)
		}
		if tableCount != 1 {
			t.Errorf("Table %s was not created", table)
		}
	}

	// Migrations must be idempotent
	if err := manager.Migrate(ctx); err != nil {
		t.Fatalf("Failed to re-apply migrations: %v", err)
	}

	err = coreDB.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query migrations table: %v", err)
	}
	if count != expectedMigrations {
		t.Errorf("Expected %d migrations after re-apply, got %d", expectedMigrations, count)
	}
}

func TestMigrationRollback(t *testing.T) {
	coreDB := newTestDatabase(t)
	manager := NewManager(coreDB, core.NewLogger())

	ctx := context.Background()
	if err := manager.Migrate(ctx); err != nil {
		t.Fatalf("Failed to apply migrations: %v", err)
	}

	if err := manager.Rollback(ctx); err != nil {
		t.Fatalf("Failed to rollback migrations: %v", err)
	}

	tables := []string{"news_articles", "deals", "ai_categories", "article_categories", "run_reports"}
	for _, table := range tables {
		var tableCount int
		err := coreDB.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&tableCount)
		if err != nil {
			t.Fatalf("Failed to check table %s: %v", table, err)
		}
		if tableCount != 0 {
			t.Errorf("Table %s was not removed during rollback", table)
		}
	}
}
