// Package testdb provides a migrated in-memory database for tests.
package testdb

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/justsurfingit/job-portal/internal/database"
	"gorm.io/gorm"
)

// New returns a fresh, migrated SQLite database private to t.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.Open(sqlite.Open(":memory:"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("test database handle: %v", err)
	}
	// every connection to :memory: is its own database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
