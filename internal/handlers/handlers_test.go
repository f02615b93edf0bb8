package handlers

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Camekazi/ReadingCompanion/internal/storage"
)

// newTestDB opens a throwaway sqlite database with migrations applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := storage.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// createTestBook inserts a book and returns its ID.
func createTestBook(t *testing.T, books storage.BookStore, book *storage.BookRecord) string {
	t.Helper()
	if err := books.Create(context.Background(), book); err != nil {
		t.Fatalf("failed to create book: %v", err)
	}
	return book.ID
}
