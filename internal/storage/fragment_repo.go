package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_fragment_store.go -package=mocks github.com/Camekazi/ReadingCompanion/internal/storage FragmentStore

import (
	"context"
	"database/sql"
	"fmt"
)

// FragmentStore defines the interface for scanned-passage storage.
type FragmentStore interface {
	// Insert stores a captured passage. Generates an ID if the record has
	// none. A missing page number must already be represented as 0.
	Insert(ctx context.Context, fragment *FragmentRecord) error
	// ListByBook returns a book's fragments ordered by page.
	ListByBook(ctx context.Context, bookID string) ([]FragmentRecord, error)
}

// FragmentRepo provides methods for fragment operations.
// It implements the FragmentStore interface.
type FragmentRepo struct {
	db *sql.DB
}

// NewFragmentRepo creates a new FragmentRepo.
func NewFragmentRepo(db *sql.DB) *FragmentRepo {
	return &FragmentRepo{db: db}
}

// Insert stores a captured passage.
func (r *FragmentRepo) Insert(ctx context.Context, fragment *FragmentRecord) error {
	if fragment.ID == "" {
		fragment.ID = newID()
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO fragments (id, book_id, page, text) VALUES (?, ?, ?, ?)",
		fragment.ID, fragment.BookID, fragment.Page, fragment.Text,
	)
	if err != nil {
		return fmt.Errorf("failed to insert fragment: %w", err)
	}
	return nil
}

// ListByBook returns a book's fragments ordered by page.
// Returns an empty slice if none exist (not an error).
func (r *FragmentRepo) ListByBook(ctx context.Context, bookID string) ([]FragmentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, book_id, page, text, created_at FROM fragments WHERE book_id = ? ORDER BY page, created_at",
		bookID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query fragments: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var fragments []FragmentRecord
	for rows.Next() {
		var f FragmentRecord
		var createdAtStr string
		if err := rows.Scan(&f.ID, &f.BookID, &f.Page, &f.Text, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan fragment: %w", err)
		}
		if f.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
			return nil, err
		}
		fragments = append(fragments, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return fragments, nil
}
