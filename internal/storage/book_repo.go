package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_book_store.go -package=mocks github.com/Camekazi/ReadingCompanion/internal/storage BookStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// BookStore defines the interface for book storage operations.
type BookStore interface {
	// Create inserts a new book. Generates an ID if the record has none.
	Create(ctx context.Context, book *BookRecord) error
	// GetByID gets a book by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*BookRecord, error)
	// UpdateProgress updates the reading position of a book.
	UpdateProgress(ctx context.Context, id string, currentPage, totalPages, currentChapter int) error
	// UpdateMetadata updates title and author, typically after an archive
	// download supplies them.
	UpdateMetadata(ctx context.Context, id, title, author string) error
	// ListAll returns all books ordered by creation time.
	ListAll(ctx context.Context) ([]BookRecord, error)
}

// BookRepo provides methods for book operations.
// It implements the BookStore interface.
type BookRepo struct {
	db *sql.DB
}

// NewBookRepo creates a new BookRepo.
func NewBookRepo(db *sql.DB) *BookRepo {
	return &BookRepo{db: db}
}

// Create inserts a new book.
func (r *BookRepo) Create(ctx context.Context, book *BookRecord) error {
	if book.ID == "" {
		book.ID = newID()
	}
	if book.CurrentChapter == 0 {
		// Zero value means the caller never set a chapter; store the
		// explicit "derive from page" sentinel.
		book.CurrentChapter = -1
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO books (id, title, author, archive_id, current_page, total_pages, current_chapter)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		book.ID, book.Title, book.Author, book.ArchiveID, book.CurrentPage, book.TotalPages, book.CurrentChapter,
	)
	if err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}
	return nil
}

// GetByID gets a book by its ID. Returns ErrNotFound if not found.
func (r *BookRepo) GetByID(ctx context.Context, id string) (*BookRecord, error) {
	var book BookRecord
	var createdAtStr, updatedAtStr string

	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, author, archive_id, current_page, total_pages, current_chapter, created_at, updated_at
		 FROM books WHERE id = ?`,
		id,
	).Scan(&book.ID, &book.Title, &book.Author, &book.ArchiveID, &book.CurrentPage,
		&book.TotalPages, &book.CurrentChapter, &createdAtStr, &updatedAtStr)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query book: %w", err)
	}

	if book.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
		return nil, err
	}
	if book.UpdatedAt, err = parseTimestamp(updatedAtStr); err != nil {
		return nil, err
	}
	return &book, nil
}

// UpdateProgress updates the reading position of a book. A currentChapter
// of -1 clears any reader-set chapter so the position mapper derives it
// from the page again.
func (r *BookRepo) UpdateProgress(ctx context.Context, id string, currentPage, totalPages, currentChapter int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE books SET current_page = ?, total_pages = ?, current_chapter = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		currentPage, totalPages, currentChapter, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update book progress: %w", err)
	}
	return requireRow(res)
}

// UpdateMetadata updates title and author.
func (r *BookRepo) UpdateMetadata(ctx context.Context, id, title, author string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE books SET title = ?, author = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		title, author, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update book metadata: %w", err)
	}
	return requireRow(res)
}

// ListAll returns all books ordered by creation time.
func (r *BookRepo) ListAll(ctx context.Context) ([]BookRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, author, archive_id, current_page, total_pages, current_chapter, created_at, updated_at
		 FROM books ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var books []BookRecord
	for rows.Next() {
		var book BookRecord
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&book.ID, &book.Title, &book.Author, &book.ArchiveID, &book.CurrentPage,
			&book.TotalPages, &book.CurrentChapter, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		if book.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
			return nil, err
		}
		if book.UpdatedAt, err = parseTimestamp(updatedAtStr); err != nil {
			return nil, err
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return books, nil
}

// requireRow turns a zero-row update into ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// parseTimestamp parses SQLite DATETIME strings, which come back in either
// the default space-separated format or RFC3339.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}
