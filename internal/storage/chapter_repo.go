package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chapter_store.go -package=mocks github.com/Camekazi/ReadingCompanion/internal/storage ChapterStore

import (
	"context"
	"database/sql"
	"fmt"
)

// ChapterStore defines the interface for chapter storage operations.
type ChapterStore interface {
	// ReplaceForBook atomically replaces all chapters of a book. Chapters
	// are an immutable bulk product of segmentation, so there are no
	// incremental edits, only wholesale replacement when the source text
	// changes.
	ReplaceForBook(ctx context.Context, bookID string, chapters []ChapterRecord) error
	// ListByBook returns a book's chapters ordered by order_index.
	ListByBook(ctx context.Context, bookID string) ([]ChapterRecord, error)
}

// ChapterRepo provides methods for chapter operations.
// It implements the ChapterStore interface.
type ChapterRepo struct {
	db *sql.DB
}

// NewChapterRepo creates a new ChapterRepo.
func NewChapterRepo(db *sql.DB) *ChapterRepo {
	return &ChapterRepo{db: db}
}

// ReplaceForBook atomically replaces all chapters of a book.
func (r *ChapterRepo) ReplaceForBook(ctx context.Context, bookID string, chapters []ChapterRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chapters WHERE book_id = ?", bookID); err != nil {
		return fmt.Errorf("failed to delete old chapters: %w", err)
	}

	for _, ch := range chapters {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chapters (id, book_id, order_index, title, content, word_count)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			ch.ID, bookID, ch.OrderIndex, ch.Title, ch.Content, ch.WordCount,
		); err != nil {
			return fmt.Errorf("failed to insert chapter %d: %w", ch.OrderIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chapter replacement: %w", err)
	}
	return nil
}

// ListByBook returns a book's chapters ordered by order_index.
// Returns an empty slice if the book has no downloaded text (not an error).
func (r *ChapterRepo) ListByBook(ctx context.Context, bookID string) ([]ChapterRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, book_id, order_index, title, content, word_count
		 FROM chapters WHERE book_id = ? ORDER BY order_index`,
		bookID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chapters: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var chapters []ChapterRecord
	for rows.Next() {
		var ch ChapterRecord
		if err := rows.Scan(&ch.ID, &ch.BookID, &ch.OrderIndex, &ch.Title, &ch.Content, &ch.WordCount); err != nil {
			return nil, fmt.Errorf("failed to scan chapter: %w", err)
		}
		chapters = append(chapters, ch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return chapters, nil
}
