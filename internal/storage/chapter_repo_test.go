package storage

import (
	"context"
	"database/sql"
	"testing"
)

func openChapterTestDB(t *testing.T) (*sql.DB, *BookRecord) {
	t.Helper()
	db, err := New(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	book := &BookRecord{Title: "Test Book"}
	if err := NewBookRepo(db).Create(context.Background(), book); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return db, book
}

func sampleChapters(bookID string, n int) []ChapterRecord {
	chapters := make([]ChapterRecord, n)
	for i := range chapters {
		chapters[i] = ChapterRecord{
			ID:         bookID + "/ch/" + string(rune('0'+i)),
			BookID:     bookID,
			OrderIndex: i,
			Title:      "CHAPTER",
			Content:    "some content",
			WordCount:  2,
		}
	}
	return chapters
}

func TestChapterRepo_ReplaceForBookAndList(t *testing.T) {
	db, book := openChapterTestDB(t)
	repo := NewChapterRepo(db)
	ctx := context.Background()

	if err := repo.ReplaceForBook(ctx, book.ID, sampleChapters(book.ID, 3)); err != nil {
		t.Fatalf("ReplaceForBook() error = %v", err)
	}

	chapters, err := repo.ListByBook(ctx, book.ID)
	if err != nil {
		t.Fatalf("ListByBook() error = %v", err)
	}
	if len(chapters) != 3 {
		t.Fatalf("ListByBook() = %d chapters, want 3", len(chapters))
	}
	for i, ch := range chapters {
		if ch.OrderIndex != i {
			t.Errorf("chapter[%d].OrderIndex = %d, want %d", i, ch.OrderIndex, i)
		}
	}
}

func TestChapterRepo_ReplaceForBookIsWholesale(t *testing.T) {
	db, book := openChapterTestDB(t)
	repo := NewChapterRepo(db)
	ctx := context.Background()

	if err := repo.ReplaceForBook(ctx, book.ID, sampleChapters(book.ID, 5)); err != nil {
		t.Fatalf("ReplaceForBook() error = %v", err)
	}
	// Re-segmenting after a source change replaces the whole set.
	if err := repo.ReplaceForBook(ctx, book.ID, sampleChapters(book.ID, 2)); err != nil {
		t.Fatalf("ReplaceForBook() second call error = %v", err)
	}

	chapters, err := repo.ListByBook(ctx, book.ID)
	if err != nil {
		t.Fatalf("ListByBook() error = %v", err)
	}
	if len(chapters) != 2 {
		t.Errorf("ListByBook() = %d chapters, want 2 after replacement", len(chapters))
	}
}

func TestChapterRepo_ListByBook_Empty(t *testing.T) {
	db, book := openChapterTestDB(t)
	repo := NewChapterRepo(db)

	chapters, err := repo.ListByBook(context.Background(), book.ID)
	if err != nil {
		t.Fatalf("ListByBook() error = %v", err)
	}
	if len(chapters) != 0 {
		t.Errorf("ListByBook() = %d chapters, want 0", len(chapters))
	}
}
