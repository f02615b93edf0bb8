// Package library owns the content-acquisition pipeline: get raw text for a
// book (archive download or manual import), segment it, and replace the
// book's stored chapters wholesale. The stored chapters serve as the
// Document cache; segmentation is deterministic, so the cache only needs
// invalidating here, when the source text changes.
package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/Camekazi/ReadingCompanion/internal/archive"
	"github.com/Camekazi/ReadingCompanion/internal/contextutil"
	"github.com/Camekazi/ReadingCompanion/internal/segmenter"
	"github.com/Camekazi/ReadingCompanion/internal/storage"
)

// TextFetcher fetches book text from a public archive.
type TextFetcher interface {
	FetchBook(ctx context.Context, archiveID string) (*archive.Book, error)
}

// Pipeline wires the archive client, the segmenter, and chapter storage.
type Pipeline struct {
	books    storage.BookStore
	chapters storage.ChapterStore
	fetcher  TextFetcher
}

// NewPipeline creates a content-acquisition pipeline.
func NewPipeline(books storage.BookStore, chapters storage.ChapterStore, fetcher TextFetcher) *Pipeline {
	return &Pipeline{
		books:    books,
		chapters: chapters,
		fetcher:  fetcher,
	}
}

// Download fetches a book's text from the archive, segments it, and
// replaces the stored chapters. Archive metadata fills in title/author the
// caller left blank. Returns the number of chapters stored.
func (p *Pipeline) Download(ctx context.Context, bookID string) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	book, err := p.books.GetByID(ctx, bookID)
	if err != nil {
		return 0, fmt.Errorf("failed to load book: %w", err)
	}
	if book.ArchiveID == "" {
		return 0, fmt.Errorf("book %s has no archive id", bookID)
	}

	fetched, err := p.fetcher.FetchBook(ctx, book.ArchiveID)
	if err != nil {
		// Includes archive.ErrNoTextFormat; surfaced as-is and never
		// retried here. The caller decides what to offer the user.
		return 0, err
	}
	logger.InfoContext(ctx, "book text fetched",
		"book_id", bookID,
		"archive_id", book.ArchiveID,
		"text_length", len(fetched.Text),
	)

	if fetched.Title != "" && (book.Title == "" || book.Author == "") {
		title := book.Title
		if title == "" {
			title = fetched.Title
		}
		author := book.Author
		if author == "" {
			author = fetched.Author
		}
		if err := p.books.UpdateMetadata(ctx, bookID, title, author); err != nil {
			return 0, fmt.Errorf("failed to update book metadata: %w", err)
		}
	}

	return p.storeText(ctx, bookID, fetched.Text)
}

// Import segments manually supplied text and replaces the stored chapters.
// Markdown input is flattened to plain text first.
func (p *Pipeline) Import(ctx context.Context, bookID, text, format string) (int, error) {
	if _, err := p.books.GetByID(ctx, bookID); err != nil {
		return 0, fmt.Errorf("failed to load book: %w", err)
	}

	if strings.EqualFold(format, "markdown") {
		text = archive.FlattenMarkdown([]byte(text))
	}
	return p.storeText(ctx, bookID, text)
}

func (p *Pipeline) storeText(ctx context.Context, bookID, text string) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	doc := segmenter.Segment(text, bookID)

	records := make([]storage.ChapterRecord, len(doc.Chapters))
	for i, ch := range doc.Chapters {
		records[i] = storage.ChapterRecord{
			ID:         ch.ID,
			BookID:     bookID,
			OrderIndex: ch.OrderIndex,
			Title:      ch.Title,
			Content:    ch.Content,
			WordCount:  ch.WordCount,
		}
	}

	if err := p.chapters.ReplaceForBook(ctx, bookID, records); err != nil {
		return 0, fmt.Errorf("failed to store chapters: %w", err)
	}

	logger.InfoContext(ctx, "book segmented",
		"book_id", bookID,
		"chapters", len(records),
		"total_words", doc.TotalWords,
	)
	return len(records), nil
}

// DocumentFromRecords rebuilds an in-memory Document from persisted
// chapters, preserving the stored order.
func DocumentFromRecords(records []storage.ChapterRecord, title, author string) segmenter.Document {
	chapters := make([]segmenter.Chapter, len(records))
	for i, rec := range records {
		chapters[i] = segmenter.Chapter{
			ID:         rec.ID,
			Title:      rec.Title,
			Content:    rec.Content,
			OrderIndex: rec.OrderIndex,
			WordCount:  rec.WordCount,
		}
	}
	doc := segmenter.NewDocument(chapters)
	doc.Title = title
	doc.Author = author
	return doc
}
