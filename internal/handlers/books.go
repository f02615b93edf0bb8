package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Camekazi/ReadingCompanion/internal/contextutil"
	"github.com/Camekazi/ReadingCompanion/internal/storage"
)

// BooksHandler handles book CRUD and reading-progress updates.
type BooksHandler struct {
	books    storage.BookStore
	chapters storage.ChapterStore
}

// NewBooksHandler creates a new BooksHandler.
func NewBooksHandler(books storage.BookStore, chapters storage.ChapterStore) *BooksHandler {
	return &BooksHandler{books: books, chapters: chapters}
}

// CreateBookRequest is the payload for creating a book.
type CreateBookRequest struct {
	Title      string `json:"title"`
	Author     string `json:"author,omitempty"`
	ArchiveID  string `json:"archive_id,omitempty"`
	TotalPages int    `json:"total_pages,omitempty"`
}

// BookResponse is the JSON form of a book.
type BookResponse struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Author         string `json:"author,omitempty"`
	ArchiveID      string `json:"archive_id,omitempty"`
	CurrentPage    int    `json:"current_page"`
	TotalPages     int    `json:"total_pages"`
	CurrentChapter int    `json:"current_chapter"`
}

func bookResponse(book *storage.BookRecord) BookResponse {
	return BookResponse{
		ID:             book.ID,
		Title:          book.Title,
		Author:         book.Author,
		ArchiveID:      book.ArchiveID,
		CurrentPage:    book.CurrentPage,
		TotalPages:     book.TotalPages,
		CurrentChapter: book.CurrentChapter,
	}
}

// Create handles POST /api/books.
func (h *BooksHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" && req.ArchiveID == "" {
		writeError(w, r, http.StatusBadRequest, "Title or archive_id is required")
		return
	}

	book := &storage.BookRecord{
		Title:      req.Title,
		Author:     req.Author,
		ArchiveID:  req.ArchiveID,
		TotalPages: req.TotalPages,
	}
	if err := h.books.Create(ctx, book); err != nil {
		logger.ErrorContext(ctx, "failed to create book", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to create book")
		return
	}

	logger.InfoContext(ctx, "book created", "book_id", book.ID, "title", book.Title)
	writeJSON(w, r, http.StatusCreated, bookResponse(book))
}

// List handles GET /api/books.
func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	books, err := h.books.ListAll(ctx)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list books", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to list books")
		return
	}

	resp := make([]BookResponse, len(books))
	for i := range books {
		resp[i] = bookResponse(&books[i])
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// UpdateProgressRequest is the payload for a reading-position update.
// CurrentChapter is a pointer so "not sent" (keep deriving the chapter from
// the page) is distinguishable from an explicit chapter ordinal.
type UpdateProgressRequest struct {
	CurrentPage    int  `json:"current_page"`
	TotalPages     int  `json:"total_pages"`
	CurrentChapter *int `json:"current_chapter,omitempty"`
}

// UpdateProgress handles PUT /api/books/{bookID}/progress.
func (h *BooksHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bookID := chi.URLParam(r, "bookID")

	var req UpdateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CurrentPage < 0 || req.TotalPages < 0 {
		writeError(w, r, http.StatusBadRequest, "Pages must be non-negative")
		return
	}

	currentChapter := -1
	if req.CurrentChapter != nil {
		currentChapter = *req.CurrentChapter
	}

	if err := h.books.UpdateProgress(ctx, bookID, req.CurrentPage, req.TotalPages, currentChapter); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Book not found")
			return
		}
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to update progress", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to update progress")
		return
	}

	book, err := h.books.GetByID(ctx, bookID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to load book")
		return
	}
	writeJSON(w, r, http.StatusOK, bookResponse(book))
}

// ChapterResponse is the JSON form of a stored chapter, without content.
type ChapterResponse struct {
	ID         string `json:"id"`
	OrderIndex int    `json:"order_index"`
	Title      string `json:"title"`
	WordCount  int    `json:"word_count"`
}

// ListChapters handles GET /api/books/{bookID}/chapters.
func (h *BooksHandler) ListChapters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bookID := chi.URLParam(r, "bookID")

	if _, err := h.books.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Book not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "Failed to load book")
		return
	}

	chapters, err := h.chapters.ListByBook(ctx, bookID)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list chapters", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to list chapters")
		return
	}

	resp := make([]ChapterResponse, len(chapters))
	for i, ch := range chapters {
		resp[i] = ChapterResponse{
			ID:         ch.ID,
			OrderIndex: ch.OrderIndex,
			Title:      ch.Title,
			WordCount:  ch.WordCount,
		}
	}
	writeJSON(w, r, http.StatusOK, resp)
}
