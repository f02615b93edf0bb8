package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Camekazi/ReadingCompanion/internal/contextutil"
	"github.com/Camekazi/ReadingCompanion/internal/storage"
)

// FragmentsHandler handles manually captured passages.
type FragmentsHandler struct {
	books     storage.BookStore
	fragments storage.FragmentStore
}

// NewFragmentsHandler creates a new FragmentsHandler.
func NewFragmentsHandler(books storage.BookStore, fragments storage.FragmentStore) *FragmentsHandler {
	return &FragmentsHandler{books: books, fragments: fragments}
}

// CreateFragmentRequest is the payload for recording a scanned passage.
// Page may be omitted; an unplaced passage is stored as page 0 and treated
// as earliest-available by the context assembler.
type CreateFragmentRequest struct {
	Page *int   `json:"page,omitempty"`
	Text string `json:"text"`
}

// FragmentResponse is the JSON form of a stored fragment.
type FragmentResponse struct {
	ID   string `json:"id"`
	Page int    `json:"page"`
	Text string `json:"text"`
}

// Create handles POST /api/books/{bookID}/fragments.
func (h *FragmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bookID := chi.URLParam(r, "bookID")

	var req CreateFragmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, r, http.StatusBadRequest, "Text is required")
		return
	}

	page := 0
	if req.Page != nil {
		page = *req.Page
	}
	if page < 0 {
		writeError(w, r, http.StatusBadRequest, "Page must be non-negative")
		return
	}

	if _, err := h.books.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Book not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "Failed to load book")
		return
	}

	fragment := &storage.FragmentRecord{
		BookID: bookID,
		Page:   page,
		Text:   req.Text,
	}
	if err := h.fragments.Insert(ctx, fragment); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to insert fragment", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to store fragment")
		return
	}

	writeJSON(w, r, http.StatusCreated, FragmentResponse{
		ID:   fragment.ID,
		Page: fragment.Page,
		Text: fragment.Text,
	})
}

// List handles GET /api/books/{bookID}/fragments.
func (h *FragmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bookID := chi.URLParam(r, "bookID")

	fragments, err := h.fragments.ListByBook(ctx, bookID)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to list fragments", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to list fragments")
		return
	}

	resp := make([]FragmentResponse, len(fragments))
	for i, f := range fragments {
		resp[i] = FragmentResponse{ID: f.ID, Page: f.Page, Text: f.Text}
	}
	writeJSON(w, r, http.StatusOK, resp)
}
