package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Camekazi/ReadingCompanion/internal/archive"
	"github.com/Camekazi/ReadingCompanion/internal/contextutil"
	"github.com/Camekazi/ReadingCompanion/internal/library"
	"github.com/Camekazi/ReadingCompanion/internal/storage"
)

// IngestHandler handles content acquisition: archive downloads and manual
// text imports.
type IngestHandler struct {
	pipeline *library.Pipeline
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(pipeline *library.Pipeline) *IngestHandler {
	return &IngestHandler{pipeline: pipeline}
}

// IngestResponse reports how many chapters segmentation produced.
type IngestResponse struct {
	Chapters int `json:"chapters"`
}

// Download handles POST /api/books/{bookID}/download.
func (h *IngestHandler) Download(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	bookID := chi.URLParam(r, "bookID")

	count, err := h.pipeline.Download(ctx, bookID)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			writeError(w, r, http.StatusNotFound, "Book not found")
		case errors.Is(err, archive.ErrNoTextFormat):
			// Distinct failure kind: the archive has the book but no text
			// version. Not retried; the client may offer manual entry.
			writeError(w, r, http.StatusUnprocessableEntity, "No downloadable text version exists for this book")
		default:
			logger.ErrorContext(ctx, "download failed", "book_id", bookID, "error", err)
			writeError(w, r, http.StatusBadGateway, "Failed to download book text")
		}
		return
	}

	writeJSON(w, r, http.StatusOK, IngestResponse{Chapters: count})
}

// ImportTextRequest is the payload for a manual text import.
type ImportTextRequest struct {
	Text   string `json:"text"`
	Format string `json:"format,omitempty"` // "plain" (default) or "markdown"
}

// ImportText handles POST /api/books/{bookID}/text.
func (h *IngestHandler) ImportText(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bookID := chi.URLParam(r, "bookID")

	var req ImportTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	format := strings.ToLower(strings.TrimSpace(req.Format))
	switch format {
	case "", "plain", "markdown":
	default:
		writeError(w, r, http.StatusBadRequest, "Format must be plain or markdown")
		return
	}

	count, err := h.pipeline.Import(ctx, bookID, req.Text, format)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Book not found")
			return
		}
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "import failed", "book_id", bookID, "error", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to import text")
		return
	}

	writeJSON(w, r, http.StatusOK, IngestResponse{Chapters: count})
}
