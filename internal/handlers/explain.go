package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Camekazi/ReadingCompanion/internal/contextutil"
	"github.com/Camekazi/ReadingCompanion/internal/explain"
)

// ExplainHandler handles passage-explanation requests.
type ExplainHandler struct {
	explainer explain.Explainer
}

// NewExplainHandler creates a new ExplainHandler.
func NewExplainHandler(explainer explain.Explainer) *ExplainHandler {
	return &ExplainHandler{explainer: explainer}
}

// ExplainRequest is the HTTP payload for an explanation request.
type ExplainRequest struct {
	Passage string `json:"passage"`
}

// ExplainResponse is the HTTP response for an explanation request.
type ExplainResponse struct {
	Explanation  string `json:"explanation"`
	ChapterIndex int    `json:"chapter_index"`
	ContextChars int    `json:"context_chars"`
}

// Explain handles POST /api/books/{bookID}/explain.
func (h *ExplainHandler) Explain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	bookID := chi.URLParam(r, "bookID")

	var req ExplainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.explainer.Explain(ctx, explain.Request{
		BookID:  bookID,
		Passage: req.Passage,
	})
	if err != nil {
		switch {
		case errors.Is(err, explain.ErrEmptyPassage):
			writeError(w, r, http.StatusBadRequest, "Passage is required")
		case errors.Is(err, explain.ErrBookNotFound):
			writeError(w, r, http.StatusNotFound, "Book not found")
		case errors.Is(err, explain.ErrExternalService):
			writeError(w, r, http.StatusBadGateway, "Explanation service unavailable")
		default:
			logger.ErrorContext(ctx, "explain failed", "book_id", bookID, "error", err)
			writeError(w, r, http.StatusInternalServerError, "Failed to explain passage")
		}
		return
	}

	writeJSON(w, r, http.StatusOK, ExplainResponse{
		Explanation:  resp.Explanation,
		ChapterIndex: resp.ChapterIndex,
		ContextChars: resp.ContextChars,
	})
}
