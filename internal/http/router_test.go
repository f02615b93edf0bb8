package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/Camekazi/ReadingCompanion/internal/explain"
	"github.com/Camekazi/ReadingCompanion/internal/explain/mocks"
	"github.com/Camekazi/ReadingCompanion/internal/library"
	"github.com/Camekazi/ReadingCompanion/internal/storage"
)

func newTestRouter(t *testing.T, explainer explain.Explainer) http.Handler {
	t.Helper()

	db, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := storage.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	books := storage.NewBookRepo(db)
	chapters := storage.NewChapterRepo(db)
	fragments := storage.NewFragmentRepo(db)

	return NewRouter(&Deps{
		DB:        db,
		Books:     books,
		Chapters:  chapters,
		Fragments: fragments,
		Pipeline:  library.NewPipeline(books, chapters, nil),
		Explainer: explainer,
	})
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("GET /api/health status = %v, want %v", w.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("health status = %q, want %q", body["status"], "ok")
	}
}

func TestRouter_CreateAndListBooks(t *testing.T) {
	router := newTestRouter(t, nil)

	payload, _ := json.Marshal(map[string]interface{}{
		"title":       "Middlemarch",
		"author":      "George Eliot",
		"total_pages": 880,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/books", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("POST /api/books status = %v, want %v: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/books", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/books status = %v, want %v", w.Code, http.StatusOK)
	}
	var books []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &books); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("expected 1 book, got %d", len(books))
	}
	if books[0]["title"] != "Middlemarch" {
		t.Errorf("title = %v, want Middlemarch", books[0]["title"])
	}
}

func TestRouter_ExplainRoute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	explainer := mocks.NewMockExplainer(ctrl)
	explainer.EXPECT().
		Explain(gomock.Any(), gomock.Any()).
		Return(explain.Response{Explanation: "It refers to the letter.", ChapterIndex: 2, ContextChars: 512}, nil)

	router := newTestRouter(t, explainer)

	payload, _ := json.Marshal(map[string]string{"passage": "the letter"})
	req := httptest.NewRequest(http.MethodPost, "/api/books/abc/explain", bytes.NewReader(payload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("POST explain status = %v, want %v: %s", w.Code, http.StatusOK, w.Body.String())
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["explanation"] != "It refers to the letter." {
		t.Errorf("explanation = %v", resp["explanation"])
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("GET /api/unknown status = %v, want %v", w.Code, http.StatusNotFound)
	}
}
