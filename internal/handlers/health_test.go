package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthHandler_Check(t *testing.T) {
	db := newTestDB(t)
	handler := NewHealthHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	handler.Check(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Check() status = %v, want %v", w.Code, http.StatusOK)
	}

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("Status = %q, want %q", resp.Status, "ok")
	}
}

func TestHealthHandler_ClosedDB(t *testing.T) {
	db := newTestDB(t)
	_ = db.Close()
	handler := NewHealthHandler(db)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	handler.Check(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Check() status = %v, want %v", w.Code, http.StatusServiceUnavailable)
	}
}
