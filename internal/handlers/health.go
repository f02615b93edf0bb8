package handlers

import (
	"database/sql"
	"net/http"
)

// HealthHandler reports service liveness.
type HealthHandler struct {
	db *sql.DB
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthResponse is the health check body.
type HealthResponse struct {
	Status string `json:"status"`
}

// Check handles GET /api/health.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			writeJSON(w, r, http.StatusServiceUnavailable, HealthResponse{Status: "degraded"})
			return
		}
	}
	writeJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}
