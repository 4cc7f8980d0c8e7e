package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/PrakshaliShah/cta-silent-tracker/internal/evidence"
)

// HealthHandler reports service liveness and report-index connectivity.
type HealthHandler struct {
	index evidence.Index // nil when the report index is disabled
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(index evidence.Index) *HealthHandler {
	return &HealthHandler{index: index}
}

// Health handles GET /health with a report-index connectivity check.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	indexStatus := "disabled"
	status := http.StatusOK

	if h.index != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if _, err := h.index.Recent(ctx, 1); err != nil {
			indexStatus = "error"
			status = http.StatusServiceUnavailable
		} else {
			indexStatus = "connected"
		}
	}

	body := map[string]interface{}{
		"status":    "ok",
		"index":     indexStatus,
		"timestamp": time.Now().UTC(),
	}
	if status != http.StatusOK {
		body["status"] = "error"
	}
	writeJSON(w, status, body)
}

// Healthz handles GET /healthz, a bare liveness probe.
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
