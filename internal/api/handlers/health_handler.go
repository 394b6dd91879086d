package handlers

import (
	"net/http"

	"github.com/tbouchet/plume/internal/core"
	"github.com/tbouchet/plume/internal/services"
)

type HealthHandler struct {
	store core.Store
	ai    *services.AIService
}

func NewHealthHandler(store core.Store, ai *services.AIService) *HealthHandler {
	return &HealthHandler{store: store, ai: ai}
}

// Healthz reports liveness of the service and its database.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "down"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "up"})
}

// HealthAI reports reachability of the model server without issuing a
// generation.
func (h *HealthHandler) HealthAI(w http.ResponseWriter, r *http.Request) {
	if err := h.ai.Heartbeat(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "ai": "down"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "ai": "up"})
}
