package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	middleware "github.com/tbouchet/plume/internal/api/middlewares"
	"github.com/tbouchet/plume/internal/services"
)

// TraceHandler serves the read-only audit log of model invocations.
// Traces are written by the analyze endpoints only; there is no way to
// create, modify or delete one through the API.
type TraceHandler struct {
	ai *services.AIService
}

func NewTraceHandler(ai *services.AIService) *TraceHandler {
	return &TraceHandler{ai: ai}
}

func (h *TraceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	traces, err := h.ai.Traces(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, traces)
}

func (h *TraceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	trace, err := h.ai.Trace(r.Context(), userID, chi.URLParam(r, "traceID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trace)
}

func (h *TraceHandler) ListByPage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	traces, err := h.ai.TracesByPage(r.Context(), userID, chi.URLParam(r, "pageID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, traces)
}
