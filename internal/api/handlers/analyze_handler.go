package handlers

import (
	"net/http"

	middleware "github.com/tbouchet/plume/internal/api/middlewares"
	"github.com/tbouchet/plume/internal/services"
)

type AnalyzeHandler struct {
	ai *services.AIService
}

func NewAnalyzeHandler(ai *services.AIService) *AnalyzeHandler {
	return &AnalyzeHandler{ai: ai}
}

type analyzeRequest struct {
	Content string  `json:"content"`
	PageID  *string `json:"page_id"`
	TaskID  *string `json:"task_id"`
}

func (h *AnalyzeHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req analyzeRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	res, err := h.ai.Summarize(r.Context(), userID, req.Content, req.PageID, req.TaskID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *AnalyzeHandler) ExtractActions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req analyzeRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	res, err := h.ai.ExtractActions(r.Context(), userID, req.Content, req.PageID, req.TaskID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}
