package handlers

import (
	"net/http"

	middleware "github.com/tbouchet/plume/internal/api/middlewares"
	"github.com/tbouchet/plume/internal/services"
)

type SearchHandler struct {
	search *services.SearchService
}

func NewSearchHandler(search *services.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	results, err := h.search.Search(r.Context(), userID, r.URL.Query().Get("q"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
