package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	middleware "github.com/tbouchet/plume/internal/api/middlewares"
	"github.com/tbouchet/plume/internal/services"
)

type PageHandler struct {
	pages *services.PageService
}

func NewPageHandler(pages *services.PageService) *PageHandler {
	return &PageHandler{pages: pages}
}

type pageCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type pageUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
}

func (h *PageHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req pageCreateRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	page, err := h.pages.Create(r.Context(), userID, req.Title, req.Description, req.Icon)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, page)
}

func (h *PageHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	pages, err := h.pages.List(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pages)
}

func (h *PageHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	page, err := h.pages.Get(r.Context(), userID, chi.URLParam(r, "pageID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *PageHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req pageUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	page, err := h.pages.Update(r.Context(), userID, chi.URLParam(r, "pageID"), services.PageUpdate{
		Title:       req.Title,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *PageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	if err := h.pages.Archive(r.Context(), userID, chi.URLParam(r, "pageID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
