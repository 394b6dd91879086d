package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	middleware "github.com/tbouchet/plume/internal/api/middlewares"
	"github.com/tbouchet/plume/internal/services"
)

type LinkHandler struct {
	links *services.LinkService
}

func NewLinkHandler(links *services.LinkService) *LinkHandler {
	return &LinkHandler{links: links}
}

type linkCreateRequest struct {
	SourcePageID string `json:"source_page_id"`
	TargetPageID string `json:"target_page_id"`
	Type         string `json:"type"`
}

func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req linkCreateRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	link, err := h.links.Create(r.Context(), userID, req.SourcePageID, req.TargetPageID, req.Type)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, link)
}

func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	links, err := h.links.List(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

func (h *LinkHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	link, err := h.links.Get(r.Context(), userID, chi.URLParam(r, "linkID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, link)
}

func (h *LinkHandler) Outlinks(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	links, err := h.links.Outlinks(r.Context(), userID, chi.URLParam(r, "pageID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

func (h *LinkHandler) Backlinks(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	links, err := h.links.Backlinks(r.Context(), userID, chi.URLParam(r, "pageID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	if err := h.links.Delete(r.Context(), userID, chi.URLParam(r, "linkID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
