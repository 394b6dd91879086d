package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	middleware "github.com/tbouchet/plume/internal/api/middlewares"
	"github.com/tbouchet/plume/internal/services"
)

type BlockHandler struct {
	blocks *services.BlockService
}

func NewBlockHandler(blocks *services.BlockService) *BlockHandler {
	return &BlockHandler{blocks: blocks}
}

type blockCreateRequest struct {
	Type     string         `json:"type"`
	Content  string         `json:"content"`
	Order    int            `json:"order"`
	Metadata map[string]any `json:"metadata"`
}

type blockUpdateRequest struct {
	Type     *string        `json:"type"`
	Content  *string        `json:"content"`
	Order    *int           `json:"order"`
	Metadata map[string]any `json:"metadata"`
}

type blockReorderRequest struct {
	Order int `json:"order"`
}

func (h *BlockHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req blockCreateRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	block, err := h.blocks.Create(r.Context(), userID, chi.URLParam(r, "pageID"), services.BlockCreate{
		Type:     req.Type,
		Content:  req.Content,
		Order:    req.Order,
		Metadata: req.Metadata,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, block)
}

func (h *BlockHandler) ListByPage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	blocks, err := h.blocks.ListByPage(r.Context(), userID, chi.URLParam(r, "pageID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, blocks)
}

func (h *BlockHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	block, err := h.blocks.Get(r.Context(), userID, chi.URLParam(r, "blockID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, block)
}

func (h *BlockHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req blockUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	block, err := h.blocks.Update(r.Context(), userID, chi.URLParam(r, "blockID"), services.BlockUpdate{
		Type:     req.Type,
		Content:  req.Content,
		Order:    req.Order,
		Metadata: req.Metadata,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, block)
}

func (h *BlockHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req blockReorderRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	block, err := h.blocks.Reorder(r.Context(), userID, chi.URLParam(r, "blockID"), req.Order)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, block)
}

func (h *BlockHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	if err := h.blocks.Archive(r.Context(), userID, chi.URLParam(r, "blockID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
