package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	middleware "github.com/tbouchet/plume/internal/api/middlewares"
	"github.com/tbouchet/plume/internal/core"
	"github.com/tbouchet/plume/internal/services"
)

type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type taskCreateRequest struct {
	PageID      *string    `json:"page_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
}

// taskUpdateRequest distinguishes an absent due_date from an explicit
// null via the DueDateSet flag populated in UnmarshalJSON.
type taskUpdateRequest struct {
	PageID      *string    `json:"page_id"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	DueDateSet  bool       `json:"-"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
}

func (t *taskUpdateRequest) UnmarshalJSON(data []byte) error {
	type alias taskUpdateRequest
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*t = taskUpdateRequest(a)
	t.DueDateSet = jsonHasKey(data, "due_date")
	return nil
}

type taskStatusRequest struct {
	Status string `json:"status"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req taskCreateRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	task, err := h.tasks.Create(r.Context(), userID, services.TaskCreate{
		PageID:      req.PageID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Status:      req.Status,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	filter := core.TaskFilter{
		Status:   r.URL.Query().Get("status"),
		Priority: r.URL.Query().Get("priority"),
		PageID:   r.URL.Query().Get("page_id"),
	}
	tasks, err := h.tasks.List(r.Context(), userID, filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Today(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	tasks, err := h.tasks.Today(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	tasks, err := h.tasks.Overdue(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) ThisWeek(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	tasks, err := h.tasks.ThisWeek(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	task, err := h.tasks.Get(r.Context(), userID, chi.URLParam(r, "taskID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req taskUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	task, err := h.tasks.Update(r.Context(), userID, chi.URLParam(r, "taskID"), services.TaskUpdate{
		PageID:      req.PageID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		SetDueDate:  req.DueDateSet,
		Priority:    req.Priority,
		Status:      req.Status,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req taskStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeDomainError(w, err)
		return
	}

	task, err := h.tasks.UpdateStatus(r.Context(), userID, chi.URLParam(r, "taskID"), req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	if err := h.tasks.Archive(r.Context(), userID, chi.URLParam(r, "taskID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
