package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tbouchet/plume/internal/core"
	"github.com/tbouchet/plume/internal/models"
)

var (
	validPriorities = map[string]bool{
		models.PriorityLow:    true,
		models.PriorityMedium: true,
		models.PriorityHigh:   true,
		models.PriorityUrgent: true,
	}
	validStatuses = map[string]bool{
		models.StatusTodo:       true,
		models.StatusInProgress: true,
		models.StatusDone:       true,
		models.StatusCancelled:  true,
	}
)

// TaskService owns task CRUD and the calendar-window queries. All day
// boundaries are computed on a single authoritative UTC clock; now is
// injectable so the windows are testable.
type TaskService struct {
	store core.Store
	now   func() time.Time
}

func NewTaskService(store core.Store) *TaskService {
	return &TaskService{store: store, now: time.Now}
}

// TaskCreate carries the caller-supplied fields of a new task.
type TaskCreate struct {
	PageID      *string
	Title       string
	Description string
	DueDate     *time.Time
	Priority    string
	Status      string
}

// TaskUpdate carries the optional fields of a task update. SetDueDate
// distinguishes "leave unchanged" from "clear the due date".
type TaskUpdate struct {
	PageID      *string
	Title       *string
	Description *string
	DueDate     *time.Time
	SetDueDate  bool
	Priority    *string
	Status      *string
}

func (s *TaskService) Create(ctx context.Context, userID string, in TaskCreate) (*models.Task, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", core.ErrValidation)
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if in.Status == "" {
		in.Status = models.StatusTodo
	}
	if !validPriorities[in.Priority] {
		return nil, fmt.Errorf("%w: invalid priority %q", core.ErrValidation, in.Priority)
	}
	if !validStatuses[in.Status] {
		return nil, fmt.Errorf("%w: invalid status %q", core.ErrValidation, in.Status)
	}
	if in.PageID != nil {
		if _, err := s.store.GetPageByID(ctx, userID, *in.PageID); err != nil {
			return nil, err
		}
	}
	now := s.now().UTC()
	task := &models.Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		PageID:      in.PageID,
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		Priority:    in.Priority,
		Status:      in.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// List returns the caller's non-archived tasks. Unknown filter values
// are ignored rather than rejected.
func (s *TaskService) List(ctx context.Context, userID string, filter core.TaskFilter) ([]models.Task, error) {
	if !validStatuses[filter.Status] {
		filter.Status = ""
	}
	if !validPriorities[filter.Priority] {
		filter.Priority = ""
	}
	return s.store.ListTasks(ctx, userID, filter)
}

// Get returns the task by id even when archived; direct lookup is the
// one way to reach a soft-deleted row.
func (s *TaskService) Get(ctx context.Context, userID, id string) (*models.Task, error) {
	return s.store.GetTaskByID(ctx, userID, id)
}

// Today returns tasks due within the current UTC calendar day.
func (s *TaskService) Today(ctx context.Context, userID string) ([]models.Task, error) {
	start := startOfDay(s.now())
	return s.store.ListTasksDueBetween(ctx, userID, start, start.Add(24*time.Hour))
}

// Overdue returns tasks due strictly before today that are not done.
func (s *TaskService) Overdue(ctx context.Context, userID string) ([]models.Task, error) {
	return s.store.ListTasksOverdue(ctx, userID, startOfDay(s.now()))
}

// ThisWeek returns tasks due within the 7-day window starting today.
func (s *TaskService) ThisWeek(ctx context.Context, userID string) ([]models.Task, error) {
	start := startOfDay(s.now())
	return s.store.ListTasksDueBetween(ctx, userID, start, start.Add(7*24*time.Hour))
}

func (s *TaskService) Update(ctx context.Context, userID, id string, upd TaskUpdate) (*models.Task, error) {
	task, err := s.store.GetTaskByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if upd.PageID != nil {
		if _, err := s.store.GetPageByID(ctx, userID, *upd.PageID); err != nil {
			return nil, err
		}
		task.PageID = upd.PageID
	}
	if upd.Title != nil {
		task.Title = *upd.Title
	}
	if upd.Description != nil {
		task.Description = *upd.Description
	}
	if upd.SetDueDate {
		task.DueDate = upd.DueDate
	}
	if upd.Priority != nil {
		if !validPriorities[*upd.Priority] {
			return nil, fmt.Errorf("%w: invalid priority %q", core.ErrValidation, *upd.Priority)
		}
		task.Priority = *upd.Priority
	}
	if upd.Status != nil {
		if !validStatuses[*upd.Status] {
			return nil, fmt.Errorf("%w: invalid status %q", core.ErrValidation, *upd.Status)
		}
		task.Status = *upd.Status
	}
	if err := s.store.UpdateTask(ctx, task); err != nil {
		return nil, err
	}
	return s.store.GetTaskByID(ctx, userID, id)
}

func (s *TaskService) UpdateStatus(ctx context.Context, userID, id, status string) (*models.Task, error) {
	if !validStatuses[status] {
		return nil, fmt.Errorf("%w: invalid status %q", core.ErrValidation, status)
	}
	return s.Update(ctx, userID, id, TaskUpdate{Status: &status})
}

func (s *TaskService) Archive(ctx context.Context, userID, id string) error {
	return s.store.ArchiveTask(ctx, userID, id)
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
