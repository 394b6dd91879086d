package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tbouchet/plume/internal/core"
	db "github.com/tbouchet/plume/internal/core/database"
	"github.com/tbouchet/plume/internal/models"
)

// fixedNow pins the service clock mid-day so the window boundaries are
// deterministic.
var fixedNow = time.Date(2025, 6, 18, 14, 30, 0, 0, time.UTC)

func newTaskService(store core.Store) *TaskService {
	svc := NewTaskService(store)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func due(t time.Time) *time.Time { return &t }

func TestTaskCreateDefaults(t *testing.T) {
	svc := newTaskService(db.NewMemoryClient())

	task, err := svc.Create(context.Background(), "u1", TaskCreate{Title: "write report"})
	require.NoError(t, err)
	require.Equal(t, models.PriorityMedium, task.Priority)
	require.Equal(t, models.StatusTodo, task.Status)
	require.Nil(t, task.DueDate)
}

func TestTaskCreateValidation(t *testing.T) {
	svc := newTaskService(db.NewMemoryClient())

	_, err := svc.Create(context.Background(), "u1", TaskCreate{})
	require.ErrorIs(t, err, core.ErrValidation)

	_, err = svc.Create(context.Background(), "u1", TaskCreate{Title: "x", Priority: "extreme"})
	require.ErrorIs(t, err, core.ErrValidation)

	_, err = svc.Create(context.Background(), "u1", TaskCreate{Title: "x", Status: "someday"})
	require.ErrorIs(t, err, core.ErrValidation)
}

func TestTaskCreateRejectsForeignPage(t *testing.T) {
	store := db.NewMemoryClient()
	pages := NewPageService(store)
	svc := newTaskService(store)

	page, err := pages.Create(context.Background(), "owner", "Notes", "", "")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), "intruder", TaskCreate{Title: "x", PageID: &page.ID})
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestTaskToday(t *testing.T) {
	store := db.NewMemoryClient()
	svc := newTaskService(store)
	ctx := context.Background()

	today := fixedNow.Add(2 * time.Hour)
	tomorrow := fixedNow.Add(24 * time.Hour)
	_, err := svc.Create(ctx, "u1", TaskCreate{Title: "due today", DueDate: due(today)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u1", TaskCreate{Title: "due tomorrow", DueDate: due(tomorrow)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u1", TaskCreate{Title: "no due date"})
	require.NoError(t, err)

	tasks, err := svc.Today(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "due today", tasks[0].Title)
}

func TestTaskOverdueExcludesDone(t *testing.T) {
	store := db.NewMemoryClient()
	svc := newTaskService(store)
	ctx := context.Background()

	yesterday := fixedNow.Add(-24 * time.Hour)
	_, err := svc.Create(ctx, "u1", TaskCreate{Title: "missed", DueDate: due(yesterday)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u1", TaskCreate{Title: "finished", DueDate: due(yesterday), Status: models.StatusDone})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u1", TaskCreate{Title: "later today", DueDate: due(fixedNow.Add(time.Hour))})
	require.NoError(t, err)

	tasks, err := svc.Overdue(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "missed", tasks[0].Title)
}

func TestTaskThisWeekWindow(t *testing.T) {
	store := db.NewMemoryClient()
	svc := newTaskService(store)
	ctx := context.Background()

	inWindow := fixedNow.Add(6 * 24 * time.Hour)
	pastWindow := fixedNow.Add(8 * 24 * time.Hour)
	_, err := svc.Create(ctx, "u1", TaskCreate{Title: "this week", DueDate: due(inWindow)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u1", TaskCreate{Title: "next week", DueDate: due(pastWindow)})
	require.NoError(t, err)

	tasks, err := svc.ThisWeek(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "this week", tasks[0].Title)
}

func TestTaskListIgnoresInvalidFilters(t *testing.T) {
	store := db.NewMemoryClient()
	svc := newTaskService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", TaskCreate{Title: "a", Priority: models.PriorityHigh})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u1", TaskCreate{Title: "b"})
	require.NoError(t, err)

	tasks, err := svc.List(ctx, "u1", core.TaskFilter{Status: "bogus", Priority: "bogus"})
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	tasks, err = svc.List(ctx, "u1", core.TaskFilter{Priority: models.PriorityHigh})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "a", tasks[0].Title)
}

func TestTaskUpdateClearsDueDate(t *testing.T) {
	store := db.NewMemoryClient()
	svc := newTaskService(store)
	ctx := context.Background()

	task, err := svc.Create(ctx, "u1", TaskCreate{Title: "a", DueDate: due(fixedNow)})
	require.NoError(t, err)
	require.NotNil(t, task.DueDate)

	// An update without SetDueDate leaves the due date alone.
	title := "renamed"
	updated, err := svc.Update(ctx, "u1", task.ID, TaskUpdate{Title: &title})
	require.NoError(t, err)
	require.NotNil(t, updated.DueDate)

	updated, err = svc.Update(ctx, "u1", task.ID, TaskUpdate{SetDueDate: true})
	require.NoError(t, err)
	require.Nil(t, updated.DueDate)
}

func TestTaskUpdateStatus(t *testing.T) {
	store := db.NewMemoryClient()
	svc := newTaskService(store)
	ctx := context.Background()

	task, err := svc.Create(ctx, "u1", TaskCreate{Title: "a"})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, "u1", task.ID, models.StatusDone)
	require.NoError(t, err)
	require.Equal(t, models.StatusDone, updated.Status)

	_, err = svc.UpdateStatus(ctx, "u1", task.ID, "paused")
	require.ErrorIs(t, err, core.ErrValidation)
}

func TestTaskArchiveHidesFromListButNotGet(t *testing.T) {
	store := db.NewMemoryClient()
	svc := newTaskService(store)
	ctx := context.Background()

	task, err := svc.Create(ctx, "u1", TaskCreate{Title: "a"})
	require.NoError(t, err)
	require.NoError(t, svc.Archive(ctx, "u1", task.ID))

	tasks, err := svc.List(ctx, "u1", core.TaskFilter{})
	require.NoError(t, err)
	require.Empty(t, tasks)

	got, err := svc.Get(ctx, "u1", task.ID)
	require.NoError(t, err)
	require.True(t, got.IsArchived)
}
