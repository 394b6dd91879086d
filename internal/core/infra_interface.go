package core

import (
	"context"
	"time"

	"github.com/tbouchet/plume/internal/models"
)

// TaskFilter narrows a task listing. Zero values mean "no filter".
type TaskFilter struct {
	Status   string
	Priority string
	PageID   string
}

// Store defines all persistence operations the services need. It
// abstracts Postgres so higher layers never depend on a specific DB.
//
// Every read/write on a user-owned row takes the owning user's id and
// filters by it; a row that exists but belongs to someone else behaves
// exactly like a missing row (ErrNotFound).
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	CreatePage(ctx context.Context, page *models.Page) error
	GetPageByID(ctx context.Context, userID, id string) (*models.Page, error)
	ListPages(ctx context.Context, userID string) ([]models.Page, error)
	UpdatePage(ctx context.Context, page *models.Page) error
	ArchivePage(ctx context.Context, userID, id string) error

	CreateBlock(ctx context.Context, block *models.Block) error
	GetBlockByID(ctx context.Context, userID, id string) (*models.Block, error)
	ListBlocksByPage(ctx context.Context, userID, pageID string) ([]models.Block, error)
	UpdateBlock(ctx context.Context, block *models.Block) error
	ArchiveBlock(ctx context.Context, userID, id string) error

	CreateTask(ctx context.Context, task *models.Task) error
	GetTaskByID(ctx context.Context, userID, id string) (*models.Task, error)
	ListTasks(ctx context.Context, userID string, filter TaskFilter) ([]models.Task, error)
	ListTasksDueBetween(ctx context.Context, userID string, from, to time.Time) ([]models.Task, error)
	ListTasksOverdue(ctx context.Context, userID string, before time.Time) ([]models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	ArchiveTask(ctx context.Context, userID, id string) error

	CreateLink(ctx context.Context, link *models.Link) error
	GetLinkByID(ctx context.Context, userID, id string) (*models.Link, error)
	ListLinks(ctx context.Context, userID string) ([]models.Link, error)
	ListLinksBySource(ctx context.Context, userID, pageID string) ([]models.Link, error)
	ListLinksByTarget(ctx context.Context, userID, pageID string) ([]models.Link, error)
	DeleteLink(ctx context.Context, userID, id string) error

	CreateTrace(ctx context.Context, trace *models.AITrace) error
	GetTraceByID(ctx context.Context, userID, id string) (*models.AITrace, error)
	ListTraces(ctx context.Context, userID string) ([]models.AITrace, error)
	ListTracesByPage(ctx context.Context, userID, pageID string) ([]models.AITrace, error)

	SearchPages(ctx context.Context, userID, query string) ([]models.Page, error)
	SearchBlocks(ctx context.Context, userID, query string) ([]models.Block, error)

	Ping(ctx context.Context) error
	Close() error
}
