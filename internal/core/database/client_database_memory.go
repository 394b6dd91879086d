package db

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tbouchet/plume/internal/core"
	"github.com/tbouchet/plume/internal/models"
)

// MemoryClient is an in-memory Store used by tests and by local
// development without Postgres. It mirrors the SQL client's semantics:
// owner scoping, ErrNotFound for missing or foreign rows, archived rows
// hidden from default listings, newest-first ordering.
type MemoryClient struct {
	mu     sync.RWMutex
	users  []models.User
	pages  []models.Page
	blocks []models.Block
	tasks  []models.Task
	links  []models.Link
	traces []models.AITrace
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

func (c *MemoryClient) Ping(ctx context.Context) error { return nil }
func (c *MemoryClient) Close() error                   { return nil }

// Users

func (c *MemoryClient) CreateUser(ctx context.Context, user *models.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users = append(c.users, *user)
	return nil
}

func (c *MemoryClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.users {
		if c.users[i].Email == email {
			u := c.users[i]
			return &u, nil
		}
	}
	return nil, core.ErrNotFound
}

func (c *MemoryClient) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.users {
		if c.users[i].Username == username {
			u := c.users[i]
			return &u, nil
		}
	}
	return nil, core.ErrNotFound
}

func (c *MemoryClient) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.users {
		if c.users[i].ID == id {
			u := c.users[i]
			return &u, nil
		}
	}
	return nil, core.ErrNotFound
}

// Pages

func (c *MemoryClient) CreatePage(ctx context.Context, page *models.Page) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages = append(c.pages, *page)
	return nil
}

func (c *MemoryClient) GetPageByID(ctx context.Context, userID, id string) (*models.Page, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.pages {
		if c.pages[i].ID == id && c.pages[i].UserID == userID {
			p := c.pages[i]
			return &p, nil
		}
	}
	return nil, core.ErrNotFound
}

func (c *MemoryClient) ListPages(ctx context.Context, userID string) ([]models.Page, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.Page
	for i := len(c.pages) - 1; i >= 0; i-- {
		p := c.pages[i]
		if p.UserID == userID && !p.IsArchived {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *MemoryClient) SearchPages(ctx context.Context, userID, query string) ([]models.Page, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	needle := strings.ToLower(query)
	var out []models.Page
	for i := len(c.pages) - 1; i >= 0; i-- {
		p := c.pages[i]
		if p.UserID == userID && !p.IsArchived && strings.Contains(strings.ToLower(p.Title), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *MemoryClient) UpdatePage(ctx context.Context, page *models.Page) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.pages {
		if c.pages[i].ID == page.ID && c.pages[i].UserID == page.UserID {
			c.pages[i].Title = page.Title
			c.pages[i].Description = page.Description
			c.pages[i].Icon = page.Icon
			c.pages[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return core.ErrNotFound
}

func (c *MemoryClient) ArchivePage(ctx context.Context, userID, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.pages {
		if c.pages[i].ID == id && c.pages[i].UserID == userID {
			c.pages[i].IsArchived = true
			c.pages[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return core.ErrNotFound
}

// Blocks

func (c *MemoryClient) CreateBlock(ctx context.Context, block *models.Block) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocks = append(c.blocks, *block)
	return nil
}

func (c *MemoryClient) GetBlockByID(ctx context.Context, userID, id string) (*models.Block, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.blocks {
		if c.blocks[i].ID == id && c.blocks[i].UserID == userID {
			b := c.blocks[i]
			return &b, nil
		}
	}
	return nil, core.ErrNotFound
}

func (c *MemoryClient) ListBlocksByPage(ctx context.Context, userID, pageID string) ([]models.Block, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.Block
	for i := range c.blocks {
		b := c.blocks[i]
		if b.PageID == pageID && b.UserID == userID && !b.IsArchived {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (c *MemoryClient) SearchBlocks(ctx context.Context, userID, query string) ([]models.Block, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	needle := strings.ToLower(query)
	var out []models.Block
	for i := range c.blocks {
		b := c.blocks[i]
		if b.UserID == userID && !b.IsArchived && strings.Contains(strings.ToLower(b.Content), needle) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (c *MemoryClient) UpdateBlock(ctx context.Context, block *models.Block) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.blocks {
		if c.blocks[i].ID == block.ID && c.blocks[i].UserID == block.UserID {
			c.blocks[i].Type = block.Type
			c.blocks[i].Content = block.Content
			c.blocks[i].SortOrder = block.SortOrder
			c.blocks[i].Metadata = block.Metadata
			c.blocks[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return core.ErrNotFound
}

func (c *MemoryClient) ArchiveBlock(ctx context.Context, userID, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.blocks {
		if c.blocks[i].ID == id && c.blocks[i].UserID == userID {
			c.blocks[i].IsArchived = true
			c.blocks[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return core.ErrNotFound
}

// Tasks

func (c *MemoryClient) CreateTask(ctx context.Context, task *models.Task) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = append(c.tasks, *task)
	return nil
}

func (c *MemoryClient) GetTaskByID(ctx context.Context, userID, id string) (*models.Task, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.tasks {
		if c.tasks[i].ID == id && c.tasks[i].UserID == userID {
			t := c.tasks[i]
			return &t, nil
		}
	}
	return nil, core.ErrNotFound
}

func (c *MemoryClient) ListTasks(ctx context.Context, userID string, filter core.TaskFilter) ([]models.Task, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.Task
	for i := len(c.tasks) - 1; i >= 0; i-- {
		t := c.tasks[i]
		if t.UserID != userID || t.IsArchived {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		if filter.PageID != "" && (t.PageID == nil || *t.PageID != filter.PageID) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (c *MemoryClient) ListTasksDueBetween(ctx context.Context, userID string, from, to time.Time) ([]models.Task, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.Task
	for i := range c.tasks {
		t := c.tasks[i]
		if t.UserID != userID || t.IsArchived || t.DueDate == nil {
			continue
		}
		if !t.DueDate.Before(from) && t.DueDate.Before(to) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(*out[j].DueDate) })
	return out, nil
}

func (c *MemoryClient) ListTasksOverdue(ctx context.Context, userID string, before time.Time) ([]models.Task, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.Task
	for i := range c.tasks {
		t := c.tasks[i]
		if t.UserID != userID || t.IsArchived || t.DueDate == nil {
			continue
		}
		if t.DueDate.Before(before) && t.Status != models.StatusDone {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(*out[j].DueDate) })
	return out, nil
}

func (c *MemoryClient) UpdateTask(ctx context.Context, task *models.Task) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tasks {
		if c.tasks[i].ID == task.ID && c.tasks[i].UserID == task.UserID {
			c.tasks[i].PageID = task.PageID
			c.tasks[i].Title = task.Title
			c.tasks[i].Description = task.Description
			c.tasks[i].DueDate = task.DueDate
			c.tasks[i].Priority = task.Priority
			c.tasks[i].Status = task.Status
			c.tasks[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return core.ErrNotFound
}

func (c *MemoryClient) ArchiveTask(ctx context.Context, userID, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.tasks {
		if c.tasks[i].ID == id && c.tasks[i].UserID == userID {
			c.tasks[i].IsArchived = true
			c.tasks[i].UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return core.ErrNotFound
}

// Links

func (c *MemoryClient) CreateLink(ctx context.Context, link *models.Link) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.links = append(c.links, *link)
	return nil
}

func (c *MemoryClient) GetLinkByID(ctx context.Context, userID, id string) (*models.Link, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.links {
		if c.links[i].ID == id && c.links[i].UserID == userID {
			l := c.links[i]
			return &l, nil
		}
	}
	return nil, core.ErrNotFound
}

func (c *MemoryClient) ListLinks(ctx context.Context, userID string) ([]models.Link, error) {
	return c.filterLinks(func(l models.Link) bool { return l.UserID == userID }), nil
}

func (c *MemoryClient) ListLinksBySource(ctx context.Context, userID, pageID string) ([]models.Link, error) {
	return c.filterLinks(func(l models.Link) bool {
		return l.UserID == userID && l.SourcePageID == pageID
	}), nil
}

func (c *MemoryClient) ListLinksByTarget(ctx context.Context, userID, pageID string) ([]models.Link, error) {
	return c.filterLinks(func(l models.Link) bool {
		return l.UserID == userID && l.TargetPageID == pageID
	}), nil
}

func (c *MemoryClient) filterLinks(keep func(models.Link) bool) []models.Link {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.Link
	for i := len(c.links) - 1; i >= 0; i-- {
		if keep(c.links[i]) {
			out = append(out, c.links[i])
		}
	}
	return out
}

func (c *MemoryClient) DeleteLink(ctx context.Context, userID, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.links {
		if c.links[i].ID == id && c.links[i].UserID == userID {
			c.links = append(c.links[:i], c.links[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

// Traces

func (c *MemoryClient) CreateTrace(ctx context.Context, trace *models.AITrace) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.traces = append(c.traces, *trace)
	return nil
}

func (c *MemoryClient) GetTraceByID(ctx context.Context, userID, id string) (*models.AITrace, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.traces {
		if c.traces[i].ID == id && c.traces[i].UserID == userID {
			t := c.traces[i]
			return &t, nil
		}
	}
	return nil, core.ErrNotFound
}

func (c *MemoryClient) ListTraces(ctx context.Context, userID string) ([]models.AITrace, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.AITrace
	for i := len(c.traces) - 1; i >= 0; i-- {
		if c.traces[i].UserID == userID {
			out = append(out, c.traces[i])
		}
	}
	return out, nil
}

func (c *MemoryClient) ListTracesByPage(ctx context.Context, userID, pageID string) ([]models.AITrace, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.AITrace
	for i := len(c.traces) - 1; i >= 0; i-- {
		t := c.traces[i]
		if t.UserID == userID && t.PageID != nil && *t.PageID == pageID {
			out = append(out, t)
		}
	}
	return out, nil
}

var _ core.Store = (*MemoryClient)(nil)
