package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/tbouchet/plume/internal/config"
	"github.com/tbouchet/plume/internal/core"
	"github.com/tbouchet/plume/internal/core/database/migrations"
	"github.com/tbouchet/plume/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (core.Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Sensible pool settings for an API service; adjust as needed.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (c *DatabaseClient) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Users

func (c *DatabaseClient) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	const q = `
		INSERT INTO users (id, email, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := c.db.ExecContext(ctx, q,
		user.ID, user.Email, user.Username, user.PasswordHash, user.CreatedAt)
	return err
}

func (c *DatabaseClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `
		SELECT id, email, username, password_hash, created_at
		FROM users WHERE email = $1
	`
	return c.scanUser(c.db.QueryRowContext(ctx, q, email))
}

func (c *DatabaseClient) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const q = `
		SELECT id, email, username, password_hash, created_at
		FROM users WHERE username = $1
	`
	return c.scanUser(c.db.QueryRowContext(ctx, q, username))
}

func (c *DatabaseClient) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const q = `
		SELECT id, email, username, password_hash, created_at
		FROM users WHERE id = $1
	`
	return c.scanUser(c.db.QueryRowContext(ctx, q, id))
}

func (c *DatabaseClient) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Pages

func (c *DatabaseClient) CreatePage(ctx context.Context, page *models.Page) error {
	if page == nil {
		return errors.New("nil page")
	}
	const q = `
		INSERT INTO pages (id, user_id, title, description, icon, is_archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := c.db.ExecContext(ctx, q,
		page.ID, page.UserID, page.Title, page.Description, page.Icon,
		page.IsArchived, page.CreatedAt, page.UpdatedAt)
	return err
}

func (c *DatabaseClient) GetPageByID(ctx context.Context, userID, id string) (*models.Page, error) {
	const q = `
		SELECT id, user_id, title, description, icon, is_archived, created_at, updated_at
		FROM pages
		WHERE id = $1 AND user_id = $2
	`
	var p models.Page
	err := c.db.QueryRowContext(ctx, q, id, userID).Scan(
		&p.ID, &p.UserID, &p.Title, &p.Description, &p.Icon,
		&p.IsArchived, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *DatabaseClient) ListPages(ctx context.Context, userID string) ([]models.Page, error) {
	const q = `
		SELECT id, user_id, title, description, icon, is_archived, created_at, updated_at
		FROM pages
		WHERE user_id = $1 AND is_archived = FALSE
		ORDER BY created_at DESC
	`
	return c.queryPages(ctx, q, userID)
}

func (c *DatabaseClient) SearchPages(ctx context.Context, userID, query string) ([]models.Page, error) {
	const q = `
		SELECT id, user_id, title, description, icon, is_archived, created_at, updated_at
		FROM pages
		WHERE user_id = $1 AND is_archived = FALSE AND title ILIKE '%' || $2 || '%'
		ORDER BY created_at DESC
	`
	return c.queryPages(ctx, q, userID, query)
}

func (c *DatabaseClient) queryPages(ctx context.Context, q string, args ...any) ([]models.Page, error) {
	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Page
	for rows.Next() {
		var p models.Page
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Title, &p.Description, &p.Icon,
			&p.IsArchived, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) UpdatePage(ctx context.Context, page *models.Page) error {
	const q = `
		UPDATE pages
		SET title = $3, description = $4, icon = $5, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`
	res, err := c.db.ExecContext(ctx, q,
		page.ID, page.UserID, page.Title, page.Description, page.Icon)
	return oneRow(res, err)
}

func (c *DatabaseClient) ArchivePage(ctx context.Context, userID, id string) error {
	const q = `
		UPDATE pages
		SET is_archived = TRUE, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`
	res, err := c.db.ExecContext(ctx, q, id, userID)
	return oneRow(res, err)
}

// Blocks

func (c *DatabaseClient) CreateBlock(ctx context.Context, block *models.Block) error {
	if block == nil {
		return errors.New("nil block")
	}
	meta, err := marshalMetadata(block.Metadata)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO blocks (id, page_id, user_id, type, content, sort_order, metadata, is_archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = c.db.ExecContext(ctx, q,
		block.ID, block.PageID, block.UserID, block.Type, block.Content,
		block.SortOrder, meta, block.IsArchived, block.CreatedAt, block.UpdatedAt)
	return err
}

func (c *DatabaseClient) GetBlockByID(ctx context.Context, userID, id string) (*models.Block, error) {
	const q = `
		SELECT id, page_id, user_id, type, content, sort_order, metadata, is_archived, created_at, updated_at
		FROM blocks
		WHERE id = $1 AND user_id = $2
	`
	var b models.Block
	var meta []byte
	err := c.db.QueryRowContext(ctx, q, id, userID).Scan(
		&b.ID, &b.PageID, &b.UserID, &b.Type, &b.Content,
		&b.SortOrder, &meta, &b.IsArchived, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := unmarshalMetadata(meta, &b.Metadata); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *DatabaseClient) ListBlocksByPage(ctx context.Context, userID, pageID string) ([]models.Block, error) {
	const q = `
		SELECT id, page_id, user_id, type, content, sort_order, metadata, is_archived, created_at, updated_at
		FROM blocks
		WHERE page_id = $1 AND user_id = $2 AND is_archived = FALSE
		ORDER BY sort_order, created_at
	`
	return c.queryBlocks(ctx, q, pageID, userID)
}

func (c *DatabaseClient) SearchBlocks(ctx context.Context, userID, query string) ([]models.Block, error) {
	const q = `
		SELECT id, page_id, user_id, type, content, sort_order, metadata, is_archived, created_at, updated_at
		FROM blocks
		WHERE user_id = $1 AND is_archived = FALSE AND content ILIKE '%' || $2 || '%'
		ORDER BY created_at
	`
	return c.queryBlocks(ctx, q, userID, query)
}

func (c *DatabaseClient) queryBlocks(ctx context.Context, q string, args ...any) ([]models.Block, error) {
	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Block
	for rows.Next() {
		var b models.Block
		var meta []byte
		if err := rows.Scan(
			&b.ID, &b.PageID, &b.UserID, &b.Type, &b.Content,
			&b.SortOrder, &meta, &b.IsArchived, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := unmarshalMetadata(meta, &b.Metadata); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) UpdateBlock(ctx context.Context, block *models.Block) error {
	meta, err := marshalMetadata(block.Metadata)
	if err != nil {
		return err
	}
	const q = `
		UPDATE blocks
		SET type = $3, content = $4, sort_order = $5, metadata = $6, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`
	res, err := c.db.ExecContext(ctx, q,
		block.ID, block.UserID, block.Type, block.Content, block.SortOrder, meta)
	return oneRow(res, err)
}

func (c *DatabaseClient) ArchiveBlock(ctx context.Context, userID, id string) error {
	const q = `
		UPDATE blocks
		SET is_archived = TRUE, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`
	res, err := c.db.ExecContext(ctx, q, id, userID)
	return oneRow(res, err)
}

// Tasks

func (c *DatabaseClient) CreateTask(ctx context.Context, task *models.Task) error {
	if task == nil {
		return errors.New("nil task")
	}
	const q = `
		INSERT INTO tasks (id, user_id, page_id, title, description, due_date, priority, status, is_archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := c.db.ExecContext(ctx, q,
		task.ID, task.UserID, task.PageID, task.Title, task.Description,
		task.DueDate, task.Priority, task.Status, task.IsArchived,
		task.CreatedAt, task.UpdatedAt)
	return err
}

func (c *DatabaseClient) GetTaskByID(ctx context.Context, userID, id string) (*models.Task, error) {
	const q = `
		SELECT id, user_id, page_id, title, description, due_date, priority, status, is_archived, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`
	var t models.Task
	err := c.db.QueryRowContext(ctx, q, id, userID).Scan(
		&t.ID, &t.UserID, &t.PageID, &t.Title, &t.Description,
		&t.DueDate, &t.Priority, &t.Status, &t.IsArchived,
		&t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *DatabaseClient) ListTasks(ctx context.Context, userID string, filter core.TaskFilter) ([]models.Task, error) {
	q := `
		SELECT id, user_id, page_id, title, description, due_date, priority, status, is_archived, created_at, updated_at
		FROM tasks
		WHERE user_id = $1 AND is_archived = FALSE
	`
	args := []any{userID}
	if filter.Status != "" {
		args = append(args, filter.Status)
		q += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		q += fmt.Sprintf(" AND priority = $%d", len(args))
	}
	if filter.PageID != "" {
		args = append(args, filter.PageID)
		q += fmt.Sprintf(" AND page_id = $%d", len(args))
	}
	q += " ORDER BY created_at DESC"
	return c.queryTasks(ctx, q, args...)
}

func (c *DatabaseClient) ListTasksDueBetween(ctx context.Context, userID string, from, to time.Time) ([]models.Task, error) {
	const q = `
		SELECT id, user_id, page_id, title, description, due_date, priority, status, is_archived, created_at, updated_at
		FROM tasks
		WHERE user_id = $1 AND is_archived = FALSE
		  AND due_date >= $2 AND due_date < $3
		ORDER BY due_date
	`
	return c.queryTasks(ctx, q, userID, from, to)
}

func (c *DatabaseClient) ListTasksOverdue(ctx context.Context, userID string, before time.Time) ([]models.Task, error) {
	const q = `
		SELECT id, user_id, page_id, title, description, due_date, priority, status, is_archived, created_at, updated_at
		FROM tasks
		WHERE user_id = $1 AND is_archived = FALSE
		  AND due_date < $2 AND status <> 'done'
		ORDER BY due_date
	`
	return c.queryTasks(ctx, q, userID, before)
}

func (c *DatabaseClient) queryTasks(ctx context.Context, q string, args ...any) ([]models.Task, error) {
	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.PageID, &t.Title, &t.Description,
			&t.DueDate, &t.Priority, &t.Status, &t.IsArchived,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) UpdateTask(ctx context.Context, task *models.Task) error {
	const q = `
		UPDATE tasks
		SET page_id = $3, title = $4, description = $5, due_date = $6,
		    priority = $7, status = $8, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`
	res, err := c.db.ExecContext(ctx, q,
		task.ID, task.UserID, task.PageID, task.Title, task.Description,
		task.DueDate, task.Priority, task.Status)
	return oneRow(res, err)
}

func (c *DatabaseClient) ArchiveTask(ctx context.Context, userID, id string) error {
	const q = `
		UPDATE tasks
		SET is_archived = TRUE, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`
	res, err := c.db.ExecContext(ctx, q, id, userID)
	return oneRow(res, err)
}

// Links

func (c *DatabaseClient) CreateLink(ctx context.Context, link *models.Link) error {
	if link == nil {
		return errors.New("nil link")
	}
	const q = `
		INSERT INTO links (id, user_id, source_page_id, target_page_id, type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := c.db.ExecContext(ctx, q,
		link.ID, link.UserID, link.SourcePageID, link.TargetPageID, link.Type, link.CreatedAt)
	return err
}

func (c *DatabaseClient) GetLinkByID(ctx context.Context, userID, id string) (*models.Link, error) {
	const q = `
		SELECT id, user_id, source_page_id, target_page_id, type, created_at
		FROM links
		WHERE id = $1 AND user_id = $2
	`
	var l models.Link
	err := c.db.QueryRowContext(ctx, q, id, userID).Scan(
		&l.ID, &l.UserID, &l.SourcePageID, &l.TargetPageID, &l.Type, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *DatabaseClient) ListLinks(ctx context.Context, userID string) ([]models.Link, error) {
	const q = `
		SELECT id, user_id, source_page_id, target_page_id, type, created_at
		FROM links
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return c.queryLinks(ctx, q, userID)
}

func (c *DatabaseClient) ListLinksBySource(ctx context.Context, userID, pageID string) ([]models.Link, error) {
	const q = `
		SELECT id, user_id, source_page_id, target_page_id, type, created_at
		FROM links
		WHERE user_id = $1 AND source_page_id = $2
		ORDER BY created_at DESC
	`
	return c.queryLinks(ctx, q, userID, pageID)
}

func (c *DatabaseClient) ListLinksByTarget(ctx context.Context, userID, pageID string) ([]models.Link, error) {
	const q = `
		SELECT id, user_id, source_page_id, target_page_id, type, created_at
		FROM links
		WHERE user_id = $1 AND target_page_id = $2
		ORDER BY created_at DESC
	`
	return c.queryLinks(ctx, q, userID, pageID)
}

func (c *DatabaseClient) queryLinks(ctx context.Context, q string, args ...any) ([]models.Link, error) {
	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Link
	for rows.Next() {
		var l models.Link
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.SourcePageID, &l.TargetPageID, &l.Type, &l.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) DeleteLink(ctx context.Context, userID, id string) error {
	const q = `DELETE FROM links WHERE id = $1 AND user_id = $2`
	res, err := c.db.ExecContext(ctx, q, id, userID)
	return oneRow(res, err)
}

// Traces

func (c *DatabaseClient) CreateTrace(ctx context.Context, trace *models.AITrace) error {
	if trace == nil {
		return errors.New("nil trace")
	}
	const q = `
		INSERT INTO ai_traces
			(id, user_id, page_id, task_id, analysis_type, generated_content,
			 model_used, tokens_used, execution_time_ms, success, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := c.db.ExecContext(ctx, q,
		trace.ID, trace.UserID, trace.PageID, trace.TaskID, trace.AnalysisType,
		trace.GeneratedContent, trace.ModelUsed, trace.TokensUsed,
		trace.ExecutionTimeMS, trace.Success, trace.ErrorMessage, trace.CreatedAt)
	return err
}

func (c *DatabaseClient) GetTraceByID(ctx context.Context, userID, id string) (*models.AITrace, error) {
	const q = `
		SELECT id, user_id, page_id, task_id, analysis_type, generated_content,
		       model_used, tokens_used, execution_time_ms, success, error_message, created_at
		FROM ai_traces
		WHERE id = $1 AND user_id = $2
	`
	var t models.AITrace
	err := c.db.QueryRowContext(ctx, q, id, userID).Scan(
		&t.ID, &t.UserID, &t.PageID, &t.TaskID, &t.AnalysisType,
		&t.GeneratedContent, &t.ModelUsed, &t.TokensUsed,
		&t.ExecutionTimeMS, &t.Success, &t.ErrorMessage, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *DatabaseClient) ListTraces(ctx context.Context, userID string) ([]models.AITrace, error) {
	const q = `
		SELECT id, user_id, page_id, task_id, analysis_type, generated_content,
		       model_used, tokens_used, execution_time_ms, success, error_message, created_at
		FROM ai_traces
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return c.queryTraces(ctx, q, userID)
}

func (c *DatabaseClient) ListTracesByPage(ctx context.Context, userID, pageID string) ([]models.AITrace, error) {
	const q = `
		SELECT id, user_id, page_id, task_id, analysis_type, generated_content,
		       model_used, tokens_used, execution_time_ms, success, error_message, created_at
		FROM ai_traces
		WHERE user_id = $1 AND page_id = $2
		ORDER BY created_at DESC
	`
	return c.queryTraces(ctx, q, userID, pageID)
}

func (c *DatabaseClient) queryTraces(ctx context.Context, q string, args ...any) ([]models.AITrace, error) {
	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AITrace
	for rows.Next() {
		var t models.AITrace
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.PageID, &t.TaskID, &t.AnalysisType,
			&t.GeneratedContent, &t.ModelUsed, &t.TokensUsed,
			&t.ExecutionTimeMS, &t.Success, &t.ErrorMessage, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Helpers

// oneRow maps an UPDATE/DELETE touching zero rows to ErrNotFound, which
// keeps owner-mismatch and missing-row indistinguishable at the API.
func oneRow(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func marshalMetadata(m map[string]any) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func unmarshalMetadata(raw []byte, dst *map[string]any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
