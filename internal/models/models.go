package models

import (
	"time"
)

// User represents an authenticated user of the system.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Page is a user-owned container of ordered blocks. Deleting a page
// archives it; archived pages are hidden from default listings.
type Page struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Icon        string    `db:"icon" json:"icon"`
	IsArchived  bool      `db:"is_archived" json:"is_archived"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Block is one content unit inside a page. SortOrder is caller-supplied;
// the server never renumbers sibling blocks.
type Block struct {
	ID         string         `db:"id" json:"id"`
	PageID     string         `db:"page_id" json:"page_id"`
	UserID     string         `db:"user_id" json:"user_id"`
	Type       string         `db:"type" json:"type"` // "text", "heading", "todo", ...
	Content    string         `db:"content" json:"content"`
	SortOrder  int            `db:"sort_order" json:"order"`
	Metadata   map[string]any `db:"metadata" json:"metadata,omitempty"`
	IsArchived bool           `db:"is_archived" json:"is_archived"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updated_at"`
}

// Task priorities and statuses accepted by the API.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"

	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusCancelled  = "cancelled"
)

// Task is a user-owned todo item, optionally attached to a page and
// optionally carrying a due date used by the calendar-window queries.
type Task struct {
	ID          string     `db:"id" json:"id"`
	UserID      string     `db:"user_id" json:"user_id"`
	PageID      *string    `db:"page_id" json:"page_id,omitempty"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	Priority    string     `db:"priority" json:"priority"`
	Status      string     `db:"status" json:"status"`
	IsArchived  bool       `db:"is_archived" json:"is_archived"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Link is a directed edge between two pages of the same owner.
// Links are hard-deleted, unlike pages, blocks and tasks.
type Link struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"user_id"`
	SourcePageID string    `db:"source_page_id" json:"source_page_id"`
	TargetPageID string    `db:"target_page_id" json:"target_page_id"`
	Type         string    `db:"type" json:"type"` // "related", "blocks", "implements", "references"
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Analysis types recorded on AI traces.
const (
	AnalysisSummarize      = "summarize"
	AnalysisExtractActions = "extract_actions"
)

// AITrace is the append-only audit record of one model invocation,
// written whether the call succeeded or failed. Rows are never updated
// or deleted by the application.
type AITrace struct {
	ID               string    `db:"id" json:"id"`
	UserID           string    `db:"user_id" json:"user_id"`
	PageID           *string   `db:"page_id" json:"page_id,omitempty"`
	TaskID           *string   `db:"task_id" json:"task_id,omitempty"`
	AnalysisType     string    `db:"analysis_type" json:"analysis_type"`
	GeneratedContent string    `db:"generated_content" json:"generated_content"`
	ModelUsed        string    `db:"model_used" json:"model_used"`
	TokensUsed       int       `db:"tokens_used" json:"tokens_used"`
	ExecutionTimeMS  int       `db:"execution_time_ms" json:"execution_time_ms"`
	Success          bool      `db:"success" json:"success"`
	ErrorMessage     *string   `db:"error_message" json:"error_message,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// SearchResult is one hit from the page/block substring search.
type SearchResult struct {
	ResultType string `json:"result_type"` // "page" or "block"
	ID         string `json:"id"`
	Title      string `json:"title"`
	Snippet    string `json:"snippet"`
}
