package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tbouchet/plume/internal/core"
	"github.com/tbouchet/plume/internal/models"
)

type BlockService struct {
	store core.Store
}

func NewBlockService(store core.Store) *BlockService {
	return &BlockService{store: store}
}

// BlockCreate carries the caller-supplied fields of a new block.
type BlockCreate struct {
	Type     string
	Content  string
	Order    int
	Metadata map[string]any
}

// BlockUpdate carries the optional fields of a block update.
type BlockUpdate struct {
	Type     *string
	Content  *string
	Order    *int
	Metadata map[string]any
}

// Create adds a block to one of the caller's pages. The position is
// caller-supplied; duplicates are accepted and siblings are never
// renumbered.
func (s *BlockService) Create(ctx context.Context, userID, pageID string, in BlockCreate) (*models.Block, error) {
	if in.Content == "" {
		return nil, fmt.Errorf("%w: content is required", core.ErrValidation)
	}
	if _, err := s.store.GetPageByID(ctx, userID, pageID); err != nil {
		return nil, err
	}
	if in.Type == "" {
		in.Type = "text"
	}
	now := time.Now().UTC()
	block := &models.Block{
		ID:        uuid.NewString(),
		PageID:    pageID,
		UserID:    userID,
		Type:      in.Type,
		Content:   in.Content,
		SortOrder: in.Order,
		Metadata:  in.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateBlock(ctx, block); err != nil {
		return nil, fmt.Errorf("create block: %w", err)
	}
	return block, nil
}

// ListByPage returns the page's non-archived blocks ordered by position.
func (s *BlockService) ListByPage(ctx context.Context, userID, pageID string) ([]models.Block, error) {
	if _, err := s.store.GetPageByID(ctx, userID, pageID); err != nil {
		return nil, err
	}
	return s.store.ListBlocksByPage(ctx, userID, pageID)
}

func (s *BlockService) Get(ctx context.Context, userID, id string) (*models.Block, error) {
	return s.store.GetBlockByID(ctx, userID, id)
}

func (s *BlockService) Update(ctx context.Context, userID, id string, upd BlockUpdate) (*models.Block, error) {
	block, err := s.store.GetBlockByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if upd.Type != nil {
		block.Type = *upd.Type
	}
	if upd.Content != nil {
		block.Content = *upd.Content
	}
	if upd.Order != nil {
		block.SortOrder = *upd.Order
	}
	if upd.Metadata != nil {
		block.Metadata = upd.Metadata
	}
	if err := s.store.UpdateBlock(ctx, block); err != nil {
		return nil, err
	}
	return s.store.GetBlockByID(ctx, userID, id)
}

// Reorder sets the block's position without touching its siblings.
func (s *BlockService) Reorder(ctx context.Context, userID, id string, order int) (*models.Block, error) {
	return s.Update(ctx, userID, id, BlockUpdate{Order: &order})
}

func (s *BlockService) Archive(ctx context.Context, userID, id string) error {
	return s.store.ArchiveBlock(ctx, userID, id)
}
