package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tbouchet/plume/internal/core"
	"github.com/tbouchet/plume/internal/models"
)

const defaultPageIcon = "📄"

type PageService struct {
	store core.Store
}

func NewPageService(store core.Store) *PageService {
	return &PageService{store: store}
}

// PageUpdate carries the optional fields of a page update; nil means
// "leave unchanged".
type PageUpdate struct {
	Title       *string
	Description *string
	Icon        *string
}

func (s *PageService) Create(ctx context.Context, userID, title, description, icon string) (*models.Page, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", core.ErrValidation)
	}
	if icon == "" {
		icon = defaultPageIcon
	}
	now := time.Now().UTC()
	page := &models.Page{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Icon:        icon,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreatePage(ctx, page); err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return page, nil
}

func (s *PageService) List(ctx context.Context, userID string) ([]models.Page, error) {
	return s.store.ListPages(ctx, userID)
}

func (s *PageService) Get(ctx context.Context, userID, id string) (*models.Page, error) {
	return s.store.GetPageByID(ctx, userID, id)
}

func (s *PageService) Update(ctx context.Context, userID, id string, upd PageUpdate) (*models.Page, error) {
	page, err := s.store.GetPageByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if upd.Title != nil {
		page.Title = *upd.Title
	}
	if upd.Description != nil {
		page.Description = *upd.Description
	}
	if upd.Icon != nil {
		page.Icon = *upd.Icon
	}
	if err := s.store.UpdatePage(ctx, page); err != nil {
		return nil, err
	}
	return s.store.GetPageByID(ctx, userID, id)
}

// Archive soft-deletes a page: the row stays in storage but disappears
// from default listings.
func (s *PageService) Archive(ctx context.Context, userID, id string) error {
	return s.store.ArchivePage(ctx, userID, id)
}
