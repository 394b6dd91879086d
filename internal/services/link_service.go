package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tbouchet/plume/internal/core"
	"github.com/tbouchet/plume/internal/models"
)

type LinkService struct {
	store core.Store
}

func NewLinkService(store core.Store) *LinkService {
	return &LinkService{store: store}
}

// Create adds a directed edge between two of the caller's pages. Both
// endpoints must exist and belong to the caller; a foreign or missing
// page yields ErrNotFound. Duplicate (source, target, type) edges are
// permitted.
func (s *LinkService) Create(ctx context.Context, userID, sourcePageID, targetPageID, linkType string) (*models.Link, error) {
	if sourcePageID == "" || targetPageID == "" {
		return nil, fmt.Errorf("%w: source and target page ids are required", core.ErrValidation)
	}
	if _, err := s.store.GetPageByID(ctx, userID, sourcePageID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetPageByID(ctx, userID, targetPageID); err != nil {
		return nil, err
	}
	if linkType == "" {
		linkType = "related"
	}
	link := &models.Link{
		ID:           uuid.NewString(),
		UserID:       userID,
		SourcePageID: sourcePageID,
		TargetPageID: targetPageID,
		Type:         linkType,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateLink(ctx, link); err != nil {
		return nil, fmt.Errorf("create link: %w", err)
	}
	return link, nil
}

func (s *LinkService) List(ctx context.Context, userID string) ([]models.Link, error) {
	return s.store.ListLinks(ctx, userID)
}

func (s *LinkService) Get(ctx context.Context, userID, id string) (*models.Link, error) {
	return s.store.GetLinkByID(ctx, userID, id)
}

// Outlinks returns the edges leaving the given page.
func (s *LinkService) Outlinks(ctx context.Context, userID, pageID string) ([]models.Link, error) {
	if _, err := s.store.GetPageByID(ctx, userID, pageID); err != nil {
		return nil, err
	}
	return s.store.ListLinksBySource(ctx, userID, pageID)
}

// Backlinks returns the edges pointing at the given page.
func (s *LinkService) Backlinks(ctx context.Context, userID, pageID string) ([]models.Link, error) {
	if _, err := s.store.GetPageByID(ctx, userID, pageID); err != nil {
		return nil, err
	}
	return s.store.ListLinksByTarget(ctx, userID, pageID)
}

// Delete removes the link outright. Links are the one resource with
// hard deletion; there is no archive flag on edges.
func (s *LinkService) Delete(ctx context.Context, userID, id string) error {
	return s.store.DeleteLink(ctx, userID, id)
}
