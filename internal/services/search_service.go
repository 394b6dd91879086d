package services

import (
	"context"
	"fmt"

	"github.com/tbouchet/plume/internal/core"
	"github.com/tbouchet/plume/internal/models"
)

const snippetLimit = 100

type SearchService struct {
	store core.Store
}

func NewSearchService(store core.Store) *SearchService {
	return &SearchService{store: store}
}

// Search runs a case-insensitive substring match over the caller's
// non-archived page titles and block content.
func (s *SearchService) Search(ctx context.Context, userID, query string) ([]models.SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", core.ErrValidation)
	}

	pages, err := s.store.SearchPages(ctx, userID, query)
	if err != nil {
		return nil, fmt.Errorf("search pages: %w", err)
	}
	blocks, err := s.store.SearchBlocks(ctx, userID, query)
	if err != nil {
		return nil, fmt.Errorf("search blocks: %w", err)
	}

	results := make([]models.SearchResult, 0, len(pages)+len(blocks))
	for _, p := range pages {
		results = append(results, models.SearchResult{
			ResultType: "page",
			ID:         p.ID,
			Title:      p.Title,
			Snippet:    p.Description,
		})
	}
	for _, b := range blocks {
		results = append(results, models.SearchResult{
			ResultType: "block",
			ID:         b.ID,
			Title:      fmt.Sprintf("Block (%s)", b.Type),
			Snippet:    snippet(b.Content),
		})
	}
	return results, nil
}

func snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= snippetLimit {
		return content
	}
	return string(runes[:snippetLimit]) + "..."
}
