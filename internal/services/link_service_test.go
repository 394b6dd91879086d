package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tbouchet/plume/internal/core"
	db "github.com/tbouchet/plume/internal/core/database"
	"github.com/tbouchet/plume/internal/models"
)

func twoPages(t *testing.T, store core.Store, userID string) (*models.Page, *models.Page) {
	t.Helper()
	pages := NewPageService(store)
	a, err := pages.Create(context.Background(), userID, "Source", "", "")
	require.NoError(t, err)
	b, err := pages.Create(context.Background(), userID, "Target", "", "")
	require.NoError(t, err)
	return a, b
}

func TestLinkCreateDefaultsType(t *testing.T) {
	store := db.NewMemoryClient()
	svc := NewLinkService(store)
	a, b := twoPages(t, store, "u1")

	link, err := svc.Create(context.Background(), "u1", a.ID, b.ID, "")
	require.NoError(t, err)
	require.Equal(t, "related", link.Type)
	require.Equal(t, a.ID, link.SourcePageID)
	require.Equal(t, b.ID, link.TargetPageID)
}

func TestLinkCreateRejectsForeignEndpoint(t *testing.T) {
	store := db.NewMemoryClient()
	svc := NewLinkService(store)
	a, _ := twoPages(t, store, "owner")
	mine, _ := twoPages(t, store, "u1")

	_, err := svc.Create(context.Background(), "u1", mine.ID, a.ID, "")
	require.ErrorIs(t, err, core.ErrNotFound)

	_, err = svc.Create(context.Background(), "u1", a.ID, mine.ID, "")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestLinkDuplicatesPermitted(t *testing.T) {
	store := db.NewMemoryClient()
	svc := NewLinkService(store)
	a, b := twoPages(t, store, "u1")
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", a.ID, b.ID, "related")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u1", a.ID, b.ID, "related")
	require.NoError(t, err)

	links, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, links, 2)
}

func TestLinkOutlinksAndBacklinks(t *testing.T) {
	store := db.NewMemoryClient()
	svc := NewLinkService(store)
	a, b := twoPages(t, store, "u1")
	ctx := context.Background()

	link, err := svc.Create(ctx, "u1", a.ID, b.ID, "references")
	require.NoError(t, err)

	out, err := svc.Outlinks(ctx, "u1", a.ID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, link.ID, out[0].ID)

	back, err := svc.Backlinks(ctx, "u1", b.ID)
	require.NoError(t, err)
	require.Len(t, back, 1)
	require.Equal(t, link.ID, back[0].ID)

	out, err = svc.Outlinks(ctx, "u1", b.ID)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestLinkBacklinksUnknownPage(t *testing.T) {
	store := db.NewMemoryClient()
	svc := NewLinkService(store)

	_, err := svc.Backlinks(context.Background(), "u1", "missing")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestLinkDeleteIsHard(t *testing.T) {
	store := db.NewMemoryClient()
	svc := NewLinkService(store)
	a, b := twoPages(t, store, "u1")
	ctx := context.Background()

	link, err := svc.Create(ctx, "u1", a.ID, b.ID, "")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "u1", link.ID))

	_, err = svc.Get(ctx, "u1", link.ID)
	require.ErrorIs(t, err, core.ErrNotFound)

	require.ErrorIs(t, svc.Delete(ctx, "u1", link.ID), core.ErrNotFound)
}

func TestLinkDeleteScopedToOwner(t *testing.T) {
	store := db.NewMemoryClient()
	svc := NewLinkService(store)
	a, b := twoPages(t, store, "u1")
	ctx := context.Background()

	link, err := svc.Create(ctx, "u1", a.ID, b.ID, "")
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, "intruder", link.ID), core.ErrNotFound)

	got, err := svc.Get(ctx, "u1", link.ID)
	require.NoError(t, err)
	require.Equal(t, link.ID, got.ID)
}
