package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/rateboard/internal/domain"
)

func TestBannerStoreVersions(t *testing.T) {
	d := openTestDB(t)
	store := NewBannerStore(d)
	ctx := context.Background()

	first, err := store.CreateVersion(ctx, domain.BannerInput{ImageURL: "/uploads/banner/a.png", StorageKey: "banner/a.png", HeightPx: 120})
	require.NoError(t, err)
	second, err := store.CreateVersion(ctx, domain.BannerInput{ImageURL: "/uploads/banner/b.png", HeightPx: 90})
	require.NoError(t, err)

	current, err := store.GetCurrent(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, second.ID, current.ID)
	assert.Equal(t, 90, current.HeightPx)

	old, err := store.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, old.IsActive)
	assert.Equal(t, "banner/a.png", old.StorageKey)
	assert.Equal(t, 1, countRows(t, d, "SELECT COUNT(*) FROM banner_settings WHERE is_active = 1"))
}

func TestBannerStoreUpdate(t *testing.T) {
	store := NewBannerStore(openTestDB(t))
	ctx := context.Background()

	created, err := store.CreateVersion(ctx, domain.BannerInput{ImageURL: "/b.png", HeightPx: 120})
	require.NoError(t, err)

	height := 200
	updated, err := store.Update(ctx, created.ID, domain.BannerPatch{HeightPx: &height})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 200, updated.HeightPx)
	assert.Equal(t, "/b.png", updated.ImageURL)

	negative := -5
	_, err = store.Update(ctx, created.ID, domain.BannerPatch{HeightPx: &negative})
	assert.True(t, domain.IsValidation(err))

	missing, err := store.Update(ctx, created.ID+1, domain.BannerPatch{HeightPx: &height})
	require.NoError(t, err)
	assert.Nil(t, missing)
}
