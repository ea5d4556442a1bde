package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/rateboard/internal/domain"
)

func media(name string) domain.MediaItemInput {
	return domain.MediaItemInput{
		Name:            name,
		URL:             "/uploads/media/" + name,
		Kind:            domain.MediaKindImage,
		DurationSeconds: 30,
		IsActive:        true,
	}
}

func TestMediaStoreCreateAppends(t *testing.T) {
	store := NewMediaStore(openTestDB(t))
	ctx := context.Background()

	for i, name := range []string{"a.jpg", "b.jpg", "c.mp4"} {
		m, err := store.Create(ctx, media(name))
		require.NoError(t, err)
		assert.Equal(t, i+1, m.OrderIndex)
	}

	items, err := store.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "a.jpg", items[0].Name)
	assert.Equal(t, "c.mp4", items[2].Name)
}

func TestMediaStoreConcurrentCreate(t *testing.T) {
	store := NewMediaStore(openTestDB(t))
	ctx := context.Background()

	const writers = 12
	var wg sync.WaitGroup
	var mu sync.Mutex
	var indexes []int
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := store.Create(ctx, media(fmt.Sprintf("%d.jpg", i)))
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			indexes = append(indexes, m.OrderIndex)
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	sort.Ints(indexes)
	want := make([]int, writers)
	for i := range want {
		want[i] = i + 1
	}
	assert.Equal(t, want, indexes)
}

func TestMediaStoreListActiveOnly(t *testing.T) {
	store := NewMediaStore(openTestDB(t))
	ctx := context.Background()

	_, err := store.Create(ctx, media("on.jpg"))
	require.NoError(t, err)
	off := media("off.jpg")
	off.IsActive = false
	_, err = store.Create(ctx, off)
	require.NoError(t, err)

	all, err := store.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := store.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "on.jpg", active[0].Name)
}

func TestMediaStoreListEmpty(t *testing.T) {
	store := NewMediaStore(openTestDB(t))

	items, err := store.List(context.Background(), true)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestMediaStoreUpdate(t *testing.T) {
	store := NewMediaStore(openTestDB(t))
	ctx := context.Background()

	first, err := store.Create(ctx, media("a.jpg"))
	require.NoError(t, err)
	_, err = store.Create(ctx, media("b.jpg"))
	require.NoError(t, err)

	order := 3
	secs := 12
	updated, err := store.Update(ctx, first.ID, domain.MediaItemPatch{OrderIndex: &order, DurationSeconds: &secs})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 3, updated.OrderIndex)
	assert.Equal(t, 12, updated.DurationSeconds)

	items, err := store.List(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "b.jpg", items[0].Name)
	assert.Equal(t, "a.jpg", items[1].Name)

	zero := 0
	_, err = store.Update(ctx, first.ID, domain.MediaItemPatch{DurationSeconds: &zero})
	assert.True(t, domain.IsValidation(err))

	missing, err := store.Update(ctx, 999, domain.MediaItemPatch{DurationSeconds: &secs})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMediaStoreCreateRejectsInvalid(t *testing.T) {
	d := openTestDB(t)
	store := NewMediaStore(d)

	in := media("a.jpg")
	in.DurationSeconds = 0
	_, err := store.Create(context.Background(), in)
	assert.True(t, domain.IsValidation(err))

	in = media("a.gif")
	in.Kind = "audio"
	_, err = store.Create(context.Background(), in)
	assert.True(t, domain.IsValidation(err))

	assert.Equal(t, 0, countRows(t, d, "SELECT COUNT(*) FROM media_items"))
}

func TestMediaStoreDelete(t *testing.T) {
	store := NewMediaStore(openTestDB(t))
	ctx := context.Background()

	m, err := store.Create(ctx, media("a.jpg"))
	require.NoError(t, err)

	deleted, err := store.Delete(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	got, err := store.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMediaStoreAppendAfterDelete(t *testing.T) {
	store := NewMediaStore(openTestDB(t))
	ctx := context.Background()

	_, err := store.Create(ctx, media("a.jpg"))
	require.NoError(t, err)
	last, err := store.Create(ctx, media("b.jpg"))
	require.NoError(t, err)

	_, err = store.Delete(ctx, last.ID)
	require.NoError(t, err)

	next, err := store.Create(ctx, media("c.jpg"))
	require.NoError(t, err)
	assert.Equal(t, 2, next.OrderIndex)
}
