package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/rateboard/internal/domain"
)

func TestRateStoreGetCurrentEmpty(t *testing.T) {
	store := NewRateStore(openTestDB(t))

	q, err := store.GetCurrent(context.Background())
	require.NoError(t, err)
	assert.Nil(t, q)
}

func TestRateStoreCreateVersion(t *testing.T) {
	d := openTestDB(t)
	store := NewRateStore(d)
	ctx := context.Background()

	first, err := store.CreateVersion(ctx, rates("7250.50"))
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.True(t, first.IsActive)
	assert.True(t, decimal.RequireFromString("7250.5").Equal(first.Gold24kSale))

	second, err := store.CreateVersion(ctx, rates("7300"))
	require.NoError(t, err)

	current, err := store.GetCurrent(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, second.ID, current.ID)
	assert.True(t, current.IsActive)
	assert.True(t, decimal.RequireFromString("7300").Equal(current.Gold24kSale))

	old, err := store.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, old)
	assert.False(t, old.IsActive, "previous version must be deactivated")
	assert.Equal(t, 2, countRows(t, d, "SELECT COUNT(*) FROM rate_quotes"))
	assert.Equal(t, 1, countRows(t, d, "SELECT COUNT(*) FROM rate_quotes WHERE is_active = 1"))
}

func TestRateStoreConcurrentCreateVersion(t *testing.T) {
	d := openTestDB(t)
	store := NewRateStore(d)
	ctx := context.Background()

	const writers = 16
	var wg sync.WaitGroup
	ids := make(chan int64, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q, err := store.CreateVersion(ctx, rates(fmt.Sprintf("%d", 7000+i)))
			assert.NoError(t, err)
			if q != nil {
				ids <- q.ID
			}
		}(i)
	}
	wg.Wait()
	close(ids)

	created := map[int64]bool{}
	for id := range ids {
		created[id] = true
	}
	assert.Len(t, created, writers)
	assert.Equal(t, 1, countRows(t, d, "SELECT COUNT(*) FROM rate_quotes WHERE is_active = 1"))

	current, err := store.GetCurrent(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.True(t, created[current.ID])
	assert.True(t, current.IsActive)
}

func TestRateStoreGetCurrentFallsBackToNewest(t *testing.T) {
	d := openTestDB(t)
	store := NewRateStore(d)
	ctx := context.Background()

	_, err := store.CreateVersion(ctx, rates("7000"))
	require.NoError(t, err)
	newest, err := store.CreateVersion(ctx, rates("7100"))
	require.NoError(t, err)

	_, err = d.Exec("UPDATE rate_quotes SET is_active = 0")
	require.NoError(t, err)

	current, err := store.GetCurrent(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, newest.ID, current.ID)
	assert.False(t, current.IsActive)
}

func TestRateStoreRejectsNegativeRates(t *testing.T) {
	d := openTestDB(t)
	store := NewRateStore(d)
	ctx := context.Background()

	original, err := store.CreateVersion(ctx, rates("7000"))
	require.NoError(t, err)

	in := rates("7000")
	in.SilverPerKgSale = decimal.RequireFromString("-1")
	q, err := store.CreateVersion(ctx, in)
	assert.Nil(t, q)
	assert.True(t, domain.IsValidation(err))

	current, err := store.GetCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, original.ID, current.ID)
	assert.Equal(t, 1, countRows(t, d, "SELECT COUNT(*) FROM rate_quotes"))
}

func TestRateStoreUpdate(t *testing.T) {
	d := openTestDB(t)
	store := NewRateStore(d)
	ctx := context.Background()

	first, err := store.CreateVersion(ctx, rates("7000"))
	require.NoError(t, err)
	second, err := store.CreateVersion(ctx, rates("7100"))
	require.NoError(t, err)

	price := decimal.RequireFromString("6999.99")
	updated, err := store.Update(ctx, first.ID, domain.RateQuotePatch{Gold24kSale: &price})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.True(t, price.Equal(updated.Gold24kSale))
	assert.False(t, updated.IsActive, "updating an old version must not reactivate it")

	current, err := store.GetCurrent(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)

	missing, err := store.Update(ctx, 9999, domain.RateQuotePatch{Gold24kSale: &price})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRateStoreHistory(t *testing.T) {
	store := NewRateStore(openTestDB(t))
	ctx := context.Background()

	for _, v := range []string{"7000", "7100", "7200"} {
		_, err := store.CreateVersion(ctx, rates(v))
		require.NoError(t, err)
	}

	history, err := store.History(ctx, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, decimal.RequireFromString("7200").Equal(history[0].Gold24kSale))
	assert.True(t, decimal.RequireFromString("7100").Equal(history[1].Gold24kSale))
}

func TestRateStorePersistenceError(t *testing.T) {
	d := openTestDB(t)
	store := NewRateStore(d)
	require.NoError(t, d.Close())

	_, err := store.CreateVersion(context.Background(), rates("7000"))
	assert.True(t, domain.IsPersistence(err))

	_, err = store.GetCurrent(context.Background())
	assert.True(t, domain.IsPersistence(err))
}
