package local

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/rateboard/internal/domain"
)

// Smallest valid PNG: 1x1 transparent pixel.
var pngData = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func TestLocalStoreSaveAndGet(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	key, err := store.Save(ctx, "promo", "image/png", bytes.NewReader(pngData))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "promo/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)

	reader, mimeType, err := store.Get(ctx, key)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, "image/png", mimeType)

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, pngData, data)
}

func TestLocalStoreDelete(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	key, err := store.Save(ctx, "media", "image/png", bytes.NewReader(pngData))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, key))

	_, _, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)

	assert.ErrorIs(t, store.Delete(ctx, key), domain.ErrBlobNotFound)
}

func TestLocalStoreNotFound(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Get(context.Background(), "banner/missing.png")
	assert.ErrorIs(t, err, domain.ErrBlobNotFound)
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	for _, key := range []string{"../etc/passwd", "media/../../secret", ".."} {
		_, _, err := store.Get(ctx, key)
		assert.Error(t, err, key)
		assert.NotErrorIs(t, err, domain.ErrBlobNotFound, key)
	}
}
