package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenForTesting(t *testing.T) {
	db, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	assert.NoError(t, db.Ping())
}

func TestMigrationsApply(t *testing.T) {
	db, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	for _, table := range []string{"rate_quotes", "display_settings", "banner_settings", "media_items", "promo_images"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, table)
		assert.Equal(t, table, name)
	}

	v, dirty, err := Version(db)
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)
	assert.False(t, dirty)
}

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	assert.NoError(t, Migrate(db))
	assert.NoError(t, Migrate(db))
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening an existing file must not re-run migrations.
	db, err = Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })
}

func TestSingleActiveRowEnforced(t *testing.T) {
	db, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, db.Close()) })

	insert := `INSERT INTO banner_settings (image_url, height_px, is_active, created_at) VALUES ('/b.png', 120, 1, CURRENT_TIMESTAMP)`
	_, err = db.Exec(insert)
	require.NoError(t, err)

	_, err = db.Exec(insert)
	assert.Error(t, err, "a second active banner must violate the partial unique index")
}
