package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vbonduro/rateboard/internal/domain"
)

const mediaColumns = `id, name, url, storage_key, kind, duration_seconds, order_index, is_active,
	size_bytes, mime_type, created_at`

type MediaStore struct {
	f *family
}

func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{f: newFamily(db, "media_items")}
}

func scanMedia(r row) (*domain.MediaItem, error) {
	m := &domain.MediaItem{}
	err := r.Scan(&m.ID, &m.Name, &m.URL, &m.StorageKey, &m.Kind, &m.DurationSeconds, &m.OrderIndex,
		&m.IsActive, &m.SizeBytes, &m.MimeType, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.CreatedAt = m.CreatedAt.UTC()
	return m, nil
}

// Create appends in to the end of the playlist.
func (s *MediaStore) Create(ctx context.Context, in domain.MediaItemInput) (*domain.MediaItem, error) {
	if err := domain.Validate(in); err != nil {
		return nil, err
	}

	id, err := s.f.appendRow(ctx, `
		INSERT INTO media_items (name, url, storage_key, kind, duration_seconds, order_index, is_active,
			size_bytes, mime_type, created_at)
		SELECT ?, ?, ?, ?, ?, COALESCE(MAX(order_index), 0) + 1, ?, ?, ?, ? FROM media_items
	`, in.Name, in.URL, in.StorageKey, string(in.Kind), in.DurationSeconds, in.IsActive,
		in.SizeBytes, in.MimeType, s.f.now())
	if err != nil {
		return nil, fmt.Errorf("failed to create media item: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *MediaStore) GetByID(ctx context.Context, id int64) (*domain.MediaItem, error) {
	m, err := scanMedia(s.f.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media_items WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistence("failed to get media item", err)
	}
	return m, nil
}

// List returns the playlist in display order. With activeOnly, inactive
// items are left out.
func (s *MediaStore) List(ctx context.Context, activeOnly bool) ([]*domain.MediaItem, error) {
	query := `SELECT ` + mediaColumns + ` FROM media_items`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	rows, err := s.f.db.QueryContext(ctx, query+playlistOrder)
	if err != nil {
		return nil, persistence("failed to list media items", err)
	}
	defer closeRows(rows)

	items := []*domain.MediaItem{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, persistence("failed to scan media item", err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("error iterating media items", err)
	}
	return items, nil
}

// Update patches the item with the given id. A nil item and nil error mean
// the id is unknown.
func (s *MediaStore) Update(ctx context.Context, id int64, patch domain.MediaItemPatch) (*domain.MediaItem, error) {
	if err := domain.Validate(patch); err != nil {
		return nil, err
	}

	var updated *domain.MediaItem
	err := s.f.withTx(ctx, func(tx *sql.Tx) error {
		m, err := scanMedia(tx.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media_items WHERE id = ?`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return persistence("failed to load media item", err)
		}

		patch.Apply(m)
		if err := domain.Validate(m.MediaInput()); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE media_items SET name = ?, url = ?, kind = ?, duration_seconds = ?, order_index = ?, is_active = ?
			WHERE id = ?
		`, m.Name, m.URL, string(m.Kind), m.DurationSeconds, m.OrderIndex, m.IsActive, id); err != nil {
			return persistence("failed to update media item", err)
		}

		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the item and reports whether it existed.
func (s *MediaStore) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.f.delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete media item: %w", err)
	}
	return deleted, nil
}
