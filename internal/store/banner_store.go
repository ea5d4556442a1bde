package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vbonduro/rateboard/internal/domain"
)

const bannerColumns = `id, image_url, storage_key, height_px, is_active, created_at`

type BannerStore struct {
	f *family
}

func NewBannerStore(db *sql.DB) *BannerStore {
	return &BannerStore{f: newFamily(db, "banner_settings")}
}

func scanBanner(r row) (*domain.BannerSettings, error) {
	b := &domain.BannerSettings{}
	if err := r.Scan(&b.ID, &b.ImageURL, &b.StorageKey, &b.HeightPx, &b.IsActive, &b.CreatedAt); err != nil {
		return nil, err
	}
	b.CreatedAt = b.CreatedAt.UTC()
	return b, nil
}

func (s *BannerStore) GetCurrent(ctx context.Context) (*domain.BannerSettings, error) {
	b, err := scanBanner(s.f.db.QueryRowContext(ctx, `SELECT `+bannerColumns+` FROM banner_settings`+currentOrder))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistence("failed to get current banner", err)
	}
	return b, nil
}

func (s *BannerStore) GetByID(ctx context.Context, id int64) (*domain.BannerSettings, error) {
	b, err := scanBanner(s.f.db.QueryRowContext(ctx, `SELECT `+bannerColumns+` FROM banner_settings WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistence("failed to get banner", err)
	}
	return b, nil
}

func (s *BannerStore) CreateVersion(ctx context.Context, in domain.BannerInput) (*domain.BannerSettings, error) {
	if err := domain.Validate(in); err != nil {
		return nil, err
	}

	createdAt := s.f.now()
	id, err := s.f.insertActive(ctx, `
		INSERT INTO banner_settings (image_url, storage_key, height_px, is_active, created_at)
		VALUES (?, ?, ?, 1, ?)
	`, in.ImageURL, in.StorageKey, in.HeightPx, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create banner: %w", err)
	}

	return &domain.BannerSettings{
		ID:         id,
		ImageURL:   in.ImageURL,
		StorageKey: in.StorageKey,
		HeightPx:   in.HeightPx,
		IsActive:   true,
		CreatedAt:  createdAt,
	}, nil
}

func (s *BannerStore) Update(ctx context.Context, id int64, patch domain.BannerPatch) (*domain.BannerSettings, error) {
	var updated *domain.BannerSettings
	err := s.f.withTx(ctx, func(tx *sql.Tx) error {
		cur, err := scanBanner(tx.QueryRowContext(ctx, `SELECT `+bannerColumns+` FROM banner_settings WHERE id = ?`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return persistence("failed to load banner", err)
		}

		in := cur.BannerInput()
		patch.Apply(&in)
		if err := domain.Validate(in); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE banner_settings SET image_url = ?, height_px = ? WHERE id = ?
		`, in.ImageURL, in.HeightPx, id); err != nil {
			return persistence("failed to update banner", err)
		}

		cur.ImageURL = in.ImageURL
		cur.HeightPx = in.HeightPx
		updated = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
