package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vbonduro/rateboard/internal/domain"
)

const promoColumns = `id, name, url, storage_key, duration_seconds, transition_effect, order_index,
	is_active, size_bytes, created_at`

type PromoStore struct {
	f *family
}

func NewPromoStore(db *sql.DB) *PromoStore {
	return &PromoStore{f: newFamily(db, "promo_images")}
}

func scanPromo(r row) (*domain.PromoImage, error) {
	p := &domain.PromoImage{}
	err := r.Scan(&p.ID, &p.Name, &p.URL, &p.StorageKey, &p.DurationSeconds, &p.TransitionEffect,
		&p.OrderIndex, &p.IsActive, &p.SizeBytes, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}

func (s *PromoStore) Create(ctx context.Context, in domain.PromoImageInput) (*domain.PromoImage, error) {
	if err := domain.Validate(in); err != nil {
		return nil, err
	}

	id, err := s.f.appendRow(ctx, `
		INSERT INTO promo_images (name, url, storage_key, duration_seconds, transition_effect, order_index,
			is_active, size_bytes, created_at)
		SELECT ?, ?, ?, ?, ?, COALESCE(MAX(order_index), 0) + 1, ?, ?, ? FROM promo_images
	`, in.Name, in.URL, in.StorageKey, in.DurationSeconds, string(in.TransitionEffect), in.IsActive,
		in.SizeBytes, s.f.now())
	if err != nil {
		return nil, fmt.Errorf("failed to create promo image: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *PromoStore) GetByID(ctx context.Context, id int64) (*domain.PromoImage, error) {
	p, err := scanPromo(s.f.db.QueryRowContext(ctx, `SELECT `+promoColumns+` FROM promo_images WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistence("failed to get promo image", err)
	}
	return p, nil
}

func (s *PromoStore) List(ctx context.Context, activeOnly bool) ([]*domain.PromoImage, error) {
	query := `SELECT ` + promoColumns + ` FROM promo_images`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	rows, err := s.f.db.QueryContext(ctx, query+playlistOrder)
	if err != nil {
		return nil, persistence("failed to list promo images", err)
	}
	defer closeRows(rows)

	promos := []*domain.PromoImage{}
	for rows.Next() {
		p, err := scanPromo(rows)
		if err != nil {
			return nil, persistence("failed to scan promo image", err)
		}
		promos = append(promos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("error iterating promo images", err)
	}
	return promos, nil
}

func (s *PromoStore) Update(ctx context.Context, id int64, patch domain.PromoImagePatch) (*domain.PromoImage, error) {
	if err := domain.Validate(patch); err != nil {
		return nil, err
	}

	var updated *domain.PromoImage
	err := s.f.withTx(ctx, func(tx *sql.Tx) error {
		p, err := scanPromo(tx.QueryRowContext(ctx, `SELECT `+promoColumns+` FROM promo_images WHERE id = ?`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return persistence("failed to load promo image", err)
		}

		patch.Apply(p)
		if err := domain.Validate(p.PromoInput()); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE promo_images SET name = ?, url = ?, duration_seconds = ?, transition_effect = ?,
				order_index = ?, is_active = ?
			WHERE id = ?
		`, p.Name, p.URL, p.DurationSeconds, string(p.TransitionEffect), p.OrderIndex, p.IsActive, id); err != nil {
			return persistence("failed to update promo image", err)
		}

		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *PromoStore) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.f.delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete promo image: %w", err)
	}
	return deleted, nil
}
