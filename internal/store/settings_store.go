package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vbonduro/rateboard/internal/domain"
)

const settingsColumns = `id, orientation, background_color, text_color, rate_font_size, show_media,
	rates_display_duration_seconds, default_media_duration_seconds, default_promo_duration_seconds,
	default_transition_effect, refresh_interval_seconds, is_active, created_at`

type SettingsStore struct {
	f *family
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{f: newFamily(db, "display_settings")}
}

func scanSettings(r row) (*domain.DisplaySettings, error) {
	s := &domain.DisplaySettings{}
	err := r.Scan(&s.ID, &s.Orientation, &s.BackgroundColor, &s.TextColor, &s.RateFontSize, &s.ShowMedia,
		&s.RatesDisplayDurationSeconds, &s.DefaultMediaDurationSeconds, &s.DefaultPromoDurationSeconds,
		&s.DefaultTransitionEffect, &s.RefreshIntervalSeconds, &s.IsActive, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.CreatedAt = s.CreatedAt.UTC()
	return s, nil
}

func settingsFrom(id int64, in domain.DisplaySettingsInput) *domain.DisplaySettings {
	return &domain.DisplaySettings{
		ID:                          id,
		Orientation:                 in.Orientation,
		BackgroundColor:             in.BackgroundColor,
		TextColor:                   in.TextColor,
		RateFontSize:                in.RateFontSize,
		ShowMedia:                   in.ShowMedia,
		RatesDisplayDurationSeconds: in.RatesDisplayDurationSeconds,
		DefaultMediaDurationSeconds: in.DefaultMediaDurationSeconds,
		DefaultPromoDurationSeconds: in.DefaultPromoDurationSeconds,
		DefaultTransitionEffect:     in.DefaultTransitionEffect,
		RefreshIntervalSeconds:      in.RefreshIntervalSeconds,
	}
}

// GetCurrent returns the active settings, falling back to the newest row, or
// nil when none exist.
func (s *SettingsStore) GetCurrent(ctx context.Context) (*domain.DisplaySettings, error) {
	ds, err := scanSettings(s.f.db.QueryRowContext(ctx, `SELECT `+settingsColumns+` FROM display_settings`+currentOrder))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistence("failed to get current display settings", err)
	}
	return ds, nil
}

func (s *SettingsStore) GetByID(ctx context.Context, id int64) (*domain.DisplaySettings, error) {
	ds, err := scanSettings(s.f.db.QueryRowContext(ctx, `SELECT `+settingsColumns+` FROM display_settings WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistence("failed to get display settings", err)
	}
	return ds, nil
}

func (s *SettingsStore) CreateVersion(ctx context.Context, in domain.DisplaySettingsInput) (*domain.DisplaySettings, error) {
	if err := domain.Validate(in); err != nil {
		return nil, err
	}

	createdAt := s.f.now()
	id, err := s.f.insertActive(ctx, `
		INSERT INTO display_settings (orientation, background_color, text_color, rate_font_size, show_media,
			rates_display_duration_seconds, default_media_duration_seconds, default_promo_duration_seconds,
			default_transition_effect, refresh_interval_seconds, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)
	`, append(settingsArgs(in), createdAt)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create display settings: %w", err)
	}

	ds := settingsFrom(id, in)
	ds.IsActive = true
	ds.CreatedAt = createdAt
	return ds, nil
}

// Update patches the settings row with the given id. Unknown ids yield nil
// without creating anything.
func (s *SettingsStore) Update(ctx context.Context, id int64, patch domain.DisplaySettingsPatch) (*domain.DisplaySettings, error) {
	var updated *domain.DisplaySettings
	err := s.f.withTx(ctx, func(tx *sql.Tx) error {
		cur, err := scanSettings(tx.QueryRowContext(ctx, `SELECT `+settingsColumns+` FROM display_settings WHERE id = ?`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return persistence("failed to load display settings", err)
		}

		in := cur.SettingsInput()
		patch.Apply(&in)
		if err := domain.Validate(in); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE display_settings SET orientation = ?, background_color = ?, text_color = ?, rate_font_size = ?,
				show_media = ?, rates_display_duration_seconds = ?, default_media_duration_seconds = ?,
				default_promo_duration_seconds = ?, default_transition_effect = ?, refresh_interval_seconds = ?
			WHERE id = ?
		`, append(settingsArgs(in), id)...); err != nil {
			return persistence("failed to update display settings", err)
		}

		updated = settingsFrom(cur.ID, in)
		updated.IsActive = cur.IsActive
		updated.CreatedAt = cur.CreatedAt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func settingsArgs(in domain.DisplaySettingsInput) []any {
	return []any{
		string(in.Orientation), in.BackgroundColor, in.TextColor, in.RateFontSize, in.ShowMedia,
		in.RatesDisplayDurationSeconds, in.DefaultMediaDurationSeconds, in.DefaultPromoDurationSeconds,
		string(in.DefaultTransitionEffect), in.RefreshIntervalSeconds,
	}
}
