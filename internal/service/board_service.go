package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vbonduro/rateboard/internal/blobstore"
	"github.com/vbonduro/rateboard/internal/domain"
	"github.com/vbonduro/rateboard/internal/metrics"
)

// rateRepository is the subset of store.RateStore that BoardService requires.
type rateRepository interface {
	GetCurrent(ctx context.Context) (*domain.RateQuote, error)
	CreateVersion(ctx context.Context, in domain.RateQuoteInput) (*domain.RateQuote, error)
	Update(ctx context.Context, id int64, patch domain.RateQuotePatch) (*domain.RateQuote, error)
	History(ctx context.Context, limit int) ([]*domain.RateQuote, error)
}

// settingsRepository is the subset of store.SettingsStore that BoardService requires.
type settingsRepository interface {
	GetCurrent(ctx context.Context) (*domain.DisplaySettings, error)
	CreateVersion(ctx context.Context, in domain.DisplaySettingsInput) (*domain.DisplaySettings, error)
	Update(ctx context.Context, id int64, patch domain.DisplaySettingsPatch) (*domain.DisplaySettings, error)
}

// bannerRepository is the subset of store.BannerStore that BoardService requires.
type bannerRepository interface {
	GetCurrent(ctx context.Context) (*domain.BannerSettings, error)
	CreateVersion(ctx context.Context, in domain.BannerInput) (*domain.BannerSettings, error)
	Update(ctx context.Context, id int64, patch domain.BannerPatch) (*domain.BannerSettings, error)
}

// mediaRepository is the subset of store.MediaStore that BoardService requires.
type mediaRepository interface {
	Create(ctx context.Context, in domain.MediaItemInput) (*domain.MediaItem, error)
	GetByID(ctx context.Context, id int64) (*domain.MediaItem, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.MediaItem, error)
	Update(ctx context.Context, id int64, patch domain.MediaItemPatch) (*domain.MediaItem, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// promoRepository is the subset of store.PromoStore that BoardService requires.
type promoRepository interface {
	Create(ctx context.Context, in domain.PromoImageInput) (*domain.PromoImage, error)
	GetByID(ctx context.Context, id int64) (*domain.PromoImage, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.PromoImage, error)
	Update(ctx context.Context, id int64, patch domain.PromoImagePatch) (*domain.PromoImage, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// Repositories groups the record stores the service is built on.
type Repositories struct {
	Rates    rateRepository
	Settings settingsRepository
	Banner   bannerRepository
	Media    mediaRepository
	Promo    promoRepository
}

// Family names used for blob keys and metric labels.
const (
	FamilyRates    = "rates"
	FamilySettings = "settings"
	FamilyBanner   = "banner"
	FamilyMedia    = "media"
	FamilyPromo    = "promo"
)

type BoardService struct {
	rates         rateRepository
	settings      settingsRepository
	banner        bannerRepository
	media         mediaRepository
	promo         promoRepository
	blobs         blobstore.BlobStore
	metrics       *metrics.Metrics
	maxImageWidth int
	logger        *slog.Logger
}

func NewBoardService(
	repos Repositories,
	blobs blobstore.BlobStore,
	m *metrics.Metrics,
	maxImageWidth int,
	logger *slog.Logger,
) *BoardService {
	return &BoardService{
		rates:         repos.Rates,
		settings:      repos.Settings,
		banner:        repos.Banner,
		media:         repos.Media,
		promo:         repos.Promo,
		blobs:         blobs,
		metrics:       m,
		maxImageWidth: maxImageWidth,
		logger:        logger,
	}
}

func (s *BoardService) CurrentRates(ctx context.Context) (*domain.RateQuote, error) {
	return s.rates.GetCurrent(ctx)
}

// CreateRates publishes a new rate quote and makes it the active one.
func (s *BoardService) CreateRates(ctx context.Context, in domain.RateQuoteInput) (*domain.RateQuote, error) {
	q, err := s.rates.CreateVersion(ctx, in)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordVersion(FamilyRates)
	s.logger.Info("rates published", "id", q.ID, "gold_24k_sale", q.Gold24kSale.String())
	return q, nil
}

func (s *BoardService) UpdateRates(ctx context.Context, id int64, patch domain.RateQuotePatch) (*domain.RateQuote, error) {
	return s.rates.Update(ctx, id, patch)
}

func (s *BoardService) RateHistory(ctx context.Context, limit int) ([]*domain.RateQuote, error) {
	return s.rates.History(ctx, limit)
}

func (s *BoardService) CurrentSettings(ctx context.Context) (*domain.DisplaySettings, error) {
	return s.settings.GetCurrent(ctx)
}

func (s *BoardService) CreateSettings(ctx context.Context, in domain.DisplaySettingsInput) (*domain.DisplaySettings, error) {
	ds, err := s.settings.CreateVersion(ctx, in)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordVersion(FamilySettings)
	return ds, nil
}

func (s *BoardService) UpdateSettings(ctx context.Context, id int64, patch domain.DisplaySettingsPatch) (*domain.DisplaySettings, error) {
	return s.settings.Update(ctx, id, patch)
}

// UpdateCurrentSettings patches the current settings. When none exist yet,
// the patch is applied to the defaults and saved as the first version.
func (s *BoardService) UpdateCurrentSettings(ctx context.Context, patch domain.DisplaySettingsPatch) (*domain.DisplaySettings, error) {
	cur, err := s.settings.GetCurrent(ctx)
	if err != nil {
		return nil, err
	}
	if cur != nil {
		return s.settings.Update(ctx, cur.ID, patch)
	}

	in := domain.DefaultDisplaySettings().SettingsInput()
	patch.Apply(&in)
	return s.CreateSettings(ctx, in)
}

func (s *BoardService) ListMedia(ctx context.Context, activeOnly bool) ([]*domain.MediaItem, error) {
	return s.media.List(ctx, activeOnly)
}

// CreateMedia appends an item to the playlist. A zero duration takes the
// current settings' default.
func (s *BoardService) CreateMedia(ctx context.Context, in domain.MediaItemInput) (*domain.MediaItem, error) {
	if in.DurationSeconds == 0 {
		defaults, err := s.defaults(ctx)
		if err != nil {
			return nil, err
		}
		in.DurationSeconds = defaults.DefaultMediaDurationSeconds
	}
	m, err := s.media.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordVersion(FamilyMedia)
	return m, nil
}

func (s *BoardService) UpdateMedia(ctx context.Context, id int64, patch domain.MediaItemPatch) (*domain.MediaItem, error) {
	return s.media.Update(ctx, id, patch)
}

// DeleteMedia removes the item and its uploaded file, if any. It reports
// false when no item has the id.
func (s *BoardService) DeleteMedia(ctx context.Context, id int64) (bool, error) {
	m, err := s.media.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if m == nil {
		return false, nil
	}
	deleted, err := s.media.Delete(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}
	s.removeBlob(ctx, m.StorageKey)
	return true, nil
}

func (s *BoardService) ListPromos(ctx context.Context, activeOnly bool) ([]*domain.PromoImage, error) {
	return s.promo.List(ctx, activeOnly)
}

func (s *BoardService) CreatePromo(ctx context.Context, in domain.PromoImageInput) (*domain.PromoImage, error) {
	if in.DurationSeconds == 0 || in.TransitionEffect == "" {
		defaults, err := s.defaults(ctx)
		if err != nil {
			return nil, err
		}
		if in.DurationSeconds == 0 {
			in.DurationSeconds = defaults.DefaultPromoDurationSeconds
		}
		if in.TransitionEffect == "" {
			in.TransitionEffect = defaults.DefaultTransitionEffect
		}
	}
	p, err := s.promo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordVersion(FamilyPromo)
	return p, nil
}

func (s *BoardService) UpdatePromo(ctx context.Context, id int64, patch domain.PromoImagePatch) (*domain.PromoImage, error) {
	return s.promo.Update(ctx, id, patch)
}

func (s *BoardService) DeletePromo(ctx context.Context, id int64) (bool, error) {
	p, err := s.promo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if p == nil {
		return false, nil
	}
	deleted, err := s.promo.Delete(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}
	s.removeBlob(ctx, p.StorageKey)
	return true, nil
}

func (s *BoardService) CurrentBanner(ctx context.Context) (*domain.BannerSettings, error) {
	return s.banner.GetCurrent(ctx)
}

func (s *BoardService) CreateBanner(ctx context.Context, in domain.BannerInput) (*domain.BannerSettings, error) {
	b, err := s.banner.CreateVersion(ctx, in)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordVersion(FamilyBanner)
	return b, nil
}

func (s *BoardService) UpdateBanner(ctx context.Context, id int64, patch domain.BannerPatch) (*domain.BannerSettings, error) {
	return s.banner.Update(ctx, id, patch)
}

// removeBlob deletes an uploaded file whose record is gone. Failures are
// logged, not returned: the record deletion already succeeded.
func (s *BoardService) removeBlob(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.blobs.Delete(ctx, key); err != nil && !errors.Is(err, domain.ErrBlobNotFound) {
		s.logger.Error("failed to delete blob", "storage_key", key, "error", err)
	}
}

func uploadURL(key string) string {
	return fmt.Sprintf("/uploads/%s", key)
}
