package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/vbonduro/rateboard/internal/domain"
	"github.com/vbonduro/rateboard/internal/imageproc"
)

// Upload is one received file. MimeType must be sniffed from Data by the
// caller, not taken from the client.
type Upload struct {
	Filename string
	MimeType string
	Data     []byte
}

// UploadPolicy bounds what a family accepts.
type UploadPolicy struct {
	MaxBytes int64
	Allowed  []string
}

// MaxFilesPerUpload caps the files accepted by one media or promo upload.
const MaxFilesPerUpload = 10

var (
	MediaPolicy = UploadPolicy{
		MaxBytes: 50 << 20,
		Allowed:  []string{"image/jpeg", "image/png", "image/gif", "video/mp4", "video/x-msvideo", "video/quicktime"},
	}
	PromoPolicy = UploadPolicy{
		MaxBytes: 10 << 20,
		Allowed:  []string{"image/jpeg", "image/png", "image/gif"},
	}
	BannerPolicy = UploadPolicy{
		MaxBytes: 5 << 20,
		Allowed:  []string{"image/jpeg", "image/png"},
	}
)

func (p UploadPolicy) check(field string, u Upload) error {
	if int64(len(u.Data)) > p.MaxBytes {
		return domain.NewValidationError(field, fmt.Sprintf("max_bytes=%d", p.MaxBytes))
	}
	if !slices.Contains(p.Allowed, u.MimeType) {
		return domain.NewValidationError(field, "mime_type="+strings.Join(p.Allowed, " "))
	}
	return nil
}

func checkBatch(field string, policy UploadPolicy, files []Upload) error {
	if len(files) == 0 {
		return domain.NewValidationError(field, "required")
	}
	if len(files) > MaxFilesPerUpload {
		return domain.NewValidationError(field, fmt.Sprintf("max=%d", MaxFilesPerUpload))
	}
	for _, u := range files {
		if err := policy.check(field, u); err != nil {
			return err
		}
	}
	return nil
}

type MediaUploadOptions struct {
	// DurationSeconds applies to every file; zero means the settings default.
	DurationSeconds int
	AutoActivate    bool
}

type PromoUploadOptions struct {
	DurationSeconds int
	// Transition defaults to the settings' default transition when empty.
	Transition   domain.TransitionEffect
	AutoActivate bool
}

type BannerUploadOptions struct {
	// HeightPx keeps the current banner's height when nil.
	HeightPx *int
}

// UploadMedia stores the files and appends one media item per file, in order.
// Every file is checked before any is stored. If creating an item fails, its
// file is removed and the items created so far are kept.
func (s *BoardService) UploadMedia(ctx context.Context, files []Upload, opts MediaUploadOptions) ([]*domain.MediaItem, error) {
	if err := checkBatch("files", MediaPolicy, files); err != nil {
		return nil, err
	}

	defaults, err := s.defaults(ctx)
	if err != nil {
		return nil, err
	}
	duration := opts.DurationSeconds
	if duration <= 0 {
		duration = defaults.DefaultMediaDurationSeconds
	}

	items := make([]*domain.MediaItem, 0, len(files))
	for _, u := range files {
		key, err := s.saveBlob(ctx, FamilyMedia, u)
		if err != nil {
			return items, err
		}

		kind := domain.MediaKindImage
		if strings.HasPrefix(u.MimeType, "video/") {
			kind = domain.MediaKindVideo
		}
		item, err := s.media.Create(ctx, domain.MediaItemInput{
			Name:            displayName(u.Filename, key),
			URL:             uploadURL(key),
			StorageKey:      key,
			Kind:            kind,
			DurationSeconds: duration,
			IsActive:        opts.AutoActivate,
			SizeBytes:       int64(len(u.Data)),
			MimeType:        u.MimeType,
		})
		if err != nil {
			s.removeBlob(ctx, key)
			return items, fmt.Errorf("failed to create media item: %w", err)
		}
		s.metrics.RecordVersion(FamilyMedia)
		items = append(items, item)
	}

	s.logger.Info("media uploaded", "count", len(items))
	return items, nil
}

// UploadPromo stores the images, shrinking any wider than the configured
// maximum, and appends one promo image per file. Files and options are all
// checked before any file is stored.
func (s *BoardService) UploadPromo(ctx context.Context, files []Upload, opts PromoUploadOptions) ([]*domain.PromoImage, error) {
	if err := checkBatch("files", PromoPolicy, files); err != nil {
		return nil, err
	}

	defaults, err := s.defaults(ctx)
	if err != nil {
		return nil, err
	}
	duration := opts.DurationSeconds
	if duration <= 0 {
		duration = defaults.DefaultPromoDurationSeconds
	}
	transition := opts.Transition
	if transition == "" {
		transition = defaults.DefaultTransitionEffect
	}

	if err := domain.Validate(domain.PromoImagePatch{DurationSeconds: &duration, TransitionEffect: &transition}); err != nil {
		return nil, err
	}
	// Every image is decoded and shrunk before the first one is stored.
	prepared := make([]Upload, 0, len(files))
	for _, u := range files {
		u, err := s.shrink("files", u)
		if err != nil {
			return nil, err
		}
		prepared = append(prepared, u)
	}

	promos := make([]*domain.PromoImage, 0, len(prepared))
	for _, u := range prepared {
		key, err := s.saveBlob(ctx, FamilyPromo, u)
		if err != nil {
			return promos, err
		}

		p, err := s.promo.Create(ctx, domain.PromoImageInput{
			Name:             displayName(u.Filename, key),
			URL:              uploadURL(key),
			StorageKey:       key,
			DurationSeconds:  duration,
			TransitionEffect: transition,
			IsActive:         opts.AutoActivate,
			SizeBytes:        int64(len(u.Data)),
		})
		if err != nil {
			s.removeBlob(ctx, key)
			return promos, fmt.Errorf("failed to create promo image: %w", err)
		}
		s.metrics.RecordVersion(FamilyPromo)
		promos = append(promos, p)
	}

	s.logger.Info("promo images uploaded", "count", len(promos))
	return promos, nil
}

// UploadBanner stores the image and publishes it as the new active banner.
func (s *BoardService) UploadBanner(ctx context.Context, u Upload, opts BannerUploadOptions) (*domain.BannerSettings, error) {
	if err := BannerPolicy.check("banner", u); err != nil {
		return nil, err
	}

	height := domain.DefaultBannerHeightPx
	if opts.HeightPx != nil {
		height = *opts.HeightPx
	} else {
		cur, err := s.banner.GetCurrent(ctx)
		if err != nil {
			return nil, err
		}
		if cur != nil {
			height = cur.HeightPx
		}
	}

	u, err := s.shrink("banner", u)
	if err != nil {
		return nil, err
	}
	key, err := s.saveBlob(ctx, FamilyBanner, u)
	if err != nil {
		return nil, err
	}

	b, err := s.banner.CreateVersion(ctx, domain.BannerInput{
		ImageURL:   uploadURL(key),
		StorageKey: key,
		HeightPx:   height,
	})
	if err != nil {
		s.removeBlob(ctx, key)
		return nil, fmt.Errorf("failed to create banner: %w", err)
	}
	s.metrics.RecordVersion(FamilyBanner)
	s.logger.Info("banner uploaded", "id", b.ID, "storage_key", key)
	return b, nil
}

// OpenUpload returns the stored file for key and its MIME type.
func (s *BoardService) OpenUpload(ctx context.Context, key string) (io.ReadCloser, string, error) {
	return s.blobs.Get(ctx, key)
}

func (s *BoardService) saveBlob(ctx context.Context, family string, u Upload) (string, error) {
	key, err := s.blobs.Save(ctx, family, u.MimeType, bytes.NewReader(u.Data))
	if err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	s.metrics.RecordUpload(family, int64(len(u.Data)))
	s.logger.Debug("upload saved", "family", family, "storage_key", key, "bytes", len(u.Data))
	return key, nil
}

func (s *BoardService) shrink(field string, u Upload) (Upload, error) {
	data, resized, err := imageproc.Downscale(u.Data, u.MimeType, s.maxImageWidth)
	if err != nil {
		return u, domain.NewValidationError(field, "image")
	}
	if resized {
		s.logger.Debug("image downscaled", "filename", u.Filename, "from_bytes", len(u.Data), "to_bytes", len(data))
		u.Data = data
	}
	return u, nil
}

// defaults returns the current settings, or the built-in defaults when none
// have been saved.
func (s *BoardService) defaults(ctx context.Context) (domain.DisplaySettings, error) {
	cur, err := s.settings.GetCurrent(ctx)
	if err != nil {
		return domain.DisplaySettings{}, err
	}
	if cur == nil {
		return domain.DefaultDisplaySettings(), nil
	}
	return *cur, nil
}

func displayName(filename, key string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = path.Base(key)
	}
	if runes := []rune(name); len(runes) > 255 {
		name = string(runes[:255])
	}
	return name
}
