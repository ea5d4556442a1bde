package domain

import (
	"github.com/shopspring/decimal"
)

// Inputs carry the caller-supplied fields of a new record. Patches carry the
// fields of a partial update; nil means "leave unchanged".

type RateQuoteInput struct {
	Gold24kSale         decimal.Decimal `json:"gold_24k_sale" validate:"nonneg_decimal"`
	Gold24kPurchase     decimal.Decimal `json:"gold_24k_purchase" validate:"nonneg_decimal"`
	Gold22kSale         decimal.Decimal `json:"gold_22k_sale" validate:"nonneg_decimal"`
	Gold22kPurchase     decimal.Decimal `json:"gold_22k_purchase" validate:"nonneg_decimal"`
	Gold18kSale         decimal.Decimal `json:"gold_18k_sale" validate:"nonneg_decimal"`
	Gold18kPurchase     decimal.Decimal `json:"gold_18k_purchase" validate:"nonneg_decimal"`
	SilverPerKgSale     decimal.Decimal `json:"silver_per_kg_sale" validate:"nonneg_decimal"`
	SilverPerKgPurchase decimal.Decimal `json:"silver_per_kg_purchase" validate:"nonneg_decimal"`
}

// RateInput converts q back into the writable fields.
func (q RateQuote) RateInput() RateQuoteInput {
	return RateQuoteInput{
		Gold24kSale:         q.Gold24kSale,
		Gold24kPurchase:     q.Gold24kPurchase,
		Gold22kSale:         q.Gold22kSale,
		Gold22kPurchase:     q.Gold22kPurchase,
		Gold18kSale:         q.Gold18kSale,
		Gold18kPurchase:     q.Gold18kPurchase,
		SilverPerKgSale:     q.SilverPerKgSale,
		SilverPerKgPurchase: q.SilverPerKgPurchase,
	}
}

type RateQuotePatch struct {
	Gold24kSale         *decimal.Decimal `json:"gold_24k_sale"`
	Gold24kPurchase     *decimal.Decimal `json:"gold_24k_purchase"`
	Gold22kSale         *decimal.Decimal `json:"gold_22k_sale"`
	Gold22kPurchase     *decimal.Decimal `json:"gold_22k_purchase"`
	Gold18kSale         *decimal.Decimal `json:"gold_18k_sale"`
	Gold18kPurchase     *decimal.Decimal `json:"gold_18k_purchase"`
	SilverPerKgSale     *decimal.Decimal `json:"silver_per_kg_sale"`
	SilverPerKgPurchase *decimal.Decimal `json:"silver_per_kg_purchase"`
}

// Input turns a full submission into a RateQuoteInput. Every rate must be
// present; an explicit zero is allowed, an absent field is not.
func (p RateQuotePatch) Input() (RateQuoteInput, error) {
	fields := []struct {
		name string
		v    *decimal.Decimal
	}{
		{"gold_24k_sale", p.Gold24kSale},
		{"gold_24k_purchase", p.Gold24kPurchase},
		{"gold_22k_sale", p.Gold22kSale},
		{"gold_22k_purchase", p.Gold22kPurchase},
		{"gold_18k_sale", p.Gold18kSale},
		{"gold_18k_purchase", p.Gold18kPurchase},
		{"silver_per_kg_sale", p.SilverPerKgSale},
		{"silver_per_kg_purchase", p.SilverPerKgPurchase},
	}
	missing := make(map[string]string)
	for _, f := range fields {
		if f.v == nil {
			missing[f.name] = "required"
		}
	}
	if len(missing) > 0 {
		return RateQuoteInput{}, &ValidationError{Fields: missing}
	}

	var in RateQuoteInput
	p.Apply(&in)
	return in, Validate(in)
}

func (p RateQuotePatch) Apply(in *RateQuoteInput) {
	setIf(&in.Gold24kSale, p.Gold24kSale)
	setIf(&in.Gold24kPurchase, p.Gold24kPurchase)
	setIf(&in.Gold22kSale, p.Gold22kSale)
	setIf(&in.Gold22kPurchase, p.Gold22kPurchase)
	setIf(&in.Gold18kSale, p.Gold18kSale)
	setIf(&in.Gold18kPurchase, p.Gold18kPurchase)
	setIf(&in.SilverPerKgSale, p.SilverPerKgSale)
	setIf(&in.SilverPerKgPurchase, p.SilverPerKgPurchase)
}

type DisplaySettingsInput struct {
	Orientation                 Orientation      `json:"orientation" validate:"oneof=horizontal vertical"`
	BackgroundColor             string           `json:"background_color" validate:"hexcolor"`
	TextColor                   string           `json:"text_color" validate:"hexcolor"`
	RateFontSize                string           `json:"rate_font_size" validate:"required,max=32"`
	ShowMedia                   bool             `json:"show_media"`
	RatesDisplayDurationSeconds int              `json:"rates_display_duration_seconds" validate:"min=1"`
	DefaultMediaDurationSeconds int              `json:"default_media_duration_seconds" validate:"min=1"`
	DefaultPromoDurationSeconds int              `json:"default_promo_duration_seconds" validate:"min=1"`
	DefaultTransitionEffect     TransitionEffect `json:"default_transition_effect" validate:"oneof=fade slide zoom none"`
	RefreshIntervalSeconds      int              `json:"refresh_interval_seconds" validate:"min=1"`
}

// SettingsInput converts s back into the writable fields.
func (s DisplaySettings) SettingsInput() DisplaySettingsInput {
	return DisplaySettingsInput{
		Orientation:                 s.Orientation,
		BackgroundColor:             s.BackgroundColor,
		TextColor:                   s.TextColor,
		RateFontSize:                s.RateFontSize,
		ShowMedia:                   s.ShowMedia,
		RatesDisplayDurationSeconds: s.RatesDisplayDurationSeconds,
		DefaultMediaDurationSeconds: s.DefaultMediaDurationSeconds,
		DefaultPromoDurationSeconds: s.DefaultPromoDurationSeconds,
		DefaultTransitionEffect:     s.DefaultTransitionEffect,
		RefreshIntervalSeconds:      s.RefreshIntervalSeconds,
	}
}

type DisplaySettingsPatch struct {
	Orientation                 *Orientation      `json:"orientation"`
	BackgroundColor             *string           `json:"background_color"`
	TextColor                   *string           `json:"text_color"`
	RateFontSize                *string           `json:"rate_font_size"`
	ShowMedia                   *bool             `json:"show_media"`
	RatesDisplayDurationSeconds *int              `json:"rates_display_duration_seconds"`
	DefaultMediaDurationSeconds *int              `json:"default_media_duration_seconds"`
	DefaultPromoDurationSeconds *int              `json:"default_promo_duration_seconds"`
	DefaultTransitionEffect     *TransitionEffect `json:"default_transition_effect"`
	RefreshIntervalSeconds      *int              `json:"refresh_interval_seconds"`
}

func (p DisplaySettingsPatch) Apply(in *DisplaySettingsInput) {
	setIf(&in.Orientation, p.Orientation)
	setIf(&in.BackgroundColor, p.BackgroundColor)
	setIf(&in.TextColor, p.TextColor)
	setIf(&in.RateFontSize, p.RateFontSize)
	setIf(&in.ShowMedia, p.ShowMedia)
	setIf(&in.RatesDisplayDurationSeconds, p.RatesDisplayDurationSeconds)
	setIf(&in.DefaultMediaDurationSeconds, p.DefaultMediaDurationSeconds)
	setIf(&in.DefaultPromoDurationSeconds, p.DefaultPromoDurationSeconds)
	setIf(&in.DefaultTransitionEffect, p.DefaultTransitionEffect)
	setIf(&in.RefreshIntervalSeconds, p.RefreshIntervalSeconds)
}

type MediaItemInput struct {
	Name            string    `json:"name" validate:"required,max=255"`
	URL             string    `json:"url" validate:"required,max=2048"`
	StorageKey      string    `json:"storage_key" validate:"max=512"`
	Kind            MediaKind `json:"kind" validate:"oneof=image video"`
	DurationSeconds int       `json:"duration_seconds" validate:"min=1"`
	IsActive        bool      `json:"is_active"`
	SizeBytes       int64     `json:"size_bytes" validate:"gte=0"`
	MimeType        string    `json:"mime_type" validate:"max=127"`
}

// MediaItemPatch may also move an item within the playlist via OrderIndex.
type MediaItemPatch struct {
	Name            *string    `json:"name"`
	URL             *string    `json:"url"`
	Kind            *MediaKind `json:"kind"`
	DurationSeconds *int       `json:"duration_seconds"`
	OrderIndex      *int       `json:"order_index" validate:"omitnil,min=1"`
	IsActive        *bool      `json:"is_active"`
}

func (p MediaItemPatch) Apply(m *MediaItem) {
	setIf(&m.Name, p.Name)
	setIf(&m.URL, p.URL)
	setIf(&m.Kind, p.Kind)
	setIf(&m.DurationSeconds, p.DurationSeconds)
	setIf(&m.OrderIndex, p.OrderIndex)
	setIf(&m.IsActive, p.IsActive)
}

// MediaInput converts m back into the validated writable fields.
func (m MediaItem) MediaInput() MediaItemInput {
	return MediaItemInput{
		Name:            m.Name,
		URL:             m.URL,
		StorageKey:      m.StorageKey,
		Kind:            m.Kind,
		DurationSeconds: m.DurationSeconds,
		IsActive:        m.IsActive,
		SizeBytes:       m.SizeBytes,
		MimeType:        m.MimeType,
	}
}

type PromoImageInput struct {
	Name             string           `json:"name" validate:"required,max=255"`
	URL              string           `json:"url" validate:"required,max=2048"`
	StorageKey       string           `json:"storage_key" validate:"max=512"`
	DurationSeconds  int              `json:"duration_seconds" validate:"min=1"`
	TransitionEffect TransitionEffect `json:"transition_effect" validate:"oneof=fade slide zoom none"`
	IsActive         bool             `json:"is_active"`
	SizeBytes        int64            `json:"size_bytes" validate:"gte=0"`
}

type PromoImagePatch struct {
	Name             *string           `json:"name"`
	URL              *string           `json:"url"`
	DurationSeconds  *int              `json:"duration_seconds" validate:"omitnil,min=1"`
	TransitionEffect *TransitionEffect `json:"transition_effect" validate:"omitnil,oneof=fade slide zoom none"`
	OrderIndex       *int              `json:"order_index" validate:"omitnil,min=1"`
	IsActive         *bool             `json:"is_active"`
}

func (p PromoImagePatch) Apply(m *PromoImage) {
	setIf(&m.Name, p.Name)
	setIf(&m.URL, p.URL)
	setIf(&m.DurationSeconds, p.DurationSeconds)
	setIf(&m.TransitionEffect, p.TransitionEffect)
	setIf(&m.OrderIndex, p.OrderIndex)
	setIf(&m.IsActive, p.IsActive)
}

// PromoInput converts p back into the validated writable fields.
func (p PromoImage) PromoInput() PromoImageInput {
	return PromoImageInput{
		Name:             p.Name,
		URL:              p.URL,
		StorageKey:       p.StorageKey,
		DurationSeconds:  p.DurationSeconds,
		TransitionEffect: p.TransitionEffect,
		IsActive:         p.IsActive,
		SizeBytes:        p.SizeBytes,
	}
}

type BannerInput struct {
	ImageURL   string `json:"image_url" validate:"required,max=2048"`
	StorageKey string `json:"storage_key" validate:"max=512"`
	HeightPx   int    `json:"height_px" validate:"gte=0,lte=4320"`
}

// BannerInput converts b back into the writable fields.
func (b BannerSettings) BannerInput() BannerInput {
	return BannerInput{
		ImageURL:   b.ImageURL,
		StorageKey: b.StorageKey,
		HeightPx:   b.HeightPx,
	}
}

type BannerPatch struct {
	ImageURL *string `json:"image_url"`
	HeightPx *int    `json:"height_px"`
}

func (p BannerPatch) Apply(in *BannerInput) {
	setIf(&in.ImageURL, p.ImageURL)
	setIf(&in.HeightPx, p.HeightPx)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
