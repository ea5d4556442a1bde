package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MinDurationSeconds is the shortest display duration any record may carry.
const MinDurationSeconds = 1

type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

type TransitionEffect string

const (
	TransitionFade  TransitionEffect = "fade"
	TransitionSlide TransitionEffect = "slide"
	TransitionZoom  TransitionEffect = "zoom"
	TransitionNone  TransitionEffect = "none"
)

type Orientation string

const (
	OrientationHorizontal Orientation = "horizontal"
	OrientationVertical   Orientation = "vertical"
)

// RateQuote is one submission of gold and silver rates. At most one quote is
// active at a time.
type RateQuote struct {
	ID                  int64           `json:"id"`
	Gold24kSale         decimal.Decimal `json:"gold_24k_sale"`
	Gold24kPurchase     decimal.Decimal `json:"gold_24k_purchase"`
	Gold22kSale         decimal.Decimal `json:"gold_22k_sale"`
	Gold22kPurchase     decimal.Decimal `json:"gold_22k_purchase"`
	Gold18kSale         decimal.Decimal `json:"gold_18k_sale"`
	Gold18kPurchase     decimal.Decimal `json:"gold_18k_purchase"`
	SilverPerKgSale     decimal.Decimal `json:"silver_per_kg_sale"`
	SilverPerKgPurchase decimal.Decimal `json:"silver_per_kg_purchase"`
	IsActive            bool            `json:"is_active"`
	CreatedAt           time.Time       `json:"created_at"`
}

type DisplaySettings struct {
	ID                          int64            `json:"id"`
	Orientation                 Orientation      `json:"orientation"`
	BackgroundColor             string           `json:"background_color"`
	TextColor                   string           `json:"text_color"`
	RateFontSize                string           `json:"rate_font_size"`
	ShowMedia                   bool             `json:"show_media"`
	RatesDisplayDurationSeconds int              `json:"rates_display_duration_seconds"`
	DefaultMediaDurationSeconds int              `json:"default_media_duration_seconds"`
	DefaultPromoDurationSeconds int              `json:"default_promo_duration_seconds"`
	DefaultTransitionEffect     TransitionEffect `json:"default_transition_effect"`
	RefreshIntervalSeconds      int              `json:"refresh_interval_seconds"`
	IsActive                    bool             `json:"is_active"`
	CreatedAt                   time.Time        `json:"created_at"`
}

type MediaItem struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	URL             string    `json:"url"`
	StorageKey      string    `json:"storage_key,omitempty"`
	Kind            MediaKind `json:"kind"`
	DurationSeconds int       `json:"duration_seconds"`
	OrderIndex      int       `json:"order_index"`
	IsActive        bool      `json:"is_active"`
	SizeBytes       int64     `json:"size_bytes"`
	MimeType        string    `json:"mime_type"`
	CreatedAt       time.Time `json:"created_at"`
}

type PromoImage struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	URL              string           `json:"url"`
	StorageKey       string           `json:"storage_key,omitempty"`
	DurationSeconds  int              `json:"duration_seconds"`
	TransitionEffect TransitionEffect `json:"transition_effect"`
	OrderIndex       int              `json:"order_index"`
	IsActive         bool             `json:"is_active"`
	SizeBytes        int64            `json:"size_bytes"`
	CreatedAt        time.Time        `json:"created_at"`
}

type BannerSettings struct {
	ID         int64     `json:"id"`
	ImageURL   string    `json:"image_url"`
	StorageKey string    `json:"storage_key,omitempty"`
	HeightPx   int       `json:"height_px"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// DefaultDisplaySettings returns the settings a display falls back to before
// any have been saved.
func DefaultDisplaySettings() DisplaySettings {
	return DisplaySettings{
		Orientation:                 OrientationHorizontal,
		BackgroundColor:             "#FFF8E1",
		TextColor:                   "#212529",
		RateFontSize:                "text-4xl",
		ShowMedia:                   true,
		RatesDisplayDurationSeconds: 15,
		DefaultMediaDurationSeconds: 30,
		DefaultPromoDurationSeconds: 5,
		DefaultTransitionEffect:     TransitionFade,
		RefreshIntervalSeconds:      30,
	}
}

const (
	DefaultBannerHeightPx = 120
)
