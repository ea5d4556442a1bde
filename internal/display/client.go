// Package display drives a rate board screen: it polls the server for the
// published records, feeds them to the rotation scheduler and renders what
// the scheduler says is on screen.
package display

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vbonduro/rateboard/internal/domain"
)

// Client reads the board's published records over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// CurrentRates returns the current quote, or nil when none has been published.
func (c *Client) CurrentRates(ctx context.Context) (*domain.RateQuote, error) {
	var q *domain.RateQuote
	return q, c.getJSON(ctx, "/api/rates/current", &q)
}

// Settings returns the current display settings, or nil when none are saved.
func (c *Client) Settings(ctx context.Context) (*domain.DisplaySettings, error) {
	var ds *domain.DisplaySettings
	return ds, c.getJSON(ctx, "/api/settings/display", &ds)
}

func (c *Client) ActiveMedia(ctx context.Context) ([]*domain.MediaItem, error) {
	var items []*domain.MediaItem
	return items, c.getJSON(ctx, "/api/media?active=true", &items)
}

func (c *Client) ActivePromos(ctx context.Context) ([]*domain.PromoImage, error) {
	var promos []*domain.PromoImage
	return promos, c.getJSON(ctx, "/api/promo?active=true", &promos)
}

func (c *Client) Banner(ctx context.Context) (*domain.BannerSettings, error) {
	var b *domain.BannerSettings
	return b, c.getJSON(ctx, "/api/banner", &b)
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("GET %s: decode: %w", path, err)
	}
	return nil
}
