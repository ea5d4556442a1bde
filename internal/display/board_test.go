package display

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/rateboard/internal/domain"
	"github.com/vbonduro/rateboard/internal/rotation"
)

func sampleQuote() *domain.RateQuote {
	d := decimal.RequireFromString
	return &domain.RateQuote{
		ID:                  3,
		Gold24kSale:         d("7250.5"),
		Gold24kPurchase:     d("7100"),
		Gold22kSale:         d("6650"),
		Gold22kPurchase:     d("6500"),
		Gold18kSale:         d("5440"),
		Gold18kPurchase:     d("5300"),
		SilverPerKgSale:     d("92000"),
		SilverPerKgPurchase: d("90500"),
		IsActive:            true,
		CreatedAt:           time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC),
	}
}

func TestBoardRendersRates(t *testing.T) {
	var buf bytes.Buffer
	b := NewBoard(&buf)

	snap := &Snapshot{
		Rates:  sampleQuote(),
		Banner: &domain.BannerSettings{ImageURL: "/uploads/banner/top.png", HeightPx: 120},
	}
	view := rotation.View{Settings: domain.DefaultDisplaySettings()}
	require.NoError(t, b.Render(snap, view))

	out := buf.String()
	assert.Contains(t, out, "[banner /uploads/banner/top.png, 120px]")
	assert.Contains(t, out, "18 Oct 2026 09:30 UTC")
	assert.Contains(t, out, "Gold 24K (10g)")
	assert.Contains(t, out, "7250.50")
	assert.Contains(t, out, "90500.00")
}

func TestBoardRendersMediaAndPromo(t *testing.T) {
	var buf bytes.Buffer
	b := NewBoard(&buf)

	item := &domain.MediaItem{Name: "intro.mp4", URL: "/uploads/media/x.mp4", Kind: domain.MediaKindVideo, DurationSeconds: 30, SizeBytes: 2_000_000}
	promo := &domain.PromoImage{Name: "sale.png", TransitionEffect: domain.TransitionFade, DurationSeconds: 5}
	snap := &Snapshot{Rates: sampleQuote(), Media: []*domain.MediaItem{item}, Promos: []*domain.PromoImage{promo, promo}}
	view := rotation.View{
		State: rotation.State{Mode: rotation.ShowingMedia, PromoIndex: 1},
		Media: item,
		Promo: promo,
	}
	require.NoError(t, b.Render(snap, view))

	out := buf.String()
	assert.Contains(t, out, "Now showing video 1: intro.mp4")
	assert.Contains(t, out, "2.0 MB")
	assert.Contains(t, out, "Promo 2/2: sale.png (fade, 5s)")
	assert.NotContains(t, out, "Gold 24K")
}

func TestBoardWaitingAndUnpublished(t *testing.T) {
	var buf bytes.Buffer
	b := NewBoard(&buf)

	require.NoError(t, b.Render(nil, rotation.View{}))
	assert.Contains(t, buf.String(), "Waiting for rates")

	buf.Reset()
	require.NoError(t, b.Render(&Snapshot{}, rotation.View{}))
	assert.Contains(t, buf.String(), "Rates not yet published")
}

// syncBuffer guards a bytes.Buffer shared with the render goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestRunRendersAndRotates(t *testing.T) {
	clock := rotation.NewFakeClock(time.Unix(0, 0))
	src := &fakeSource{rates: sampleQuote(), media: media(1)}
	out := &syncBuffer{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Run(ctx, src, clock, time.Hour, out, slog.Default())
		close(done)
	}()

	require.Eventually(t, func() bool {
		return clock.Pending() > 0 && strings.Contains(out.String(), "Gold 24K (10g)")
	}, time.Second, 5*time.Millisecond)

	clock.Advance(15 * time.Second)
	assert.Contains(t, out.String(), "Now showing image 1")

	cancel()
	<-done
	assert.Zero(t, clock.Pending(), "timers are stopped on shutdown")
}
