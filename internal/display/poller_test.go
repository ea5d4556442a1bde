package display

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/rateboard/internal/domain"
	"github.com/vbonduro/rateboard/internal/rotation"
)

// fakeSource serves fixed records and can be told to fail the media fetch.
type fakeSource struct {
	mu       sync.Mutex
	rates    *domain.RateQuote
	settings *domain.DisplaySettings
	media    []*domain.MediaItem
	promos   []*domain.PromoImage
	banner   *domain.BannerSettings
	mediaErr error
	panicky  bool
}

func (f *fakeSource) CurrentRates(context.Context) (*domain.RateQuote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rates, nil
}

func (f *fakeSource) Settings(context.Context) (*domain.DisplaySettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings, nil
}

func (f *fakeSource) ActiveMedia(context.Context) ([]*domain.MediaItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicky {
		panic("boom")
	}
	return f.media, f.mediaErr
}

func (f *fakeSource) ActivePromos(context.Context) ([]*domain.PromoImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.promos, nil
}

func (f *fakeSource) Banner(context.Context) (*domain.BannerSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.banner, nil
}

func (f *fakeSource) set(fn func(*fakeSource)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func media(ids ...int64) []*domain.MediaItem {
	items := make([]*domain.MediaItem, 0, len(ids))
	for i, id := range ids {
		items = append(items, &domain.MediaItem{ID: id, Name: "m", Kind: domain.MediaKindImage, DurationSeconds: 10, OrderIndex: i + 1, IsActive: true})
	}
	return items
}

func TestRefreshFeedsScheduler(t *testing.T) {
	clock := rotation.NewFakeClock(time.Unix(0, 0))
	sched := rotation.New(clock)
	defer sched.Stop()

	src := &fakeSource{rates: &domain.RateQuote{ID: 1}, media: media(7, 8)}
	p := NewPoller(src, sched, time.Minute, slog.Default())

	var updates int
	p.OnUpdate(func(*Snapshot) { updates++ })

	require.NoError(t, p.Refresh(context.Background()))
	assert.Equal(t, 1, updates)
	require.NotNil(t, p.Snapshot())
	assert.Equal(t, int64(1), p.Snapshot().Rates.ID)

	clock.Advance(15 * time.Second)
	view := sched.View()
	assert.Equal(t, rotation.ShowingMedia, view.State.Mode)
	require.NotNil(t, view.Media)
	assert.Equal(t, int64(7), view.Media.ID)
}

func TestRefreshFailureKeepsLastSnapshot(t *testing.T) {
	sched := rotation.New(rotation.NewFakeClock(time.Unix(0, 0)))
	defer sched.Stop()

	src := &fakeSource{rates: &domain.RateQuote{ID: 1}}
	p := NewPoller(src, sched, time.Minute, slog.Default())
	require.NoError(t, p.Refresh(context.Background()))
	first := p.Snapshot()

	src.set(func(f *fakeSource) {
		f.rates = &domain.RateQuote{ID: 2}
		f.mediaErr = errors.New("connection refused")
	})
	require.Error(t, p.Refresh(context.Background()))
	assert.Same(t, first, p.Snapshot())

	src.set(func(f *fakeSource) { f.mediaErr = nil; f.panicky = true })
	err := p.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
	assert.Same(t, first, p.Snapshot())
}

func TestPollerIntervalFollowsSettings(t *testing.T) {
	sched := rotation.New(rotation.NewFakeClock(time.Unix(0, 0)))
	defer sched.Stop()

	src := &fakeSource{}
	p := NewPoller(src, sched, 0, slog.Default())
	assert.Equal(t, DefaultPollInterval, p.interval())

	ds := domain.DefaultDisplaySettings()
	ds.RefreshIntervalSeconds = 5
	src.set(func(f *fakeSource) { f.settings = &ds })
	require.NoError(t, p.Refresh(context.Background()))
	assert.Equal(t, 5*time.Second, p.interval())
}

func TestRunStopsOnCancel(t *testing.T) {
	sched := rotation.New(rotation.NewFakeClock(time.Unix(0, 0)))
	defer sched.Stop()

	src := &fakeSource{rates: &domain.RateQuote{ID: 1}}
	p := NewPoller(src, sched, 10*time.Millisecond, slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return p.Snapshot() != nil }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
