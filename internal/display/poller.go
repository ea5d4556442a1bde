package display

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vbonduro/rateboard/internal/domain"
	"github.com/vbonduro/rateboard/internal/rotation"
)

// DefaultPollInterval is used when no fallback interval is configured.
const DefaultPollInterval = 30 * time.Second

// Snapshot is one complete read of the board's published records.
type Snapshot struct {
	Rates     *domain.RateQuote
	Settings  *domain.DisplaySettings
	Media     []*domain.MediaItem
	Promos    []*domain.PromoImage
	Banner    *domain.BannerSettings
	FetchedAt time.Time
}

// Source is what the poller reads from. *Client implements it.
type Source interface {
	CurrentRates(ctx context.Context) (*domain.RateQuote, error)
	Settings(ctx context.Context) (*domain.DisplaySettings, error)
	ActiveMedia(ctx context.Context) ([]*domain.MediaItem, error)
	ActivePromos(ctx context.Context) ([]*domain.PromoImage, error)
	Banner(ctx context.Context) (*domain.BannerSettings, error)
}

// Poller refreshes the snapshot on an interval and hands each good one to the
// scheduler. A failed refresh keeps the previous snapshot on screen.
type Poller struct {
	source    Source
	scheduler *rotation.Scheduler
	fallback  time.Duration
	logger    *slog.Logger

	mu       sync.RWMutex
	last     *Snapshot
	onUpdate func(*Snapshot)
}

// NewPoller builds a poller. fallback is the refresh interval used until the
// settings provide one.
func NewPoller(source Source, scheduler *rotation.Scheduler, fallback time.Duration, logger *slog.Logger) *Poller {
	if fallback <= 0 {
		fallback = DefaultPollInterval
	}
	return &Poller{
		source:    source,
		scheduler: scheduler,
		fallback:  fallback,
		logger:    logger,
	}
}

// OnUpdate registers fn to be called after each successful refresh, once the
// scheduler has been updated.
func (p *Poller) OnUpdate(fn func(*Snapshot)) {
	p.mu.Lock()
	p.onUpdate = fn
	p.mu.Unlock()
}

// Snapshot returns the last good snapshot, or nil before the first success.
func (p *Poller) Snapshot() *Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// Run refreshes immediately and then on every tick until ctx is cancelled.
// The tick follows the settings' refresh interval as it changes.
func (p *Poller) Run(ctx context.Context) {
	if err := p.Refresh(ctx); err != nil {
		p.logger.Warn("initial refresh failed", "error", err)
	}

	interval := p.interval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("display polling stopped")
			return
		case <-ticker.C:
			if err := p.Refresh(ctx); err != nil {
				p.logger.Warn("refresh failed", "error", err)
			}
			if next := p.interval(); next != interval {
				p.logger.Debug("refresh interval changed", "from", interval, "to", next)
				interval = next
				ticker.Reset(interval)
			}
		}
	}
}

// Refresh fetches every record family concurrently. The snapshot is only
// replaced when all fetches succeed.
func (p *Poller) Refresh(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("refresh panic recovered", "panic", r)
			err = fmt.Errorf("refresh panicked: %v", r)
		}
	}()

	snap := &Snapshot{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Rates, err = p.source.CurrentRates(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Settings, err = p.source.Settings(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Media, err = p.source.ActiveMedia(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Promos, err = p.source.ActivePromos(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Banner, err = p.source.Banner(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	snap.FetchedAt = time.Now()

	p.mu.Lock()
	p.last = snap
	onUpdate := p.onUpdate
	p.mu.Unlock()

	p.scheduler.Update(rotation.Content{
		Settings: snap.Settings,
		Media:    snap.Media,
		Promos:   snap.Promos,
	})
	if onUpdate != nil {
		onUpdate(snap)
	}
	return nil
}

func (p *Poller) interval() time.Duration {
	snap := p.Snapshot()
	if snap == nil || snap.Settings == nil || snap.Settings.RefreshIntervalSeconds < domain.MinDurationSeconds {
		return p.fallback
	}
	return time.Duration(snap.Settings.RefreshIntervalSeconds) * time.Second
}
