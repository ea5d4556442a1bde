// Package rotation decides what an unattended display shows and when.
//
// The display alternates between the rates board and the media playlist. The
// rates board is shown for the settings' rates duration, then one media item
// for its own duration, then the rates board again, and so on through the
// playlist. Independently, a promo slideshow cycles through promo images.
package rotation

import (
	"log/slog"
	"sync"
	"time"

	"github.com/vbonduro/rateboard/internal/domain"
)

type Mode int

const (
	ShowingRates Mode = iota
	ShowingMedia
)

func (m Mode) String() string {
	switch m {
	case ShowingRates:
		return "rates"
	case ShowingMedia:
		return "media"
	default:
		return "unknown"
	}
}

// State is what the display is showing. MediaIndex is meaningful in
// ShowingMedia; in ShowingRates it is the item that will be shown next.
type State struct {
	Mode       Mode
	MediaIndex int
	PromoIndex int
}

// Content is the part of a loaded snapshot the scheduler needs. Media and
// Promos are the active playlists in display order. A nil Settings means the
// defaults apply.
type Content struct {
	Settings *domain.DisplaySettings
	Media    []*domain.MediaItem
	Promos   []*domain.PromoImage
}

// View is the current state resolved against the current content.
type View struct {
	State    State
	Settings domain.DisplaySettings
	Media    *domain.MediaItem
	Promo    *domain.PromoImage
}

type slot struct {
	timer Timer
	gen   uint64
}

type Scheduler struct {
	clock Clock

	mu       sync.Mutex
	content  Content
	loaded   bool
	stopped  bool
	state    State
	rotation slot
	promo    slot
	onChange func(State)
}

func New(clock Clock) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	return &Scheduler{clock: clock}
}

// OnChange registers fn to be called with every new state. fn runs outside
// the scheduler lock and may call State or View.
//
// The rotation and promo timers fire on their own goroutines, so two calls
// to fn can overlap and arrive in either order. The state passed to fn may
// already be stale; observers that need the latest state should re-read it
// with State or View rather than rely on delivery order.
func (s *Scheduler) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{State: s.state, Settings: s.settings()}
	if s.state.Mode == ShowingMedia && s.state.MediaIndex < len(s.content.Media) {
		v.Media = s.content.Media[s.state.MediaIndex]
	}
	if s.state.PromoIndex < len(s.content.Promos) {
		v.Promo = s.content.Promos[s.state.PromoIndex]
	}
	return v
}

// Update feeds a freshly loaded snapshot. The first call starts the rotation;
// later calls keep the running timers and only correct state the new content
// invalidates.
func (s *Scheduler) Update(c Content) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}

	prev := s.state
	first := !s.loaded
	s.loaded = true
	s.content = c

	if s.state.MediaIndex < 0 || s.state.MediaIndex >= len(c.Media) {
		s.state.MediaIndex = 0
	}
	if s.state.PromoIndex < 0 || s.state.PromoIndex >= len(c.Promos) {
		s.state.PromoIndex = 0
	}

	switch {
	case s.state.Mode == ShowingMedia && !s.mediaEnabled():
		s.state.Mode = ShowingRates
		s.armRotation(s.ratesDuration())
	case first:
		s.armRotation(s.ratesDuration())
	}

	if len(c.Promos) > 1 {
		if s.promo.timer == nil {
			s.armPromo()
		}
	} else {
		s.disarm(&s.promo)
	}

	s.unlockAndNotify(prev)
}

// Stop cancels both timers. Callbacks that were already in flight become
// no-ops and later updates are ignored.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	s.disarm(&s.rotation)
	s.disarm(&s.promo)
}

func (s *Scheduler) onRotation(gen uint64) {
	s.mu.Lock()
	if s.stopped || gen != s.rotation.gen {
		s.mu.Unlock()
		return
	}
	s.rotation.timer = nil
	prev := s.state

	switch s.state.Mode {
	case ShowingRates:
		if s.mediaEnabled() {
			if s.state.MediaIndex >= len(s.content.Media) {
				s.state.MediaIndex = 0
			}
			s.state.Mode = ShowingMedia
			s.armRotation(s.mediaDuration(s.content.Media[s.state.MediaIndex]))
		} else {
			s.armRotation(s.ratesDuration())
		}
	case ShowingMedia:
		s.state.Mode = ShowingRates
		if n := len(s.content.Media); n > 0 {
			s.state.MediaIndex = (s.state.MediaIndex + 1) % n
		} else {
			s.state.MediaIndex = 0
		}
		s.armRotation(s.ratesDuration())
	}

	slog.Debug("rotation", "mode", s.state.Mode.String(), "media_index", s.state.MediaIndex)
	s.unlockAndNotify(prev)
}

func (s *Scheduler) onPromo(gen uint64) {
	s.mu.Lock()
	if s.stopped || gen != s.promo.gen {
		s.mu.Unlock()
		return
	}
	s.promo.timer = nil
	prev := s.state

	if n := len(s.content.Promos); n > 1 {
		s.state.PromoIndex = (s.state.PromoIndex + 1) % n
		s.armPromo()
	} else {
		s.state.PromoIndex = 0
	}

	s.unlockAndNotify(prev)
}

// armRotation replaces the rotation timer. Callers hold mu.
func (s *Scheduler) armRotation(d time.Duration) {
	s.disarm(&s.rotation)
	gen := s.rotation.gen
	s.rotation.timer = s.clock.AfterFunc(d, func() { s.onRotation(gen) })
}

// armPromo schedules the advance past the current promo. Callers hold mu.
func (s *Scheduler) armPromo() {
	s.disarm(&s.promo)
	gen := s.promo.gen
	d := s.promoDuration(s.content.Promos[s.state.PromoIndex])
	s.promo.timer = s.clock.AfterFunc(d, func() { s.onPromo(gen) })
}

// disarm stops the slot's timer and bumps its generation so a callback that
// already fired is discarded.
func (s *Scheduler) disarm(sl *slot) {
	if sl.timer != nil {
		sl.timer.Stop()
		sl.timer = nil
	}
	sl.gen++
}

func (s *Scheduler) unlockAndNotify(prev State) {
	cur := s.state
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil && cur != prev {
		fn(cur)
	}
}

func (s *Scheduler) settings() domain.DisplaySettings {
	if s.content.Settings == nil {
		return domain.DefaultDisplaySettings()
	}
	return *s.content.Settings
}

func (s *Scheduler) mediaEnabled() bool {
	return s.settings().ShowMedia && len(s.content.Media) > 0
}

func (s *Scheduler) ratesDuration() time.Duration {
	return seconds(s.settings().RatesDisplayDurationSeconds, domain.DefaultDisplaySettings().RatesDisplayDurationSeconds)
}

func (s *Scheduler) mediaDuration(m *domain.MediaItem) time.Duration {
	return seconds(m.DurationSeconds, s.settings().DefaultMediaDurationSeconds, domain.DefaultDisplaySettings().DefaultMediaDurationSeconds)
}

func (s *Scheduler) promoDuration(p *domain.PromoImage) time.Duration {
	return seconds(p.DurationSeconds, s.settings().DefaultPromoDurationSeconds, domain.DefaultDisplaySettings().DefaultPromoDurationSeconds)
}

// seconds returns the first candidate that is at least the minimum duration.
func seconds(candidates ...int) time.Duration {
	for _, c := range candidates {
		if c >= domain.MinDurationSeconds {
			return time.Duration(c) * time.Second
		}
	}
	return domain.MinDurationSeconds * time.Second
}
