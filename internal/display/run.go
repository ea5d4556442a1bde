package display

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/vbonduro/rateboard/internal/rotation"
)

// Run polls source, drives the rotation with clock and renders every change
// to w until ctx is cancelled. All timers are stopped before it returns.
func Run(ctx context.Context, source Source, clock rotation.Clock, pollInterval time.Duration, w io.Writer, logger *slog.Logger) {
	scheduler := rotation.New(clock)
	defer scheduler.Stop()

	poller := NewPoller(source, scheduler, pollInterval, logger)
	board := NewBoard(w)

	render := func() {
		if err := board.Render(poller.Snapshot(), scheduler.View()); err != nil {
			logger.Warn("render failed", "error", err)
		}
	}
	scheduler.OnChange(func(st rotation.State) {
		logger.Debug("rotation", "mode", st.Mode.String(), "media_index", st.MediaIndex, "promo_index", st.PromoIndex)
		render()
	})
	poller.OnUpdate(func(*Snapshot) { render() })

	poller.Run(ctx)
}
