package display

import (
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/vbonduro/rateboard/internal/domain"
	"github.com/vbonduro/rateboard/internal/rotation"
)

// Board renders the screen as plain text.
type Board struct {
	mu sync.Mutex
	w  io.Writer
}

func NewBoard(w io.Writer) *Board {
	return &Board{w: w}
}

// Render writes one frame for snap as resolved by view. It is safe to call
// from the scheduler's timer callbacks and the poller at the same time.
func (b *Board) Render(snap *Snapshot, view rotation.View) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if snap == nil {
		_, err := fmt.Fprintln(b.w, "Waiting for rates...")
		return err
	}

	if snap.Banner != nil {
		if _, err := fmt.Fprintf(b.w, "[banner %s, %dpx]\n", snap.Banner.ImageURL, snap.Banner.HeightPx); err != nil {
			return err
		}
	}

	switch view.State.Mode {
	case rotation.ShowingMedia:
		if err := b.renderMedia(view); err != nil {
			return err
		}
	default:
		if err := b.renderRates(snap.Rates, view.Settings); err != nil {
			return err
		}
	}

	if view.Promo != nil {
		_, err := fmt.Fprintf(b.w, "Promo %d/%d: %s (%s, %ds)\n",
			view.State.PromoIndex+1, len(snap.Promos), view.Promo.Name,
			view.Promo.TransitionEffect, view.Promo.DurationSeconds)
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(b.w)
	return err
}

func (b *Board) renderRates(q *domain.RateQuote, settings domain.DisplaySettings) error {
	if q == nil {
		_, err := fmt.Fprintln(b.w, "Rates not yet published")
		return err
	}
	if _, err := fmt.Fprintf(b.w, "Today's rates (%s, updated %s)\n",
		settings.Orientation, q.CreatedAt.Format("02 Jan 2006 15:04 MST")); err != nil {
		return err
	}

	table := tablewriter.NewWriter(b.w)
	table.SetHeader([]string{"Metal", "Sale", "Purchase"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetBorder(false)
	table.Append([]string{"Gold 24K (10g)", q.Gold24kSale.StringFixed(2), q.Gold24kPurchase.StringFixed(2)})
	table.Append([]string{"Gold 22K (10g)", q.Gold22kSale.StringFixed(2), q.Gold22kPurchase.StringFixed(2)})
	table.Append([]string{"Gold 18K (10g)", q.Gold18kSale.StringFixed(2), q.Gold18kPurchase.StringFixed(2)})
	table.Append([]string{"Silver (1kg)", q.SilverPerKgSale.StringFixed(2), q.SilverPerKgPurchase.StringFixed(2)})
	table.Render()
	return nil
}

func (b *Board) renderMedia(view rotation.View) error {
	m := view.Media
	if m == nil {
		return nil
	}
	size := ""
	if m.SizeBytes > 0 {
		size = ", " + humanize.Bytes(uint64(m.SizeBytes))
	}
	_, err := fmt.Fprintf(b.w, "Now showing %s %d: %s (%s, %ds%s)\n",
		m.Kind, view.State.MediaIndex+1, m.Name, m.URL, m.DurationSeconds, size)
	return err
}
