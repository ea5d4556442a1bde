package store

import (
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/rateboard/internal/db"
	"github.com/vbonduro/rateboard/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func countRows(t *testing.T, d *sql.DB, query string) int {
	t.Helper()
	var n int
	require.NoError(t, d.QueryRow(query).Scan(&n))
	return n
}

func rates(gold24 string) domain.RateQuoteInput {
	d := decimal.RequireFromString
	return domain.RateQuoteInput{
		Gold24kSale:         d(gold24),
		Gold24kPurchase:     d("7100"),
		Gold22kSale:         d("6650"),
		Gold22kPurchase:     d("6500"),
		Gold18kSale:         d("5440"),
		Gold18kPurchase:     d("5300"),
		SilverPerKgSale:     d("92000"),
		SilverPerKgPurchase: d("90500"),
	}
}
