package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vbonduro/rateboard/internal/domain"
)

const rateColumns = `id, gold_24k_sale, gold_24k_purchase, gold_22k_sale, gold_22k_purchase,
	gold_18k_sale, gold_18k_purchase, silver_per_kg_sale, silver_per_kg_purchase,
	is_active, created_at`

type RateStore struct {
	f *family
}

func NewRateStore(db *sql.DB) *RateStore {
	return &RateStore{f: newFamily(db, "rate_quotes")}
}

func scanRate(r row) (*domain.RateQuote, error) {
	q := &domain.RateQuote{}
	err := r.Scan(&q.ID,
		&q.Gold24kSale, &q.Gold24kPurchase,
		&q.Gold22kSale, &q.Gold22kPurchase,
		&q.Gold18kSale, &q.Gold18kPurchase,
		&q.SilverPerKgSale, &q.SilverPerKgPurchase,
		&q.IsActive, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	q.CreatedAt = q.CreatedAt.UTC()
	return q, nil
}

// GetCurrent returns the active quote, falling back to the newest one. It
// returns nil when no quote has ever been created.
func (s *RateStore) GetCurrent(ctx context.Context) (*domain.RateQuote, error) {
	q, err := scanRate(s.f.db.QueryRowContext(ctx, `SELECT `+rateColumns+` FROM rate_quotes`+currentOrder))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistence("failed to get current rate quote", err)
	}
	return q, nil
}

func (s *RateStore) GetByID(ctx context.Context, id int64) (*domain.RateQuote, error) {
	q, err := scanRate(s.f.db.QueryRowContext(ctx, `SELECT `+rateColumns+` FROM rate_quotes WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, persistence("failed to get rate quote", err)
	}
	return q, nil
}

// CreateVersion stores in as the new active quote. The previously active
// quote stays in the table, inactive.
func (s *RateStore) CreateVersion(ctx context.Context, in domain.RateQuoteInput) (*domain.RateQuote, error) {
	if err := domain.Validate(in); err != nil {
		return nil, err
	}

	createdAt := s.f.now()
	id, err := s.f.insertActive(ctx, `
		INSERT INTO rate_quotes (gold_24k_sale, gold_24k_purchase, gold_22k_sale, gold_22k_purchase,
			gold_18k_sale, gold_18k_purchase, silver_per_kg_sale, silver_per_kg_purchase, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?)
	`, rateArgs(in, createdAt)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate quote: %w", err)
	}

	return &domain.RateQuote{
		ID:                  id,
		Gold24kSale:         in.Gold24kSale,
		Gold24kPurchase:     in.Gold24kPurchase,
		Gold22kSale:         in.Gold22kSale,
		Gold22kPurchase:     in.Gold22kPurchase,
		Gold18kSale:         in.Gold18kSale,
		Gold18kPurchase:     in.Gold18kPurchase,
		SilverPerKgSale:     in.SilverPerKgSale,
		SilverPerKgPurchase: in.SilverPerKgPurchase,
		IsActive:            true,
		CreatedAt:           createdAt,
	}, nil
}

// Update rewrites the quote with the given id in place. It does not change
// which quote is active. A nil quote and nil error mean the id is unknown.
func (s *RateStore) Update(ctx context.Context, id int64, patch domain.RateQuotePatch) (*domain.RateQuote, error) {
	var updated *domain.RateQuote
	err := s.f.withTx(ctx, func(tx *sql.Tx) error {
		q, err := scanRate(tx.QueryRowContext(ctx, `SELECT `+rateColumns+` FROM rate_quotes WHERE id = ?`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return persistence("failed to load rate quote", err)
		}

		in := q.RateInput()
		patch.Apply(&in)
		if err := domain.Validate(in); err != nil {
			return err
		}

		args := append(rateArgs(in, q.CreatedAt)[:8], id)
		if _, err := tx.ExecContext(ctx, `
			UPDATE rate_quotes SET gold_24k_sale = ?, gold_24k_purchase = ?, gold_22k_sale = ?, gold_22k_purchase = ?,
				gold_18k_sale = ?, gold_18k_purchase = ?, silver_per_kg_sale = ?, silver_per_kg_purchase = ?
			WHERE id = ?
		`, args...); err != nil {
			return persistence("failed to update rate quote", err)
		}

		updated = &domain.RateQuote{
			ID:                  q.ID,
			Gold24kSale:         in.Gold24kSale,
			Gold24kPurchase:     in.Gold24kPurchase,
			Gold22kSale:         in.Gold22kSale,
			Gold22kPurchase:     in.Gold22kPurchase,
			Gold18kSale:         in.Gold18kSale,
			Gold18kPurchase:     in.Gold18kPurchase,
			SilverPerKgSale:     in.SilverPerKgSale,
			SilverPerKgPurchase: in.SilverPerKgPurchase,
			IsActive:            q.IsActive,
			CreatedAt:           q.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// History returns up to limit quotes, newest first.
func (s *RateStore) History(ctx context.Context, limit int) ([]*domain.RateQuote, error) {
	rows, err := s.f.db.QueryContext(ctx, `
		SELECT `+rateColumns+` FROM rate_quotes ORDER BY created_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, persistence("failed to list rate quotes", err)
	}
	defer closeRows(rows)

	var quotes []*domain.RateQuote
	for rows.Next() {
		q, err := scanRate(rows)
		if err != nil {
			return nil, persistence("failed to scan rate quote", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("error iterating rate quotes", err)
	}
	return quotes, nil
}

func rateArgs(in domain.RateQuoteInput, createdAt any) []any {
	return []any{
		in.Gold24kSale.String(), in.Gold24kPurchase.String(),
		in.Gold22kSale.String(), in.Gold22kPurchase.String(),
		in.Gold18kSale.String(), in.Gold18kPurchase.String(),
		in.SilverPerKgSale.String(), in.SilverPerKgPurchase.String(),
		createdAt,
	}
}
