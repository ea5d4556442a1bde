// Package store persists the board's record families in SQLite.
//
// Singleton families (rates, display settings, banner) keep every submission
// as a version and mark exactly one of them active. Playlist families (media,
// promo) are ordered lists appended at the tail.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vbonduro/rateboard/internal/domain"
)

// row is satisfied by *sql.Row and *sql.Rows.
type row interface {
	Scan(dest ...any) error
}

func utcNow() time.Time {
	return time.Now().UTC()
}

func persistence(op string, err error) error {
	return domain.NewPersistenceError(op, err)
}

// family serialises the writes of one table. Every write runs under mu and
// inside a single transaction, so a failed write leaves nothing behind.
type family struct {
	db    *sql.DB
	table string
	now   func() time.Time
	mu    sync.Mutex
}

func newFamily(db *sql.DB, table string) *family {
	return &family{db: db, table: table, now: utcNow}
}

func (f *family) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		return persistence(fmt.Sprintf("failed to begin %s transaction", f.table), err)
	}
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
			slog.Error("failed to roll back transaction", "table", f.table, "error", rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return persistence(fmt.Sprintf("failed to commit %s transaction", f.table), err)
	}
	return nil
}

// insertActive deactivates the current active row and inserts a new active
// one in the same transaction. insert must be an INSERT whose parameters are
// args; it is responsible for writing is_active = 1.
func (f *family) insertActive(ctx context.Context, insert string, args ...any) (int64, error) {
	var id int64
	err := f.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE `+f.table+` SET is_active = 0 WHERE is_active = 1`); err != nil {
			return persistence(fmt.Sprintf("failed to deactivate %s", f.table), err)
		}
		result, err := tx.ExecContext(ctx, insert, args...)
		if err != nil {
			return persistence(fmt.Sprintf("failed to insert into %s", f.table), err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return persistence("failed to get last insert id", err)
		}
		return nil
	})
	return id, err
}

// appendRow runs an INSERT ... SELECT that computes the next order_index
// from the table itself.
func (f *family) appendRow(ctx context.Context, insert string, args ...any) (int64, error) {
	var id int64
	err := f.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, insert, args...)
		if err != nil {
			return persistence(fmt.Sprintf("failed to insert into %s", f.table), err)
		}
		id, err = result.LastInsertId()
		if err != nil {
			return persistence("failed to get last insert id", err)
		}
		return nil
	})
	return id, err
}

func (f *family) delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := f.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM `+f.table+` WHERE id = ?`, id)
		if err != nil {
			return persistence(fmt.Sprintf("failed to delete from %s", f.table), err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return persistence("failed to get rows affected", err)
		}
		deleted = n > 0
		return nil
	})
	return deleted, err
}

// currentOrder picks the active row, else the newest one.
const currentOrder = ` ORDER BY is_active DESC, created_at DESC, id DESC LIMIT 1`

// playlistOrder is the display order of a playlist.
const playlistOrder = ` ORDER BY order_index ASC, id ASC`

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Error("failed to close rows", "error", err)
	}
}
