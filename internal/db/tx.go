package db

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// WithTx runs fn inside a transaction. Any error from fn rolls the whole
// unit of work back; a half-applied mutation is never committed.
func WithTx(ctx context.Context, d *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := d.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
