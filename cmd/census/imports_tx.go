package main

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"census/internal/imports/service"
	"census/internal/imports/store"
	"census/pkg/domain"
	dErrors "census/pkg/domain-errors"
)

const defaultImportTxTimeout = 30 * time.Second

// importPostgresTx runs each import transaction on one database transaction.
// Transactions on an existing import first take its advisory lock, so
// concurrent patches to the same import apply one after another.
type importPostgresTx struct {
	db      *sqlx.DB
	timeout time.Duration
}

func newImportPostgresTx(db *sqlx.DB, timeout time.Duration) *importPostgresTx {
	return &importPostgresTx{db: db, timeout: timeout}
}

func (t *importPostgresTx) RunInTx(ctx context.Context, importID domain.ImportID, fn func(store service.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultImportTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	st := store.NewPostgresTx(tx)
	if importID != service.NewImport {
		if err := st.LockImport(ctx, importID); err != nil {
			return err
		}
	}
	if err := fn(st); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	return nil
}
