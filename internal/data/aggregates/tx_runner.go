package aggregates

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/openhearth/charity-backend/internal/data/audit"
	"github.com/openhearth/charity-backend/internal/data/changeset"
	"github.com/openhearth/charity-backend/internal/platform/dbctx"
)

// TxRunner is the single transaction boundary for state-changing
// operations. One InTx call covers the business writes, the aggregate
// delta, the notification fan-out and the audit rows: all commit together
// or none do.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

type gormTxRunner struct {
	db       *gorm.DB
	recorder *audit.Recorder
	hooks    Hooks
}

// NewGormTxRunner returns a runner backed by GORM transactions. The
// recorder, when present, flushes the change set into audit rows right
// before commit.
func NewGormTxRunner(db *gorm.DB, recorder *audit.Recorder, hooks Hooks) TxRunner {
	if hooks == nil {
		hooks = NoopHooks{}
	}
	return &gormTxRunner{db: db, recorder: recorder, hooks: hooks}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return NewError(CodeInternal, "tx", "transaction runner has nil db", nil)
	}
	start := time.Now()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx, Changes: changeset.New()}
		if err := fn(dbc); err != nil {
			return err
		}
		if r.recorder == nil {
			return nil
		}
		return r.recorder.RecordChanges(dbc)
	})
	status := "ok"
	if err != nil {
		status = string(CodeOf(err))
		if status == "" {
			status = "error"
		}
	}
	r.hooks.ObserveWrite("tx", status, time.Since(start))
	return err
}
