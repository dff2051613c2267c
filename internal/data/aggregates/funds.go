package aggregates

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openhearth/charity-backend/internal/domain"
	"github.com/openhearth/charity-backend/internal/platform/dbctx"
	"github.com/openhearth/charity-backend/internal/platform/logger"
)

// ProjectFunds maintains the denormalized Project.CollectedAmount as O(1)
// deltas inside the donation transaction. It never recomputes the total
// from the donation table, which keeps busy projects off a full-table
// scan on every write. The flip side: donation rows edited
// outside this path will desynchronize the total; no reconciliation job
// exists.
type ProjectFunds struct {
	log   *logger.Logger
	hooks Hooks
}

func NewProjectFunds(log *logger.Logger, hooks Hooks) *ProjectFunds {
	if hooks == nil {
		hooks = NoopHooks{}
	}
	return &ProjectFunds{log: log.With("component", "ProjectFunds"), hooks: hooks}
}

// Collect adds a created donation's amount to the project total. The
// amount was rounded once at normalization; no re-rounding happens here.
func (f *ProjectFunds) Collect(dbc dbctx.Context, project *domain.Project, amount decimal.Decimal) error {
	const op = "funds.collect"
	if project == nil {
		return InvariantError(op, "donation cannot exist without a project")
	}
	if amount.Sign() <= 0 {
		return ValidationError(op, "donation amount must be positive")
	}
	before := *project
	project.CollectedAmount = project.CollectedAmount.Add(amount)
	return f.persist(dbc, op, project, &before)
}

// Release subtracts a deleted donation's amount, clamped at zero. The
// clamp tolerates drift from manual data fixes and concurrent deletes; it
// is logged as an anomaly, never surfaced to the caller.
func (f *ProjectFunds) Release(dbc dbctx.Context, project *domain.Project, amount decimal.Decimal) error {
	const op = "funds.release"
	if project == nil {
		return InvariantError(op, "donation cannot exist without a project")
	}
	before := *project
	next := project.CollectedAmount.Sub(amount)
	if next.Sign() < 0 {
		f.log.Warn("collected amount underflow clamped to zero",
			"project_id", project.ID,
			"collected", project.CollectedAmount,
			"released", amount)
		f.hooks.IncUnderflowClamp(op)
		next = decimal.Zero
	}
	project.CollectedAmount = next
	return f.persist(dbc, op, project, &before)
}

func (f *ProjectFunds) persist(dbc dbctx.Context, op string, project *domain.Project, before *domain.Project) error {
	if dbc.Tx == nil {
		return NewError(CodeInternal, op, "project funds require an open transaction", nil)
	}
	project.UpdatedAt = time.Now().UTC()
	res := dbc.Tx.WithContext(dbc.Ctx).
		Model(&domain.Project{}).
		Where("id = ?", project.ID).
		Updates(map[string]interface{}{
			"collected_amount": project.CollectedAmount,
			"updated_at":       project.UpdatedAt,
		})
	if res.Error != nil {
		return MapError(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFoundError(op, "project not found")
	}
	if dbc.Changes != nil {
		dbc.Changes.RecordUpdate(before, project)
	}
	return nil
}

// ClampedRelease reports the post-release total without persisting.
// Exposed for invariant checks in tests and callers that validate before
// committing.
func ClampedRelease(current, amount decimal.Decimal) decimal.Decimal {
	next := current.Sub(amount)
	if next.Sign() < 0 {
		return decimal.Zero
	}
	return next
}
