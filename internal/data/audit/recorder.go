package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/openhearth/charity-backend/internal/data/changeset"
	"github.com/openhearth/charity-backend/internal/domain"
	"github.com/openhearth/charity-backend/internal/platform/ctxutil"
	"github.com/openhearth/charity-backend/internal/platform/dbctx"
	"github.com/openhearth/charity-backend/internal/platform/logger"
)

// Hooks receives counts of appended audit rows. Kept minimal so the
// metrics adapter can satisfy it without this package importing the
// aggregates error machinery.
type Hooks interface {
	AddAuditRows(n int)
}

type noopHooks struct{}

func (noopHooks) AddAuditRows(int) {}

// Recorder turns a drained change set into append-only audit rows. It is
// invoked exactly once per transaction, by the transaction runner, after
// the business writes are staged, so the audit rows commit or roll back
// with the data they describe.
type Recorder struct {
	log   *logger.Logger
	hooks Hooks
}

func NewRecorder(log *logger.Logger, hooks Hooks) *Recorder {
	if hooks == nil {
		hooks = noopHooks{}
	}
	return &Recorder{log: log.With("component", "AuditRecorder"), hooks: hooks}
}

// RecordChanges drains the transaction's change set and appends one audit
// row per entity that carried at least one field diff.
func (r *Recorder) RecordChanges(dbc dbctx.Context) error {
	if dbc.Tx == nil {
		return fmt.Errorf("audit recorder requires an open transaction")
	}
	if dbc.Changes == nil {
		return nil
	}
	changes := dbc.Changes.Drain()
	if len(changes) == 0 {
		return nil
	}

	performedBy, userID := resolveActor(dbc)
	rows := r.BuildRows(changes, performedBy, userID)
	if len(rows) == 0 {
		return nil
	}
	if err := dbc.Tx.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("append audit entries: %w", err)
	}
	r.hooks.AddAuditRows(len(rows))
	return nil
}

// BuildRows converts entity changes into audit rows. A serialization
// failure for one entity's diff degrades that entry to a string rendering
// instead of failing the commit.
func (r *Recorder) BuildRows(changes []*changeset.EntityChange, performedBy string, userID *uuid.UUID) []*domain.AuditLog {
	now := time.Now().UTC()
	rows := make([]*domain.AuditLog, 0, len(changes))
	for _, ec := range changes {
		if ec == nil || len(ec.Fields) == 0 {
			continue
		}
		rows = append(rows, &domain.AuditLog{
			ID:          uuid.New(),
			EntityName:  ec.EntityName,
			EntityID:    ec.EntityID,
			Action:      ec.Action,
			Changes:     r.serializeDiff(ec),
			PerformedBy: performedBy,
			UserID:      userID,
			CreatedAt:   now,
		})
	}
	return rows
}

func (r *Recorder) serializeDiff(ec *changeset.EntityChange) datatypes.JSON {
	raw, err := json.Marshal(ec.Fields)
	if err == nil {
		return datatypes.JSON(raw)
	}
	r.log.Warn("audit diff serialization failed, storing string form",
		"entity", ec.EntityName, "entity_id", ec.EntityID, "error", err)
	fallback, ferr := json.Marshal(map[string]string{"raw": fmt.Sprintf("%+v", ec.Fields)})
	if ferr != nil {
		return datatypes.JSON(`{}`)
	}
	return datatypes.JSON(fallback)
}

func resolveActor(dbc dbctx.Context) (string, *uuid.UUID) {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return domain.AuditActorSystem, nil
	}
	name := rd.DisplayName
	if name == "" {
		name = domain.AuditActorSystem
	}
	id := rd.UserID
	return name, &id
}
