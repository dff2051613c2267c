package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditAction string

const (
	ActionCreated AuditAction = "created"
	ActionUpdated AuditAction = "updated"
	ActionDeleted AuditAction = "deleted"
)

// AuditActorSystem is recorded when no authenticated caller is present
// (seeding, migrations, background jobs).
const AuditActorSystem = "system"

// AuditLog is append-only. Rows are written exclusively by the audit
// recorder at commit time; no update or delete path exists anywhere.
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EntityName string    `gorm:"size:128;not null;index:idx_audit_entity,priority:1" json:"entity_name"`
	// EntityID is uuid.Nil for entities with composite or absent primary
	// keys (e.g. project memberships). Degenerate, not an error.
	EntityID uuid.UUID   `gorm:"type:uuid;not null;index:idx_audit_entity,priority:2" json:"entity_id"`
	Action   AuditAction `gorm:"size:16;not null" json:"action"`

	Changes datatypes.JSON `gorm:"type:jsonb;not null" json:"changes"`

	PerformedBy string     `gorm:"size:256;not null;default:'system'" json:"performed_by"`
	UserID      *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_log" }
