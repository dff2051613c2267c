package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProjectMember links a user to a project. Membership rows are what the
// access scope filter checks for volunteer callers.
type ProjectMember struct {
	ProjectID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"project_id"`
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	AssignmentRole string    `gorm:"size:64;not null;default:'Member'" json:"assignment_role"`
	AssignedAt     time.Time `gorm:"not null" json:"assigned_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ProjectMember) TableName() string { return "project_member" }
