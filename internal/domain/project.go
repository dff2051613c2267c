package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "draft"
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

// CanTransitionTo encodes the project lifecycle:
// draft -> active -> {completed, cancelled}, terminal states frozen.
// A draft may also be cancelled directly, so abandoned drafts do not
// linger with no way out.
func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case ProjectDraft:
		return next == ProjectActive || next == ProjectCancelled
	case ProjectActive:
		return next == ProjectCompleted || next == ProjectCancelled
	default:
		return false
	}
}

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectDraft, ProjectActive, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

type Project struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code        string    `gorm:"size:32;not null;uniqueIndex" json:"code"`
	Name        string    `gorm:"size:256;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`

	GoalAmount decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"goal_amount"`
	// CollectedAmount is denormalized: maintained as incremental deltas by the
	// funds maintainer, never recomputed from donations on the write path.
	CollectedAmount decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"collected_amount"`

	StartDate  time.Time     `gorm:"not null" json:"start_date"`
	EndDate    *time.Time    `json:"end_date,omitempty"`
	Status     ProjectStatus `gorm:"size:32;not null;index" json:"status"`
	IsArchived bool          `gorm:"not null;default:false" json:"is_archived"`

	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"members,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Project) TableName() string { return "project" }
