package domain

import (
	"time"

	"github.com/google/uuid"
)

type Report struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	CreatedByID uuid.UUID  `gorm:"type:uuid;not null;index" json:"created_by_id"`
	Title       string     `gorm:"size:256;not null" json:"title"`
	Content     string     `gorm:"type:text" json:"content"`
	IsPublic    bool       `gorm:"not null;default:false" json:"is_public"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;index" json:"created_at"`
}

func (Report) TableName() string { return "report" }
