package domain

import (
	"strings"

	"github.com/google/uuid"
)

const (
	RoleAdministrator = "Administrator"
	RoleVolunteer     = "Volunteer"
)

type Role struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:128;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"size:512" json:"description"`
}

func (Role) TableName() string { return "role" }

// IsAdministrator reports whether a role name grants full visibility.
// Role names are matched case-insensitively everywhere.
func IsAdministrator(role string) bool {
	return strings.EqualFold(strings.TrimSpace(role), RoleAdministrator)
}

func IsVolunteer(role string) bool {
	return strings.EqualFold(strings.TrimSpace(role), RoleVolunteer)
}
