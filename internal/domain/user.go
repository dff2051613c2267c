package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserName           string    `gorm:"size:128;not null" json:"user_name"`
	NormalizedUserName string    `gorm:"size:128;not null;uniqueIndex" json:"-"`
	Email              string    `gorm:"size:256;not null" json:"email"`
	NormalizedEmail    string    `gorm:"size:256;not null;uniqueIndex" json:"-"`
	PasswordHash       string    `gorm:"size:512;not null" json:"-"`
	FirstName          string    `gorm:"size:128" json:"first_name"`
	LastName           string    `gorm:"size:128" json:"last_name"`
	PhoneNumber        *string   `gorm:"size:32" json:"phone_number,omitempty"`
	IsActive           bool      `gorm:"not null;default:true" json:"is_active"`
	JoinedAt           time.Time `gorm:"not null" json:"joined_at"`

	RoleID uuid.UUID `gorm:"type:uuid;not null;index" json:"role_id"`
	Role   *Role     `gorm:"foreignKey:RoleID" json:"role,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "app_user" }

// DisplayName is the actor name recorded on audit entries.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full != "" {
		return full
	}
	return u.UserName
}

// NormalizeUserKey lowercases and trims a username/email for unique lookups.
func NormalizeUserKey(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
