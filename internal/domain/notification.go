package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "email"
	ChannelSms   NotificationChannel = "sms"
)

func (c NotificationChannel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelSms:
		return true
	}
	return false
}

// Notification is a pending outbound message synthesized in the same
// transaction as the donation that triggered it. A delivery worker outside
// this service polls unsent rows and flips IsSent.
type Notification struct {
	ID      uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	Channel NotificationChannel `gorm:"size:32;not null;index:idx_notification_poll,priority:2" json:"channel"`
	Title   string              `gorm:"size:256;not null" json:"title"`
	Message string              `gorm:"type:text;not null" json:"message"`

	IsSent    bool       `gorm:"not null;default:false;index:idx_notification_poll,priority:1" json:"is_sent"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`

	ProjectID  *uuid.UUID `gorm:"type:uuid;index" json:"project_id,omitempty"`
	UserID     *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty"`
	DonationID *uuid.UUID `gorm:"type:uuid;index" json:"donation_id,omitempty"`
}

func (Notification) TableName() string { return "notification" }
