package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DonationMethod string

const (
	MethodUnknown      DonationMethod = "unknown"
	MethodCash         DonationMethod = "cash"
	MethodBankTransfer DonationMethod = "bank_transfer"
	MethodCard         DonationMethod = "card"
	MethodOnline       DonationMethod = "online"
)

func (m DonationMethod) Valid() bool {
	switch m {
	case MethodUnknown, MethodCash, MethodBankTransfer, MethodCard, MethodOnline:
		return true
	}
	return false
}

type Donation struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`

	// Amount is rounded half-away-from-zero to 2 decimals exactly once, at
	// request normalization. Everything downstream treats it as final.
	Amount decimal.Decimal `gorm:"type:numeric(18,2);not null" json:"amount"`

	Method           DonationMethod `gorm:"size:32;not null;default:'unknown'" json:"method"`
	DonorName        *string        `gorm:"size:256" json:"donor_name,omitempty"`
	DonorEmail       *string        `gorm:"size:256" json:"donor_email,omitempty"`
	DonorPhone       *string        `gorm:"size:32" json:"donor_phone,omitempty"`
	PaymentReference *string        `gorm:"size:128" json:"payment_reference,omitempty"`

	DonatedAt time.Time `gorm:"not null;index" json:"donated_at"`
}

func (Donation) TableName() string { return "donation" }

// RoundAmount normalizes a raw donation/goal amount to scale 2,
// half away from zero.
func RoundAmount(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}
