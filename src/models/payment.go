package models

import (
	"rently/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Payment struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid" json:"id"`

	BookingID uint   `gorm:"index" json:"booking_id,omitempty"`
	RenterID  uint   `json:"renter_id,omitempty"`
	RenterUID string `json:"renter_clerk_id,omitempty"`
	OwnerID   uint   `json:"owner_id,omitempty"`
	OwnerUID  string `json:"owner_clerk_id,omitempty"`

	Gateway         string  `gorm:"default:'stripe'" json:"gateway,omitempty"`
	PaymentIntentId string  `gorm:"index" json:"payment_intent_id,omitempty"`
	ChargeId        *string `json:"charge_id,omitempty"`
	// Kept only while the intent is pending, cleared on completion.
	ClientSecret *string `json:"-"`

	Amount      int64  `json:"amount"`
	Currency    string `json:"currency,omitempty"`
	PlatformFee int64  `json:"platform_fee"`
	OwnerAmount int64  `json:"owner_amount"`

	Status types.PaymentRecordStatus `gorm:"default:'pending'" json:"status,omitempty"`

	Booking *Booking `gorm:"foreignKey:booking_id" json:"-"`

	types.Timestamps
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
