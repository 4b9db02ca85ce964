package models

import (
	"time"

	"rently/src/types"

	"github.com/google/uuid"
)

type Booking struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	ProductID uint   `json:"product_id,omitempty"`
	RenterID  uint   `json:"renter_id,omitempty"`
	RenterUID string `json:"renter_clerk_id,omitempty"`
	OwnerID   uint   `json:"owner_id,omitempty"`
	OwnerUID  string `json:"owner_clerk_id,omitempty"`

	StartDate time.Time `json:"start_date,omitempty"`
	EndDate   time.Time `json:"end_date,omitempty"`

	// Amounts in cents. PlatformFee + OwnerAmount always equals TotalPrice.
	TotalPrice      int64  `json:"total_price"`
	PlatformFee     int64  `json:"platform_fee"`
	OwnerAmount     int64  `json:"owner_amount"`
	SecurityDeposit int64  `gorm:"default:0" json:"security_deposit,omitempty"`
	LateFee         int64  `gorm:"default:0" json:"late_fee,omitempty"`
	Currency        string `gorm:"default:'usd'" json:"currency,omitempty"`

	Status        types.BookingStatus `gorm:"default:'pending'" json:"status,omitempty"`
	PaymentStatus types.PaymentStatus `gorm:"default:'unpaid'" json:"payment_status,omitempty"`
	PickupStatus  types.PickupStatus  `gorm:"default:'pending'" json:"pickup_status,omitempty"`
	ReturnStatus  types.ReturnStatus  `gorm:"default:'pending'" json:"return_status,omitempty"`
	PayoutStatus  types.PayoutStatus  `gorm:"default:'pending'" json:"payout_status,omitempty"`

	PaymentID        *uuid.UUID `gorm:"type:uuid" json:"payment_id,omitempty"`
	PayoutTransferID *string    `json:"payout_transfer_id,omitempty"`
	PayoutDate       *time.Time `json:"payout_date,omitempty"`
	ReturnDate       *time.Time `json:"return_date,omitempty"`
	CancelReason     *string    `json:"cancel_reason,omitempty"`
	RefundID         *string    `json:"refund_id,omitempty"`
	RefundAmount     *int64     `json:"refund_amount,omitempty"`
	RefundDate       *time.Time `json:"refund_date,omitempty"`

	// Optimistic lock, bumped on every settlement write.
	Version uint `gorm:"default:1" json:"-"`

	Product *Product `gorm:"foreignKey:product_id" json:"product,omitempty"`
	Renter  *User    `gorm:"foreignKey:renter_id" json:"renter,omitempty"`
	Owner   *User    `gorm:"foreignKey:owner_id" json:"owner,omitempty"`
	Payment *Payment `gorm:"foreignKey:payment_id" json:"payment,omitempty"`

	types.Timestamps
}

// RentalDays counts whole days in the booked period, minimum one.
func (b *Booking) RentalDays() int64 {
	days := int64(b.EndDate.Sub(b.StartDate).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days
}
