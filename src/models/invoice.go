package models

import (
	"time"

	"rently/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceItem struct {
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Total       int64  `json:"total"`
}

type Invoice struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid" json:"id"`

	BookingID uint `gorm:"uniqueIndex" json:"booking_id,omitempty"`
	UserID    uint `json:"user_id,omitempty"`

	InvoiceNumber string              `gorm:"uniqueIndex" json:"invoice_number,omitempty"`
	Amount        int64               `json:"amount"`
	Currency      string              `json:"currency,omitempty"`
	Status        types.InvoiceStatus `gorm:"default:'unpaid'" json:"status,omitempty"`
	DueDate       time.Time           `json:"due_date,omitempty"`
	Items         types.JSONBArray    `gorm:"type:jsonb" json:"items,omitempty"`
	Notes         string              `json:"notes,omitempty"`

	Booking *Booking `gorm:"foreignKey:booking_id" json:"booking,omitempty"`
	User    *User    `gorm:"foreignKey:user_id" json:"user,omitempty"`

	types.Timestamps
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
