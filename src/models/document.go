package models

import (
	"time"

	"rently/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentItem struct {
	ProductID uint   `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	Condition string `json:"condition,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type Document struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid" json:"id"`

	BookingID      uint                 `gorm:"index:idx_documents_booking_type,unique" json:"booking_id,omitempty"`
	Type           types.DocumentType   `gorm:"index:idx_documents_booking_type,unique" json:"type,omitempty"`
	DocumentNumber string               `gorm:"uniqueIndex" json:"document_number,omitempty"`
	Status         types.DocumentStatus `gorm:"default:'pending'" json:"status,omitempty"`
	ScheduledDate  *time.Time           `json:"scheduled_date,omitempty"`
	Items          types.JSONBArray     `gorm:"type:jsonb" json:"items,omitempty"`

	Booking *Booking `gorm:"foreignKey:booking_id" json:"booking,omitempty"`

	types.Timestamps
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
