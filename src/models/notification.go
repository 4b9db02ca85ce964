package models

import (
	"rently/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid" json:"id"`

	UserID  uint                   `gorm:"index" json:"user_id,omitempty"`
	UserUID string                 `gorm:"index" json:"user_clerk_id,omitempty"`
	Type    types.NotificationType `json:"type,omitempty"`
	Message string                 `json:"message,omitempty"`
	Read    bool                   `gorm:"default:false" json:"read"`

	RelatedID   *string      `json:"related_id,omitempty"`
	RelatedType *string      `json:"related_type,omitempty"`
	Metadata    *types.JSONB `gorm:"type:jsonb" json:"metadata,omitempty"`

	types.Timestamps
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
