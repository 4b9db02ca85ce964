package models

import "rently/src/types"

type Product struct {
	ID              uint                `gorm:"primarykey" json:"id"`
	OwnerID         uint                `json:"owner_id,omitempty"`
	Title           string              `json:"title,omitempty"`
	Description     string              `json:"description,omitempty"`
	Category        string              `json:"category,omitempty"`
	PricePerDay     int64               `json:"price_per_day,omitempty"`
	SecurityDeposit int64               `gorm:"default:0" json:"security_deposit,omitempty"`
	Currency        string              `gorm:"default:'usd'" json:"currency,omitempty"`
	Status          types.ProductStatus `gorm:"default:'available'" json:"status,omitempty"`
	ImageKeys       *types.JSONBArray   `gorm:"type:jsonb" json:"image_keys,omitempty"`

	Owner *User `gorm:"foreignKey:owner_id" json:"owner,omitempty"`

	types.Timestamps
}
