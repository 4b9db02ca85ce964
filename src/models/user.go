package models

import "rently/src/types"

type User struct {
	ID               uint    `gorm:"primarykey" json:"id"`
	Name             string  `json:"name,omitempty"`
	Email            string  `gorm:"uniqueIndex" json:"email,omitempty"`
	UID              string  `gorm:"uniqueIndex" json:"uid,omitempty"`
	Role             string  `gorm:"default:'member'" json:"role,omitempty"`
	StripeCustomerId *string `json:"-"`
	StripeAccountId  *string `json:"-"`

	Products []Product `gorm:"foreignKey:owner_id" json:"products,omitempty"`

	types.Timestamps
}
