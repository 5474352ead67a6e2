package models

import (
	"ftm/src/types"
	"time"
)

type User struct {
	ID               uint            `gorm:"primarykey" json:"id"`
	Name             string          `json:"name,omitempty"`
	Email            string          `gorm:"uniqueIndex" json:"email,omitempty"`
	Role             types.Role      `json:"role,omitempty"`
	UID              string          `json:"uid,omitempty"`
	Phone            string          `json:"phone,omitempty"`
	Bio              string          `json:"bio,omitempty"`
	EmailVerified    bool            `json:"email_verified,omitempty"`
	LastActive       *time.Time      `json:"last_active,omitempty"`
	StripeCustomerId *string         `json:"-"`
	Metadata         *types.Metadata `gorm:"type:jsonb" json:"metadata,omitempty"`

	Trucks       []Truck       `gorm:"foreignKey:owner_id" json:"trucks,omitempty"`
	Events       []Event       `gorm:"foreignKey:organizer_id" json:"events,omitempty"`
	Subscription *Subscription `gorm:"foreignKey:user_id" json:"subscription,omitempty"`

	types.Timestamps
}
