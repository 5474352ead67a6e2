package models

import "ftm/src/types"

type Subscription struct {
	ID                   uint                     `gorm:"primarykey" json:"id"`
	UserID               uint                     `gorm:"uniqueIndex" json:"user_id,omitempty"`
	Tier                 types.SubscriptionTier   `gorm:"default:'free'" json:"tier,omitempty"`
	Status               types.SubscriptionStatus `gorm:"default:'incomplete'" json:"status,omitempty"`
	StripeSubscriptionId *string                  `json:"-"`

	User User `gorm:"foreignKey:user_id" json:"-"`

	types.Timestamps
}
