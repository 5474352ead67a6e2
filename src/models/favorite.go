package models

import "ftm/src/types"

type Favorite struct {
	ID      uint `gorm:"primarykey" json:"id"`
	UserID  uint `gorm:"uniqueIndex:userfav,priority:1" json:"user_id,omitempty"`
	TruckID uint `gorm:"uniqueIndex:userfav,priority:2" json:"truck_id,omitempty"`

	User  User  `gorm:"foreignKey:user_id" json:"-"`
	Truck Truck `gorm:"foreignKey:truck_id" json:"truck,omitempty"`

	types.Timestamps
}

type Follow struct {
	ID            uint `gorm:"primarykey" json:"id"`
	UserID        uint `gorm:"uniqueIndex:userfollow,priority:1" json:"user_id,omitempty"`
	TruckID       uint `gorm:"uniqueIndex:userfollow,priority:2" json:"truck_id,omitempty"`
	AlertsEnabled bool `gorm:"default:true" json:"alerts_enabled"`

	User  User  `gorm:"foreignKey:user_id" json:"-"`
	Truck Truck `gorm:"foreignKey:truck_id" json:"truck,omitempty"`

	types.Timestamps
}
