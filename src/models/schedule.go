package models

import (
	"ftm/src/types"
	"time"
)

type Schedule struct {
	ID       uint      `gorm:"primarykey" json:"id"`
	TruckID  uint      `gorm:"index" json:"truck_id,omitempty"`
	Location string    `json:"location,omitempty"`
	StartsAt time.Time `json:"starts_at,omitempty"`
	EndsAt   time.Time `json:"ends_at,omitempty"`

	Truck Truck `gorm:"foreignKey:truck_id" json:"-"`

	types.Timestamps
}

type Update struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	TruckID uint   `gorm:"index" json:"truck_id,omitempty"`
	Title   string `json:"title,omitempty"`
	Body    string `json:"body,omitempty"`

	Truck Truck `gorm:"foreignKey:truck_id" json:"-"`

	types.Timestamps
}
