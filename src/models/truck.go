package models

import (
	"ftm/src/types"
	"time"
)

type Truck struct {
	ID          uint             `gorm:"primarykey;uniqueIndex:truckslug" json:"id"`
	Name        string           `json:"name,omitempty"`
	Slug        string           `gorm:"uniqueIndex:truckslug" json:"slug,omitempty"`
	Cuisine     string           `gorm:"index" json:"cuisine,omitempty"`
	Description string           `json:"description,omitempty"`
	Address     string           `json:"address,omitempty"`
	Latitude    *float64         `json:"latitude,omitempty"`
	Longitude   *float64         `json:"longitude,omitempty"`
	Images      types.StringList `gorm:"type:jsonb" json:"images,omitempty"`
	Active      bool             `gorm:"default:true" json:"active"`
	OwnerID     uint             `gorm:"index" json:"owner_id,omitempty"`

	Owner            User                  `gorm:"foreignKey:owner_id" json:"-"`
	MenuItems        []MenuItem            `gorm:"foreignKey:truck_id" json:"menu_items,omitempty"`
	Unavailabilities []TruckUnavailability `gorm:"foreignKey:truck_id" json:"unavailabilities,omitempty"`
	Schedules        []Schedule            `gorm:"foreignKey:truck_id" json:"schedules,omitempty"`
	Updates          []Update              `gorm:"foreignKey:truck_id" json:"updates,omitempty"`

	types.Timestamps
}

type MenuItem struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	TruckID     uint    `gorm:"index" json:"truck_id,omitempty"`
	Name        string  `json:"name,omitempty"`
	Description string  `json:"description,omitempty"`
	Price       float32 `json:"price,omitempty"`

	types.Timestamps
}

type TruckUnavailability struct {
	ID      uint      `gorm:"primarykey" json:"id"`
	TruckID uint      `gorm:"index" json:"truck_id,omitempty"`
	Date    time.Time `json:"date,omitempty"`
	Reason  string    `json:"reason,omitempty"`

	Truck Truck `gorm:"foreignKey:truck_id" json:"-"`

	types.Timestamps
}
