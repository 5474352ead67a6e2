package models

import "ftm/src/types"

// Invite is organizer-initiated outreach to a truck. Application is the
// truck-initiated counterpart. Both link to the Booking they produce so
// the matching record and the lifecycle record never drift apart.
type Invite struct {
	ID        uint               `gorm:"primarykey" json:"id"`
	EventID   uint               `gorm:"index" json:"event_id,omitempty"`
	TruckID   uint               `gorm:"index" json:"truck_id,omitempty"`
	Status    types.InviteStatus `gorm:"default:'pending'" json:"status,omitempty"`
	Message   string             `json:"message,omitempty"`
	BookingID *uint              `json:"booking_id,omitempty"`

	Event   Event    `gorm:"foreignKey:event_id" json:"event,omitempty"`
	Truck   Truck    `gorm:"foreignKey:truck_id" json:"truck,omitempty"`
	Booking *Booking `gorm:"foreignKey:booking_id" json:"booking,omitempty"`

	types.Timestamps
}

type Application struct {
	ID        uint                    `gorm:"primarykey" json:"id"`
	EventID   uint                    `gorm:"index" json:"event_id,omitempty"`
	TruckID   uint                    `gorm:"index" json:"truck_id,omitempty"`
	Status    types.ApplicationStatus `gorm:"default:'applied'" json:"status,omitempty"`
	BookingID uint                    `json:"booking_id,omitempty"`

	Event   Event   `gorm:"foreignKey:event_id" json:"event,omitempty"`
	Truck   Truck   `gorm:"foreignKey:truck_id" json:"truck,omitempty"`
	Booking Booking `gorm:"foreignKey:booking_id" json:"booking,omitempty"`

	types.Timestamps
}
