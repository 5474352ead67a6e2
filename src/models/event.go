package models

import (
	"ftm/src/types"
	"time"
)

type Event struct {
	ID          uint             `gorm:"primarykey;uniqueIndex:eventslug" json:"id"`
	Title       string           `json:"title,omitempty"`
	Slug        string           `gorm:"uniqueIndex:eventslug" json:"slug,omitempty"`
	Description string           `json:"description,omitempty"`
	Location    string           `json:"location,omitempty"`
	Latitude    *float64         `json:"latitude,omitempty"`
	Longitude   *float64         `json:"longitude,omitempty"`
	Date        time.Time        `json:"date,omitempty"`
	Headcount   uint             `json:"headcount,omitempty"`
	Cuisines    types.StringList `gorm:"type:jsonb" json:"cuisines,omitempty"`
	Active      bool             `gorm:"default:true" json:"active"`
	OrganizerID uint             `gorm:"index" json:"organizer_id,omitempty"`

	Organizer User      `gorm:"foreignKey:organizer_id" json:"-"`
	Bookings  []Booking `gorm:"foreignKey:event_id" json:"bookings,omitempty"`
	Invites   []Invite  `gorm:"foreignKey:event_id" json:"invites,omitempty"`

	types.Timestamps
}
