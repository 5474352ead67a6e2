package models

import "ftm/src/types"

type Booking struct {
	ID            uint                `gorm:"primarykey" json:"id"`
	TruckID       uint                `gorm:"index" json:"truck_id,omitempty"`
	EventID       uint                `gorm:"index" json:"event_id,omitempty"`
	Status        types.BookingStatus `gorm:"default:'pending'" json:"status,omitempty"`
	Message       string              `json:"message,omitempty"`
	ProposedPrice string              `json:"proposed_price,omitempty"`

	// Payment fields are meaningful only once Status is accepted.
	PaymentStatus   types.PaymentStatus `json:"payment_status,omitempty"`
	PaymentIntentId *string             `json:"payment_intent_id,omitempty"`
	DepositAmount   int64               `json:"deposit_amount,omitempty"`

	Truck *Truck `gorm:"foreignKey:truck_id" json:"truck,omitempty"`
	Event *Event `gorm:"foreignKey:event_id" json:"event,omitempty"`

	types.Timestamps
}
