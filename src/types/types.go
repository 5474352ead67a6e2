package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any
type StringList []string

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

func (a StringList) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *StringList) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Metadata map[string]any

type Role string

const (
	ROLE_TRUCK_OWNER     Role = "truck_owner"
	ROLE_EVENT_ORGANIZER Role = "event_organizer"
	ROLE_USER            Role = "user"
)

func (r Role) Valid() bool {
	switch r {
	case ROLE_TRUCK_OWNER, ROLE_EVENT_ORGANIZER, ROLE_USER:
		return true
	}
	return false
}

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "pending"
	BOOKING_ACCEPTED  BookingStatus = "accepted"
	BOOKING_DECLINED  BookingStatus = "declined"
	BOOKING_COMPLETED BookingStatus = "completed"
)

// CanTransitionTo is the single write-boundary guard for the booking
// lifecycle. A status never regresses; writing the same status twice is
// treated as a no-op by callers.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BOOKING_PENDING:
		return next == BOOKING_ACCEPTED || next == BOOKING_DECLINED
	case BOOKING_ACCEPTED:
		return next == BOOKING_COMPLETED
	}
	return false
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BOOKING_PENDING, BOOKING_ACCEPTED, BOOKING_DECLINED, BOOKING_COMPLETED:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PAYMENT_NONE    PaymentStatus = ""
	PAYMENT_PENDING PaymentStatus = "pending"
	PAYMENT_PAID    PaymentStatus = "paid"
	PAYMENT_UNPAID  PaymentStatus = "unpaid"
)

type InviteStatus string

const (
	INVITE_PENDING  InviteStatus = "pending"
	INVITE_ACCEPTED InviteStatus = "accepted"
	INVITE_DECLINED InviteStatus = "declined"
)

type ApplicationStatus string

const (
	APPLICATION_APPLIED  ApplicationStatus = "applied"
	APPLICATION_ACCEPTED ApplicationStatus = "accepted"
	APPLICATION_REJECTED ApplicationStatus = "rejected"
)

type SubscriptionTier string

const (
	TIER_FREE  SubscriptionTier = "free"
	TIER_BASIC SubscriptionTier = "basic"
	TIER_PRO   SubscriptionTier = "pro"
)

func (t SubscriptionTier) Valid() bool {
	switch t {
	case TIER_FREE, TIER_BASIC, TIER_PRO:
		return true
	}
	return false
}

type SubscriptionStatus string

const (
	SUBSCRIPTION_ACTIVE     SubscriptionStatus = "active"
	SUBSCRIPTION_CANCELED   SubscriptionStatus = "canceled"
	SUBSCRIPTION_PAST_DUE   SubscriptionStatus = "past_due"
	SUBSCRIPTION_INCOMPLETE SubscriptionStatus = "incomplete"
)

type APIEnv string

const (
	Local      APIEnv = "local"
	Test       APIEnv = "test"
	Production APIEnv = "production"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type MenuItemInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description,omitempty"`
	Price       float32 `json:"price,omitempty"`
}

type CreateTruckRequestBody struct {
	Name        string          `json:"name" binding:"required"`
	Cuisine     string          `json:"cuisine" binding:"required"`
	Description string          `json:"description,omitempty"`
	Address     string          `json:"address,omitempty"`
	MenuItems   []MenuItemInput `json:"menu_items,omitempty" binding:"omitempty,dive"`
}

type UpdateTruckRequestBody struct {
	Name        *string `json:"name,omitempty"`
	Cuisine     *string `json:"cuisine,omitempty"`
	Description *string `json:"description,omitempty"`
	Address     *string `json:"address,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

type TruckQueryFilters struct {
	Cuisine string `form:"cuisine,omitempty"`
	Active  *bool  `form:"active,omitempty"`
}

type CreateEventRequestBody struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location" binding:"required"`
	Date        string   `json:"date" binding:"required,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	Headcount   uint     `json:"headcount,omitempty"`
	Cuisines    []string `json:"cuisines,omitempty"`
}

type UpdateEventRequestBody struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Date        *string   `json:"date,omitempty" binding:"omitempty,bookabledate"`
	Headcount   *uint     `json:"headcount,omitempty"`
	Cuisines    *[]string `json:"cuisines,omitempty"`
	Active      *bool     `json:"active,omitempty"`
}

type CreateBookingRequestBody struct {
	TruckID       uint   `json:"truck_id" binding:"required"`
	EventID       uint   `json:"event_id" binding:"required"`
	Message       string `json:"message,omitempty"`
	ProposedPrice string `json:"proposed_price,omitempty"`
}

type UpdateBookingStatusRequestBody struct {
	Status BookingStatus `json:"status" binding:"required"`
}

type CreateInviteRequestBody struct {
	EventID uint   `json:"event_id" binding:"required"`
	TruckID uint   `json:"truck_id" binding:"required"`
	Message string `json:"message,omitempty"`
}

type UpdateInviteStatusRequestBody struct {
	Status InviteStatus `json:"status" binding:"required"`
}

type CreateFavoriteRequestBody struct {
	TruckID uint `json:"truck_id" binding:"required"`
}

type CreateFollowRequestBody struct {
	TruckID       uint  `json:"truck_id" binding:"required"`
	AlertsEnabled *bool `json:"alerts_enabled,omitempty"`
}

type UpdateFollowRequestBody struct {
	AlertsEnabled *bool `json:"alerts_enabled" binding:"required"`
}

type CreateScheduleRequestBody struct {
	Location string `json:"location" binding:"required"`
	StartsAt string `json:"starts_at" binding:"required,bookabledate" time_format:"2006-01-02 15:04:05 -07:00"`
	EndsAt   string `json:"ends_at" binding:"required,gtdate=StartsAt" time_format:"2006-01-02 15:04:05 -07:00"`
}

type CreateUpdateRequestBody struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body,omitempty"`
}

type CreateUnavailabilityRequestBody struct {
	Date   string `json:"date" binding:"required"`
	Reason string `json:"reason,omitempty"`
}

type CheckoutSessionRequestBody struct {
	Tier SubscriptionTier `json:"tier" binding:"required"`
}

type UpdateProfileRequestBody struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	Bio   *string `json:"bio,omitempty"`
	Role  *Role   `json:"role,omitempty"`
}

type RegisterUserRequestBody struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name,omitempty"`
	Role  Role   `json:"role,omitempty"`
}
