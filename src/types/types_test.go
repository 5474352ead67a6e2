package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusTransitions(t *testing.T) {
	cases := []struct {
		from BookingStatus
		to   BookingStatus
		ok   bool
	}{
		{BOOKING_PENDING, BOOKING_ACCEPTED, true},
		{BOOKING_PENDING, BOOKING_DECLINED, true},
		{BOOKING_PENDING, BOOKING_COMPLETED, false},
		{BOOKING_ACCEPTED, BOOKING_COMPLETED, true},
		{BOOKING_ACCEPTED, BOOKING_PENDING, false},
		{BOOKING_ACCEPTED, BOOKING_DECLINED, false},
		{BOOKING_DECLINED, BOOKING_ACCEPTED, false},
		{BOOKING_DECLINED, BOOKING_PENDING, false},
		{BOOKING_COMPLETED, BOOKING_PENDING, false},
		{BOOKING_COMPLETED, BOOKING_ACCEPTED, false},
	}
	for _, c := range cases {
		assert.Equalf(t, c.ok, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestBookingStatusValid(t *testing.T) {
	assert.True(t, BOOKING_PENDING.Valid())
	assert.True(t, BOOKING_COMPLETED.Valid())
	assert.False(t, BookingStatus("cancelled").Valid())
}

func TestSubscriptionTierValid(t *testing.T) {
	assert.True(t, TIER_FREE.Valid())
	assert.True(t, TIER_PRO.Valid())
	assert.False(t, SubscriptionTier("platinum").Valid())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, ROLE_TRUCK_OWNER.Valid())
	assert.True(t, ROLE_EVENT_ORGANIZER.Valid())
	assert.False(t, Role("admin").Valid())
}
