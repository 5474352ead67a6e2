package config

import (
	"testing"

	"ftm/src/types"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionPriceID(t *testing.T) {
	t.Setenv("STRIPE_PRICE_TRUCK_OWNER_PRO", "price_123")

	priceId, err := SubscriptionPriceID(types.ROLE_TRUCK_OWNER, types.TIER_PRO)
	assert.Nil(t, err)
	assert.Equal(t, "price_123", priceId)

	_, err = SubscriptionPriceID(types.ROLE_EVENT_ORGANIZER, types.TIER_BASIC)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "STRIPE_PRICE_EVENT_ORGANIZER_BASIC")
}

func TestGetDSN(t *testing.T) {
	t.Setenv("DATABASE_HOST", "localhost")
	t.Setenv("DATABASE_PORT", "5432")
	t.Setenv("DATABASE_USER", "postgres")
	t.Setenv("DATABASE_NAME", "ftm")

	dsn := GetDSN()
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "dbname=ftm")
	assert.Contains(t, dsn, "port=5432")
}
