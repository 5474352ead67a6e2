package config

import (
	"fmt"
	"os"
	"strings"

	"ftm/src/types"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"
const DATE_PARSE_FORMAT = "2006-01-02"

const (
	CURRENCY = "usd"

	// Deposits are a 25% cut of the proposed price, expressed in minor
	// currency units. Bookings without a usable proposed price fall back
	// to a flat 100-currency-unit deposit.
	DEPOSIT_RATE          = 0.25
	DEFAULT_DEPOSIT_MINOR = 10000

	// Free tier truck owners run a single active truck.
	FREE_TIER_TRUCK_LIMIT = 1
)

// SubscriptionPriceID resolves the Stripe price for a (role, tier) pair
// from STRIPE_PRICE_<ROLE>_<TIER>, e.g. STRIPE_PRICE_TRUCK_OWNER_PRO.
func SubscriptionPriceID(role types.Role, tier types.SubscriptionTier) (string, error) {
	key := fmt.Sprintf("STRIPE_PRICE_%s_%s", strings.ToUpper(string(role)), strings.ToUpper(string(tier)))
	priceId := os.Getenv(key)
	if priceId == "" {
		return "", fmt.Errorf("no subscription price configured for role %q tier %q (set %s)", role, tier, key)
	}
	return priceId, nil
}
