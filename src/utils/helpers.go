package utils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"time"

	"ftm/src/config"
	"ftm/src/lib"
	"ftm/src/models"
	"ftm/src/types"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gosimple/slug"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func GenerateJWT(email string, id uint, role string, tier string) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &types.Claims{
		Username: email,
		Role:     role,
		Tier:     tier,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(id)),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

// ComputeDepositAmount turns a free-form proposed price ("$500 flat fee")
// into a deposit in minor currency units. The client renders its own
// estimate but this is the only figure that reaches the payment provider.
func ComputeDepositAmount(proposedPrice string) int64 {
	cleaned := nonNumeric.ReplaceAllString(proposedPrice, "")
	price, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || price <= 0 || math.IsInf(price, 0) {
		return config.DEFAULT_DEPOSIT_MINOR
	}
	return int64(math.Round(price * config.DEPOSIT_RATE * 100))
}

func SlugFor(name string, id uint) string {
	return fmt.Sprintf("%s-%d", slug.Make(name), id)
}

// GetOwnedTruck fetches a truck and verifies the caller owns it. Existence
// is checked before ownership so a missing truck reads as 404, not 403.
func GetOwnedTruck(tx *gorm.DB, truckId uint, userId uint) (*models.Truck, int, error) {
	var truck models.Truck
	if err := tx.
		Model(&models.Truck{}).
		Where(&models.Truck{ID: truckId}).
		First(&truck).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusNotFound, errors.New("truck not found")
		}
		return nil, http.StatusInternalServerError, err
	}
	if truck.OwnerID != userId {
		return nil, http.StatusForbidden, errors.New("truck does not belong to you")
	}
	return &truck, http.StatusOK, nil
}

func GetOwnedEvent(tx *gorm.DB, eventId uint, userId uint) (*models.Event, int, error) {
	var event models.Event
	if err := tx.
		Model(&models.Event{}).
		Where(&models.Event{ID: eventId}).
		First(&event).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, http.StatusNotFound, errors.New("event not found")
		}
		return nil, http.StatusInternalServerError, err
	}
	if event.OrganizerID != userId {
		return nil, http.StatusForbidden, errors.New("event does not belong to you")
	}
	return &event, http.StatusOK, nil
}

func CountActiveTrucks(tx *gorm.DB, ownerId uint) (int64, error) {
	var count int64
	err := tx.
		Model(&models.Truck{}).
		Where(&models.Truck{OwnerID: ownerId, Active: true}).
		Count(&count).
		Error
	return count, err
}

// CreateDepositPaymentIntent creates the provider-side intent for a
// booking deposit. The booking id rides along in metadata so the webhook
// can find its way back.
func CreateDepositPaymentIntent(booking *models.Booking) (*stripe.PaymentIntent, int64, error) {
	amount := ComputeDepositAmount(booking.ProposedPrice)
	sc := lib.GetStripeClient()
	params := &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(config.CURRENCY),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"booking_id": strconv.Itoa(int(booking.ID)),
		},
	}
	pi, err := sc.V1PaymentIntents.Create(context.Background(), params)
	if err != nil {
		log.Printf("Error creating PaymentIntent for Booking [%d]: %s\n", booking.ID, err.Error())
		return nil, 0, err
	}
	return pi, amount, nil
}

// CreateSubscriptionCheckout resolves the (role, tier) price and opens a
// hosted checkout session for it.
func CreateSubscriptionCheckout(user *models.User, tier types.SubscriptionTier) (*stripe.CheckoutSession, error) {
	priceId, err := config.SubscriptionPriceID(user.Role, tier)
	if err != nil {
		return nil, err
	}
	appHost := os.Getenv("APP_HOST")
	metadata := map[string]string{
		"user_id": strconv.Itoa(int(user.ID)),
		"role":    string(user.Role),
		"tier":    string(tier),
	}
	params := &stripe.CheckoutSessionCreateParams{
		Mode:       stripe.String("subscription"),
		SuccessURL: stripe.String(fmt.Sprintf("%s/subscription/callback/success", appHost)),
		CancelURL:  stripe.String(fmt.Sprintf("%s/subscription/callback/cancel", appHost)),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				Price:    stripe.String(priceId),
				Quantity: stripe.Int64(1),
			},
		},
		SubscriptionData: &stripe.CheckoutSessionCreateSubscriptionDataParams{
			Metadata: metadata,
		},
		Metadata:      metadata,
		CustomerEmail: stripe.String(user.Email),
	}
	if user.StripeCustomerId != nil {
		params.Customer = user.StripeCustomerId
		params.CustomerEmail = nil
	}
	sc := lib.GetStripeClient()
	cs, err := sc.V1CheckoutSessions.Create(context.Background(), params)
	if err != nil {
		log.Printf("Error creating CheckoutSession for user [%d]: %s\n", user.ID, err.Error())
		return nil, err
	}
	return cs, nil
}
