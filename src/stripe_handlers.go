package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"

	"ftm/src/db"
	"ftm/src/lib"
	"ftm/src/models"
	"ftm/src/types"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"gorm.io/gorm"
)

// parseStripeEvent verifies the provider signature when a webhook secret
// is configured. Unverified parsing is a development-only fallback.
func parseStripeEvent(ctx *gin.Context, payload []byte) (*stripe.Event, error) {
	whsecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if whsecret != "" {
		event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"), whsecret)
		if err != nil {
			return nil, err
		}
		return &event, nil
	}
	log.Println("[Stripe] No webhook secret configured; parsing without verification")
	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// bookingForIntent resolves the booking a payment intent refers to via
// its metadata.
func bookingForIntent(pi *stripe.PaymentIntent) (uint, bool) {
	id := pi.Metadata["booking_id"]
	atoi, err := strconv.Atoi(id)
	if err != nil {
		log.Printf("Could not read booking id from PaymentIntent %s: %s\n", pi.ID, err.Error())
		return 0, false
	}
	return uint(atoi), true
}

func setBookingPaymentStatus(bookingId uint, intentId string, status types.PaymentStatus) error {
	db := db.GetDb()
	return db.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingId}).
			First(&booking).
			Error; err != nil {
			log.Printf("Error retrieving Booking [%d] for PaymentIntent %s: %s\n", bookingId, intentId, err.Error())
			return err
		}
		// The webhook is authoritative for payment state only. The
		// booking lifecycle itself is never advanced from here.
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingId}).
			Updates(&models.Booking{
				PaymentStatus:   status,
				PaymentIntentId: &intentId,
			}).
			Error; err != nil {
			return err
		}
		return nil
	})
}

func stripeWebhookRoute(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/webhook/stripe", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		event, err := parseStripeEvent(ctx, payload)
		if err != nil {
			log.Printf("Error verifying webhook signature: %s\n", err.Error())
			ctx.Status(http.StatusBadRequest)
			return
		}
		log.Printf("[StripeEvent] %s\n", event.Type)
		if lib.WebhookEventSeen(event.ID) {
			log.Printf("[Stripe] Event %s already processed; skipping\n", event.ID)
			ctx.Status(http.StatusNoContent)
			return
		}
		switch event.Type {
		case "payment_intent.succeeded":
			var pi stripe.PaymentIntent
			if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
				log.Printf("[Stripe] Error parsing PaymentIntent: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			log.Printf("[PaymentIntent] ID: %s %s\n", pi.ID, pi.Status)
			bookingId, ok := bookingForIntent(&pi)
			if !ok {
				ctx.Status(http.StatusBadRequest)
				return
			}
			if err := setBookingPaymentStatus(bookingId, pi.ID, types.PAYMENT_PAID); err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
		case "payment_intent.payment_failed":
			var pi stripe.PaymentIntent
			if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
				log.Printf("[Stripe] Error parsing PaymentIntent: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			log.Printf("[PaymentIntent] ID: %s %s\n", pi.ID, pi.Status)
			bookingId, ok := bookingForIntent(&pi)
			if !ok {
				ctx.Status(http.StatusBadRequest)
				return
			}
			if err := setBookingPaymentStatus(bookingId, pi.ID, types.PAYMENT_UNPAID); err != nil {
				ctx.Status(http.StatusInternalServerError)
				return
			}
		}
		lib.MarkWebhookEvent(event.ID)
		ctx.Status(http.StatusNoContent)
	})
	return apiv1
}
