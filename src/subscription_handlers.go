package main

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"ftm/src/db"
	"ftm/src/lib"
	"ftm/src/models"
	"ftm/src/types"
	"ftm/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

func subscriptionHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/subscription", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var sub models.Subscription
			if err := db.
				Model(&models.Subscription{}).
				Where(&models.Subscription{UserID: userId}).
				First(&sub).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusOK, gin.H{"data": nil})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve subscription"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": sub})
		}).
		POST("/subscription/checkout", func(ctx *gin.Context) {
			var body types.CheckoutSessionRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if !body.Tier.Valid() || body.Tier == types.TIER_FREE {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "checkout is for paid tiers; use the free activation endpoint"})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var user models.User
			if err := db.
				Model(&models.User{}).
				Where(&models.User{ID: userId}).
				First(&user).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			cs, err := utils.CreateSubscriptionCheckout(&user, body.Tier)
			if err != nil {
				// Unconfigured (role, tier) pairs read back verbatim so
				// the operator knows which variable to set.
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{"url": cs.URL}})
		}).
		POST("/subscription/free", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var sub models.Subscription
			err := db.Transaction(func(tx *gorm.DB) error {
				err := tx.
					Model(&models.Subscription{}).
					Where(&models.Subscription{UserID: userId}).
					First(&sub).
					Error
				if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve subscription"})
					return err
				}
				if sub.ID > 0 && sub.Status == types.SUBSCRIPTION_ACTIVE {
					if sub.Tier == types.TIER_FREE {
						// Already on the free tier; idempotent.
						return nil
					}
					err := errors.New("an active paid subscription cannot be downgraded here; cancel it first")
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return err
				}
				if sub.ID > 0 {
					if err := tx.
						Model(&models.Subscription{}).
						Where(&models.Subscription{ID: sub.ID}).
						Updates(map[string]any{
							"tier":   types.TIER_FREE,
							"status": types.SUBSCRIPTION_ACTIVE,
						}).
						Error; err != nil {
						ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not activate subscription"})
						return err
					}
					sub.Tier = types.TIER_FREE
					sub.Status = types.SUBSCRIPTION_ACTIVE
					return nil
				}
				sub = models.Subscription{
					UserID: userId,
					Tier:   types.TIER_FREE,
					Status: types.SUBSCRIPTION_ACTIVE,
				}
				if err := tx.Create(&sub).Error; err != nil {
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not activate subscription"})
					return err
				}
				return nil
			})
			if err != nil {
				log.Printf("ActivateFreeTier failed: %s\n", err.Error())
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": sub})
		})
	return g
}

func subscriptionWebhookRoute(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/subscription/webhook", func(ctx *gin.Context) {
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
		case "checkout.session.completed":
			var cs stripe.CheckoutSession
			if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
				log.Printf("[Stripe] Error parsing CheckoutSession: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			md := cs.Metadata
			atoi, err := strconv.Atoi(md["user_id"])
			if err != nil {
				log.Printf("Could not read user id for CheckoutSession %s: %s\n", cs.ID, err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := uint(atoi)
			tier := types.SubscriptionTier(md["tier"])
			if !tier.Valid() {
				log.Printf("CheckoutSession %s carries unknown tier %q\n", cs.ID, md["tier"])
				ctx.Status(http.StatusBadRequest)
				return
			}
			var subId *string
			if cs.Subscription != nil {
				subId = &cs.Subscription.ID
			}
			db := db.GetDb()
			if err := db.Transaction(func(tx *gorm.DB) error {
				// The checkout session is the first place the Stripe
				// customer id becomes known; keep it on the user.
				if cs.Customer != nil {
					if err := tx.
						Model(&models.User{}).
						Where(&models.User{ID: userId}).
						Updates(&models.User{StripeCustomerId: &cs.Customer.ID}).
						Error; err != nil {
						return err
					}
				}
				var sub models.Subscription
				err := tx.
					Model(&models.Subscription{}).
					Where(&models.Subscription{UserID: userId}).
					First(&sub).
					Error
				if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				if sub.ID > 0 {
					return tx.
						Model(&models.Subscription{}).
						Where(&models.Subscription{ID: sub.ID}).
						Updates(&models.Subscription{
							Tier:                 tier,
							Status:               types.SUBSCRIPTION_ACTIVE,
							StripeSubscriptionId: subId,
						}).
						Error
				}
				return tx.Create(&models.Subscription{
					UserID:               userId,
					Tier:                 tier,
					Status:               types.SUBSCRIPTION_ACTIVE,
					StripeSubscriptionId: subId,
				}).Error
			}); err != nil {
				log.Printf("Error activating subscription for user %d: %s\n", userId, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
		case "customer.subscription.deleted":
			var sub stripe.Subscription
			if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
				log.Printf("[Stripe] Error parsing Subscription: %s\n", err.Error())
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			if err := db.
				Model(&models.Subscription{}).
				Where("stripe_subscription_id = ?", sub.ID).
				Update("status", types.SUBSCRIPTION_CANCELED).
				Error; err != nil {
				log.Printf("Error canceling subscription %s: %s\n", sub.ID, err.Error())
				ctx.Status(http.StatusInternalServerError)
				return
			}
		}
		lib.MarkWebhookEvent(event.ID)
		ctx.Status(http.StatusNoContent)
	})
	return apiv1
}
