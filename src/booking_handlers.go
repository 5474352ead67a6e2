package main

import (
	"errors"
	"log"
	"net/http"

	"ftm/src/common"
	"ftm/src/db"
	"ftm/src/models"
	"ftm/src/types"
	"ftm/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/bookings", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			role := ctx.GetString("role")
			db := db.GetDb()
			var bookings []models.Booking
			q := db.
				Model(&models.Booking{}).
				Preload("Truck").
				Preload("Event").
				Order("created_at DESC").
				Limit(100)
			if role == string(types.ROLE_TRUCK_OWNER) {
				q = q.
					Joins("JOIN trucks ON trucks.id = bookings.truck_id").
					Where("trucks.owner_id = ?", userId)
			} else {
				q = q.
					Joins("JOIN events ON events.id = bookings.event_id").
					Where("events.organizer_id = ?", userId)
			}
			if err := q.Find(&bookings).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve bookings"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var booking models.Booking
			if err := db.
				Model(&models.Booking{}).
				Where(&models.Booking{ID: params.ID}).
				Preload("Truck").
				Preload("Event").
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
				return
			}
			if booking.Truck.OwnerID != userId && booking.Event.OrganizerID != userId {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "you are not a party to this booking"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			role := ctx.GetString("role")
			if role != string(types.ROLE_TRUCK_OWNER) {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "only truck owners can apply to events"})
				return
			}
			db := db.GetDb()
			var booking models.Booking
			err := db.Transaction(func(tx *gorm.DB) error {
				_, status, err := utils.GetOwnedTruck(tx, body.TruckID, userId)
				if err != nil {
					ctx.JSON(status, gin.H{"error": err.Error()})
					return err
				}
				var event models.Event
				if err := tx.
					Model(&models.Event{}).
					Where(&models.Event{ID: body.EventID}).
					First(&event).
					Error; err != nil {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
					return err
				}
				if !event.Active {
					err := errors.New("event is no longer accepting bookings")
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return err
				}
				var blocked int64
				if err := tx.
					Model(&models.TruckUnavailability{}).
					Where(&models.TruckUnavailability{TruckID: body.TruckID}).
					Where("DATE(date) = DATE(?)", event.Date).
					Count(&blocked).
					Error; err != nil {
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not verify truck availability"})
					return err
				}
				if blocked > 0 {
					err := errors.New("truck is marked unavailable on the event date")
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return err
				}
				// Re-application is allowed only once every earlier
				// request for the pair has been declined.
				var open int64
				if err := tx.
					Model(&models.Booking{}).
					Where(&models.Booking{TruckID: body.TruckID, EventID: body.EventID}).
					Where("status <> ?", types.BOOKING_DECLINED).
					Count(&open).
					Error; err != nil {
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not verify existing bookings"})
					return err
				}
				if open > 0 {
					err := errors.New("a booking for this truck and event already exists")
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return err
				}
				booking = models.Booking{
					TruckID:       body.TruckID,
					EventID:       body.EventID,
					Status:        types.BOOKING_PENDING,
					Message:       body.Message,
					ProposedPrice: body.ProposedPrice,
				}
				if err := tx.Create(&booking).Error; err != nil {
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not create booking"})
					return err
				}
				application := models.Application{
					EventID:   body.EventID,
					TruckID:   body.TruckID,
					Status:    types.APPLICATION_APPLIED,
					BookingID: booking.ID,
				}
				if err := tx.Create(&application).Error; err != nil {
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not create application"})
					return err
				}
				return nil
			})
			if err != nil {
				log.Printf("CreateBooking failed: %s\n", err.Error())
				return
			}
			go common.NotifyBookingCreated(booking.ID)
			ctx.JSON(http.StatusCreated, gin.H{"data": booking})
		}).
		PATCH("/bookings/:id/status", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateBookingStatusRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if !body.Status.Valid() {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking status"})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var booking models.Booking
			noop := false
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Model(&models.Booking{}).
					Where(&models.Booking{ID: params.ID}).
					Preload("Truck").
					Preload("Event").
					First(&booking).
					Error; err != nil {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
					return err
				}
				// Accepting, declining and completing are organizer calls.
				if booking.Event.OrganizerID != userId {
					err := errors.New("only the event organizer can change the booking status")
					ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
					return err
				}
				if booking.Status == body.Status {
					noop = true
					return nil
				}
				if !booking.Status.CanTransitionTo(body.Status) {
					err := errors.New("booking status cannot move backwards")
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return err
				}
				if err := tx.
					Model(&models.Booking{}).
					Where(&models.Booking{ID: booking.ID, Status: booking.Status}).
					Update("status", body.Status).
					Error; err != nil {
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not update booking"})
					return err
				}
				// Keep the matching records in step with the lifecycle.
				if body.Status == types.BOOKING_ACCEPTED || body.Status == types.BOOKING_DECLINED {
					appStatus := types.APPLICATION_ACCEPTED
					invStatus := types.INVITE_ACCEPTED
					if body.Status == types.BOOKING_DECLINED {
						appStatus = types.APPLICATION_REJECTED
						invStatus = types.INVITE_DECLINED
					}
					if err := tx.
						Model(&models.Application{}).
						Where(&models.Application{BookingID: booking.ID}).
						Update("status", appStatus).
						Error; err != nil {
						ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not update application"})
						return err
					}
					if err := tx.
						Model(&models.Invite{}).
						Where(&models.Invite{BookingID: &booking.ID}).
						Update("status", invStatus).
						Error; err != nil {
						ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not update invite"})
						return err
					}
				}
				return nil
			})
			if err != nil {
				log.Printf("UpdateBookingStatus failed: %s\n", err.Error())
				return
			}
			if noop {
				ctx.JSON(http.StatusOK, gin.H{"data": booking})
				return
			}
			switch body.Status {
			case types.BOOKING_ACCEPTED:
				go common.NotifyBookingAccepted(booking.ID)
			case types.BOOKING_DECLINED:
				go common.NotifyBookingDeclined(booking.ID)
			}
			booking.Status = body.Status
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		POST("/bookings/:id/payment-intent", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var booking models.Booking
			if err := db.
				Model(&models.Booking{}).
				Where(&models.Booking{ID: params.ID}).
				Preload("Event").
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
				return
			}
			if booking.Event.OrganizerID != userId {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "only the event organizer can pay the deposit"})
				return
			}
			// Deposits exist only for accepted bookings.
			if booking.Status != types.BOOKING_ACCEPTED {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "a deposit can only be requested for an accepted booking"})
				return
			}
			// A settled deposit stays settled; the webhook owns payment
			// state after that point.
			if booking.PaymentStatus == types.PAYMENT_PAID {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "the deposit for this booking has already been paid"})
				return
			}
			pi, amount, err := utils.CreateDepositPaymentIntent(&booking)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "payment provider request failed"})
				return
			}
			if err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Model(&models.Booking{}).
					Where(&models.Booking{ID: booking.ID}).
					Updates(&models.Booking{
						PaymentStatus:   types.PAYMENT_PENDING,
						PaymentIntentId: &pi.ID,
						DepositAmount:   amount,
					}).
					Error; err != nil {
					return err
				}
				return nil
			}); err != nil {
				log.Printf("Error persisting PaymentIntent for Booking [%d]: %s\n", booking.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not record payment intent"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"client_secret":  pi.ClientSecret,
				"deposit_amount": amount,
				"currency":       pi.Currency,
			}})
		})
	return g
}
