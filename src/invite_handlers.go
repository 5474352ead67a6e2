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

func inviteHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/invites", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			role := ctx.GetString("role")
			db := db.GetDb()
			q := db.
				Model(&models.Invite{}).
				Preload("Truck").
				Preload("Event")
			switch types.Role(role) {
			case types.ROLE_TRUCK_OWNER:
				q = q.
					Joins("JOIN trucks ON trucks.id = invites.truck_id").
					Where("trucks.owner_id = ?", userId)
			case types.ROLE_EVENT_ORGANIZER:
				q = q.
					Joins("JOIN events ON events.id = invites.event_id").
					Where("events.organizer_id = ?", userId)
			default:
				ctx.JSON(http.StatusOK, gin.H{"data": []models.Invite{}})
				return
			}
			var invites []models.Invite
			if err := q.Find(&invites).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve invites"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": invites})
		}).
		POST("/invites", func(ctx *gin.Context) {
			role := ctx.GetString("role")
			if role != string(types.ROLE_EVENT_ORGANIZER) {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "only event organizers can send invites"})
				return
			}
			tier := ctx.GetString("tier")
			if tier == string(types.TIER_FREE) {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "sending invites requires a paid plan"})
				return
			}
			var body types.CreateInviteRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			event, status, err := utils.GetOwnedEvent(db, body.EventID, userId)
			if err != nil {
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			var truck models.Truck
			if err := db.
				Model(&models.Truck{}).
				Where(&models.Truck{ID: body.TruckID}).
				First(&truck).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "truck not found"})
				return
			}
			if !truck.Active {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "truck is not active"})
				return
			}
			var pending int64
			if err := db.
				Model(&models.Invite{}).
				Where(&models.Invite{EventID: event.ID, TruckID: truck.ID, Status: types.INVITE_PENDING}).
				Count(&pending).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not verify invite"})
				return
			}
			if pending > 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "an invite for this truck is already pending"})
				return
			}
			invite := models.Invite{
				EventID: event.ID,
				TruckID: truck.ID,
				Message: body.Message,
			}
			if err := db.Create(&invite).Error; err != nil {
				log.Printf("Error creating Invite: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not create invite"})
				return
			}
			go common.NotifyInviteCreated(invite.ID)
			ctx.JSON(http.StatusCreated, gin.H{"data": invite})
		}).
		PATCH("/invites/:id/status", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateInviteStatusRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if body.Status != types.INVITE_ACCEPTED && body.Status != types.INVITE_DECLINED {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "status must be accepted or declined"})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var invite models.Invite
			if err := db.
				Model(&models.Invite{}).
				Preload("Truck").
				Where(&models.Invite{ID: params.ID}).
				First(&invite).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "invite not found"})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve invite"})
				return
			}
			if invite.Truck.OwnerID != userId {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "invite is not addressed to you"})
				return
			}
			if invite.Status == body.Status {
				ctx.JSON(http.StatusOK, gin.H{"data": invite})
				return
			}
			if invite.Status != types.INVITE_PENDING {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invite has already been responded to"})
				return
			}
			var bookingId uint
			err := db.Transaction(func(tx *gorm.DB) error {
				values := map[string]any{"status": body.Status}
				if body.Status == types.INVITE_ACCEPTED {
					// Accepting an invite opens a pending booking so the
					// organizer still confirms terms through the normal
					// lifecycle.
					booking := models.Booking{
						TruckID: invite.TruckID,
						EventID: invite.EventID,
						Message: invite.Message,
					}
					if err := tx.Create(&booking).Error; err != nil {
						return err
					}
					bookingId = booking.ID
					values["booking_id"] = booking.ID
				}
				return tx.
					Model(&models.Invite{}).
					Where(&models.Invite{ID: invite.ID, Status: types.INVITE_PENDING}).
					Updates(values).
					Error
			})
			if err != nil {
				log.Printf("Error updating Invite [%d]: %s\n", invite.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not update invite"})
				return
			}
			if bookingId > 0 {
				go common.NotifyBookingCreated(bookingId)
			}
			ctx.Status(http.StatusNoContent)
		}).
		GET("/applications", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			role := ctx.GetString("role")
			db := db.GetDb()
			q := db.
				Model(&models.Application{}).
				Preload("Truck").
				Preload("Event")
			switch types.Role(role) {
			case types.ROLE_TRUCK_OWNER:
				q = q.
					Joins("JOIN trucks ON trucks.id = applications.truck_id").
					Where("trucks.owner_id = ?", userId)
			case types.ROLE_EVENT_ORGANIZER:
				q = q.
					Joins("JOIN events ON events.id = applications.event_id").
					Where("events.organizer_id = ?", userId)
			default:
				ctx.JSON(http.StatusOK, gin.H{"data": []models.Application{}})
				return
			}
			var applications []models.Application
			if err := q.Find(&applications).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve applications"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": applications})
		})
	return g
}
