package main

import (
	"log"
	"net/http"
	"time"

	"ftm/src/config"
	"ftm/src/db"
	"ftm/src/lib"
	"ftm/src/models"
	"ftm/src/types"
	"ftm/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func publicEventRoutes(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events", func(ctx *gin.Context) {
			db := db.GetDb()
			var events []models.Event
			if err := db.
				Model(&models.Event{}).
				Where("active = ?", true).
				Where("date >= ?", time.Now()).
				Order("date asc").
				Find(&events).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve events"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events})
		}).
		GET("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var event models.Event
			if err := db.
				Model(&models.Event{}).
				Where(&models.Event{ID: params.ID}).
				First(&event).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": event})
		})
	return g
}

func eventHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/events/owned", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var events []models.Event
			if err := db.
				Model(&models.Event{}).
				Preload("Bookings").
				Where(&models.Event{OrganizerID: userId}).
				Order("date asc").
				Find(&events).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve events"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": events})
		}).
		POST("/events", func(ctx *gin.Context) {
			role := ctx.GetString("role")
			if role != string(types.ROLE_EVENT_ORGANIZER) {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "only event organizers can create events"})
				return
			}
			var body types.CreateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			date, err := time.Parse(config.TIME_PARSE_FORMAT, body.Date)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			event := models.Event{
				Title:       body.Title,
				Description: body.Description,
				Location:    body.Location,
				Date:        date,
				Headcount:   body.Headcount,
				Cuisines:    types.StringList(body.Cuisines),
				OrganizerID: userId,
			}
			if body.Location != "" {
				event.Latitude, event.Longitude = lib.GeocodeAddress(ctx, body.Location)
			}
			db := db.GetDb()
			err = db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Create(&event).Error; err != nil {
					return err
				}
				return tx.
					Model(&models.Event{}).
					Where(&models.Event{ID: event.ID}).
					Update("slug", utils.SlugFor(event.Title, event.ID)).
					Error
			})
			if err != nil {
				log.Printf("Error creating Event: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "could not create event"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": gin.H{"id": event.ID}})
		}).
		PATCH("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateEventRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			event, status, err := utils.GetOwnedEvent(db, params.ID, userId)
			if err != nil {
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			values := map[string]any{}
			if body.Title != nil {
				values["title"] = *body.Title
				values["slug"] = utils.SlugFor(*body.Title, event.ID)
			}
			if body.Description != nil {
				values["description"] = *body.Description
			}
			if body.Location != nil {
				values["location"] = *body.Location
				lat, lng := lib.GeocodeAddress(ctx, *body.Location)
				values["latitude"] = lat
				values["longitude"] = lng
			}
			if body.Date != nil {
				date, err := time.Parse(config.TIME_PARSE_FORMAT, *body.Date)
				if err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				values["date"] = date
			}
			if body.Headcount != nil {
				values["headcount"] = *body.Headcount
			}
			if body.Cuisines != nil {
				values["cuisines"] = types.StringList(*body.Cuisines)
			}
			if body.Active != nil {
				values["active"] = *body.Active
			}
			if len(values) == 0 {
				ctx.JSON(http.StatusOK, gin.H{"data": event})
				return
			}
			if err := db.
				Model(&models.Event{}).
				Where(&models.Event{ID: event.ID}).
				Updates(values).
				Error; err != nil {
				log.Printf("Error updating Event [%d]: %s\n", event.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not update event"})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/events/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			event, status, err := utils.GetOwnedEvent(db, params.ID, userId)
			if err != nil {
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			if err := db.Delete(event).Error; err != nil {
				log.Printf("Error deleting Event [%d]: %s\n", event.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete event"})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
