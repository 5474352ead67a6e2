package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"ftm/src/common"
	"ftm/src/config"
	"ftm/src/db"
	"ftm/src/models"
	"ftm/src/types"
	"ftm/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Schedules are where a truck plans to park; updates are free-form posts
// blasted to followers. Both hang off an owned truck.
func scheduleHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/trucks/:id/schedules", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.CreateScheduleRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			startsAt, err := time.Parse(config.TIME_PARSE_FORMAT, body.StartsAt)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			endsAt, err := time.Parse(config.TIME_PARSE_FORMAT, body.EndsAt)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			truck, status, err := utils.GetOwnedTruck(db, params.ID, userId)
			if err != nil {
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			schedule := models.Schedule{
				TruckID:  truck.ID,
				Location: body.Location,
				StartsAt: startsAt,
				EndsAt:   endsAt,
			}
			if err := db.Create(&schedule).Error; err != nil {
				log.Printf("Error creating Schedule: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not save schedule"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": schedule})
		}).
		DELETE("/trucks/:id/schedules/:scheduleId", func(ctx *gin.Context) {
			var params struct {
				ID         uint `uri:"id" binding:"required"`
				ScheduleID uint `uri:"scheduleId" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			truck, status, err := utils.GetOwnedTruck(db, params.ID, userId)
			if err != nil {
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			var schedule models.Schedule
			if err := db.
				Model(&models.Schedule{}).
				Where(&models.Schedule{ID: params.ScheduleID, TruckID: truck.ID}).
				First(&schedule).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve schedule"})
				return
			}
			if err := db.Delete(&schedule).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete schedule"})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		POST("/trucks/:id/updates", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.CreateUpdateRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			truck, status, err := utils.GetOwnedTruck(db, params.ID, userId)
			if err != nil {
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			update := models.Update{
				TruckID: truck.ID,
				Title:   body.Title,
				Body:    body.Body,
			}
			if err := db.Create(&update).Error; err != nil {
				log.Printf("Error creating Update: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not save update"})
				return
			}
			go common.NotifyTruckUpdate(update.ID)
			ctx.JSON(http.StatusCreated, gin.H{"data": update})
		}).
		DELETE("/trucks/:id/updates/:updateId", func(ctx *gin.Context) {
			var params struct {
				ID       uint `uri:"id" binding:"required"`
				UpdateID uint `uri:"updateId" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			truck, status, err := utils.GetOwnedTruck(db, params.ID, userId)
			if err != nil {
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			var update models.Update
			if err := db.
				Model(&models.Update{}).
				Where(&models.Update{ID: params.UpdateID, TruckID: truck.ID}).
				First(&update).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "update not found"})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve update"})
				return
			}
			if err := db.Delete(&update).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete update"})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
