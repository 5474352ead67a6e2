package main

import (
	"errors"
	"log"
	"net/http"

	"ftm/src/db"
	"ftm/src/models"
	"ftm/src/types"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func favoriteHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/favorites", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var favorites []models.Favorite
			if err := db.
				Model(&models.Favorite{}).
				Preload("Truck").
				Where(&models.Favorite{UserID: userId}).
				Find(&favorites).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve favorites"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": favorites})
		}).
		POST("/favorites", func(ctx *gin.Context) {
			var body types.CreateFavoriteRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var truck models.Truck
			if err := db.
				Model(&models.Truck{}).
				Where(&models.Truck{ID: body.TruckID}).
				First(&truck).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "truck not found"})
				return
			}
			var existing int64
			if err := db.
				Model(&models.Favorite{}).
				Where(&models.Favorite{UserID: userId, TruckID: truck.ID}).
				Count(&existing).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not verify favorite"})
				return
			}
			if existing > 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "truck is already in your favorites"})
				return
			}
			favorite := models.Favorite{UserID: userId, TruckID: truck.ID}
			if err := db.Create(&favorite).Error; err != nil {
				log.Printf("Error creating Favorite: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not save favorite"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": favorite})
		}).
		DELETE("/favorites/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var favorite models.Favorite
			if err := db.
				Model(&models.Favorite{}).
				Where(&models.Favorite{ID: params.ID, UserID: userId}).
				First(&favorite).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "favorite not found"})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve favorite"})
				return
			}
			if err := db.Delete(&favorite).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete favorite"})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		GET("/follows", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var follows []models.Follow
			if err := db.
				Model(&models.Follow{}).
				Preload("Truck").
				Where(&models.Follow{UserID: userId}).
				Find(&follows).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve follows"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": follows})
		}).
		POST("/follows", func(ctx *gin.Context) {
			var body types.CreateFollowRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var truck models.Truck
			if err := db.
				Model(&models.Truck{}).
				Where(&models.Truck{ID: body.TruckID}).
				First(&truck).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "truck not found"})
				return
			}
			var existing int64
			if err := db.
				Model(&models.Follow{}).
				Where(&models.Follow{UserID: userId, TruckID: truck.ID}).
				Count(&existing).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not verify follow"})
				return
			}
			if existing > 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "you already follow this truck"})
				return
			}
			follow := models.Follow{UserID: userId, TruckID: truck.ID, AlertsEnabled: true}
			if body.AlertsEnabled != nil {
				follow.AlertsEnabled = *body.AlertsEnabled
			}
			if err := db.Create(&follow).Error; err != nil {
				log.Printf("Error creating Follow: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not save follow"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": follow})
		}).
		PATCH("/follows/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateFollowRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var follow models.Follow
			if err := db.
				Model(&models.Follow{}).
				Where(&models.Follow{ID: params.ID, UserID: userId}).
				First(&follow).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "follow not found"})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve follow"})
				return
			}
			if err := db.
				Model(&models.Follow{}).
				Where(&models.Follow{ID: follow.ID}).
				Update("alerts_enabled", *body.AlertsEnabled).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not update follow"})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/follows/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var follow models.Follow
			if err := db.
				Model(&models.Follow{}).
				Where(&models.Follow{ID: params.ID, UserID: userId}).
				First(&follow).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "follow not found"})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve follow"})
				return
			}
			if err := db.Delete(&follow).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete follow"})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
