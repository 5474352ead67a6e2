package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"ftm/src/config"
	"ftm/src/db"
	"ftm/src/lib"
	"ftm/src/lib/aws"
	"ftm/src/models"
	"ftm/src/types"
	"ftm/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// publicTruckRoutes are browseable without a token. Discovery is open;
// everything that mutates a truck lives behind auth in truckHandlers.
func publicTruckRoutes(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/trucks", func(ctx *gin.Context) {
			var filters types.TruckQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			q := db.
				Model(&models.Truck{}).
				Preload("MenuItems").
				Preload("Schedules")
			if filters.Cuisine != "" {
				q = q.Where(&models.Truck{Cuisine: filters.Cuisine})
			}
			if filters.Active != nil {
				q = q.Where("active = ?", *filters.Active)
			} else {
				q = q.Where("active = ?", true)
			}
			var trucks []models.Truck
			if err := q.Find(&trucks).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve trucks"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": trucks})
		}).
		GET("/trucks/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var truck models.Truck
			if err := db.
				Model(&models.Truck{}).
				Preload("MenuItems").
				Preload("Schedules").
				Preload("Updates").
				Where(&models.Truck{ID: params.ID}).
				First(&truck).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "truck not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": truck})
		}).
		GET("/trucks/:id/schedules", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var schedules []models.Schedule
			if err := db.
				Model(&models.Schedule{}).
				Where(&models.Schedule{TruckID: params.ID}).
				Order("starts_at asc").
				Find(&schedules).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve schedules"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": schedules})
		}).
		GET("/trucks/:id/updates", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			var updates []models.Update
			if err := db.
				Model(&models.Update{}).
				Where(&models.Update{TruckID: params.ID}).
				Order("created_at desc").
				Find(&updates).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve updates"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": updates})
		})
	return g
}

func truckHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/trucks/owned", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var trucks []models.Truck
			if err := db.
				Model(&models.Truck{}).
				Preload("MenuItems").
				Preload("Unavailabilities").
				Where(&models.Truck{OwnerID: userId}).
				Find(&trucks).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve trucks"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": trucks})
		}).
		POST("/trucks", func(ctx *gin.Context) {
			role := ctx.GetString("role")
			if role != string(types.ROLE_TRUCK_OWNER) {
				ctx.JSON(http.StatusForbidden, gin.H{"error": "only truck owners can create trucks"})
				return
			}
			var body types.CreateTruckRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			tier := ctx.GetString("tier")
			db := db.GetDb()
			if tier == string(types.TIER_FREE) {
				count, err := utils.CountActiveTrucks(db, userId)
				if err != nil {
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not verify truck limit"})
					return
				}
				if count >= config.FREE_TIER_TRUCK_LIMIT {
					ctx.JSON(http.StatusForbidden, gin.H{"error": "the free tier allows one active truck; upgrade to add more"})
					return
				}
			}
			truck := models.Truck{
				Name:        body.Name,
				Cuisine:     body.Cuisine,
				Description: body.Description,
				Address:     body.Address,
				OwnerID:     userId,
			}
			if body.Address != "" {
				truck.Latitude, truck.Longitude = lib.GeocodeAddress(ctx, body.Address)
			}
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := tx.Create(&truck).Error; err != nil {
					return err
				}
				if err := tx.
					Model(&models.Truck{}).
					Where(&models.Truck{ID: truck.ID}).
					Update("slug", utils.SlugFor(truck.Name, truck.ID)).
					Error; err != nil {
					return err
				}
				for _, item := range body.MenuItems {
					menuItem := models.MenuItem{
						TruckID:     truck.ID,
						Name:        item.Name,
						Description: item.Description,
						Price:       item.Price,
					}
					if err := tx.Create(&menuItem).Error; err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				log.Printf("Error creating Truck: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "could not create truck"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": gin.H{"id": truck.ID}})
		}).
		PATCH("/trucks/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateTruckRequestBody
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
			values := map[string]any{}
			if body.Name != nil {
				values["name"] = *body.Name
				values["slug"] = utils.SlugFor(*body.Name, truck.ID)
			}
			if body.Cuisine != nil {
				values["cuisine"] = *body.Cuisine
			}
			if body.Description != nil {
				values["description"] = *body.Description
			}
			if body.Address != nil {
				values["address"] = *body.Address
				lat, lng := lib.GeocodeAddress(ctx, *body.Address)
				values["latitude"] = lat
				values["longitude"] = lng
			}
			if body.Active != nil {
				if *body.Active && !truck.Active && ctx.GetString("tier") == string(types.TIER_FREE) {
					count, err := utils.CountActiveTrucks(db, userId)
					if err != nil {
						ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not verify truck limit"})
						return
					}
					if count >= config.FREE_TIER_TRUCK_LIMIT {
						ctx.JSON(http.StatusForbidden, gin.H{"error": "the free tier allows one active truck; upgrade to add more"})
						return
					}
				}
				values["active"] = *body.Active
			}
			if len(values) == 0 {
				ctx.JSON(http.StatusOK, gin.H{"data": truck})
				return
			}
			if err := db.
				Model(&models.Truck{}).
				Where(&models.Truck{ID: truck.ID}).
				Updates(values).
				Error; err != nil {
				log.Printf("Error updating Truck [%d]: %s\n", truck.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not update truck"})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		DELETE("/trucks/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
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
			if err := db.Delete(truck).Error; err != nil {
				log.Printf("Error deleting Truck [%d]: %s\n", truck.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete truck"})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		PUT("/trucks/:id/menu", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var items []types.MenuItemInput
			if err := ctx.ShouldBindJSON(&items); err != nil {
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
			// The menu is replaced wholesale. Partial edits are easy to get
			// wrong client-side and menus are small.
			err = db.Transaction(func(tx *gorm.DB) error {
				if err := tx.
					Where(&models.MenuItem{TruckID: truck.ID}).
					Delete(&models.MenuItem{}).
					Error; err != nil {
					return err
				}
				for _, item := range items {
					menuItem := models.MenuItem{
						TruckID:     truck.ID,
						Name:        item.Name,
						Description: item.Description,
						Price:       item.Price,
					}
					if err := tx.Create(&menuItem).Error; err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				log.Printf("Error replacing menu for Truck [%d]: %s\n", truck.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not update menu"})
				return
			}
			ctx.Status(http.StatusNoContent)
		}).
		POST("/trucks/:id/images", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
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
			file, err := ctx.FormFile("image")
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
				return
			}
			f, err := file.Open()
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "could not read image file"})
				return
			}
			defer f.Close()
			name := fmt.Sprintf("trucks/%d/%s", truck.ID, uuid.NewString())
			url, err := aws.S3UploadAsset(name, file.Header.Get("Content-Type"), f)
			if err != nil {
				ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not store image"})
				return
			}
			images := append(truck.Images, *url)
			if err := db.
				Model(&models.Truck{}).
				Where(&models.Truck{ID: truck.ID}).
				Update("images", images).
				Error; err != nil {
				log.Printf("Error saving image for Truck [%d]: %s\n", truck.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not save image"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": gin.H{"url": *url}})
		}).
		GET("/trucks/:id/unavailability", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
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
			var days []models.TruckUnavailability
			if err := db.
				Model(&models.TruckUnavailability{}).
				Where(&models.TruckUnavailability{TruckID: truck.ID}).
				Order("date asc").
				Find(&days).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve unavailability"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": days})
		}).
		POST("/trucks/:id/unavailability", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.CreateUnavailabilityRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			date, err := time.Parse(config.DATE_PARSE_FORMAT, body.Date)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as 2006-01-02"})
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			truck, status, err := utils.GetOwnedTruck(db, params.ID, userId)
			if err != nil {
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			var existing int64
			if err := db.
				Model(&models.TruckUnavailability{}).
				Where(&models.TruckUnavailability{TruckID: truck.ID}).
				Where("DATE(date) = DATE(?)", date).
				Count(&existing).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not verify unavailability"})
				return
			}
			if existing > 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "that day is already marked unavailable"})
				return
			}
			day := models.TruckUnavailability{
				TruckID: truck.ID,
				Date:    date,
				Reason:  body.Reason,
			}
			if err := db.Create(&day).Error; err != nil {
				log.Printf("Error creating TruckUnavailability: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not save unavailability"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": day})
		}).
		DELETE("/trucks/:id/unavailability/:dayId", func(ctx *gin.Context) {
			var params struct {
				ID    uint `uri:"id" binding:"required"`
				DayID uint `uri:"dayId" binding:"required"`
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
			var day models.TruckUnavailability
			if err := db.
				Model(&models.TruckUnavailability{}).
				Where(&models.TruckUnavailability{ID: params.DayID, TruckID: truck.ID}).
				First(&day).
				Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "unavailability not found"})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve unavailability"})
				return
			}
			if err := db.Delete(&day).Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete unavailability"})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
