package main

import (
	"net/http"

	"ftm/src/db"
	"ftm/src/models"
	"ftm/src/types"

	"github.com/gin-gonic/gin"
)

func profileHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/profile", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var user models.User
			if err := db.
				Model(&models.User{}).
				Preload("Subscription").
				Where(&models.User{ID: userId}).
				First(&user).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": user})
		}).
		PATCH("/profile", func(ctx *gin.Context) {
			var body types.UpdateProfileRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if body.Role != nil {
				// A role switch would orphan trucks or events; accounts
				// keep the role they registered with.
				ctx.JSON(http.StatusForbidden, gin.H{"error": "role cannot be changed"})
				return
			}
			values := map[string]any{}
			if body.Name != nil {
				values["name"] = *body.Name
			}
			if body.Phone != nil {
				values["phone"] = *body.Phone
			}
			if body.Bio != nil {
				values["bio"] = *body.Bio
			}
			if len(values) == 0 {
				ctx.Status(http.StatusNoContent)
				return
			}
			userId := ctx.GetUint("id")
			db := db.GetDb()
			if err := db.
				Model(&models.User{}).
				Where(&models.User{ID: userId}).
				Updates(values).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
