package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"ftm/src/db"
	"ftm/src/lib"
	"ftm/src/models"
	"ftm/src/types"
	"ftm/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthRegister creates the local user row for a verified identity. The
// role is chosen at registration and immutable afterwards; callers that
// omit it start as a plain user.
func AuthRegister(ctx *gin.Context) (token *string, status int, err error) {
	var body types.RegisterUserRequestBody
	if err := ctx.ShouldBindJSON(&body); err != nil {
		return nil, http.StatusBadRequest, err
	}
	role := body.Role
	if role == "" {
		role = types.ROLE_USER
	}
	if !role.Valid() {
		return nil, http.StatusBadRequest, fmt.Errorf("invalid role %q", body.Role)
	}
	uid := ctx.GetString("uid")

	db := db.GetDb()
	var count int64
	if err := db.
		Model(&models.User{}).
		Where(&models.User{Email: body.Email}).
		Count(&count).
		Error; err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if count > 0 {
		return nil, http.StatusBadRequest, errors.New("an account with this email already exists")
	}

	user := models.User{
		Email: body.Email,
		Name:  body.Name,
		Role:  role,
		UID:   uid,
	}
	if err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return nil
	}); err != nil {
		log.Printf("Error creating user: %s\n", err.Error())
		return nil, http.StatusInternalServerError, err
	}

	jwt, err := utils.GenerateJWT(user.Email, user.ID, string(user.Role), string(types.TIER_FREE))
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return &jwt, http.StatusCreated, nil
}

func AuthLogin(ctx *gin.Context) (token *string, status int, err error) {
	uid := ctx.GetString("uid")

	db := db.GetDb()
	var muser models.User
	if err = db.
		Model(&models.User{}).
		Preload("Subscription").
		Where(&models.User{UID: uid}).
		First(&muser).
		Error; err != nil {
		log.Printf("error: %s\n", err.Error())
		return nil, http.StatusNotFound, errors.New("no account for this identity")
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.User{}).
			Where("id", muser.ID).
			Update("last_active", time.Now()).
			Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("Error logging in user [%d]: %s\n", muser.ID, err.Error())
		return nil, http.StatusBadRequest, err
	}

	tier := types.TIER_FREE
	if muser.Subscription != nil && muser.Subscription.Status == types.SUBSCRIPTION_ACTIVE {
		tier = muser.Subscription.Tier
	}
	jwt, err := utils.GenerateJWT(muser.Email, muser.ID, string(muser.Role), string(tier))
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}

	rd := lib.GetRedisClient()
	if rd != nil {
		if _, err := rd.JSONSet(context.Background(), fmt.Sprintf("%d:user", muser.ID), "$", &muser).Result(); err != nil {
			log.Printf("[redis] Error updating user cache: %s\n", err.Error())
		}
	}
	return &jwt, http.StatusOK, nil
}
