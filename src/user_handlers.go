package main

import (
	"log"
	"net/http"

	"rently/src/db"
	"rently/src/models"
	"rently/src/types"
	"rently/src/utils"

	"github.com/gin-gonic/gin"
)

func guestUserRoutes(g *gin.Engine) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/users/register", func(ctx *gin.Context) {
		var body types.RegisterUserRequestBody
		if err := ctx.ShouldBindJSON(&body); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		conn := db.GetDb()
		var user models.User
		err := conn.Where(&models.User{UID: body.UID}).First(&user).Error
		if err != nil {
			user = models.User{
				Name:  body.Name,
				Email: body.Email,
				UID:   body.UID,
			}
			if err := conn.Create(&user).Error; err != nil {
				log.Printf("Error creating user: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
				return
			}
		}
		token, err := utils.GenerateJWT(user.Email, user.UID, user.Role)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"user":  user,
			"token": token,
		}})
	})
	return apiv1
}

func userHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.GET("/users/me", func(ctx *gin.Context) {
		userID := ctx.GetUint("id")
		conn := db.GetDb()
		var user models.User
		if err := conn.Where(&models.User{ID: userID}).First(&user).Error; err != nil {
			ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"success": true, "data": user})
	})
	return g
}
