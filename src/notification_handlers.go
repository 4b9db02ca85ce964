package main

import (
	"net/http"

	"rently/src/db"
	"rently/src/models"
	"rently/src/notifications"

	"github.com/gin-gonic/gin"
)

func notificationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/notifications", func(ctx *gin.Context) {
			uid := ctx.GetString("uid")
			conn := db.GetDb()
			var items []models.Notification
			query := conn.
				Model(&models.Notification{}).
				Where(&models.Notification{UserUID: uid})
			if ctx.Query("unread") == "true" {
				query = query.Where("read = ?", false)
			}
			if err := query.Order("created_at desc").Limit(100).Find(&items).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": items, "count": len(items)})
		}).
		PUT("/notifications/:id/read", func(ctx *gin.Context) {
			uid := ctx.GetString("uid")
			id := ctx.Params.ByName("id")
			if err := notifications.MarkRead(uid, id); err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "notification marked as read"})
		})
	return g
}
