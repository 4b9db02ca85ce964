package main

import (
	"net/http"

	"rently/src/db"
	"rently/src/models"
	"rently/src/types"

	"github.com/gin-gonic/gin"
)

func productHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/products", func(ctx *gin.Context) {
			conn := db.GetDb()
			var products []models.Product
			query := conn.Model(&models.Product{})
			if category := ctx.Query("category"); category != "" {
				query = query.Where("category = ?", category)
			}
			if status := ctx.Query("status"); status != "" {
				query = query.Where("status = ?", status)
			}
			if err := query.Order("created_at desc").Find(&products).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": products, "count": len(products)})
		}).
		GET("/products/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			conn := db.GetDb()
			var product models.Product
			if err := conn.
				Where(&models.Product{ID: params.ID}).
				Preload("Owner").
				First(&product).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": product})
		}).
		POST("/products", func(ctx *gin.Context) {
			var body types.CreateProductRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			ownerID := ctx.GetUint("id")
			product := models.Product{
				OwnerID:         ownerID,
				Title:           body.Title,
				Description:     body.Description,
				Category:        body.Category,
				PricePerDay:     body.PricePerDay,
				SecurityDeposit: body.SecurityDeposit,
				Status:          types.PRODUCT_AVAILABLE,
			}
			conn := db.GetDb()
			if err := conn.Create(&product).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"success": true, "data": product})
		}).
		PUT("/products/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			var body types.UpdateProductRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			conn := db.GetDb()
			var product models.Product
			if err := conn.Where(&models.Product{ID: params.ID}).First(&product).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
				return
			}
			ownerID := ctx.GetUint("id")
			if product.OwnerID != ownerID {
				ctx.JSON(http.StatusForbidden, gin.H{"success": false, "error": "not the product owner"})
				return
			}
			updates := map[string]any{}
			if body.Title != nil {
				updates["title"] = *body.Title
			}
			if body.Description != nil {
				updates["description"] = *body.Description
			}
			if body.PricePerDay != nil {
				updates["price_per_day"] = *body.PricePerDay
			}
			if body.Status != nil {
				updates["status"] = *body.Status
			}
			if len(updates) > 0 {
				if err := conn.
					Model(&models.Product{}).
					Where("id = ?", product.ID).
					Updates(updates).
					Error; err != nil {
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
					return
				}
			}
			conn.Where(&models.Product{ID: params.ID}).First(&product)
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": product})
		})
	return g
}
