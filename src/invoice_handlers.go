package main

import (
	"fmt"
	"net/http"

	"rently/src/db"
	"rently/src/documents"
	"rently/src/models"
	"rently/src/types"

	"github.com/gin-gonic/gin"
)

func invoiceHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/invoices", func(ctx *gin.Context) {
			userID := ctx.GetUint("id")
			conn := db.GetDb()
			var invoices []models.Invoice
			if err := conn.
				Model(&models.Invoice{}).
				Where(&models.Invoice{UserID: userID}).
				Order("created_at desc").
				Find(&invoices).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": invoices, "count": len(invoices)})
		}).
		GET("/invoices/:id", func(ctx *gin.Context) {
			invoice, ok := findInvoice(ctx)
			if !ok {
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": invoice})
		}).
		POST("/invoices", func(ctx *gin.Context) {
			var body types.CreateInvoiceRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			invoice, err := documents.CreateInvoiceForBooking(db.GetDb(), body.BookingID)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"success": true, "data": invoice})
		}).
		PUT("/invoices/:id", func(ctx *gin.Context) {
			invoice, ok := findInvoice(ctx)
			if !ok {
				return
			}
			var body types.UpdateInvoiceRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			updates := map[string]any{}
			if body.Status != nil {
				updates["status"] = *body.Status
			}
			if body.Notes != nil {
				updates["notes"] = *body.Notes
			}
			conn := db.GetDb()
			if len(updates) > 0 {
				if err := conn.
					Model(&models.Invoice{}).
					Where("id = ?", invoice.ID).
					Updates(updates).
					Error; err != nil {
					ctx.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
					return
				}
			}
			conn.Where("id = ?", invoice.ID).First(invoice)
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": invoice})
		}).
		DELETE("/invoices/:id", func(ctx *gin.Context) {
			invoice, ok := findInvoice(ctx)
			if !ok {
				return
			}
			conn := db.GetDb()
			if err := conn.Delete(&models.Invoice{}, "id = ?", invoice.ID).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "invoice deleted"})
		}).
		GET("/invoices/:id/download", func(ctx *gin.Context) {
			invoice, ok := findInvoice(ctx)
			if !ok {
				return
			}
			html, err := documents.RenderInvoiceHTML(invoice)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.html", invoice.InvoiceNumber))
			ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
		}).
		GET("/invoices/:id/view", func(ctx *gin.Context) {
			invoice, ok := findInvoice(ctx)
			if !ok {
				return
			}
			html, err := documents.RenderInvoiceHTML(invoice)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
		})
	return g
}

func findInvoice(ctx *gin.Context) (*models.Invoice, bool) {
	id := ctx.Params.ByName("id")
	conn := db.GetDb()
	var invoice models.Invoice
	if err := conn.Where("id = ?", id).First(&invoice).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
		return nil, false
	}
	return &invoice, true
}
