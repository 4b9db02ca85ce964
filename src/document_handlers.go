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

func documentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/documents", func(ctx *gin.Context) {
			conn := db.GetDb()
			var docs []models.Document
			query := conn.Model(&models.Document{})
			if bookingID := ctx.Query("booking_id"); bookingID != "" {
				query = query.Where("booking_id = ?", bookingID)
			}
			if docType := ctx.Query("type"); docType != "" {
				query = query.Where("type = ?", docType)
			}
			if err := query.Order("created_at desc").Find(&docs).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": docs, "count": len(docs)})
		}).
		GET("/documents/:id", func(ctx *gin.Context) {
			document, ok := findDocument(ctx)
			if !ok {
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": document})
		}).
		POST("/documents", func(ctx *gin.Context) {
			var body types.CreateDocumentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			conn := db.GetDb()
			var document *models.Document
			var err error
			if body.Type == types.DOCUMENT_RETURN {
				document, err = documents.CreateReturnDocument(conn, body.BookingID, nil)
			} else {
				document, err = documents.CreatePickupDocument(conn, body.BookingID, nil)
			}
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"success": true, "data": document})
		}).
		PUT("/documents/:id/status", func(ctx *gin.Context) {
			id := ctx.Params.ByName("id")
			var body types.UpdateDocumentStatusRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			document, err := documents.UpdateDocumentStatus(db.GetDb(), id, &documents.UpdateDocumentStatusInput{
				Status:    body.Status,
				Condition: body.Condition,
				Notes:     body.Notes,
			})
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": document})
		}).
		GET("/documents/:id/download", func(ctx *gin.Context) {
			document, ok := findDocument(ctx)
			if !ok {
				return
			}
			html, err := documents.RenderDocumentHTML(document)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.html", document.DocumentNumber))
			ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
		}).
		GET("/documents/:id/view", func(ctx *gin.Context) {
			document, ok := findDocument(ctx)
			if !ok {
				return
			}
			html, err := documents.RenderDocumentHTML(document)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
		})
	return g
}

func findDocument(ctx *gin.Context) (*models.Document, bool) {
	id := ctx.Params.ByName("id")
	conn := db.GetDb()
	var document models.Document
	if err := conn.Where("id = ?", id).First(&document).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
		return nil, false
	}
	return &document, true
}
