package main

import (
	"log"
	"net/http"
	"time"

	"rently/src/config"
	"rently/src/db"
	"rently/src/models"
	"rently/src/settlement"
	"rently/src/types"

	"github.com/gin-gonic/gin"
)

func bookingHandlers(g *gin.RouterGroup, orch *settlement.Orchestrator) *gin.RouterGroup {
	g.
		GET("/bookings", func(ctx *gin.Context) {
			uid := ctx.GetString("uid")
			conn := db.GetDb()
			var bookings []models.Booking
			err := conn.
				Model(&models.Booking{}).
				Where("renter_uid = ? OR owner_uid = ?", uid, uid).
				Preload("Product").
				Order("created_at desc").
				Find(&bookings).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			conn := db.GetDb()
			var booking models.Booking
			if err := conn.
				Model(&models.Booking{}).
				Where(&models.Booking{ID: params.ID}).
				Preload("Product").
				Preload("Renter").
				Preload("Owner").
				Preload("Payment").
				First(&booking).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": booking})
		}).
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			startDate, err := time.Parse(config.TIME_PARSE_FORMAT, body.StartDate)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			endDate, err := time.Parse(config.TIME_PARSE_FORMAT, body.EndDate)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			booking, err := orch.CreateBooking(ctx, &settlement.CreateBookingParams{
				ProductID:  body.ProductID,
				RenterID:   body.RenterID,
				RenterUID:  body.RenterUID,
				OwnerID:    body.OwnerID,
				OwnerUID:   body.OwnerUID,
				StartDate:  startDate,
				EndDate:    endDate,
				TotalPrice: body.TotalPrice,
			})
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"success": true, "data": booking})
		}).
		POST("/bookings/:id/pay", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			result, err := orch.InitiatePayment(ctx, params.ID)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": result})
		}).
		POST("/bookings/:id/confirm-payment", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			var body types.ConfirmPaymentRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			booking, payment, err := orch.ConfirmPayment(ctx, params.ID, body.PaymentIntentID)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
				"booking": booking,
				"payment": payment,
			}})
		}).
		PUT("/bookings/:id/confirm-pickup", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			var body types.ConfirmPickupRequestBody
			if ctx.Request.ContentLength > 0 {
				if err := ctx.ShouldBindJSON(&body); err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
					return
				}
			}
			booking, transfer, err := orch.ConfirmPickup(ctx, params.ID, body.OwnerStripeAccountID)
			if err != nil {
				if booking != nil {
					// Pickup committed, payout did not. Report both.
					log.Printf("Payout failed for Booking [%d]: %s\n", booking.ID, err.Error())
					ctx.JSON(http.StatusInternalServerError, gin.H{
						"success": false,
						"data":    booking,
						"message": "pickup confirmed, payout failed and will be retried",
						"error":   err.Error(),
					})
					return
				}
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
				"booking":  booking,
				"transfer": transfer,
			}})
		}).
		PUT("/bookings/:id/complete", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			booking, err := orch.CompleteBooking(ctx, params.ID)
			if err != nil {
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": booking})
		}).
		PUT("/bookings/:id/cancel", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			var body types.CancelBookingRequestBody
			if ctx.Request.ContentLength > 0 {
				if err := ctx.ShouldBindJSON(&body); err != nil {
					ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
					return
				}
			}
			booking, refund, err := orch.CancelBooking(ctx, params.ID, body.Reason)
			if err != nil {
				if booking != nil {
					// Cancellation committed, refund did not.
					log.Printf("Refund failed for Booking [%d]: %s\n", booking.ID, err.Error())
					ctx.JSON(http.StatusInternalServerError, gin.H{
						"success": false,
						"data":    booking,
						"message": "booking cancelled, refund failed and needs manual review",
						"error":   err.Error(),
					})
					return
				}
				respondError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
				"booking": booking,
				"refund":  refund,
			}})
		})
	return g
}
