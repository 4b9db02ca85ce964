package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"

	"rently/src/db"
	"rently/src/models"
	"rently/src/settlement"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/account"
	"github.com/stripe/stripe-go/v82/accountlink"
	"github.com/stripe/stripe-go/v82/webhook"
)

func paymentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/payments", func(ctx *gin.Context) {
			uid := ctx.GetString("uid")
			conn := db.GetDb()
			var payments []models.Payment
			if err := conn.
				Model(&models.Payment{}).
				Where("renter_uid = ? OR owner_uid = ?", uid, uid).
				Order("created_at desc").
				Find(&payments).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": payments, "count": len(payments)})
		}).
		POST("/stripe/onboarding", func(ctx *gin.Context) {
			userID := ctx.GetUint("id")
			conn := db.GetDb()
			var user models.User
			if err := conn.Where(&models.User{ID: userID}).First(&user).Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
				return
			}
			accountID := ""
			if user.StripeAccountId != nil {
				accountID = *user.StripeAccountId
			} else {
				accParams := &stripe.AccountParams{
					Email: stripe.String(user.Email),
					Capabilities: &stripe.AccountCapabilitiesParams{
						Transfers: &stripe.AccountCapabilitiesTransfersParams{
							Requested: stripe.Bool(true),
						},
					},
				}
				accParams.AddMetadata("userId", strconv.Itoa(int(user.ID)))
				acc, err := account.New(accParams)
				if err != nil {
					log.Printf("Error creating account for user %d: %s\n", user.ID, err.Error())
					ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
					return
				}
				accountID = acc.ID
				if err := conn.
					Model(&models.User{}).
					Where("id = ?", user.ID).
					Updates(&models.User{StripeAccountId: &acc.ID}).
					Error; err != nil {
					log.Printf("Error saving account id for user %d: %s\n", user.ID, err.Error())
				}
			}
			link, err := accountlink.New(&stripe.AccountLinkParams{
				Account:    stripe.String(accountID),
				Type:       stripe.String("account_onboarding"),
				ReturnURL:  stripe.String(fmt.Sprint(os.Getenv("APP_HOST"), "/dashboard")),
				RefreshURL: stripe.String(fmt.Sprint(os.Getenv("APP_HOST"), "/callback/account/refresh")),
			})
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
				"account_id": accountID,
				"url":        link.URL,
			}})
		})
	return g
}

func stripeWebhookRoute(g *gin.Engine, orch *settlement.Orchestrator) *gin.RouterGroup {
	apiv1 := apiv1Group(g)
	apiv1.POST("/webhook/stripe", func(ctx *gin.Context) {
		payload, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			log.Printf("Error reading request body: %s\n", err.Error())
			ctx.Status(http.StatusServiceUnavailable)
			return
		}
		whsecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
		event, err := webhook.ConstructEvent(payload, ctx.GetHeader("Stripe-Signature"), whsecret)
		if err != nil {
			log.Printf("Error verifying webhook signature: %s\n", err.Error())
			ctx.Status(http.StatusBadRequest)
			return
		}
		log.Printf("[StripeEvent] %s\n", event.Type)
		switch event.Type {
		case "payment_intent.succeeded":
			var intent stripe.PaymentIntent
			if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
				log.Printf("[Stripe] Error parsing PaymentIntent: %s\n", err.Error())
				break
			}
			id := intent.Metadata["bookingId"]
			atoi, err := strconv.Atoi(id)
			if err != nil {
				log.Printf("Could not read bookingId for intent %s: %s\n", intent.ID, err.Error())
				break
			}
			bookingID := uint(atoi)
			if _, _, err := orch.ConfirmPayment(ctx, bookingID, intent.ID); err != nil {
				log.Printf("Error confirming payment for Booking [%d]: %s\n", bookingID, err.Error())
			}
		case "payment_intent.payment_failed":
			var intent stripe.PaymentIntent
			if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
				log.Printf("[Stripe] Error parsing PaymentIntent: %s\n", err.Error())
				break
			}
			if err := orch.MarkPaymentFailed(ctx, intent.ID); err != nil {
				log.Printf("Error reverting payment %s: %s\n", intent.ID, err.Error())
			}
		case "account.updated":
			var acc stripe.Account
			if err := json.Unmarshal(event.Data.Raw, &acc); err != nil {
				log.Printf("[Stripe] Error parsing Account: %s\n", err.Error())
				break
			}
			userID := acc.Metadata["userId"]
			atoi, err := strconv.Atoi(userID)
			if err != nil {
				log.Printf("Error reading property userId from Metadata: %s\n", err.Error())
				break
			}
			conn := db.GetDb()
			if err := conn.
				Model(&models.User{}).
				Where("id = ?", uint(atoi)).
				Updates(&models.User{StripeAccountId: &acc.ID}).
				Error; err != nil {
				log.Printf("Error updating user %d: %s\n", atoi, err.Error())
			}
		default:
			log.Printf("[StripeEvent] unhandled event type: %s\n", event.Type)
		}
		ctx.Status(http.StatusOK)
	})
	return apiv1
}
