package settlement

import (
	"context"
	"fmt"
	"log"
	"time"

	"rently/src/documents"
	"rently/src/fees"
	"rently/src/gateway"
	"rently/src/lib"
	"rently/src/models"
	"rently/src/notifications"
	"rently/src/types"

	"gorm.io/gorm"
)

// Orchestrator sequences the booking lifecycle: creation, payment collection,
// pickup and owner payout, completion and cancellation. Every step checks the
// transition tables before writing and commits independently; a dependent step
// failing afterwards (payout, refund) never rolls back what already committed.
type Orchestrator struct {
	db *gorm.DB
	gw gateway.PaymentGateway
}

func New(db *gorm.DB, gw gateway.PaymentGateway) *Orchestrator {
	return &Orchestrator{db: db, gw: gw}
}

func (o *Orchestrator) Gateway() gateway.PaymentGateway {
	return o.gw
}

type CreateBookingParams struct {
	ProductID  uint
	RenterID   uint
	RenterUID  string
	OwnerID    uint
	OwnerUID   string
	StartDate  time.Time
	EndDate    time.Time
	TotalPrice int64
}

func (o *Orchestrator) CreateBooking(ctx context.Context, params *CreateBookingParams) (*models.Booking, error) {
	if params.ProductID == 0 || params.RenterID == 0 || params.OwnerID == 0 {
		return nil, types.NewValidationError("productId, renterId and ownerId are required")
	}
	if params.RenterUID == "" || params.OwnerUID == "" {
		return nil, types.NewValidationError("renter and owner external identity ids are required")
	}
	if params.StartDate.IsZero() || params.EndDate.IsZero() {
		return nil, types.NewValidationError("startDate and endDate are required")
	}
	if !params.StartDate.Before(params.EndDate) {
		return nil, types.NewValidationError("startDate must be before endDate")
	}
	platformFee, ownerAmount, err := fees.Split(params.TotalPrice)
	if err != nil {
		return nil, types.NewValidationError("totalPrice must not be negative")
	}

	booking := &models.Booking{
		ProductID:     params.ProductID,
		RenterID:      params.RenterID,
		RenterUID:     params.RenterUID,
		OwnerID:       params.OwnerID,
		OwnerUID:      params.OwnerUID,
		StartDate:     params.StartDate,
		EndDate:       params.EndDate,
		TotalPrice:    params.TotalPrice,
		PlatformFee:   platformFee,
		OwnerAmount:   ownerAmount,
		Status:        types.BOOKING_PENDING,
		PaymentStatus: types.PAYMENT_UNPAID,
		PickupStatus:  types.PICKUP_PENDING,
		ReturnStatus:  types.RETURN_PENDING,
		PayoutStatus:  types.PAYOUT_PENDING,
		Version:       1,
	}
	err = o.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Where(&models.Product{ID: params.ProductID}).First(&product).Error; err != nil {
			return &types.NotFoundError{Resource: "Product", ID: params.ProductID}
		}
		booking.SecurityDeposit = product.SecurityDeposit
		booking.Currency = product.Currency
		if err := tx.Create(booking).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	notifications.Dispatch(&notifications.Input{
		UserUID:     booking.OwnerUID,
		Type:        types.NOTIFY_RENTAL_REQUEST,
		Message:     fmt.Sprintf("New rental request for product %d", booking.ProductID),
		RelatedID:   fmt.Sprint(booking.ID),
		RelatedType: "booking",
	})
	return booking, nil
}

type InitiatePaymentResult struct {
	ClientSecret    string `json:"client_secret"`
	PaymentIntentID string `json:"payment_intent_id"`
	Amount          int64  `json:"amount"`
	Duplicate       bool   `json:"duplicate,omitempty"`
}

func (o *Orchestrator) InitiatePayment(ctx context.Context, bookingID uint) (*InitiatePaymentResult, error) {
	var booking models.Booking
	if err := o.db.Where(&models.Booking{ID: bookingID}).First(&booking).Error; err != nil {
		return nil, &types.NotFoundError{Resource: "Booking", ID: bookingID}
	}

	var existing models.Payment
	err := o.db.
		Where(&models.Payment{BookingID: bookingID}).
		Order("created_at desc").
		First(&existing).
		Error
	if err == nil {
		if existing.Status == types.PAYMENT_RECORD_COMPLETED {
			return nil, &types.DuplicatePaymentError{BookingID: bookingID, PaymentIntentID: existing.PaymentIntentId}
		}
		if existing.Status == types.PAYMENT_RECORD_PENDING && existing.ClientSecret != nil {
			return &InitiatePaymentResult{
				ClientSecret:    *existing.ClientSecret,
				PaymentIntentID: existing.PaymentIntentId,
				Amount:          existing.Amount,
				Duplicate:       true,
			}, nil
		}
	}
	if booking.PaymentStatus != types.PAYMENT_UNPAID {
		return nil, &types.DuplicatePaymentError{BookingID: bookingID}
	}

	intent, err := o.gw.CreatePaymentIntent(ctx, booking.TotalPrice, booking.Currency, booking.ID, map[string]string{
		"renterClerkId": booking.RenterUID,
		"ownerClerkId":  booking.OwnerUID,
	})
	if err != nil {
		return nil, err
	}
	payment := &models.Payment{
		BookingID:       booking.ID,
		RenterID:        booking.RenterID,
		RenterUID:       booking.RenterUID,
		OwnerID:         booking.OwnerID,
		OwnerUID:        booking.OwnerUID,
		Gateway:         o.gw.Name(),
		PaymentIntentId: intent.ID,
		ClientSecret:    &intent.ClientSecret,
		Amount:          booking.TotalPrice,
		Currency:        booking.Currency,
		PlatformFee:     booking.PlatformFee,
		OwnerAmount:     booking.OwnerAmount,
		Status:          types.PAYMENT_RECORD_PENDING,
	}
	if err := o.db.Create(payment).Error; err != nil {
		return nil, err
	}
	if rd := lib.GetRedisClient(); rd != nil {
		key := fmt.Sprintf("booking:%d:intent", booking.ID)
		if _, err := rd.SetEx(context.Background(), key, intent.ID, 30*time.Minute).Result(); err != nil {
			log.Printf("Error caching intent for Booking [%d]: %s\n", booking.ID, err.Error())
		}
	}
	return &InitiatePaymentResult{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Amount:          booking.TotalPrice,
	}, nil
}

func (o *Orchestrator) ConfirmPayment(ctx context.Context, bookingID uint, intentID string) (*models.Booking, *models.Payment, error) {
	if intentID == "" {
		return nil, nil, types.NewValidationError("paymentIntentId is required")
	}
	var booking models.Booking
	if err := o.db.Where(&models.Booking{ID: bookingID}).First(&booking).Error; err != nil {
		return nil, nil, &types.NotFoundError{Resource: "Booking", ID: bookingID}
	}
	if !booking.Status.CanTransition(types.BOOKING_CONFIRMED) || !booking.PaymentStatus.CanTransition(types.PAYMENT_PAID) {
		return nil, nil, types.ErrInvalidTransition
	}

	intent, err := o.gw.ConfirmPaymentIntent(ctx, intentID)
	if err != nil {
		return nil, nil, err
	}
	if intent.Status != gateway.StatusSucceeded {
		return nil, nil, &types.PaymentNotSucceededError{PaymentIntentID: intentID, Status: intent.Status}
	}

	var payment models.Payment
	err = o.db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where(&models.Payment{BookingID: bookingID, PaymentIntentId: intentID}).
			First(&payment).
			Error
		if err != nil {
			payment = models.Payment{
				BookingID:       booking.ID,
				RenterID:        booking.RenterID,
				RenterUID:       booking.RenterUID,
				OwnerID:         booking.OwnerID,
				OwnerUID:        booking.OwnerUID,
				Gateway:         o.gw.Name(),
				PaymentIntentId: intentID,
				Amount:          booking.TotalPrice,
				Currency:        booking.Currency,
				PlatformFee:     booking.PlatformFee,
				OwnerAmount:     booking.OwnerAmount,
			}
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}
		}
		updates := map[string]any{
			"status":        types.PAYMENT_RECORD_COMPLETED,
			"client_secret": nil,
		}
		if intent.ChargeID != "" {
			updates["charge_id"] = intent.ChargeID
		}
		if err := tx.
			Model(&models.Payment{}).
			Where("id = ?", payment.ID).
			Updates(updates).
			Error; err != nil {
			return err
		}
		payment.Status = types.PAYMENT_RECORD_COMPLETED
		if intent.ChargeID != "" {
			payment.ChargeId = &intent.ChargeID
		}
		return o.updateBooking(tx, &booking, map[string]any{
			"status":         types.BOOKING_CONFIRMED,
			"payment_status": types.PAYMENT_PAID,
			"payment_id":     payment.ID,
		})
	})
	if err != nil {
		return nil, nil, err
	}
	booking.Status = types.BOOKING_CONFIRMED
	booking.PaymentStatus = types.PAYMENT_PAID
	booking.PaymentID = &payment.ID

	// Invoice and notifications are best-effort: a failure here never unwinds
	// the payment confirmation.
	if _, err := documents.CreateInvoiceForBooking(o.db, booking.ID); err != nil {
		log.Printf("Error generating invoice for Booking [%d]: %s\n", booking.ID, err.Error())
	}
	notifications.Dispatch(&notifications.Input{
		UserUID:     booking.RenterUID,
		Type:        types.NOTIFY_PAYMENT_CONFIRMATION,
		Message:     fmt.Sprintf("Payment of %d %s received for booking %d", booking.TotalPrice, booking.Currency, booking.ID),
		RelatedID:   fmt.Sprint(booking.ID),
		RelatedType: "booking",
	})
	notifications.Dispatch(&notifications.Input{
		UserUID:     booking.OwnerUID,
		Type:        types.NOTIFY_RENTAL_ACCEPTED,
		Message:     fmt.Sprintf("Booking %d is confirmed and paid", booking.ID),
		RelatedID:   fmt.Sprint(booking.ID),
		RelatedType: "booking",
	})
	return &booking, &payment, nil
}

func (o *Orchestrator) ConfirmPickup(ctx context.Context, bookingID uint, destinationAccount string) (*models.Booking, *gateway.Transfer, error) {
	if destinationAccount == "" {
		return nil, nil, types.NewValidationError("ownerStripeAccountId is required")
	}
	var booking models.Booking
	if err := o.db.Where(&models.Booking{ID: bookingID}).First(&booking).Error; err != nil {
		return nil, nil, &types.NotFoundError{Resource: "Booking", ID: bookingID}
	}
	if booking.PaymentStatus != types.PAYMENT_PAID {
		return nil, nil, types.ErrInvalidTransition
	}
	if !booking.Status.CanTransition(types.BOOKING_IN_RENTAL) || !booking.PickupStatus.CanTransition(types.PICKUP_COMPLETED) {
		return nil, nil, types.ErrInvalidTransition
	}

	// Pickup commits first. A payout failure below does not reverse it.
	err := o.db.Transaction(func(tx *gorm.DB) error {
		if err := o.updateBooking(tx, &booking, map[string]any{
			"status":        types.BOOKING_IN_RENTAL,
			"pickup_status": types.PICKUP_COMPLETED,
			"payout_status": types.PAYOUT_PROCESSING,
		}); err != nil {
			return err
		}
		return tx.
			Model(&models.Product{}).
			Where("id = ?", booking.ProductID).
			Update("status", types.PRODUCT_RENTED).
			Error
	})
	if err != nil {
		return nil, nil, err
	}
	booking.Status = types.BOOKING_IN_RENTAL
	booking.PickupStatus = types.PICKUP_COMPLETED
	booking.PayoutStatus = types.PAYOUT_PROCESSING

	transfer, err := o.gw.CreateTransfer(ctx, booking.OwnerAmount, destinationAccount, map[string]string{
		"bookingId": fmt.Sprint(booking.ID),
	})
	if err != nil {
		log.Printf("Transfer failed for Booking [%d]: %s\n", booking.ID, err.Error())
		if uerr := o.db.Transaction(func(tx *gorm.DB) error {
			return o.updateBooking(tx, &booking, map[string]any{
				"payout_status": types.PAYOUT_FAILED,
			})
		}); uerr != nil {
			log.Printf("Error recording payout failure for Booking [%d]: %s\n", booking.ID, uerr.Error())
		}
		booking.PayoutStatus = types.PAYOUT_FAILED
		return &booking, nil, err
	}

	now := time.Now()
	err = o.db.Transaction(func(tx *gorm.DB) error {
		return o.updateBooking(tx, &booking, map[string]any{
			"payout_status":      types.PAYOUT_COMPLETED,
			"payout_transfer_id": transfer.ID,
			"payout_date":        now,
		})
	})
	if err != nil {
		return &booking, transfer, err
	}
	booking.PayoutStatus = types.PAYOUT_COMPLETED
	booking.PayoutTransferID = &transfer.ID
	booking.PayoutDate = &now

	notifications.Dispatch(&notifications.Input{
		UserUID:     booking.OwnerUID,
		Type:        types.NOTIFY_BOOKING_STATUS,
		Message:     fmt.Sprintf("Payout of %d %s sent for booking %d", booking.OwnerAmount, booking.Currency, booking.ID),
		RelatedID:   fmt.Sprint(booking.ID),
		RelatedType: "booking",
	})
	return &booking, transfer, nil
}

func (o *Orchestrator) CompleteBooking(ctx context.Context, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := o.db.Where(&models.Booking{ID: bookingID}).First(&booking).Error; err != nil {
		return nil, &types.NotFoundError{Resource: "Booking", ID: bookingID}
	}
	if !booking.Status.CanTransition(types.BOOKING_COMPLETED) {
		return nil, types.ErrInvalidTransition
	}

	now := time.Now()
	returnStatus := types.RETURN_COMPLETED
	var lateFee int64
	if now.After(booking.EndDate) {
		daysLate := int64(now.Sub(booking.EndDate).Hours() / 24)
		if daysLate > 0 {
			returnStatus = types.RETURN_LATE
			lateFee = fees.LateFee(booking.TotalPrice, booking.RentalDays(), daysLate)
		}
	}

	err := o.db.Transaction(func(tx *gorm.DB) error {
		if err := o.updateBooking(tx, &booking, map[string]any{
			"status":        types.BOOKING_COMPLETED,
			"return_status": returnStatus,
			"return_date":   now,
			"late_fee":      lateFee,
		}); err != nil {
			return err
		}
		return tx.
			Model(&models.Product{}).
			Where("id = ?", booking.ProductID).
			Update("status", types.PRODUCT_AVAILABLE).
			Error
	})
	if err != nil {
		return nil, err
	}
	booking.Status = types.BOOKING_COMPLETED
	booking.ReturnStatus = returnStatus
	booking.ReturnDate = &now
	booking.LateFee = lateFee

	notifications.Dispatch(&notifications.Input{
		UserUID:     booking.RenterUID,
		Type:        types.NOTIFY_BOOKING_STATUS,
		Message:     fmt.Sprintf("Booking %d is complete", booking.ID),
		RelatedID:   fmt.Sprint(booking.ID),
		RelatedType: "booking",
	})
	return &booking, nil
}

func (o *Orchestrator) CancelBooking(ctx context.Context, bookingID uint, reason string) (*models.Booking, *gateway.Refund, error) {
	var booking models.Booking
	if err := o.db.Where(&models.Booking{ID: bookingID}).First(&booking).Error; err != nil {
		return nil, nil, &types.NotFoundError{Resource: "Booking", ID: bookingID}
	}
	if !booking.Status.CanTransition(types.BOOKING_CANCELLED) {
		return nil, nil, types.ErrInvalidTransition
	}

	// Cancellation commits first, refund is best-effort afterwards.
	err := o.db.Transaction(func(tx *gorm.DB) error {
		if err := o.updateBooking(tx, &booking, map[string]any{
			"status":        types.BOOKING_CANCELLED,
			"cancel_reason": reason,
		}); err != nil {
			return err
		}
		return tx.
			Model(&models.Product{}).
			Where("id = ?", booking.ProductID).
			Update("status", types.PRODUCT_AVAILABLE).
			Error
	})
	if err != nil {
		return nil, nil, err
	}
	booking.Status = types.BOOKING_CANCELLED
	booking.CancelReason = &reason

	notifications.Dispatch(&notifications.Input{
		UserUID:     booking.OwnerUID,
		Type:        types.NOTIFY_RENTAL_REJECTED,
		Message:     fmt.Sprintf("Booking %d was cancelled: %s", booking.ID, reason),
		RelatedID:   fmt.Sprint(booking.ID),
		RelatedType: "booking",
	})

	if booking.PaymentStatus != types.PAYMENT_PAID {
		return &booking, nil, nil
	}

	var payment models.Payment
	if err := o.db.
		Where(&models.Payment{BookingID: booking.ID, Status: types.PAYMENT_RECORD_COMPLETED}).
		Order("created_at desc").
		First(&payment).
		Error; err != nil {
		return &booking, nil, &types.NotFoundError{Resource: "Payment", ID: booking.ID}
	}
	refund, err := o.gw.Refund(ctx, payment.PaymentIntentId, booking.TotalPrice)
	if err != nil {
		log.Printf("Refund failed for Booking [%d]: %s\n", booking.ID, err.Error())
		return &booking, nil, err
	}
	now := time.Now()
	err = o.db.Transaction(func(tx *gorm.DB) error {
		return o.updateBooking(tx, &booking, map[string]any{
			"payment_status": types.PAYMENT_REFUNDED,
			"refund_id":      refund.ID,
			"refund_amount":  refund.Amount,
			"refund_date":    now,
		})
	})
	if err != nil {
		return &booking, refund, err
	}
	booking.PaymentStatus = types.PAYMENT_REFUNDED
	booking.RefundID = &refund.ID
	booking.RefundAmount = &refund.Amount
	booking.RefundDate = &now
	return &booking, refund, nil
}

// MarkPaymentFailed reverts a pending payment after a failed webhook event.
// The booking stays pending/unpaid.
func (o *Orchestrator) MarkPaymentFailed(ctx context.Context, intentID string) error {
	return o.db.
		Model(&models.Payment{}).
		Where(&models.Payment{PaymentIntentId: intentID}).
		Where("status = ?", types.PAYMENT_RECORD_PENDING).
		Updates(map[string]any{
			"status":        types.PAYMENT_RECORD_FAILED,
			"client_secret": nil,
		}).
		Error
}

// updateBooking applies updates iff the in-memory version matches the row,
// bumping the version in the same write.
func (o *Orchestrator) updateBooking(tx *gorm.DB, booking *models.Booking, updates map[string]any) error {
	updates["version"] = booking.Version + 1
	res := tx.
		Model(&models.Booking{}).
		Where("id = ? AND version = ?", booking.ID, booking.Version).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return types.ErrVersionConflict
	}
	booking.Version++
	return nil
}
