package documents

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"rently/src/fees"
	"rently/src/models"
	"rently/src/types"

	"gorm.io/gorm"
)

// CreateInvoiceForBooking builds the renter invoice for a confirmed booking.
// Calling it again for the same booking returns the existing invoice.
func CreateInvoiceForBooking(conn *gorm.DB, bookingID uint) (*models.Invoice, error) {
	var booking models.Booking
	if err := conn.Where(&models.Booking{ID: bookingID}).First(&booking).Error; err != nil {
		return nil, &types.NotFoundError{Resource: "Booking", ID: bookingID}
	}

	var existing models.Invoice
	if err := conn.Where(&models.Invoice{BookingID: bookingID}).First(&existing).Error; err == nil {
		return &existing, nil
	}

	// GST is carved out of the booking total so the line items reconcile to
	// exactly what the renter paid.
	tax := fees.Tax(booking.TotalPrice, booking.PlatformFee)
	base := booking.TotalPrice - tax
	items := itemsJSONB([]models.InvoiceItem{
		{
			Description: fmt.Sprintf("Rental charge (%d days)", booking.RentalDays()),
			Quantity:    1,
			UnitPrice:   base,
			Total:       base,
		},
		{
			Description: "GST (18%)",
			Quantity:    1,
			UnitPrice:   tax,
			Total:       tax,
		},
	})
	invoice := &models.Invoice{
		BookingID:     booking.ID,
		UserID:        booking.RenterID,
		InvoiceNumber: fmt.Sprintf("INV-%d-%03d", time.Now().UnixMilli(), rand.Intn(1000)),
		Amount:        booking.TotalPrice,
		Currency:      booking.Currency,
		Status:        types.INVOICE_UNPAID,
		DueDate:       time.Now().AddDate(0, 0, 7),
		Items:         items,
	}
	if err := conn.Create(invoice).Error; err != nil {
		// A concurrent caller may have won the unique index on booking_id.
		var winner models.Invoice
		if ferr := conn.Where(&models.Invoice{BookingID: bookingID}).First(&winner).Error; ferr == nil {
			return &winner, nil
		}
		return nil, err
	}
	return invoice, nil
}

// CreatePickupDocument opens a pickup sheet for the booking and marks the
// pickup as scheduled. Idempotent per booking.
func CreatePickupDocument(conn *gorm.DB, bookingID uint, scheduledDate *time.Time) (*models.Document, error) {
	return createDocument(conn, bookingID, types.DOCUMENT_PICKUP, scheduledDate)
}

// CreateReturnDocument opens a return sheet for the booking and marks the
// return as scheduled. Idempotent per booking.
func CreateReturnDocument(conn *gorm.DB, bookingID uint, scheduledDate *time.Time) (*models.Document, error) {
	return createDocument(conn, bookingID, types.DOCUMENT_RETURN, scheduledDate)
}

func createDocument(conn *gorm.DB, bookingID uint, docType types.DocumentType, scheduledDate *time.Time) (*models.Document, error) {
	var booking models.Booking
	if err := conn.Where(&models.Booking{ID: bookingID}).First(&booking).Error; err != nil {
		return nil, &types.NotFoundError{Resource: "Booking", ID: bookingID}
	}

	var existing models.Document
	if err := conn.Where(&models.Document{BookingID: bookingID, Type: docType}).First(&existing).Error; err == nil {
		return &existing, nil
	}

	prefix := "PU"
	if docType == types.DOCUMENT_RETURN {
		prefix = "RT"
	}
	document := &models.Document{
		BookingID:      booking.ID,
		Type:           docType,
		DocumentNumber: fmt.Sprintf("%s-%d-%03d", prefix, time.Now().UnixMilli(), rand.Intn(1000)),
		Status:         types.DOCUMENT_PENDING,
		ScheduledDate:  scheduledDate,
		Items: itemsJSONB([]models.DocumentItem{
			{ProductID: booking.ProductID, Quantity: 1},
		}),
	}
	err := conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(document).Error; err != nil {
			return err
		}
		// The booking only moves to scheduled when it is still waiting on
		// this leg; a completed pickup or return must not be rewound.
		if docType == types.DOCUMENT_PICKUP {
			if !booking.PickupStatus.CanTransition(types.PICKUP_SCHEDULED) {
				return nil
			}
			return updateBookingLocked(tx, &booking, map[string]any{
				"pickup_status": types.PICKUP_SCHEDULED,
			})
		}
		if !booking.ReturnStatus.CanTransition(types.RETURN_SCHEDULED) {
			return nil
		}
		return updateBookingLocked(tx, &booking, map[string]any{
			"return_status": types.RETURN_SCHEDULED,
		})
	})
	if err != nil {
		var winner models.Document
		if ferr := conn.Where(&models.Document{BookingID: bookingID, Type: docType}).First(&winner).Error; ferr == nil {
			return &winner, nil
		}
		return nil, err
	}
	return document, nil
}

type UpdateDocumentStatusInput struct {
	Status    types.DocumentStatus
	Condition string
	Notes     string
}

// UpdateDocumentStatus moves a pickup or return sheet to its next status and
// applies the side effects on the booking. Completing a pickup sheet marks the
// booking pickup complete and opens the return sheet; completing a return
// sheet closes out the booking and frees the product.
func UpdateDocumentStatus(conn *gorm.DB, documentID string, input *UpdateDocumentStatusInput) (*models.Document, error) {
	var document models.Document
	if err := conn.Where("id = ?", documentID).First(&document).Error; err != nil {
		return nil, &types.NotFoundError{Resource: "Document", ID: documentID}
	}
	if document.Status == input.Status {
		return &document, nil
	}
	if document.Status == types.DOCUMENT_COMPLETED {
		return nil, types.ErrInvalidTransition
	}

	var booking models.Booking
	if err := conn.Where(&models.Booking{ID: document.BookingID}).First(&booking).Error; err != nil {
		return nil, &types.NotFoundError{Resource: "Booking", ID: document.BookingID}
	}

	err := conn.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"status": input.Status}
		if input.Condition != "" || input.Notes != "" {
			updates["items"] = itemsJSONB([]models.DocumentItem{
				{ProductID: booking.ProductID, Quantity: 1, Condition: input.Condition, Notes: input.Notes},
			})
		}
		if err := tx.
			Model(&models.Document{}).
			Where("id = ?", document.ID).
			Updates(updates).
			Error; err != nil {
			return err
		}

		if input.Status != types.DOCUMENT_COMPLETED {
			return nil
		}
		switch document.Type {
		case types.DOCUMENT_PICKUP:
			if !booking.PickupStatus.CanTransition(types.PICKUP_COMPLETED) {
				return types.ErrInvalidTransition
			}
			return updateBookingLocked(tx, &booking, map[string]any{
				"pickup_status": types.PICKUP_COMPLETED,
			})
		case types.DOCUMENT_RETURN:
			if !booking.ReturnStatus.CanTransition(types.RETURN_COMPLETED) {
				return types.ErrInvalidTransition
			}
			updates := map[string]any{
				"return_status": types.RETURN_COMPLETED,
				"return_date":   time.Now(),
			}
			if booking.Status.CanTransition(types.BOOKING_COMPLETED) {
				updates["status"] = types.BOOKING_COMPLETED
			}
			if err := updateBookingLocked(tx, &booking, updates); err != nil {
				return err
			}
			return tx.
				Model(&models.Product{}).
				Where("id = ?", booking.ProductID).
				Update("status", types.PRODUCT_AVAILABLE).
				Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	document.Status = input.Status

	if input.Status == types.DOCUMENT_COMPLETED && document.Type == types.DOCUMENT_PICKUP &&
		booking.ReturnStatus == types.RETURN_PENDING {
		if _, err := CreateReturnDocument(conn, booking.ID, nil); err != nil {
			return nil, err
		}
	}
	return &document, nil
}

func updateBookingLocked(tx *gorm.DB, booking *models.Booking, updates map[string]any) error {
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

// itemsJSONB normalizes typed line items into the jsonb column shape.
func itemsJSONB(items any) types.JSONBArray {
	raw, err := json.Marshal(items)
	if err != nil {
		return nil
	}
	var arr types.JSONBArray
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil
	}
	return arr
}
