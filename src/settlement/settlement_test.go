package settlement

import (
	"context"
	"log"
	"testing"
	"time"

	"rently/src/db"
	"rently/src/gateway"
	"rently/src/models"
	"rently/src/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type SettlementTestSuite struct {
	suite.Suite
	DB      *gorm.DB
	Gateway *gateway.MockGateway
	Orch    *Orchestrator

	owner   models.User
	renter  models.User
	product models.Product
}

func (s *SettlementTestSuite) SetupSuite() {
	d, err := gorm.Open(sqlite.Open("file:settlementtest?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		log.Fatalf("error opening test database: %s", err.Error())
	}
	err = d.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Booking{},
		&models.Payment{},
		&models.Invoice{},
		&models.Document{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}
	s.DB = d
	db.NewDB(d)
}

func (s *SettlementTestSuite) SetupTest() {
	s.DB.Exec("DELETE FROM notifications")
	s.DB.Exec("DELETE FROM documents")
	s.DB.Exec("DELETE FROM invoices")
	s.DB.Exec("DELETE FROM payments")
	s.DB.Exec("DELETE FROM bookings")
	s.DB.Exec("DELETE FROM products")
	s.DB.Exec("DELETE FROM users")

	acct := "acct_owner_test"
	s.owner = models.User{Name: "Owner", Email: "owner@example.com", UID: "owner_1", StripeAccountId: &acct}
	s.renter = models.User{Name: "Renter", Email: "renter@example.com", UID: "renter_1"}
	s.Require().Nil(s.DB.Create(&s.owner).Error)
	s.Require().Nil(s.DB.Create(&s.renter).Error)

	s.product = models.Product{
		OwnerID:         s.owner.ID,
		Title:           "Excavator",
		Category:        "heavy-equipment",
		PricePerDay:     2000,
		SecurityDeposit: 5000,
		Currency:        "usd",
		Status:          types.PRODUCT_AVAILABLE,
	}
	s.Require().Nil(s.DB.Create(&s.product).Error)

	s.Gateway = gateway.NewMockGateway()
	s.Orch = New(s.DB, s.Gateway)
}

func (s *SettlementTestSuite) newBookingParams() *CreateBookingParams {
	start := time.Now().Add(24 * time.Hour)
	return &CreateBookingParams{
		ProductID:  s.product.ID,
		RenterID:   s.renter.ID,
		RenterUID:  s.renter.UID,
		OwnerID:    s.owner.ID,
		OwnerUID:   s.owner.UID,
		StartDate:  start,
		EndDate:    start.Add(5 * 24 * time.Hour),
		TotalPrice: 10000,
	}
}

func (s *SettlementTestSuite) createPaidBooking() *models.Booking {
	ctx := context.Background()
	booking, err := s.Orch.CreateBooking(ctx, s.newBookingParams())
	s.Require().Nil(err)
	result, err := s.Orch.InitiatePayment(ctx, booking.ID)
	s.Require().Nil(err)
	booking, _, err = s.Orch.ConfirmPayment(ctx, booking.ID, result.PaymentIntentID)
	s.Require().Nil(err)
	return booking
}

func (s *SettlementTestSuite) TestCreateBookingSplitsFees() {
	booking, err := s.Orch.CreateBooking(context.Background(), s.newBookingParams())
	s.Require().Nil(err)

	assert.Equal(s.T(), int64(10000), booking.TotalPrice)
	assert.Equal(s.T(), int64(1000), booking.PlatformFee)
	assert.Equal(s.T(), int64(9000), booking.OwnerAmount)
	assert.Equal(s.T(), booking.TotalPrice, booking.PlatformFee+booking.OwnerAmount)
	assert.Equal(s.T(), int64(5000), booking.SecurityDeposit)
	assert.Equal(s.T(), types.BOOKING_PENDING, booking.Status)
	assert.Equal(s.T(), types.PAYMENT_UNPAID, booking.PaymentStatus)
	assert.Equal(s.T(), types.PICKUP_PENDING, booking.PickupStatus)
	assert.Equal(s.T(), types.RETURN_PENDING, booking.ReturnStatus)
	assert.Equal(s.T(), types.PAYOUT_PENDING, booking.PayoutStatus)

	var count int64
	s.DB.Model(&models.Notification{}).Where("user_uid = ?", s.owner.UID).Count(&count)
	assert.Equal(s.T(), int64(1), count)
}

func (s *SettlementTestSuite) TestCreateBookingRejectsBadDates() {
	params := s.newBookingParams()
	params.StartDate, params.EndDate = params.EndDate, params.StartDate
	_, err := s.Orch.CreateBooking(context.Background(), params)
	var validationErr *types.ValidationError
	assert.ErrorAs(s.T(), err, &validationErr)
}

func (s *SettlementTestSuite) TestCreateBookingUnknownProduct() {
	params := s.newBookingParams()
	params.ProductID = 9999
	_, err := s.Orch.CreateBooking(context.Background(), params)
	var notFoundErr *types.NotFoundError
	assert.ErrorAs(s.T(), err, &notFoundErr)
}

func (s *SettlementTestSuite) TestInitiatePaymentReturnsExistingIntent() {
	ctx := context.Background()
	booking, err := s.Orch.CreateBooking(ctx, s.newBookingParams())
	s.Require().Nil(err)

	first, err := s.Orch.InitiatePayment(ctx, booking.ID)
	s.Require().Nil(err)
	assert.NotEmpty(s.T(), first.ClientSecret)
	assert.False(s.T(), first.Duplicate)

	second, err := s.Orch.InitiatePayment(ctx, booking.ID)
	s.Require().Nil(err)
	assert.True(s.T(), second.Duplicate)
	assert.Equal(s.T(), first.PaymentIntentID, second.PaymentIntentID)
}

func (s *SettlementTestSuite) TestConfirmPaymentHappyPath() {
	ctx := context.Background()
	booking, err := s.Orch.CreateBooking(ctx, s.newBookingParams())
	s.Require().Nil(err)
	result, err := s.Orch.InitiatePayment(ctx, booking.ID)
	s.Require().Nil(err)

	booking, payment, err := s.Orch.ConfirmPayment(ctx, booking.ID, result.PaymentIntentID)
	s.Require().Nil(err)
	assert.Equal(s.T(), types.BOOKING_CONFIRMED, booking.Status)
	assert.Equal(s.T(), types.PAYMENT_PAID, booking.PaymentStatus)
	assert.Equal(s.T(), types.PAYMENT_RECORD_COMPLETED, payment.Status)
	assert.NotNil(s.T(), booking.PaymentID)

	var stored models.Payment
	s.Require().Nil(s.DB.Where("id = ?", payment.ID).First(&stored).Error)
	assert.Nil(s.T(), stored.ClientSecret)
	assert.NotNil(s.T(), stored.ChargeId)

	var invoice models.Invoice
	s.Require().Nil(s.DB.Where(&models.Invoice{BookingID: booking.ID}).First(&invoice).Error)
	// The invoice covers exactly what the renter paid, GST carved out inside.
	assert.Equal(s.T(), booking.TotalPrice, invoice.Amount)

	var count int64
	s.DB.Model(&models.Notification{}).Where("user_uid = ?", s.renter.UID).Count(&count)
	assert.Equal(s.T(), int64(1), count)
}

func (s *SettlementTestSuite) TestInitiatePaymentAfterCompletedIsDuplicate() {
	booking := s.createPaidBooking()
	_, err := s.Orch.InitiatePayment(context.Background(), booking.ID)
	var duplicateErr *types.DuplicatePaymentError
	assert.ErrorAs(s.T(), err, &duplicateErr)
}

func (s *SettlementTestSuite) TestConfirmPaymentNotSucceeded() {
	ctx := context.Background()
	booking, err := s.Orch.CreateBooking(ctx, s.newBookingParams())
	s.Require().Nil(err)
	result, err := s.Orch.InitiatePayment(ctx, booking.ID)
	s.Require().Nil(err)

	s.Gateway.ConfirmStatus = "requires_action"
	_, _, err = s.Orch.ConfirmPayment(ctx, booking.ID, result.PaymentIntentID)
	var notSucceededErr *types.PaymentNotSucceededError
	assert.ErrorAs(s.T(), err, &notSucceededErr)

	var stored models.Booking
	s.Require().Nil(s.DB.Where("id = ?", booking.ID).First(&stored).Error)
	assert.Equal(s.T(), types.BOOKING_PENDING, stored.Status)
	assert.Equal(s.T(), types.PAYMENT_UNPAID, stored.PaymentStatus)
}

func (s *SettlementTestSuite) TestConfirmPaymentTwiceRejected() {
	ctx := context.Background()
	booking := s.createPaidBooking()
	var payment models.Payment
	s.Require().Nil(s.DB.Where(&models.Payment{BookingID: booking.ID}).First(&payment).Error)
	_, _, err := s.Orch.ConfirmPayment(ctx, booking.ID, payment.PaymentIntentId)
	assert.ErrorIs(s.T(), err, types.ErrInvalidTransition)
}

func (s *SettlementTestSuite) TestConfirmPickupPaysOutOwner() {
	ctx := context.Background()
	booking := s.createPaidBooking()

	booking, transfer, err := s.Orch.ConfirmPickup(ctx, booking.ID, "acct_owner_test")
	s.Require().Nil(err)
	assert.Equal(s.T(), types.BOOKING_IN_RENTAL, booking.Status)
	assert.Equal(s.T(), types.PICKUP_COMPLETED, booking.PickupStatus)
	assert.Equal(s.T(), types.PAYOUT_COMPLETED, booking.PayoutStatus)
	assert.Equal(s.T(), int64(9000), transfer.Amount)
	assert.NotNil(s.T(), booking.PayoutTransferID)
	assert.NotNil(s.T(), booking.PayoutDate)

	var product models.Product
	s.Require().Nil(s.DB.Where("id = ?", s.product.ID).First(&product).Error)
	assert.Equal(s.T(), types.PRODUCT_RENTED, product.Status)
}

func (s *SettlementTestSuite) TestConfirmPickupSurvivesPayoutFailure() {
	ctx := context.Background()
	booking := s.createPaidBooking()

	s.Gateway.FailTransfers = true
	booking, transfer, err := s.Orch.ConfirmPickup(ctx, booking.ID, "acct_owner_test")
	assert.NotNil(s.T(), err)
	assert.Nil(s.T(), transfer)
	s.Require().NotNil(booking)

	var stored models.Booking
	s.Require().Nil(s.DB.Where("id = ?", booking.ID).First(&stored).Error)
	assert.Equal(s.T(), types.BOOKING_IN_RENTAL, stored.Status)
	assert.Equal(s.T(), types.PICKUP_COMPLETED, stored.PickupStatus)
	assert.Equal(s.T(), types.PAYOUT_FAILED, stored.PayoutStatus)
	assert.Nil(s.T(), stored.PayoutTransferID)
}

func (s *SettlementTestSuite) TestConfirmPickupRequiresDestination() {
	booking := s.createPaidBooking()
	_, _, err := s.Orch.ConfirmPickup(context.Background(), booking.ID, "")
	var validationErr *types.ValidationError
	assert.ErrorAs(s.T(), err, &validationErr)
}

func (s *SettlementTestSuite) TestConfirmPickupRejectsUnpaid() {
	ctx := context.Background()
	booking, err := s.Orch.CreateBooking(ctx, s.newBookingParams())
	s.Require().Nil(err)
	_, _, err = s.Orch.ConfirmPickup(ctx, booking.ID, "acct_owner_test")
	assert.ErrorIs(s.T(), err, types.ErrInvalidTransition)
}

func (s *SettlementTestSuite) TestCompleteBookingOnTime() {
	ctx := context.Background()
	booking := s.createPaidBooking()
	booking, _, err := s.Orch.ConfirmPickup(ctx, booking.ID, "acct_owner_test")
	s.Require().Nil(err)

	booking, err = s.Orch.CompleteBooking(ctx, booking.ID)
	s.Require().Nil(err)
	assert.Equal(s.T(), types.BOOKING_COMPLETED, booking.Status)
	assert.Equal(s.T(), types.RETURN_COMPLETED, booking.ReturnStatus)
	assert.Equal(s.T(), int64(0), booking.LateFee)
	assert.NotNil(s.T(), booking.ReturnDate)

	var product models.Product
	s.Require().Nil(s.DB.Where("id = ?", s.product.ID).First(&product).Error)
	assert.Equal(s.T(), types.PRODUCT_AVAILABLE, product.Status)
}

func (s *SettlementTestSuite) TestCompleteBookingLateChargesFee() {
	ctx := context.Background()
	booking := s.createPaidBooking()
	booking, _, err := s.Orch.ConfirmPickup(ctx, booking.ID, "acct_owner_test")
	s.Require().Nil(err)

	// Push the rental window into the past: 5 rental days, ended 2 days ago.
	end := time.Now().Add(-49 * time.Hour)
	start := end.Add(-5 * 24 * time.Hour)
	s.Require().Nil(s.DB.
		Model(&models.Booking{}).
		Where("id = ?", booking.ID).
		Updates(map[string]any{"start_date": start, "end_date": end}).
		Error)

	booking, err = s.Orch.CompleteBooking(ctx, booking.ID)
	s.Require().Nil(err)
	assert.Equal(s.T(), types.BOOKING_COMPLETED, booking.Status)
	assert.Equal(s.T(), types.RETURN_LATE, booking.ReturnStatus)
	// 2 full days late at 2000/day.
	assert.Equal(s.T(), int64(4000), booking.LateFee)
}

func (s *SettlementTestSuite) TestCompleteRejectsNotInRental() {
	booking := s.createPaidBooking()
	_, err := s.Orch.CompleteBooking(context.Background(), booking.ID)
	assert.ErrorIs(s.T(), err, types.ErrInvalidTransition)
}

func (s *SettlementTestSuite) TestCancelUnpaidBooking() {
	ctx := context.Background()
	booking, err := s.Orch.CreateBooking(ctx, s.newBookingParams())
	s.Require().Nil(err)

	booking, refund, err := s.Orch.CancelBooking(ctx, booking.ID, "changed plans")
	s.Require().Nil(err)
	assert.Nil(s.T(), refund)
	assert.Equal(s.T(), types.BOOKING_CANCELLED, booking.Status)
	assert.Equal(s.T(), types.PAYMENT_UNPAID, booking.PaymentStatus)
}

func (s *SettlementTestSuite) TestCancelPaidBookingRefunds() {
	ctx := context.Background()
	booking := s.createPaidBooking()

	booking, refund, err := s.Orch.CancelBooking(ctx, booking.ID, "owner unavailable")
	s.Require().Nil(err)
	s.Require().NotNil(refund)
	assert.Equal(s.T(), types.BOOKING_CANCELLED, booking.Status)
	assert.Equal(s.T(), types.PAYMENT_REFUNDED, booking.PaymentStatus)
	assert.Equal(s.T(), int64(10000), refund.Amount)
	assert.NotNil(s.T(), booking.RefundID)
	assert.NotNil(s.T(), booking.RefundDate)
}

func (s *SettlementTestSuite) TestCancelSurvivesRefundFailure() {
	ctx := context.Background()
	booking := s.createPaidBooking()

	s.Gateway.FailRefunds = true
	booking, refund, err := s.Orch.CancelBooking(ctx, booking.ID, "owner unavailable")
	assert.NotNil(s.T(), err)
	assert.Nil(s.T(), refund)
	s.Require().NotNil(booking)

	var stored models.Booking
	s.Require().Nil(s.DB.Where("id = ?", booking.ID).First(&stored).Error)
	assert.Equal(s.T(), types.BOOKING_CANCELLED, stored.Status)
	assert.Equal(s.T(), types.PAYMENT_PAID, stored.PaymentStatus)
	assert.Nil(s.T(), stored.RefundID)
}

func (s *SettlementTestSuite) TestCancelRejectsInRental() {
	ctx := context.Background()
	booking := s.createPaidBooking()
	_, _, err := s.Orch.ConfirmPickup(ctx, booking.ID, "acct_owner_test")
	s.Require().Nil(err)

	_, _, err = s.Orch.CancelBooking(ctx, booking.ID, "too late")
	assert.ErrorIs(s.T(), err, types.ErrInvalidTransition)
}

func (s *SettlementTestSuite) TestMarkPaymentFailed() {
	ctx := context.Background()
	booking, err := s.Orch.CreateBooking(ctx, s.newBookingParams())
	s.Require().Nil(err)
	result, err := s.Orch.InitiatePayment(ctx, booking.ID)
	s.Require().Nil(err)

	s.Require().Nil(s.Orch.MarkPaymentFailed(ctx, result.PaymentIntentID))

	var payment models.Payment
	s.Require().Nil(s.DB.Where(&models.Payment{BookingID: booking.ID}).First(&payment).Error)
	assert.Equal(s.T(), types.PAYMENT_RECORD_FAILED, payment.Status)
	assert.Nil(s.T(), payment.ClientSecret)

	var stored models.Booking
	s.Require().Nil(s.DB.Where("id = ?", booking.ID).First(&stored).Error)
	assert.Equal(s.T(), types.BOOKING_PENDING, stored.Status)
	assert.Equal(s.T(), types.PAYMENT_UNPAID, stored.PaymentStatus)
}

func TestSettlementTestSuite(t *testing.T) {
	suite.Run(t, new(SettlementTestSuite))
}
