package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any
type JSONBArray []any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("type assertion to []byte failed")
		}
		b = []byte(s)
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

func (a JSONBArray) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONBArray) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("type assertion to []byte failed")
		}
		b = []byte(s)
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Metadata map[string]any

func (a Metadata) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *Metadata) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("type assertion to []byte failed")
		}
		b = []byte(s)
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type Environment string

const (
	Local      Environment = "local"
	Test       Environment = "test"
	Production Environment = "production"
)

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "pending"
	BOOKING_CONFIRMED BookingStatus = "confirmed"
	BOOKING_IN_RENTAL BookingStatus = "in_rental"
	BOOKING_COMPLETED BookingStatus = "completed"
	BOOKING_CANCELLED BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PAYMENT_UNPAID   PaymentStatus = "unpaid"
	PAYMENT_PAID     PaymentStatus = "paid"
	PAYMENT_REFUNDED PaymentStatus = "refunded"
)

type PickupStatus string

const (
	PICKUP_PENDING   PickupStatus = "pending"
	PICKUP_SCHEDULED PickupStatus = "scheduled"
	PICKUP_COMPLETED PickupStatus = "completed"
)

type ReturnStatus string

const (
	RETURN_PENDING   ReturnStatus = "pending"
	RETURN_SCHEDULED ReturnStatus = "scheduled"
	RETURN_COMPLETED ReturnStatus = "completed"
	RETURN_LATE      ReturnStatus = "late"
)

type PayoutStatus string

const (
	PAYOUT_PENDING    PayoutStatus = "pending"
	PAYOUT_PROCESSING PayoutStatus = "processing"
	PAYOUT_COMPLETED  PayoutStatus = "completed"
	PAYOUT_FAILED     PayoutStatus = "failed"
)

type PaymentRecordStatus string

const (
	PAYMENT_RECORD_PENDING   PaymentRecordStatus = "pending"
	PAYMENT_RECORD_COMPLETED PaymentRecordStatus = "completed"
	PAYMENT_RECORD_FAILED    PaymentRecordStatus = "failed"
)

type ProductStatus string

const (
	PRODUCT_AVAILABLE ProductStatus = "available"
	PRODUCT_RENTED    ProductStatus = "rented"
	PRODUCT_UNLISTED  ProductStatus = "unlisted"
)

type InvoiceStatus string

const (
	INVOICE_UNPAID InvoiceStatus = "unpaid"
	INVOICE_PAID   InvoiceStatus = "paid"
)

type DocumentType string

const (
	DOCUMENT_PICKUP DocumentType = "pickup"
	DOCUMENT_RETURN DocumentType = "return"
)

type DocumentStatus string

const (
	DOCUMENT_PENDING   DocumentStatus = "pending"
	DOCUMENT_COMPLETED DocumentStatus = "completed"
)

type NotificationType string

const (
	NOTIFY_RENTAL_REQUEST       NotificationType = "rental_request"
	NOTIFY_PAYMENT_CONFIRMATION NotificationType = "payment_confirmation"
	NOTIFY_RENTAL_ACCEPTED      NotificationType = "rental_accepted"
	NOTIFY_RENTAL_REJECTED      NotificationType = "rental_rejected"
	NOTIFY_PICKUP_SCHEDULED     NotificationType = "pickup_scheduled"
	NOTIFY_DROP_SCHEDULED       NotificationType = "drop_scheduled"
	NOTIFY_DUE_PAYMENT          NotificationType = "due_payment"
	NOTIFY_REMINDER             NotificationType = "reminder"
	NOTIFY_SYSTEM               NotificationType = "system"
	NOTIFY_PROMOTION            NotificationType = "promotion"
	NOTIFY_BOOKING_STATUS       NotificationType = "booking_status"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type CreateBookingRequestBody struct {
	ProductID  uint   `json:"product_id" binding:"required"`
	RenterID   uint   `json:"renter_id" binding:"required"`
	RenterUID  string `json:"renter_clerk_id" binding:"required"`
	OwnerID    uint   `json:"owner_id" binding:"required"`
	OwnerUID   string `json:"owner_clerk_id" binding:"required"`
	StartDate  string `json:"start_date" binding:"required,rentaldate" time_format:"2006-01-02 15:04:05 -07:00"`
	EndDate    string `json:"end_date" binding:"required,rentaldate,gtdate=StartDate" time_format:"2006-01-02 15:04:05 -07:00"`
	TotalPrice int64  `json:"total_price" binding:"required,min=0"`
}

type ConfirmPaymentRequestBody struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}

type ConfirmPickupRequestBody struct {
	OwnerStripeAccountID string `json:"owner_stripe_account_id"`
}

type CancelBookingRequestBody struct {
	Reason string `json:"reason"`
}

type CreateProductRequestBody struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description,omitempty"`
	Category        string `json:"category,omitempty"`
	PricePerDay     int64  `json:"price_per_day" binding:"required,min=1"`
	SecurityDeposit int64  `json:"security_deposit,omitempty"`
}

type UpdateProductRequestBody struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	PricePerDay *int64         `json:"price_per_day,omitempty"`
	Status      *ProductStatus `json:"status,omitempty"`
}

type CreateDocumentRequestBody struct {
	BookingID uint         `json:"booking_id" binding:"required"`
	Type      DocumentType `json:"type" binding:"required,oneof=pickup return"`
}

type UpdateDocumentStatusRequestBody struct {
	Status    DocumentStatus `json:"status" binding:"required,oneof=pending completed"`
	Condition string         `json:"condition,omitempty"`
	Notes     string         `json:"notes,omitempty"`
}

type CreateInvoiceRequestBody struct {
	BookingID uint `json:"booking_id" binding:"required"`
}

type UpdateInvoiceRequestBody struct {
	Status *InvoiceStatus `json:"status,omitempty"`
	Notes  *string        `json:"notes,omitempty"`
}

type RegisterUserRequestBody struct {
	Email string `json:"email" binding:"required"`
	Name  string `json:"name" binding:"required"`
	UID   string `json:"clerk_id" binding:"required"`
}

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	UID      string `json:"uid"`
	jwt.RegisteredClaims
}
