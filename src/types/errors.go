package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition rejects any booking mutation the transition tables disallow.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrVersionConflict surfaces an optimistic-lock failure on a booking write.
	ErrVersionConflict = errors.New("booking was modified concurrently")
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Resource string
	ID       any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s [%v] not found", e.Resource, e.ID)
}

type DuplicatePaymentError struct {
	BookingID       uint
	PaymentIntentID string
}

func (e *DuplicatePaymentError) Error() string {
	return fmt.Sprintf("payment for Booking [%d] already completed: %s", e.BookingID, e.PaymentIntentID)
}

type PaymentNotSucceededError struct {
	PaymentIntentID string
	Status          string
}

func (e *PaymentNotSucceededError) Error() string {
	return fmt.Sprintf("payment intent %s has status %q, expected succeeded", e.PaymentIntentID, e.Status)
}
