package gateway

import (
	"context"
	"fmt"
)

// Terminal-success status shared by both adapters. Anything else returned by
// ConfirmPaymentIntent is a non-terminal failure for the caller.
const StatusSucceeded = "succeeded"

type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret,omitempty"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
	ChargeID     string `json:"charge_id,omitempty"`
}

type Transfer struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

type Refund struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

// PaymentGateway is the port the settlement orchestrator talks to. The live
// Stripe adapter and the deterministic mock return identical shapes so callers
// never know which one they hold.
type PaymentGateway interface {
	Name() string
	CreatePaymentIntent(ctx context.Context, amount int64, currency string, bookingID uint, metadata map[string]string) (*Intent, error)
	ConfirmPaymentIntent(ctx context.Context, intentID string) (*Intent, error)
	CreateTransfer(ctx context.Context, amount int64, destination string, metadata map[string]string) (*Transfer, error)
	Refund(ctx context.Context, intentID string, amount int64) (*Refund, error)
}

type GatewayError struct {
	Gateway string
	Op      string
	Err     error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("[%s] %s failed: %s", e.Gateway, e.Op, e.Err.Error())
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
