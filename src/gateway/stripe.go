package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
)

// StripeGateway drives the real payment processor. The client is injected so
// tests and alternate environments can swap it without touching globals.
type StripeGateway struct {
	sc *stripe.Client
}

func NewStripeGateway(sc *stripe.Client) *StripeGateway {
	return &StripeGateway{sc: sc}
}

func (g *StripeGateway) Name() string {
	return "stripe"
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency string, bookingID uint, metadata map[string]string) (*Intent, error) {
	params := &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("bookingId", fmt.Sprint(bookingID))
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	pi, err := g.sc.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		return nil, &GatewayError{Gateway: g.Name(), Op: "CreatePaymentIntent", Err: err}
	}
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
	}, nil
}

func (g *StripeGateway) ConfirmPaymentIntent(ctx context.Context, intentID string) (*Intent, error) {
	if intentID == "" {
		return nil, &GatewayError{Gateway: g.Name(), Op: "ConfirmPaymentIntent", Err: errors.New("missing payment intent id")}
	}
	pi, err := g.sc.V1PaymentIntents.Retrieve(ctx, intentID, &stripe.PaymentIntentRetrieveParams{})
	if err != nil {
		return nil, &GatewayError{Gateway: g.Name(), Op: "ConfirmPaymentIntent", Err: err}
	}
	intent := &Intent{
		ID:       pi.ID,
		Amount:   pi.Amount,
		Currency: string(pi.Currency),
		Status:   string(pi.Status),
	}
	if pi.LatestCharge != nil {
		intent.ChargeID = pi.LatestCharge.ID
	}
	return intent, nil
}

func (g *StripeGateway) CreateTransfer(ctx context.Context, amount int64, destination string, metadata map[string]string) (*Transfer, error) {
	if destination == "" {
		return nil, &GatewayError{Gateway: g.Name(), Op: "CreateTransfer", Err: errors.New("missing destination account")}
	}
	params := &stripe.TransferCreateParams{
		Amount:      stripe.Int64(amount),
		Currency:    stripe.String(string(stripe.CurrencyUSD)),
		Destination: stripe.String(destination),
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}
	tr, err := g.sc.V1Transfers.Create(ctx, params)
	if err != nil {
		return nil, &GatewayError{Gateway: g.Name(), Op: "CreateTransfer", Err: err}
	}
	return &Transfer{
		ID:     tr.ID,
		Amount: tr.Amount,
		Status: "completed",
	}, nil
}

func (g *StripeGateway) Refund(ctx context.Context, intentID string, amount int64) (*Refund, error) {
	if intentID == "" {
		return nil, &GatewayError{Gateway: g.Name(), Op: "Refund", Err: errors.New("missing payment intent id")}
	}
	params := &stripe.RefundCreateParams{
		PaymentIntent: stripe.String(intentID),
		Amount:        stripe.Int64(amount),
	}
	ref, err := g.sc.V1Refunds.Create(ctx, params)
	if err != nil {
		return nil, &GatewayError{Gateway: g.Name(), Op: "Refund", Err: err}
	}
	return &Refund{
		ID:     ref.ID,
		Amount: ref.Amount,
		Status: string(ref.Status),
	}, nil
}
