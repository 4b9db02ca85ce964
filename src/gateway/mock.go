package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// MockGateway is the deterministic test-mode adapter. Identifiers are synthetic
// but the result shapes match the Stripe adapter exactly.
type MockGateway struct {
	mu      sync.Mutex
	seq     int
	intents map[string]*Intent

	// Failure toggles for exercising partial-failure paths.
	FailConfirm   bool
	FailTransfers bool
	FailRefunds   bool
	// ConfirmStatus overrides the status ConfirmPaymentIntent reports.
	ConfirmStatus string
}

func NewMockGateway() *MockGateway {
	return &MockGateway{intents: make(map[string]*Intent)}
}

func (g *MockGateway) Name() string {
	return "mock"
}

func (g *MockGateway) next(prefix string) string {
	g.seq++
	return fmt.Sprintf("%s_mock_%06d", prefix, g.seq)
}

func (g *MockGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency string, bookingID uint, metadata map[string]string) (*Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.next("pi")
	intent := &Intent{
		ID:           id,
		ClientSecret: fmt.Sprintf("%s_secret_%06d", id, g.seq),
		Amount:       amount,
		Currency:     currency,
		Status:       "requires_payment_method",
	}
	g.intents[id] = intent
	return intent, nil
}

func (g *MockGateway) ConfirmPaymentIntent(ctx context.Context, intentID string) (*Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailConfirm {
		return nil, &GatewayError{Gateway: g.Name(), Op: "ConfirmPaymentIntent", Err: errors.New("simulated confirm failure")}
	}
	intent, ok := g.intents[intentID]
	if !ok {
		return nil, &GatewayError{Gateway: g.Name(), Op: "ConfirmPaymentIntent", Err: fmt.Errorf("no such payment intent: %s", intentID)}
	}
	status := StatusSucceeded
	if g.ConfirmStatus != "" {
		status = g.ConfirmStatus
	}
	confirmed := *intent
	confirmed.Status = status
	confirmed.ClientSecret = ""
	if status == StatusSucceeded {
		confirmed.ChargeID = fmt.Sprintf("ch_mock_%06d", g.seq)
		g.intents[intentID] = &confirmed
	}
	return &confirmed, nil
}

func (g *MockGateway) CreateTransfer(ctx context.Context, amount int64, destination string, metadata map[string]string) (*Transfer, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if destination == "" {
		return nil, &GatewayError{Gateway: g.Name(), Op: "CreateTransfer", Err: errors.New("missing destination account")}
	}
	if g.FailTransfers {
		return nil, &GatewayError{Gateway: g.Name(), Op: "CreateTransfer", Err: errors.New("simulated transfer failure")}
	}
	return &Transfer{
		ID:     g.next("tr"),
		Amount: amount,
		Status: "completed",
	}, nil
}

func (g *MockGateway) Refund(ctx context.Context, intentID string, amount int64) (*Refund, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailRefunds {
		return nil, &GatewayError{Gateway: g.Name(), Op: "Refund", Err: errors.New("simulated refund failure")}
	}
	if _, ok := g.intents[intentID]; !ok {
		return nil, &GatewayError{Gateway: g.Name(), Op: "Refund", Err: fmt.Errorf("no such payment intent: %s", intentID)}
	}
	return &Refund{
		ID:     g.next("re"),
		Amount: amount,
		Status: StatusSucceeded,
	}, nil
}
