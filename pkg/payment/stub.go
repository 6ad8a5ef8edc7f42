package payment

import (
	"context"
	"fmt"
	"time"
)

// StubGateway is a no-op gateway for development when no MyFatoorah key is
// configured. Every invoice it issues reports as paid.
type StubGateway struct{}

func (s *StubGateway) InitiatePayment(ctx context.Context, req InitiateRequest) ([]PaymentMethod, error) {
	return []PaymentMethod{
		{
			ID:              1,
			Name:            "Stub Card",
			Code:            "stub",
			IsDirectPayment: false,
			TotalAmount:     req.Amount,
			Currency:        req.Currency,
		},
	}, nil
}

func (s *StubGateway) ExecutePayment(ctx context.Context, req ExecuteRequest) (*ExecuteResult, error) {
	return &ExecuteResult{
		PaymentURL: "https://pay.example.invalid/checkout/" + req.ReferenceID,
		InvoiceID:  fmt.Sprintf("%d", time.Now().UnixNano()%1e9),
	}, nil
}

func (s *StubGateway) GetPaymentStatus(ctx context.Context, key, keyType string) (*Status, error) {
	return &Status{InvoiceStatus: "Paid", Reference: key}, nil
}
