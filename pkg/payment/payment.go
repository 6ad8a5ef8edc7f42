package payment

import (
	"context"
	"strings"
)

type Payer struct {
	Name   string
	Email  string
	Mobile string
}

type InvoiceItem struct {
	Name      string
	Quantity  int
	UnitPrice float64
}

// InitiateRequest asks the gateway which payment methods can collect the
// amount. It carries no side effects on our side and may be repeated.
type InitiateRequest struct {
	Amount      float64
	Currency    string
	Payer       Payer
	Items       []InvoiceItem
	CallbackURL string
	ErrorURL    string
	ReferenceID string
	LogoURL     string
}

type PaymentMethod struct {
	ID                  int     `json:"id"`
	Name                string  `json:"name"`
	NameAr              string  `json:"name_ar"`
	Code                string  `json:"code"`
	ImageURL            string  `json:"image_url"`
	IsDirectPayment     bool    `json:"is_direct_payment"`
	ServiceCharge       float64 `json:"service_charge"`
	TotalAmount         float64 `json:"total_amount"`
	Currency            string  `json:"currency"`
	PaymentCurrency     string  `json:"payment_currency"`
	IsEmbeddedSupported bool    `json:"is_embedded_supported"`
}

type ExecuteRequest struct {
	InitiateRequest
	PaymentMethodID int
}

type ExecuteResult struct {
	PaymentURL      string
	InvoiceID       string
	IsDirectPayment bool
}

// Key types accepted by GetPaymentStatus. The callback may carry either the
// short numeric invoice id or the long payment id form.
const (
	KeyInvoiceID = "InvoiceId"
	KeyPaymentID = "PaymentId"
)

type Status struct {
	InvoiceStatus string
	InvoiceValue  float64
	Reference     string
}

func (s *Status) Paid() bool {
	return s != nil && strings.EqualFold(s.InvoiceStatus, "Paid")
}

// Gateway is the payment-processor contract the orchestrator consumes.
type Gateway interface {
	InitiatePayment(ctx context.Context, req InitiateRequest) ([]PaymentMethod, error)
	ExecutePayment(ctx context.Context, req ExecuteRequest) (*ExecuteResult, error)
	GetPaymentStatus(ctx context.Context, key, keyType string) (*Status, error)
}
