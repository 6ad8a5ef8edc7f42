package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"
)

// MyFatoorah implements Gateway against the MyFatoorah v2 API.
type MyFatoorah struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

func NewMyFatoorah(baseURL, apiKey string) *MyFatoorah {
	if baseURL == "" {
		baseURL = "https://apitest.myfatoorah.com"
	}
	return &MyFatoorah{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// mfEnvelope is the response wrapper every v2 endpoint uses.
type mfEnvelope struct {
	IsSuccess        bool   `json:"IsSuccess"`
	Message          string `json:"Message"`
	ValidationErrors []struct {
		Name  string `json:"Name"`
		Error string `json:"Error"`
	} `json:"ValidationErrors"`
	Data json.RawMessage `json:"Data"`
}

func (g *MyFatoorah) post(ctx context.Context, path string, payload interface{}) (json.RawMessage, error) {
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	var env mfEnvelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("myfatoorah %s: status %d: unparseable response", path, resp.StatusCode)
	}
	if !env.IsSuccess {
		msg := env.Message
		if msg == "" && len(env.ValidationErrors) > 0 {
			msg = env.ValidationErrors[0].Error
		}
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		log.Printf("[MyFatoorah] %s failed: %s", path, msg)
		return nil, fmt.Errorf("myfatoorah %s: %s", path, msg)
	}
	return env.Data, nil
}

type mfInvoiceItem struct {
	ItemName  string  `json:"ItemName"`
	Quantity  int     `json:"Quantity"`
	UnitPrice float64 `json:"UnitPrice"`
}

func mfItems(items []InvoiceItem) []mfInvoiceItem {
	out := make([]mfInvoiceItem, 0, len(items))
	for _, it := range items {
		out = append(out, mfInvoiceItem{ItemName: it.Name, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return out
}

type mfPaymentMethod struct {
	PaymentMethodId     int     `json:"PaymentMethodId"`
	PaymentMethodEn     string  `json:"PaymentMethodEn"`
	PaymentMethodAr     string  `json:"PaymentMethodAr"`
	PaymentMethodCode   string  `json:"PaymentMethodCode"`
	ImageUrl            string  `json:"ImageUrl"`
	IsDirectPayment     bool    `json:"IsDirectPayment"`
	ServiceCharge       float64 `json:"ServiceCharge"`
	TotalAmount         float64 `json:"TotalAmount"`
	CurrencyIso         string  `json:"CurrencyIso"`
	PaymentCurrencyIso  string  `json:"PaymentCurrencyIso"`
	IsEmbeddedSupported bool    `json:"IsEmbeddedSupported"`
}

func (g *MyFatoorah) InitiatePayment(ctx context.Context, req InitiateRequest) ([]PaymentMethod, error) {
	payload := map[string]interface{}{
		"InvoiceAmount": req.Amount,
		"CurrencyIso":   req.Currency,
	}
	log.Printf("[MyFatoorah] InitiatePayment amount=%.3f %s ref=%s", req.Amount, req.Currency, req.ReferenceID)
	data, err := g.post(ctx, "/v2/InitiatePayment", payload)
	if err != nil {
		return nil, err
	}
	var out struct {
		PaymentMethods []mfPaymentMethod `json:"PaymentMethods"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("myfatoorah InitiatePayment: %w", err)
	}
	methods := make([]PaymentMethod, 0, len(out.PaymentMethods))
	for _, m := range out.PaymentMethods {
		methods = append(methods, PaymentMethod{
			ID:                  m.PaymentMethodId,
			Name:                m.PaymentMethodEn,
			NameAr:              m.PaymentMethodAr,
			Code:                m.PaymentMethodCode,
			ImageURL:            m.ImageUrl,
			IsDirectPayment:     m.IsDirectPayment,
			ServiceCharge:       m.ServiceCharge,
			TotalAmount:         m.TotalAmount,
			Currency:            m.CurrencyIso,
			PaymentCurrency:     m.PaymentCurrencyIso,
			IsEmbeddedSupported: m.IsEmbeddedSupported,
		})
	}
	return methods, nil
}

func (g *MyFatoorah) ExecutePayment(ctx context.Context, req ExecuteRequest) (*ExecuteResult, error) {
	payload := map[string]interface{}{
		"PaymentMethodId":    req.PaymentMethodID,
		"InvoiceValue":       req.Amount,
		"DisplayCurrencyIso": req.Currency,
		"CustomerName":       req.Payer.Name,
		"CustomerEmail":      req.Payer.Email,
		"CallBackUrl":        req.CallbackURL,
		"ErrorUrl":           req.ErrorURL,
		"CustomerReference":  req.ReferenceID,
		"InvoiceItems":       mfItems(req.Items),
	}
	if req.Payer.Mobile != "" {
		payload["CustomerMobile"] = req.Payer.Mobile
	}
	log.Printf("[MyFatoorah] ExecutePayment method=%d amount=%.3f %s ref=%s", req.PaymentMethodID, req.Amount, req.Currency, req.ReferenceID)
	data, err := g.post(ctx, "/v2/ExecutePayment", payload)
	if err != nil {
		return nil, err
	}
	var out struct {
		InvoiceId       int64  `json:"InvoiceId"`
		PaymentURL      string `json:"PaymentURL"`
		IsDirectPayment bool   `json:"IsDirectPayment"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("myfatoorah ExecutePayment: %w", err)
	}
	return &ExecuteResult{
		PaymentURL:      out.PaymentURL,
		InvoiceID:       strconv.FormatInt(out.InvoiceId, 10),
		IsDirectPayment: out.IsDirectPayment,
	}, nil
}

func (g *MyFatoorah) GetPaymentStatus(ctx context.Context, key, keyType string) (*Status, error) {
	payload := map[string]interface{}{
		"Key":     key,
		"KeyType": keyType,
	}
	data, err := g.post(ctx, "/v2/GetPaymentStatus", payload)
	if err != nil {
		return nil, err
	}
	var out struct {
		InvoiceStatus     string  `json:"InvoiceStatus"`
		InvoiceValue      float64 `json:"InvoiceValue"`
		CustomerReference string  `json:"CustomerReference"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("myfatoorah GetPaymentStatus: %w", err)
	}
	return &Status{
		InvoiceStatus: out.InvoiceStatus,
		InvoiceValue:  out.InvoiceValue,
		Reference:     out.CustomerReference,
	}, nil
}
