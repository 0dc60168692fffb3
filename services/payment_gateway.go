package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

var ErrGatewayNotConfigured = errors.New("payment gateway not configured (PAYMENT_GATEWAY_SECRET)")

// PaymentGateway is a thin client for the hosted payment provider. Only
// transaction initialization and verification are used; everything else
// about the provider's protocol stays on the provider's side.
type PaymentGateway struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewPaymentGateway() *PaymentGateway {
	baseURL := os.Getenv("PAYMENT_GATEWAY_URL")
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	return &PaymentGateway{
		baseURL:   baseURL,
		secretKey: os.Getenv("PAYMENT_GATEWAY_SECRET"),
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type GatewayInitResult struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type GatewayVerifyResult struct {
	Status     string `json:"status"`
	GatewayRef string `json:"gateway_ref"`
	PaidAt     string `json:"paid_at"`
}

type gatewayEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize starts a hosted checkout for the given reference. Amounts are
// sent in the currency subunit (kobo).
func (g *PaymentGateway) Initialize(email, reference string, amount decimal.Decimal) (*GatewayInitResult, error) {
	if g.secretKey == "" {
		return nil, ErrGatewayNotConfigured
	}

	payload := map[string]interface{}{
		"email":     email,
		"reference": reference,
		"amount":    amount.Mul(decimal.NewFromInt(100)).IntPart(),
	}
	var result GatewayInitResult
	if err := g.call(http.MethodPost, "/transaction/initialize", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Verify asks the provider for the final state of a transaction.
func (g *PaymentGateway) Verify(reference string) (*GatewayVerifyResult, error) {
	if g.secretKey == "" {
		return nil, ErrGatewayNotConfigured
	}

	var data struct {
		Status    string `json:"status"`
		Reference string `json:"reference"`
		PaidAt    string `json:"paid_at"`
	}
	if err := g.call(http.MethodGet, "/transaction/verify/"+reference, nil, &data); err != nil {
		return nil, err
	}
	return &GatewayVerifyResult{
		Status:     data.Status,
		GatewayRef: data.Reference,
		PaidAt:     data.PaidAt,
	}, nil
}

func (g *PaymentGateway) call(method, path string, payload interface{}, out interface{}) error {
	var body *bytes.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, g.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	var envelope gatewayEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("gateway response malformed: %w", err)
	}
	if resp.StatusCode >= 400 || !envelope.Status {
		return fmt.Errorf("gateway error: %s", envelope.Message)
	}
	return json.Unmarshal(envelope.Data, out)
}
