// Package payment charges cards through a USAePay-style gateway. A
// decline is a normal result, not an error; errors are reserved for
// requests that must never reach the network (bad card data, missing
// credentials).
package payment

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
)

// Config holds gateway credentials, loaded from USAEPAY_* environment
// variables.
type Config struct {
	APIKey      string        `envconfig:"API_KEY"`
	APIPin      string        `envconfig:"API_PIN"`
	Environment string        `envconfig:"ENVIRONMENT" default:"sandbox"`
	Timeout     time.Duration `envconfig:"TIMEOUT" default:"15s"`
}

// LoadConfig reads gateway configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("USAEPAY", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load payment gateway config: %w", err)
	}
	return cfg, nil
}

// ChargeRequest is a single card charge.
type ChargeRequest struct {
	Amount      float64
	TipAmount   float64
	OrderNumber string
	Card        models.CardDetails
}

// ChargeResult is the outcome of a charge attempt. Approved=false with a
// DeclineReason is a gateway decline; Approved=false with ErrorDetail is
// a transport or gateway fault. The orchestrator treats both the same.
type ChargeResult struct {
	Approved      bool
	TransactionID string
	AuthCode      string
	DeclineReason string
	ErrorDetail   string
	AmountCharged float64
}

// Gateway is the payment capture adapter.
type Gateway struct {
	cfg     Config
	baseURL string
	client  *http.Client
	logger  *logger.Logger
}

// NewGateway creates a gateway client for the configured environment.
func NewGateway(cfg Config, log *logger.Logger) *Gateway {
	baseURL := "https://sandbox.usaepay.com/api/v2"
	if cfg.Environment == "production" {
		baseURL = "https://usaepay.com/api/v2"
	}
	return &Gateway{
		cfg:     cfg,
		baseURL: baseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  log,
	}
}

// NewGatewayWithBaseURL is used by tests to point the client at a stub
// server.
func NewGatewayWithBaseURL(cfg Config, baseURL string, log *logger.Logger) *Gateway {
	g := NewGateway(cfg, log)
	g.baseURL = baseURL
	return g
}

type gatewayRequest struct {
	Command    string            `json:"command"`
	Invoice    string            `json:"invoice"`
	Amount     string            `json:"amount"`
	CreditCard gatewayCardDetail `json:"creditcard"`
}

type gatewayCardDetail struct {
	Number         string `json:"number"`
	Expiration     string `json:"expiration"`
	CVC            string `json:"cvc"`
	AvsZip         string `json:"avs_zip,omitempty"`
	AvsStreet      string `json:"avs_street,omitempty"`
	CardholderName string `json:"cardholder,omitempty"`
}

type gatewayResponse struct {
	ResultCode string `json:"result_code"` // A approved, D declined, E error
	Result     string `json:"result"`
	RefNum     string `json:"refnum"`
	AuthCode   string `json:"authcode"`
	Error      string `json:"error"`
}

// Charge attempts exactly one charge. Card data is validated and
// credentials checked before any network call; there is no retry.
func (g *Gateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if err := validateCard(req.Card); err != nil {
		return nil, err
	}
	if req.Amount <= 0 {
		return nil, &models.ValidationError{Field: "amount", Message: "charge amount must be positive"}
	}
	if g.cfg.APIKey == "" {
		return nil, &models.ConfigurationError{
			Component: "payment_gateway",
			Message:   "USAEPAY_API_KEY is not set",
		}
	}

	total := req.Amount + req.TipAmount
	payload := gatewayRequest{
		Command: "sale",
		Invoice: invoiceReference(req.Card.Number),
		Amount:  fmt.Sprintf("%.2f", total),
		CreditCard: gatewayCardDetail{
			Number:         req.Card.Number,
			Expiration:     req.Card.Expiration,
			CVC:            req.Card.SecurityCode,
			AvsZip:         req.Card.ZipCode,
			AvsStreet:      req.Card.BillingStreet,
			CardholderName: req.Card.CardholderName,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return faultResult(total, fmt.Sprintf("failed to encode charge request: %v", err)), nil
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/transactions", bytes.NewReader(body))
	if err != nil {
		return faultResult(total, fmt.Sprintf("failed to build charge request: %v", err)), nil
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(g.cfg.APIKey, g.cfg.APIPin)

	g.logger.Debug("charge_attempt", "Sending charge to payment gateway", "", map[string]interface{}{
		"order_number": req.OrderNumber,
		"amount":       total,
		"environment":  g.cfg.Environment,
	})

	resp, err := g.client.Do(httpReq)
	if err != nil {
		g.logger.Error("charge_transport_failed", "Payment gateway unreachable", "", err, map[string]interface{}{
			"order_number": req.OrderNumber,
		})
		return faultResult(total, fmt.Sprintf("gateway request failed: %v", err)), nil
	}
	defer resp.Body.Close()

	var gwResp gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&gwResp); err != nil {
		return faultResult(total, fmt.Sprintf("failed to decode gateway response: %v", err)), nil
	}

	switch gwResp.ResultCode {
	case "A":
		g.logger.Info("charge_approved", "Payment captured", "", map[string]interface{}{
			"order_number":   req.OrderNumber,
			"transaction_id": gwResp.RefNum,
			"amount":         total,
		})
		return &ChargeResult{
			Approved:      true,
			TransactionID: gwResp.RefNum,
			AuthCode:      gwResp.AuthCode,
			AmountCharged: total,
		}, nil
	case "D":
		reason := gwResp.Error
		if reason == "" {
			reason = gwResp.Result
		}
		g.logger.Info("charge_declined", "Payment declined by gateway", "", map[string]interface{}{
			"order_number": req.OrderNumber,
			"reason":       reason,
		})
		return &ChargeResult{
			Approved:      false,
			TransactionID: gwResp.RefNum,
			DeclineReason: reason,
			AmountCharged: total,
		}, nil
	default:
		detail := gwResp.Error
		if detail == "" {
			detail = fmt.Sprintf("gateway returned status %d with result %q", resp.StatusCode, gwResp.Result)
		}
		return faultResult(total, detail), nil
	}
}

func faultResult(amount float64, detail string) *ChargeResult {
	return &ChargeResult{
		Approved:      false,
		ErrorDetail:   detail,
		AmountCharged: amount,
	}
}

func validateCard(card models.CardDetails) error {
	if strings.TrimSpace(card.Number) == "" {
		return &models.ValidationError{Field: "credit_card_number", Message: "card number is required"}
	}
	if strings.TrimSpace(card.Expiration) == "" {
		return &models.ValidationError{Field: "credit_card_expiration_date", Message: "expiration is required"}
	}
	if strings.TrimSpace(card.SecurityCode) == "" {
		return &models.ValidationError{Field: "credit_card_cvv", Message: "security code is required"}
	}
	return nil
}

// invoiceReference derives the gateway invoice field from the card
// number by hashing and truncating. Collisions are possible and the
// reference does not make retries idempotent; kept for parity with the
// upstream billing reports that key on it.
func invoiceReference(cardNumber string) string {
	sum := sha256.Sum256([]byte(cardNumber))
	return hex.EncodeToString(sum[:])[:10]
}
