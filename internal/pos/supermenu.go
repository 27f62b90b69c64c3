package pos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"restaurant-orders/internal/logger"
)

// SuperMenuIntegration talks to the SuperMenu ordering API. SuperMenu
// expects camelCase payloads and flattens modifiers into item notes.
type SuperMenuIntegration struct {
	cfg    BackendConfig
	client *http.Client
	log    *logger.Logger
	now    func() time.Time
}

// NewSuperMenu builds a SuperMenu backend. An unconfigured cfg is
// accepted; such a backend answers with placeholder responses.
func NewSuperMenu(cfg BackendConfig, log *logger.Logger) *SuperMenuIntegration {
	return &SuperMenuIntegration{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
		now:    time.Now,
	}
}

func (s *SuperMenuIntegration) System() SystemType { return SuperMenu }

// formatOrder maps the agnostic order projection into SuperMenu's
// camelCase wire format.
func (s *SuperMenuIntegration) formatOrder(order OrderData) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(order.Items))
	for _, it := range order.Items {
		mods := make([]map[string]interface{}, 0, len(it.Modifiers))
		for _, m := range it.Modifiers {
			mods = append(mods, map[string]interface{}{
				"modifierName": m.Name,
				"quantity":     m.Quantity,
				"price":        m.Price,
			})
		}
		items = append(items, map[string]interface{}{
			"itemName":  it.Name,
			"quantity":  it.Quantity,
			"unitPrice": it.BasePrice,
			"notes":     it.SpecialInstructions,
			"modifiers": mods,
		})
	}

	return map[string]interface{}{
		"merchantId":    s.cfg.MerchantID,
		"externalRef":   order.OrderNumber,
		"orderType":     order.OrderType,
		"requestedTime": order.PickupTime,
		"customer": map[string]interface{}{
			"name":    order.Customer.Name,
			"phone":   order.Customer.Phone,
			"address": order.Customer.Address,
		},
		"items": items,
		"totals": map[string]interface{}{
			"subtotal":    order.Pricing.Subtotal,
			"tax":         order.Pricing.TaxAmount,
			"deliveryFee": order.Pricing.DeliveryFee,
			"tip":         order.Pricing.TipAmount,
			"total":       order.Pricing.Total,
		},
		"payment": map[string]interface{}{
			"method":        order.Payment.Type,
			"status":        order.Payment.Status,
			"transactionId": order.Payment.TransactionID,
		},
		"notes": order.SpecialInstructions,
	}
}

// SubmitOrder sends the order to SuperMenu. Without credentials it
// accepts the order locally with a placeholder id so the caller's flow
// is identical in development and production.
func (s *SuperMenuIntegration) SubmitOrder(ctx context.Context, order OrderData) (Response, error) {
	if !s.cfg.Configured() {
		return Response{
			System:             SuperMenu,
			Success:            true,
			POSOrderID:         "MOCK_SM_" + uuid.NewString()[:8],
			Status:             StatusConfirmed,
			Message:            "Order accepted (SuperMenu not configured, using placeholder)",
			EstimatedReadyTime: estimatedReadyTime(order, s.now()),
		}, nil
	}

	body, err := json.Marshal(s.formatOrder(order))
	if err != nil {
		return Response{}, fmt.Errorf("marshal supermenu order: %w", err)
	}

	var out struct {
		OrderID string `json:"orderId"`
		Status  string `json:"status"`
	}
	if err := s.call(ctx, http.MethodPost, "/orders", body, &out); err != nil {
		return Response{}, err
	}

	return Response{
		System:             SuperMenu,
		Success:            true,
		POSOrderID:         out.OrderID,
		Status:             normalizeSuperMenuStatus(out.Status),
		Message:            "Order submitted to SuperMenu",
		EstimatedReadyTime: estimatedReadyTime(order, s.now()),
	}, nil
}

// GetStatus fetches the current state of a previously submitted order.
func (s *SuperMenuIntegration) GetStatus(ctx context.Context, posOrderID string) (Response, error) {
	if !s.cfg.Configured() {
		return Response{
			System:     SuperMenu,
			Success:    true,
			POSOrderID: posOrderID,
			Status:     StatusConfirmed,
			Message:    "Placeholder status (SuperMenu not configured)",
		}, nil
	}

	var out struct {
		OrderID string `json:"orderId"`
		Status  string `json:"status"`
	}
	if err := s.call(ctx, http.MethodGet, "/orders/"+posOrderID, nil, &out); err != nil {
		return Response{}, err
	}

	return Response{
		System:     SuperMenu,
		Success:    true,
		POSOrderID: posOrderID,
		Status:     normalizeSuperMenuStatus(out.Status),
		Message:    "Status retrieved",
	}, nil
}

// CancelOrder asks SuperMenu to cancel an order.
func (s *SuperMenuIntegration) CancelOrder(ctx context.Context, posOrderID string) (Response, error) {
	if !s.cfg.Configured() {
		return Response{
			System:     SuperMenu,
			Success:    true,
			POSOrderID: posOrderID,
			Status:     StatusCancelled,
			Message:    "Placeholder cancellation (SuperMenu not configured)",
		}, nil
	}

	if err := s.call(ctx, http.MethodDelete, "/orders/"+posOrderID, nil, nil); err != nil {
		return Response{}, err
	}
	return Response{
		System:     SuperMenu,
		Success:    true,
		POSOrderID: posOrderID,
		Status:     StatusCancelled,
		Message:    "Order cancelled",
	}, nil
}

// UpdateOrder patches an existing order with the given fields.
func (s *SuperMenuIntegration) UpdateOrder(ctx context.Context, posOrderID string, updates map[string]interface{}) (Response, error) {
	if !s.cfg.Configured() {
		return Response{
			System:     SuperMenu,
			Success:    true,
			POSOrderID: posOrderID,
			Status:     StatusConfirmed,
			Message:    "Placeholder update (SuperMenu not configured)",
		}, nil
	}

	body, err := json.Marshal(updates)
	if err != nil {
		return Response{}, fmt.Errorf("marshal supermenu update: %w", err)
	}
	if err := s.call(ctx, http.MethodPatch, "/orders/"+posOrderID, body, nil); err != nil {
		return Response{}, err
	}
	return Response{
		System:     SuperMenu,
		Success:    true,
		POSOrderID: posOrderID,
		Status:     StatusConfirmed,
		Message:    "Order updated",
	}, nil
}

// TestConnection verifies reachability and credentials.
func (s *SuperMenuIntegration) TestConnection(ctx context.Context) error {
	if !s.cfg.Configured() {
		return &connectivityError{system: SuperMenu, reason: "missing credentials"}
	}
	return s.call(ctx, http.MethodGet, "/ping", nil, nil)
}

func (s *SuperMenuIntegration) call(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.cfg.APIURL+path, reader)
	if err != nil {
		return fmt.Errorf("build supermenu request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("supermenu request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("supermenu returned %d: %s", resp.StatusCode, string(data))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode supermenu response: %w", err)
		}
	}
	return nil
}

func normalizeSuperMenuStatus(s string) OrderStatus {
	switch s {
	case "accepted", "confirmed":
		return StatusConfirmed
	case "inProgress", "preparing":
		return StatusPreparing
	case "ready":
		return StatusReady
	case "completed":
		return StatusPickedUp
	case "cancelled", "canceled":
		return StatusCancelled
	default:
		return StatusPending
	}
}

type connectivityError struct {
	system SystemType
	reason string
}

func (e *connectivityError) Error() string {
	return fmt.Sprintf("%s connection test failed: %s", e.system, e.reason)
}
