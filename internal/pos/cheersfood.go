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

// CheersFoodIntegration talks to the CheersFood delivery platform API.
// CheersFood uses snake_case payloads and carries modifiers as a nested
// list per item.
type CheersFoodIntegration struct {
	cfg    BackendConfig
	client *http.Client
	log    *logger.Logger
	now    func() time.Time
}

// NewCheersFood builds a CheersFood backend. Unconfigured backends
// answer with placeholder responses.
func NewCheersFood(cfg BackendConfig, log *logger.Logger) *CheersFoodIntegration {
	return &CheersFoodIntegration{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
		now:    time.Now,
	}
}

func (c *CheersFoodIntegration) System() SystemType { return CheersFood }

// formatOrder maps the agnostic projection into CheersFood's snake_case
// wire format.
func (c *CheersFoodIntegration) formatOrder(order OrderData) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(order.Items))
	for _, it := range order.Items {
		mods := make([]map[string]interface{}, 0, len(it.Modifiers))
		for _, m := range it.Modifiers {
			mods = append(mods, map[string]interface{}{
				"modifier_name": m.Name,
				"modifier_qty":  m.Quantity,
				"modifier_cost": m.Price,
			})
		}
		items = append(items, map[string]interface{}{
			"name":                 it.Name,
			"qty":                  it.Quantity,
			"unit_price":           it.BasePrice,
			"special_instructions": it.SpecialInstructions,
			"modifier_list":        mods,
		})
	}

	return map[string]interface{}{
		"merchant_id":      c.cfg.MerchantID,
		"external_ref":     order.OrderNumber,
		"order_type":       order.OrderType,
		"requested_for":    order.PickupTime,
		"customer_name":    order.Customer.Name,
		"customer_phone":   order.Customer.Phone,
		"delivery_address": order.Customer.Address,
		"line_items":       items,
		"subtotal":         order.Pricing.Subtotal,
		"tax":              order.Pricing.TaxAmount,
		"delivery_fee":     order.Pricing.DeliveryFee,
		"tip":              order.Pricing.TipAmount,
		"total":            order.Pricing.Total,
		"payment_method":   order.Payment.Type,
		"payment_status":   order.Payment.Status,
		"transaction_id":   order.Payment.TransactionID,
		"order_notes":      order.SpecialInstructions,
		"webhook_url":      c.cfg.WebhookURL,
	}
}

func (c *CheersFoodIntegration) SubmitOrder(ctx context.Context, order OrderData) (Response, error) {
	if !c.cfg.Configured() {
		return Response{
			System:             CheersFood,
			Success:            true,
			POSOrderID:         "MOCK_CF_" + uuid.NewString()[:8],
			Status:             StatusConfirmed,
			Message:            "Order accepted (CheersFood not configured, using placeholder)",
			EstimatedReadyTime: estimatedReadyTime(order, c.now()),
		}, nil
	}

	body, err := json.Marshal(c.formatOrder(order))
	if err != nil {
		return Response{}, fmt.Errorf("marshal cheersfood order: %w", err)
	}

	var out struct {
		OrderRef string `json:"order_ref"`
		State    string `json:"state"`
	}
	if err := c.call(ctx, http.MethodPost, "/v1/orders", body, &out); err != nil {
		return Response{}, err
	}

	return Response{
		System:             CheersFood,
		Success:            true,
		POSOrderID:         out.OrderRef,
		Status:             normalizeCheersFoodStatus(out.State),
		Message:            "Order submitted to CheersFood",
		EstimatedReadyTime: estimatedReadyTime(order, c.now()),
	}, nil
}

func (c *CheersFoodIntegration) GetStatus(ctx context.Context, posOrderID string) (Response, error) {
	if !c.cfg.Configured() {
		return Response{
			System:     CheersFood,
			Success:    true,
			POSOrderID: posOrderID,
			Status:     StatusConfirmed,
			Message:    "Placeholder status (CheersFood not configured)",
		}, nil
	}

	var out struct {
		OrderRef string `json:"order_ref"`
		State    string `json:"state"`
	}
	if err := c.call(ctx, http.MethodGet, "/v1/orders/"+posOrderID, nil, &out); err != nil {
		return Response{}, err
	}
	return Response{
		System:     CheersFood,
		Success:    true,
		POSOrderID: posOrderID,
		Status:     normalizeCheersFoodStatus(out.State),
		Message:    "Status retrieved",
	}, nil
}

func (c *CheersFoodIntegration) CancelOrder(ctx context.Context, posOrderID string) (Response, error) {
	if !c.cfg.Configured() {
		return Response{
			System:     CheersFood,
			Success:    true,
			POSOrderID: posOrderID,
			Status:     StatusCancelled,
			Message:    "Placeholder cancellation (CheersFood not configured)",
		}, nil
	}

	if err := c.call(ctx, http.MethodPost, "/v1/orders/"+posOrderID+"/cancel", nil, nil); err != nil {
		return Response{}, err
	}
	return Response{
		System:     CheersFood,
		Success:    true,
		POSOrderID: posOrderID,
		Status:     StatusCancelled,
		Message:    "Order cancelled",
	}, nil
}

func (c *CheersFoodIntegration) UpdateOrder(ctx context.Context, posOrderID string, updates map[string]interface{}) (Response, error) {
	if !c.cfg.Configured() {
		return Response{
			System:     CheersFood,
			Success:    true,
			POSOrderID: posOrderID,
			Status:     StatusConfirmed,
			Message:    "Placeholder update (CheersFood not configured)",
		}, nil
	}

	body, err := json.Marshal(updates)
	if err != nil {
		return Response{}, fmt.Errorf("marshal cheersfood update: %w", err)
	}
	if err := c.call(ctx, http.MethodPut, "/v1/orders/"+posOrderID, body, nil); err != nil {
		return Response{}, err
	}
	return Response{
		System:     CheersFood,
		Success:    true,
		POSOrderID: posOrderID,
		Status:     StatusConfirmed,
		Message:    "Order updated",
	}, nil
}

func (c *CheersFoodIntegration) TestConnection(ctx context.Context) error {
	if !c.cfg.Configured() {
		return &connectivityError{system: CheersFood, reason: "missing credentials"}
	}
	return c.call(ctx, http.MethodGet, "/v1/health", nil, nil)
}

func (c *CheersFoodIntegration) call(ctx context.Context, method, path string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.APIURL+path, reader)
	if err != nil {
		return fmt.Errorf("build cheersfood request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("cheersfood request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("cheersfood returned %d: %s", resp.StatusCode, string(data))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode cheersfood response: %w", err)
		}
	}
	return nil
}

func normalizeCheersFoodStatus(s string) OrderStatus {
	switch s {
	case "accepted", "confirmed":
		return StatusConfirmed
	case "cooking", "preparing":
		return StatusPreparing
	case "ready_for_pickup", "ready":
		return StatusReady
	case "out_for_delivery":
		return StatusPreparing
	case "delivered":
		return StatusDelivered
	case "cancelled":
		return StatusCancelled
	default:
		return StatusPending
	}
}
