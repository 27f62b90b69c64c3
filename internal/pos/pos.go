// Package pos abstracts the point-of-sale systems that must learn about
// new orders. Dispatch is advisory: a backend failure is recorded, never
// propagated into order placement.
package pos

import (
	"context"
	"time"
)

// SystemType identifies a supported POS backend.
type SystemType string

const (
	SuperMenu  SystemType = "supermenu"
	CheersFood SystemType = "cheersfood"
)

// OrderStatus is the normalized order state across all POS systems.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusPickedUp  OrderStatus = "picked_up"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// CustomerInfo is the customer snapshot a backend receives.
type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
}

// LineItem is one order line in the restaurant-agnostic projection.
type LineItem struct {
	Name                string         `json:"item_name"`
	Quantity            int            `json:"item_quantity"`
	BasePrice           float64        `json:"item_base_price"`
	SpecialInstructions string         `json:"special_instructions,omitempty"`
	Modifiers           []LineModifier `json:"modifiers,omitempty"`
}

// LineModifier is one modifier of a projected line item.
type LineModifier struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Pricing is the priced totals a backend receives.
type Pricing struct {
	Subtotal    float64 `json:"subtotal"`
	TaxAmount   float64 `json:"tax_amount"`
	DeliveryFee float64 `json:"delivery_fee"`
	TipAmount   float64 `json:"tip_amount"`
	Total       float64 `json:"total_amount"`
}

// PaymentInfo is the payment summary a backend receives. It never
// includes card data.
type PaymentInfo struct {
	Type          string `json:"payment_type"`
	Status        string `json:"payment_status"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// OrderData is the restaurant-agnostic projection of a persisted order.
// The order id and number reference the durable row; building one before
// persistence is a bug.
type OrderData struct {
	OrderID             string       `json:"order_id"`
	OrderNumber         string       `json:"order_number"`
	RestaurantID        string       `json:"restaurant_id"`
	Customer            CustomerInfo `json:"customer_info"`
	Items               []LineItem   `json:"order_items"`
	OrderType           string       `json:"order_type"`
	PickupTime          string       `json:"pickup_time,omitempty"`
	SpecialInstructions string       `json:"special_instructions,omitempty"`
	Pricing             Pricing      `json:"pricing"`
	Payment             PaymentInfo  `json:"payment_info"`
}

// Response is the outcome of one backend operation. SendOrderToAll
// produces exactly one per registered backend.
type Response struct {
	System             SystemType  `json:"pos_system"`
	Success            bool        `json:"success"`
	POSOrderID         string      `json:"pos_order_id,omitempty"`
	Status             OrderStatus `json:"status"`
	Message            string      `json:"message"`
	ErrorDetails       string      `json:"error_details,omitempty"`
	EstimatedReadyTime string      `json:"estimated_ready_time,omitempty"`
}

// Integration is the capability set every POS backend implements. The
// mapping from OrderData to the backend's wire format is internal to
// each implementation and side-effect free.
type Integration interface {
	System() SystemType
	SubmitOrder(ctx context.Context, order OrderData) (Response, error)
	GetStatus(ctx context.Context, posOrderID string) (Response, error)
	CancelOrder(ctx context.Context, posOrderID string) (Response, error)
	UpdateOrder(ctx context.Context, posOrderID string, updates map[string]interface{}) (Response, error)
	TestConnection(ctx context.Context) error
}

// BackendConfig is the per-backend credential set, supplied from the
// environment at process start.
type BackendConfig struct {
	APIKey     string
	APIURL     string
	MerchantID string
	WebhookURL string
}

// Configured reports whether the backend has everything it needs to make
// real API calls. An unconfigured backend still answers dispatches with a
// deterministic placeholder acceptance.
func (c BackendConfig) Configured() bool {
	return c.APIKey != "" && c.APIURL != "" && c.MerchantID != ""
}

// defaultReadyOffset is used when the order has no explicit pickup time.
const defaultReadyOffset = 25 * time.Minute

// estimatedReadyTime mirrors the order's requested time, or defaults to
// now plus a fixed preparation window.
func estimatedReadyTime(order OrderData, now time.Time) string {
	if order.PickupTime != "" && order.PickupTime != "ASAP" && order.PickupTime != "asap" {
		return order.PickupTime
	}
	return now.Add(defaultReadyOffset).Format("3:04 PM")
}
