package models

// OrderType represents how the customer receives the order.
type OrderType string

const (
	Pickup   OrderType = "pickup"
	Delivery OrderType = "delivery"
	DineIn   OrderType = "dine_in"
)

// PaymentType selects the payment path for an order.
type PaymentType string

const (
	PaymentCash PaymentType = "cash"
	PaymentCard PaymentType = "card"
)

// PaymentStatus is the persisted payment outcome of an order.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusCash    PaymentStatus = "cash"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Modifier is a priced addition to an order line.
type Modifier struct {
	Name     string  `json:"modifier_name"`
	Quantity int     `json:"modifier_quantity"`
	Price    float64 `json:"modifier_price"`
}

// OrderLine is one item of an order, with optional modifiers.
type OrderLine struct {
	Name                string     `json:"item_name"`
	BasePrice           float64    `json:"item_base_price"`
	Quantity            int        `json:"item_quantity"`
	SpecialInstructions string     `json:"special_instructions,omitempty"`
	Modifiers           []Modifier `json:"modifiers,omitempty"`
}

// CardDetails carries card data for a card payment. Never persisted.
type CardDetails struct {
	Number         string `json:"credit_card_number"`
	Expiration     string `json:"credit_card_expiration_date"`
	SecurityCode   string `json:"credit_card_cvv"`
	ZipCode        string `json:"credit_card_zip_code,omitempty"`
	CardholderName string `json:"cardholder_name,omitempty"`
	BillingStreet  string `json:"billing_street,omitempty"`
}

// PlaceOrderRequest is the validated order placement payload.
type PlaceOrderRequest struct {
	RestaurantID    string       `json:"restaurant_id"`
	CustomerName    string       `json:"customer_name"`
	CustomerPhone   string       `json:"customer_phone"`
	CustomerAddress string       `json:"customer_address,omitempty"`
	OrderType       string       `json:"order_type"`
	OrderNotes      string       `json:"order_notes,omitempty"`
	PickupTime      string       `json:"pick_up_time,omitempty"`
	DeliveryFee     float64      `json:"delivery_fee"`
	TipAmount       float64      `json:"tip_amount"`
	PaymentType     string       `json:"payment_type"`
	Card            *CardDetails `json:"card,omitempty"`
	Items           []OrderLine  `json:"order_items"`
}

// POSOutcome is the advisory per-backend result attached to a placement
// response and recorded in the dispatch log.
type POSOutcome struct {
	System             string `json:"pos_system"`
	Success            bool   `json:"success"`
	POSOrderID         string `json:"pos_order_id,omitempty"`
	Status             string `json:"status"`
	Message            string `json:"message"`
	EstimatedReadyTime string `json:"estimated_ready_time,omitempty"`
	ErrorDetails       string `json:"error_details,omitempty"`
}

// SMSConfirmation is the advisory notification result attached to a
// placement response.
type SMSConfirmation struct {
	Enabled   bool   `json:"enabled"`
	Sent      bool   `json:"sent"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// OrderPlacementResult is the response contract of order placement.
// Success reflects only validation, payment, and persistence; POS and
// SMS outcomes are advisory and never flip it.
type OrderPlacementResult struct {
	Success             bool            `json:"success"`
	OrderID             string          `json:"order_id,omitempty"`
	OrderNumber         string          `json:"order_number,omitempty"`
	TotalAmount         float64         `json:"total_amount,omitempty"`
	PaymentStatus       PaymentStatus   `json:"payment_status,omitempty"`
	EstimatedPickupTime string          `json:"estimated_pickup_time,omitempty"`
	POSIntegration      []POSOutcome    `json:"pos_integration"`
	SMSConfirmation     SMSConfirmation `json:"sms_confirmation"`
	ErrorMessage        string          `json:"error_message,omitempty"`
}
