package order

import (
	"strings"

	"restaurant-orders/internal/models"
	"restaurant-orders/internal/services/customer"
)

// ValidateRequest checks a placement request before any external call is
// made. Item-level price and quantity checks live in the pricing engine;
// this covers everything else.
func ValidateRequest(req *models.PlaceOrderRequest) error {
	if strings.TrimSpace(req.RestaurantID) == "" {
		return &models.ValidationError{Field: "restaurant_id", Message: "restaurant_id is required"}
	}

	if customer.NormalizePhone(req.CustomerPhone) == "" {
		return &models.ValidationError{Field: "customer_phone", Message: "a phone number with digits is required"}
	}

	switch models.OrderType(req.OrderType) {
	case models.Pickup, models.DineIn:
	case models.Delivery:
		if strings.TrimSpace(req.CustomerAddress) == "" {
			return &models.ValidationError{Field: "customer_address", Message: "delivery orders require an address"}
		}
	default:
		return &models.ValidationError{Field: "order_type", Message: "must be one of: pickup, delivery, dine_in"}
	}

	switch models.PaymentType(req.PaymentType) {
	case models.PaymentCash:
	case models.PaymentCard:
		if req.Card == nil {
			return &models.ValidationError{Field: "card", Message: "card payments require card details"}
		}
	default:
		return &models.ValidationError{Field: "payment_type", Message: "must be one of: cash, card"}
	}

	if len(req.Items) == 0 {
		return &models.ValidationError{Field: "order_items", Message: "at least one item is required"}
	}

	if req.DeliveryFee < 0 {
		return &models.ValidationError{Field: "delivery_fee", Message: "must not be negative"}
	}
	if req.TipAmount < 0 {
		return &models.ValidationError{Field: "tip_amount", Message: "must not be negative"}
	}

	return nil
}
