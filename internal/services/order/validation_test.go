package order

import (
	"errors"
	"testing"

	"restaurant-orders/internal/models"
)

func validRequest() *models.PlaceOrderRequest {
	return &models.PlaceOrderRequest{
		RestaurantID:  "rest_001",
		CustomerName:  "Alex",
		CustomerPhone: "+1 (555) 123-4567",
		OrderType:     "pickup",
		PaymentType:   "cash",
		Items: []models.OrderLine{
			{Name: "Margherita Pizza", BasePrice: 15.74, Quantity: 1},
		},
	}
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *models.PlaceOrderRequest)
		wantField string
	}{
		{
			name:   "valid pickup cash order",
			mutate: func(r *models.PlaceOrderRequest) {},
		},
		{
			name: "valid delivery order with address",
			mutate: func(r *models.PlaceOrderRequest) {
				r.OrderType = "delivery"
				r.CustomerAddress = "12 Main St"
				r.DeliveryFee = 5.00
			},
		},
		{
			name: "valid card order with details",
			mutate: func(r *models.PlaceOrderRequest) {
				r.PaymentType = "card"
				r.Card = &models.CardDetails{Number: "4111111111111111", Expiration: "1227", SecurityCode: "123"}
			},
		},
		{
			name:      "missing restaurant id",
			mutate:    func(r *models.PlaceOrderRequest) { r.RestaurantID = "  " },
			wantField: "restaurant_id",
		},
		{
			name:      "phone without digits",
			mutate:    func(r *models.PlaceOrderRequest) { r.CustomerPhone = "+()- " },
			wantField: "customer_phone",
		},
		{
			name:      "unknown order type",
			mutate:    func(r *models.PlaceOrderRequest) { r.OrderType = "drive_thru" },
			wantField: "order_type",
		},
		{
			name:      "delivery without address",
			mutate:    func(r *models.PlaceOrderRequest) { r.OrderType = "delivery" },
			wantField: "customer_address",
		},
		{
			name:      "unknown payment type",
			mutate:    func(r *models.PlaceOrderRequest) { r.PaymentType = "check" },
			wantField: "payment_type",
		},
		{
			name:      "card payment without card",
			mutate:    func(r *models.PlaceOrderRequest) { r.PaymentType = "card" },
			wantField: "card",
		},
		{
			name:      "no items",
			mutate:    func(r *models.PlaceOrderRequest) { r.Items = nil },
			wantField: "order_items",
		},
		{
			name:      "negative delivery fee",
			mutate:    func(r *models.PlaceOrderRequest) { r.DeliveryFee = -1 },
			wantField: "delivery_fee",
		},
		{
			name:      "negative tip",
			mutate:    func(r *models.PlaceOrderRequest) { r.TipAmount = -0.01 },
			wantField: "tip_amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := ValidateRequest(req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid request, got %v", err)
				}
				return
			}

			var vErr *models.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, vErr.Field)
			}
		})
	}
}
