// Package order coordinates order placement: validation, pricing,
// payment capture, persistence, POS dispatch, and the SMS confirmation.
package order

import (
	"context"
	"errors"
	"time"

	"restaurant-orders/internal/hours"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
	"restaurant-orders/internal/payment"
	"restaurant-orders/internal/pos"
	"restaurant-orders/internal/pricing"
	"restaurant-orders/internal/services/customer"
	"restaurant-orders/internal/services/restaurant"
)

// OrderStore persists placed orders and their follow-up records.
type OrderStore interface {
	Create(ctx context.Context, rec Record) (orderID, orderNumber string, err error)
	RecordPOSResults(ctx context.Context, orderID string, outcomes []models.POSOutcome) error
	RecordReconciliation(ctx context.Context, transactionID, restaurantID, customerPhone string, amount float64, reason string) error
}

// CustomerStore resolves callers to customer rows.
type CustomerStore interface {
	LookupOrCreate(ctx context.Context, phone, name string) (customer.Customer, error)
	SetPickupPreference(ctx context.Context, phone, pickupTime string) error
}

// RestaurantStore loads restaurant profiles.
type RestaurantStore interface {
	GetByID(ctx context.Context, id string) (restaurant.Restaurant, error)
}

// ChargeGateway captures card payments.
type ChargeGateway interface {
	Charge(ctx context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error)
}

// Dispatcher fans a placed order out to the POS backends.
type Dispatcher interface {
	SendOrderToAll(ctx context.Context, order pos.OrderData, requestID string) []pos.Response
}

// ConfirmationSender queues the SMS confirmation.
type ConfirmationSender interface {
	SendOrderConfirmation(ctx context.Context, order models.OrderPlacementResult, phone, customerName, restaurantName, pickupTime string, items []models.OrderLine) models.SMSConfirmation
}

// Service is the order placement orchestrator.
type Service struct {
	orders      OrderStore
	customers   CustomerStore
	restaurants RestaurantStore
	gateway     ChargeGateway
	dispatcher  Dispatcher
	sms         ConfirmationSender
	logger      *logger.Logger
	now         func() time.Time
}

// NewService wires the orchestrator.
func NewService(orders OrderStore, customers CustomerStore, restaurants RestaurantStore,
	gateway ChargeGateway, dispatcher Dispatcher, sms ConfirmationSender, log *logger.Logger) *Service {
	return &Service{
		orders:      orders,
		customers:   customers,
		restaurants: restaurants,
		gateway:     gateway,
		dispatcher:  dispatcher,
		sms:         sms,
		logger:      log,
		now:         time.Now,
	}
}

// PlaceOrder runs the placement pipeline. The stages before persistence
// (validation, pricing, payment) abort the order on failure and nothing
// is written. Once the order row is committed, POS dispatch and the SMS
// confirmation are advisory: their failures are reported in the result
// but never flip Success.
//
// The one ugly middle state is a captured card charge whose order row
// fails to persist. The charge is not voided; a reconciliation record is
// written instead and the error carries the transaction id.
func (s *Service) PlaceOrder(ctx context.Context, req *models.PlaceOrderRequest, requestID string) (*models.OrderPlacementResult, error) {
	if err := ValidateRequest(req); err != nil {
		return failedResult(err.Error()), err
	}

	rest, err := s.restaurants.GetByID(ctx, req.RestaurantID)
	if err != nil {
		if errors.Is(err, restaurant.ErrNotFound) {
			vErr := &models.ValidationError{Field: "restaurant_id", Message: "unknown restaurant"}
			return failedResult(vErr.Error()), vErr
		}
		return failedResult("could not load restaurant"), err
	}

	breakdown, err := pricing.Price(req.Items, rest.TaxRate, req.DeliveryFee, req.TipAmount)
	if err != nil {
		return failedResult(err.Error()), err
	}

	pickupTime := s.resolvePickupTime(rest, req.PickupTime)

	cust, err := s.customers.LookupOrCreate(ctx, req.CustomerPhone, req.CustomerName)
	if err != nil {
		return failedResult("could not resolve customer"), err
	}

	paymentStatus := models.PaymentStatusCash
	transactionID := ""
	if models.PaymentType(req.PaymentType) == models.PaymentCard {
		status, txID, err := s.captureCard(ctx, req, breakdown, requestID)
		if err != nil {
			return failedResult(err.Error()), err
		}
		paymentStatus, transactionID = status, txID
	}

	orderID, orderNumber, err := s.orders.Create(ctx, Record{
		RestaurantID:  req.RestaurantID,
		CustomerID:    cust.ID,
		CustomerPhone: cust.PhoneNumber,
		OrderType:     req.OrderType,
		PickupTime:    pickupTime,
		Breakdown:     breakdown,
		PaymentType:   models.PaymentType(req.PaymentType),
		PaymentStatus: paymentStatus,
		TransactionID: transactionID,
		OrderNotes:    req.OrderNotes,
		Items:         req.Items,
	})
	if err != nil {
		if transactionID != "" {
			s.recordStrandedCharge(ctx, transactionID, req, breakdown, err, requestID)
			pErr := &models.PersistenceError{Op: "create order", TransactionID: transactionID, Err: err}
			return failedResult(pErr.Error()), pErr
		}
		pErr := &models.PersistenceError{Op: "create order", Err: err}
		return failedResult(pErr.Error()), pErr
	}

	s.logger.Info("order_persisted", "Order committed", requestID, map[string]interface{}{
		"order_id":     orderID,
		"order_number": orderNumber,
		"total_amount": breakdown.Total,
	})

	result := &models.OrderPlacementResult{
		Success:             true,
		OrderID:             orderID,
		OrderNumber:         orderNumber,
		TotalAmount:         breakdown.Total,
		PaymentStatus:       paymentStatus,
		EstimatedPickupTime: pickupTime,
	}

	if hours.ExplicitPickup(req.PickupTime) {
		// Remembered as the preferred_pickup_time hint for the next call.
		if prefErr := s.customers.SetPickupPreference(ctx, cust.PhoneNumber, req.PickupTime); prefErr != nil {
			s.logger.Error("pickup_preference_write_failed", "Failed to remember pickup preference", requestID, prefErr,
				map[string]interface{}{"order_id": orderID})
		}
	}

	result.POSIntegration = s.dispatchToPOS(ctx, req, rest, cust, breakdown, orderID, orderNumber, pickupTime, paymentStatus, transactionID, requestID)
	result.SMSConfirmation = s.sms.SendOrderConfirmation(ctx, *result, cust.PhoneNumber, cust.Name, rest.Name, pickupTime, req.Items)

	return result, nil
}

// PriceOrder computes the breakdown for a request without placing it.
// Used by the voice front end to quote totals mid-call.
func (s *Service) PriceOrder(ctx context.Context, req *models.PlaceOrderRequest) (*pricing.Breakdown, error) {
	if len(req.Items) == 0 {
		return nil, &models.ValidationError{Field: "order_items", Message: "at least one item is required"}
	}

	taxRate := pricing.DefaultTaxRate
	if req.RestaurantID != "" {
		rest, err := s.restaurants.GetByID(ctx, req.RestaurantID)
		if err == nil {
			taxRate = rest.TaxRate
		} else if !errors.Is(err, restaurant.ErrNotFound) {
			return nil, err
		}
	}

	return pricing.Price(req.Items, taxRate, req.DeliveryFee, req.TipAmount)
}

// resolvePickupTime honors an explicit customer time and otherwise
// defaults relative to the restaurant's clock.
func (s *Service) resolvePickupTime(rest restaurant.Restaurant, preferred string) string {
	now := s.now()
	if loc, err := time.LoadLocation(rest.Timezone); err == nil {
		now = now.In(loc)
	}
	return hours.DefaultPickupTime(now, preferred)
}

// captureCard charges the card. A decline or gateway fault aborts the
// order before anything is persisted.
func (s *Service) captureCard(ctx context.Context, req *models.PlaceOrderRequest, breakdown *pricing.Breakdown, requestID string) (models.PaymentStatus, string, error) {
	chargeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// The gateway adds the tip itself, so Amount excludes it.
	result, err := s.gateway.Charge(chargeCtx, payment.ChargeRequest{
		Amount:    breakdown.Total - breakdown.TipAmount,
		TipAmount: breakdown.TipAmount,
		Card:      *req.Card,
	})
	if err != nil {
		return "", "", err
	}
	if !result.Approved {
		reason := result.DeclineReason
		if reason == "" {
			reason = result.ErrorDetail
		}
		s.logger.Info("payment_declined", "Card charge not approved", requestID, map[string]interface{}{
			"reason": reason,
		})
		return "", "", &models.PaymentDeclinedError{Reason: reason}
	}

	s.logger.Info("payment_captured", "Card charge approved", requestID, map[string]interface{}{
		"transaction_id": result.TransactionID,
		"amount":         result.AmountCharged,
	})
	return models.PaymentStatusPaid, result.TransactionID, nil
}

// recordStrandedCharge best-effort notes a charge that has no order row.
func (s *Service) recordStrandedCharge(ctx context.Context, transactionID string, req *models.PlaceOrderRequest, breakdown *pricing.Breakdown, cause error, requestID string) {
	recErr := s.orders.RecordReconciliation(ctx, transactionID, req.RestaurantID,
		customer.NormalizePhone(req.CustomerPhone), breakdown.Total, cause.Error())
	if recErr != nil {
		// Both the order write and the reconciliation write failed. The
		// transaction id in the log is the last trace of the charge.
		s.logger.Error("reconciliation_write_failed",
			"Charge captured but neither order nor reconciliation row persisted", requestID, recErr,
			map[string]interface{}{
				"transaction_id": transactionID,
				"amount":         breakdown.Total,
			})
		return
	}
	s.logger.Error("order_persist_failed_after_charge",
		"Charge captured but order persist failed, reconciliation row written", requestID, cause,
		map[string]interface{}{
			"transaction_id": transactionID,
			"amount":         breakdown.Total,
		})
}

// dispatchToPOS fans the committed order out and records the outcomes.
func (s *Service) dispatchToPOS(ctx context.Context, req *models.PlaceOrderRequest, rest restaurant.Restaurant,
	cust customer.Customer, breakdown *pricing.Breakdown, orderID, orderNumber, pickupTime string,
	paymentStatus models.PaymentStatus, transactionID, requestID string) []models.POSOutcome {

	items := make([]pos.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		mods := make([]pos.LineModifier, 0, len(it.Modifiers))
		for _, m := range it.Modifiers {
			mods = append(mods, pos.LineModifier{Name: m.Name, Quantity: m.Quantity, Price: m.Price})
		}
		items = append(items, pos.LineItem{
			Name:                it.Name,
			Quantity:            it.Quantity,
			BasePrice:           it.BasePrice,
			SpecialInstructions: it.SpecialInstructions,
			Modifiers:           mods,
		})
	}

	data := pos.OrderData{
		OrderID:      orderID,
		OrderNumber:  orderNumber,
		RestaurantID: rest.ID,
		Customer: pos.CustomerInfo{
			Name:    cust.Name,
			Phone:   cust.PhoneNumber,
			Address: req.CustomerAddress,
		},
		Items:               items,
		OrderType:           req.OrderType,
		PickupTime:          pickupTime,
		SpecialInstructions: req.OrderNotes,
		Pricing: pos.Pricing{
			Subtotal:    breakdown.Subtotal,
			TaxAmount:   breakdown.TaxAmount,
			DeliveryFee: breakdown.DeliveryFee,
			TipAmount:   breakdown.TipAmount,
			Total:       breakdown.Total,
		},
		Payment: pos.PaymentInfo{
			Type:          req.PaymentType,
			Status:        string(paymentStatus),
			TransactionID: transactionID,
		},
	}

	responses := s.dispatcher.SendOrderToAll(ctx, data, requestID)
	outcomes := make([]models.POSOutcome, 0, len(responses))
	for _, r := range responses {
		outcomes = append(outcomes, models.POSOutcome{
			System:             string(r.System),
			Success:            r.Success,
			POSOrderID:         r.POSOrderID,
			Status:             string(r.Status),
			Message:            r.Message,
			EstimatedReadyTime: r.EstimatedReadyTime,
			ErrorDetails:       r.ErrorDetails,
		})
	}

	if len(outcomes) > 0 {
		if err := s.orders.RecordPOSResults(ctx, orderID, outcomes); err != nil {
			s.logger.Error("pos_results_write_failed", "Failed to record POS dispatch outcomes", requestID, err,
				map[string]interface{}{"order_id": orderID})
		}
	}
	return outcomes
}

func failedResult(message string) *models.OrderPlacementResult {
	return &models.OrderPlacementResult{
		Success:        false,
		POSIntegration: []models.POSOutcome{},
		ErrorMessage:   message,
	}
}
