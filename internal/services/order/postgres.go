package order

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"restaurant-orders/internal/database"
	"restaurant-orders/internal/models"
	"restaurant-orders/internal/pricing"
)

// Record is everything persisted for a placed order. Card data is never
// part of it.
type Record struct {
	RestaurantID  string
	CustomerID    int64
	CustomerPhone string
	OrderType     string
	PickupTime    string
	Breakdown     *pricing.Breakdown
	PaymentType   models.PaymentType
	PaymentStatus models.PaymentStatus
	TransactionID string
	OrderNotes    string
	Items         []models.OrderLine
}

// Store persists orders in PostgreSQL.
type Store struct {
	db *database.DB
}

// NewStore creates an order store.
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// Create writes the order, its items, and its modifiers in one
// transaction. The per-restaurant sequence is advanced inside the same
// transaction, so concurrent placements never share an order number.
func (s *Store) Create(ctx context.Context, rec Record) (orderID, orderNumber string, err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return "", "", fmt.Errorf("begin order transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var seq int64
	if err := tx.QueryRow(ctx, database.NextOrderSequenceSQL, rec.RestaurantID).Scan(&seq); err != nil {
		return "", "", fmt.Errorf("next order sequence: %w", err)
	}
	orderNumber = fmt.Sprintf("ORD-%s-%06d", rec.RestaurantID, seq)
	orderID = uuid.NewString()

	orderData, err := json.Marshal(map[string]interface{}{
		"order_notes": rec.OrderNotes,
		"breakdown":   rec.Breakdown,
	})
	if err != nil {
		return "", "", fmt.Errorf("encode order data: %w", err)
	}

	var createdAt interface{}
	err = tx.QueryRow(ctx, database.InsertOrderSQL,
		orderID, orderNumber, rec.RestaurantID, rec.CustomerID, rec.OrderType, rec.PickupTime,
		rec.Breakdown.Subtotal, rec.Breakdown.TaxAmount, rec.Breakdown.DeliveryFee,
		rec.Breakdown.TipAmount, rec.Breakdown.Total,
		string(rec.PaymentType), string(rec.PaymentStatus), rec.TransactionID, orderData,
	).Scan(&createdAt)
	if err != nil {
		return "", "", fmt.Errorf("insert order: %w", err)
	}

	for _, item := range rec.Items {
		var itemID int64
		err = tx.QueryRow(ctx, database.InsertOrderItemSQL,
			orderID, item.Name, item.Quantity, item.BasePrice, item.SpecialInstructions,
		).Scan(&itemID)
		if err != nil {
			return "", "", fmt.Errorf("insert order item %q: %w", item.Name, err)
		}

		for _, mod := range item.Modifiers {
			_, err = tx.Exec(ctx, database.InsertOrderModifierSQL,
				itemID, mod.Name, mod.Quantity, mod.Price)
			if err != nil {
				return "", "", fmt.Errorf("insert modifier %q: %w", mod.Name, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", "", fmt.Errorf("commit order transaction: %w", err)
	}
	return orderID, orderNumber, nil
}

// RecordPOSResults appends the per-backend dispatch outcomes for an
// order. Failures here are logged by the caller, never surfaced.
func (s *Store) RecordPOSResults(ctx context.Context, orderID string, outcomes []models.POSOutcome) error {
	for _, o := range outcomes {
		err := s.db.Exec(ctx, database.InsertPOSResultSQL,
			orderID, o.System, o.Success, o.POSOrderID, o.Status, o.Message, o.ErrorDetails)
		if err != nil {
			return fmt.Errorf("record pos result for %s: %w", o.System, err)
		}
	}
	return nil
}

// RecordReconciliation notes a captured charge whose order row could not
// be persisted so staff can refund or re-enter it.
func (s *Store) RecordReconciliation(ctx context.Context, transactionID, restaurantID, customerPhone string, amount float64, reason string) error {
	return s.db.Exec(ctx, database.InsertReconciliationSQL,
		transactionID, restaurantID, customerPhone, amount, reason)
}
