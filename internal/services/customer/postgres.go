// Package customer stores callers keyed by normalized phone number.
package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"restaurant-orders/internal/database"
	"restaurant-orders/internal/models"
)

// Customer is a caller known to the system. PreferredPickupTime is a spoken
// hint like "6:30 PM" remembered from earlier orders, empty when the caller
// always takes the default.
type Customer struct {
	ID                  int64     `json:"id"`
	PhoneNumber         string    `json:"phone_number"`
	Name                string    `json:"name"`
	PreferredPickupTime string    `json:"preferred_pickup_time"`
	CreatedAt           time.Time `json:"created_at"`
}

// Store persists customers in PostgreSQL.
type Store struct {
	db *database.DB
}

// NewStore creates a customer store.
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// NormalizePhone strips everything except digits so "+1 (555) 123-4567"
// and "15551234567" key the same row.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LookupOrCreate finds the customer for the phone, creating the row if
// missing, and stamps last_call_at. The upsert is a single statement, so
// two concurrent calls for the same new caller settle on one row. An
// existing non-empty name wins over the incoming one.
func (s *Store) LookupOrCreate(ctx context.Context, phone, name string) (Customer, error) {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return Customer{}, &models.ValidationError{Field: "customer_phone", Message: "phone number has no digits"}
	}

	c := Customer{PhoneNumber: normalized}
	err := s.db.QueryRow(ctx, database.UpsertCustomerSQL, normalized, name).
		Scan(&c.ID, &c.Name, &c.PreferredPickupTime)
	if err != nil {
		return Customer{}, fmt.Errorf("upsert customer: %w", err)
	}
	return c, nil
}

// GetByPhone looks up a customer without creating one, stamping
// last_call_at when the row exists. found is false when the caller is
// unknown.
func (s *Store) GetByPhone(ctx context.Context, phone string) (Customer, bool, error) {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return Customer{}, false, nil
	}

	var c Customer
	err := s.db.QueryRow(ctx, database.TouchCustomerByPhoneSQL, normalized).
		Scan(&c.ID, &c.PhoneNumber, &c.Name, &c.PreferredPickupTime, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, false, nil
	}
	if err != nil {
		return Customer{}, false, fmt.Errorf("get customer: %w", err)
	}
	return c, true, nil
}

// SetPickupPreference remembers the pickup time a caller asked for so the
// next greeting can offer it.
func (s *Store) SetPickupPreference(ctx context.Context, phone, pickupTime string) error {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return &models.ValidationError{Field: "customer_phone", Message: "phone number has no digits"}
	}

	err := s.db.Exec(ctx, database.UpdatePickupPreferenceSQL, strings.TrimSpace(pickupTime), normalized)
	if err != nil {
		return fmt.Errorf("set pickup preference: %w", err)
	}
	return nil
}

// UpdateName overwrites the stored name for an existing customer.
func (s *Store) UpdateName(ctx context.Context, phone, name string) error {
	normalized := NormalizePhone(phone)
	if normalized == "" {
		return &models.ValidationError{Field: "customer_phone", Message: "phone number has no digits"}
	}
	if strings.TrimSpace(name) == "" {
		return &models.ValidationError{Field: "customer_name", Message: "name is required"}
	}

	var id int64
	err := s.db.QueryRow(ctx, database.UpdateCustomerNameSQL, strings.TrimSpace(name), normalized).Scan(&id)
	if err != nil {
		return fmt.Errorf("update customer name: %w", err)
	}
	return nil
}
