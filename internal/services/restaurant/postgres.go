// Package restaurant serves restaurant profiles, store hours, and the
// call-context variables handed to the voice front end.
package restaurant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"restaurant-orders/internal/database"
	"restaurant-orders/internal/hours"
	"restaurant-orders/internal/models"
)

// ErrNotFound is returned when no restaurant matches the given id.
var ErrNotFound = errors.New("restaurant not found")

// Restaurant is one configured restaurant profile. BusinessHours gates
// ordering; LunchHours only flavors the greeting.
type Restaurant struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Address       string             `json:"address"`
	Phone         string             `json:"phone"`
	Website       string             `json:"website"`
	OrderingLink  string             `json:"ordering_link"`
	Timezone      string             `json:"timezone"`
	TaxRate       float64            `json:"tax_rate"`
	BusinessHours hours.WeekSchedule `json:"business_hours"`
	LunchHours    hours.WeekSchedule `json:"lunch_hours"`
}

// Store reads and writes restaurant profiles in PostgreSQL.
type Store struct {
	db *database.DB
}

// NewStore creates a restaurant store.
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// GetByID loads a restaurant profile. Hours are stored as JSONB.
func (s *Store) GetByID(ctx context.Context, id string) (Restaurant, error) {
	var r Restaurant
	var businessHours, lunchHours []byte

	err := s.db.QueryRow(ctx, database.GetRestaurantSQL, id).Scan(
		&r.ID, &r.Name, &r.Address, &r.Phone, &r.Website, &r.OrderingLink,
		&r.Timezone, &r.TaxRate, &businessHours, &lunchHours,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Restaurant{}, ErrNotFound
	}
	if err != nil {
		return Restaurant{}, fmt.Errorf("get restaurant %s: %w", id, err)
	}

	if len(businessHours) > 0 {
		if err := json.Unmarshal(businessHours, &r.BusinessHours); err != nil {
			return Restaurant{}, fmt.Errorf("decode business hours for %s: %w", id, err)
		}
	}
	if len(lunchHours) > 0 {
		if err := json.Unmarshal(lunchHours, &r.LunchHours); err != nil {
			return Restaurant{}, fmt.Errorf("decode lunch hours for %s: %w", id, err)
		}
	}
	return r, nil
}

// UpdateStoreHours replaces the weekly business hours of a restaurant.
func (s *Store) UpdateStoreHours(ctx context.Context, id string, schedule hours.WeekSchedule) error {
	if err := validateSchedule(schedule); err != nil {
		return err
	}

	data, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("encode business hours: %w", err)
	}
	if err := s.db.Exec(ctx, database.UpdateStoreHoursSQL, data, id); err != nil {
		return fmt.Errorf("update store hours for %s: %w", id, err)
	}
	return nil
}

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

func validateSchedule(schedule hours.WeekSchedule) error {
	if len(schedule) == 0 {
		return &models.ValidationError{Field: "business_hours", Message: "schedule is empty"}
	}
	for day, ds := range schedule {
		if !weekdays[day] {
			return &models.ValidationError{Field: "business_hours", Message: fmt.Sprintf("unknown day %q", day)}
		}
		for _, p := range ds.Periods {
			if p.Open == "" || p.Close == "" {
				return &models.ValidationError{
					Field:   "business_hours",
					Message: fmt.Sprintf("%s has a period with missing open or close time", day),
				}
			}
		}
	}
	return nil
}
