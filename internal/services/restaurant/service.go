package restaurant

import (
	"context"
	"fmt"
	"time"

	"restaurant-orders/internal/hours"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
	"restaurant-orders/internal/services/customer"
)

// customerLookup is the slice of the customer store the service needs.
type customerLookup interface {
	GetByPhone(ctx context.Context, phone string) (customer.Customer, bool, error)
}

// restaurantGetter loads restaurant profiles.
type restaurantGetter interface {
	GetByID(ctx context.Context, id string) (Restaurant, error)
}

// Service assembles call-context variables for the voice front end.
type Service struct {
	restaurants restaurantGetter
	customers   customerLookup
	logger      *logger.Logger
	now         func() time.Time
}

// NewService creates the restaurant service.
func NewService(restaurants restaurantGetter, customers customerLookup, log *logger.Logger) *Service {
	return &Service{
		restaurants: restaurants,
		customers:   customers,
		logger:      log,
		now:         time.Now,
	}
}

// DynamicVariables builds the greeting bundle for an incoming call:
// whether the store is open right now in its own timezone, formatted
// hours for today, a default pickup time, and whether the caller is
// already known. An unknown caller phone is not an error; it just means
// a new customer greeting.
func (s *Service) DynamicVariables(ctx context.Context, restaurantID, callerPhone string) (models.DynamicVariables, error) {
	r, err := s.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		return models.DynamicVariables{}, err
	}

	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return models.DynamicVariables{}, fmt.Errorf("load timezone %q: %w", r.Timezone, err)
	}
	now := s.now().In(loc)

	vars := models.DynamicVariables{
		IsInBusinessHour:  r.BusinessHours.IsOpen(now),
		IsLunchHour:       r.LunchHours.IsOpen(now),
		CurrentTime:       hours.FormatVoiceTime(now),
		PickupTime:        hours.DefaultPickupTime(now, ""),
		CustomerPhone:     callerPhone,
		RestaurantName:    r.Name,
		RestaurantAddress: r.Address,
		RestaurantPhone:   r.Phone,
		Website:           r.Website,
		OrderingLink:      r.OrderingLink,
		GreetingContext:   "new_customer",
	}

	if day, ok := r.BusinessHours.Today(now); ok {
		vars.BusinessHoursMessage = hours.FormatPeriods(day.Periods)
	} else {
		vars.BusinessHoursMessage = "closed"
	}
	if day, ok := r.LunchHours.Today(now); ok {
		vars.LunchHoursMessage = hours.FormatPeriods(day.Periods)
	}

	if callerPhone != "" {
		c, found, err := s.customers.GetByPhone(ctx, callerPhone)
		if err != nil {
			// Greeting context degrades to new_customer on lookup failure.
			s.logger.Error("customer_lookup_failed", "Customer lookup failed during greeting", "", err,
				map[string]interface{}{"restaurant_id": restaurantID})
		} else if found {
			vars.CustomerName = c.Name
			if c.Name != "" {
				vars.GreetingContext = "returning_customer"
			}
			if c.PreferredPickupTime != "" {
				vars.PickupTime = hours.DefaultPickupTime(now, c.PreferredPickupTime)
			}
		}
	}

	return vars, nil
}
