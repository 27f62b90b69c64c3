package models

import "time"

// SMSMessage is the confirmation message published to the notifications
// exchange and consumed by the notification subscriber.
type SMSMessage struct {
	MessageID   string    `json:"message_id"`
	Phone       string    `json:"phone"`
	OrderNumber string    `json:"order_number"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

// DynamicVariables is the bundle of call-context values returned to the
// voice front end before an order is taken: open/closed state, formatted
// hours, default pickup time, and the customer greeting context.
type DynamicVariables struct {
	IsInBusinessHour bool   `json:"is_in_business_hour"`
	IsLunchHour      bool   `json:"is_lunch_hour"`
	CurrentTime      string `json:"current_time"`
	PickupTime       string `json:"pickup_time"`

	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone_number"`

	RestaurantName    string `json:"restaurant_name"`
	RestaurantAddress string `json:"restaurant_address"`
	RestaurantPhone   string `json:"restaurant_phone"`
	Website           string `json:"website"`
	OrderingLink      string `json:"ordering_link"`

	BusinessHoursMessage string `json:"business_hours_message"`
	LunchHoursMessage    string `json:"lunch_hours_message"`
	GreetingContext      string `json:"greeting_context"` // new_customer | returning_customer
}
