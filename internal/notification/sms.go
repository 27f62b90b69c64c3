// Package notification builds and publishes SMS order confirmations.
// Delivery is best effort: a publish failure is reported in the
// placement response but never fails the order.
package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"

	"restaurant-orders/internal/models"
)

// Config controls the SMS confirmation feature.
type Config struct {
	Enabled    bool   `envconfig:"ENABLED" default:"true"`
	SenderName string `envconfig:"SENDER_NAME"`
}

// LoadConfig reads SMS_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("SMS", &cfg); err != nil {
		return Config{}, fmt.Errorf("load sms settings: %w", err)
	}
	return cfg, nil
}

// publisher is the messaging surface the sender needs.
type publisher interface {
	PublishNotification(ctx context.Context, msg interface{}) error
}

// Sender publishes order confirmations to the notifications exchange.
type Sender struct {
	cfg Config
	pub publisher
	now func() time.Time
}

// NewSender builds a confirmation sender.
func NewSender(cfg Config, pub publisher) *Sender {
	return &Sender{cfg: cfg, pub: pub, now: time.Now}
}

// SendOrderConfirmation publishes a confirmation for the placed order.
// The returned struct is always populated; errors are folded into it.
func (s *Sender) SendOrderConfirmation(ctx context.Context, order models.OrderPlacementResult, phone, customerName, restaurantName, pickupTime string, items []models.OrderLine) models.SMSConfirmation {
	if !s.cfg.Enabled {
		return models.SMSConfirmation{Enabled: false}
	}

	msg := models.SMSMessage{
		MessageID:   uuid.NewString(),
		Phone:       phone,
		OrderNumber: order.OrderNumber,
		Body:        BuildOrderSummary(order, customerName, restaurantName, pickupTime, items),
		CreatedAt:   s.now(),
	}

	if err := s.pub.PublishNotification(ctx, msg); err != nil {
		return models.SMSConfirmation{Enabled: true, Sent: false, Error: err.Error()}
	}
	return models.SMSConfirmation{Enabled: true, Sent: true, MessageID: msg.MessageID}
}

// BuildOrderSummary renders the confirmation text for an order: who it is
// for, the order number, each line item, the total, and the pickup time.
func BuildOrderSummary(order models.OrderPlacementResult, customerName, restaurantName, pickupTime string, items []models.OrderLine) string {
	var b strings.Builder
	if restaurantName != "" {
		fmt.Fprintf(&b, "%s: ", restaurantName)
	}
	if customerName != "" {
		fmt.Fprintf(&b, "Hi %s, ", customerName)
	}
	fmt.Fprintf(&b, "your order %s is confirmed.", order.OrderNumber)
	if len(items) > 0 {
		lines := make([]string, 0, len(items))
		for _, it := range items {
			lines = append(lines, fmt.Sprintf("%dx %s", it.Quantity, it.Name))
		}
		fmt.Fprintf(&b, " %s.", strings.Join(lines, ", "))
	}
	fmt.Fprintf(&b, " Total $%.2f.", order.TotalAmount)
	if pickupTime != "" {
		fmt.Fprintf(&b, " Ready around %s.", pickupTime)
	}
	return b.String()
}
