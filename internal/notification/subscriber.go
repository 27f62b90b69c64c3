package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/messaging"
	"restaurant-orders/internal/models"
)

// Subscriber consumes SMS confirmation messages and hands them to the
// delivery provider. The current provider prints to stdout; swapping in
// a real SMS gateway only touches deliver.
type Subscriber struct {
	consumer *messaging.Consumer
	logger   *logger.Logger

	// Graceful shutdown
	shutdown chan os.Signal
	done     chan bool
}

// NewSubscriber creates a new SMS confirmation subscriber
func NewSubscriber(consumer *messaging.Consumer, logger *logger.Logger) *Subscriber {
	return &Subscriber{
		consumer: consumer,
		logger:   logger,
		shutdown: make(chan os.Signal, 1),
		done:     make(chan bool, 1),
	}
}

// Start starts the subscriber and blocks until shutdown
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()

	// Set up graceful shutdown
	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)

	s.logger.Info("service_started", "SMS confirmation subscriber started", requestID, nil)

	// Start message consumption
	go func() {
		if err := s.consumer.StartConsuming(ctx, s.handleConfirmation); err != nil {
			s.logger.Error("consumer_failed", "SMS consumer failed", requestID, err, nil)
		}
		s.done <- true
	}()

	// Wait for shutdown signal or consumer to finish
	select {
	case <-s.shutdown:
		s.logger.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		return s.gracefulShutdown(requestID)
	case <-s.done:
		return nil
	}
}

// handleConfirmation processes one queued confirmation message
func (s *Subscriber) handleConfirmation(ctx context.Context, body []byte) error {
	requestID := logger.GenerateRequestID()

	var msg models.SMSMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		s.logger.Error("message_parsing_failed", "Failed to parse confirmation message", requestID, err, nil)
		return fmt.Errorf("failed to parse confirmation: %w", err)
	}

	s.deliver(&msg)

	s.logger.Info("sms_delivered", "Confirmation delivered", requestID, map[string]interface{}{
		"message_id":   msg.MessageID,
		"order_number": msg.OrderNumber,
		"phone":        maskPhone(msg.Phone),
	})
	return nil
}

// deliver hands the message to the SMS provider. Stdout stands in for a
// real gateway in development.
func (s *Subscriber) deliver(msg *models.SMSMessage) {
	timestamp := msg.CreatedAt.Format("2006-01-02 15:04:05")
	fmt.Printf("📱 [%s] SMS to %s: %s\n", timestamp, maskPhone(msg.Phone), msg.Body)
}

// maskPhone keeps the last four digits for log correlation.
func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return "***" + phone[len(phone)-4:]
}

// gracefulShutdown handles graceful shutdown of the subscriber
func (s *Subscriber) gracefulShutdown(requestID string) error {
	s.logger.Info("graceful_shutdown", "Starting graceful shutdown", requestID, nil)

	if s.consumer != nil {
		s.consumer.Close()
	}

	s.logger.Info("graceful_shutdown", "Graceful shutdown completed", requestID, nil)
	return nil
}
