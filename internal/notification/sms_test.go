package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-orders/internal/models"
)

type fakePublisher struct {
	published []interface{}
	err       error
}

func (f *fakePublisher) PublishNotification(ctx context.Context, msg interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	return nil
}

func placedOrder() models.OrderPlacementResult {
	return models.OrderPlacementResult{
		Success:     true,
		OrderNumber: "ORD-rest_001-000007",
		TotalAmount: 46.06,
	}
}

func orderedItems() []models.OrderLine {
	return []models.OrderLine{
		{Name: "Margherita Pizza", Quantity: 2, BasePrice: 15.99},
		{Name: "Garlic Knots", Quantity: 1, BasePrice: 6.50},
	}
}

func TestSendOrderConfirmation_Publishes(t *testing.T) {
	pub := &fakePublisher{}
	sender := NewSender(Config{Enabled: true}, pub)

	result := sender.SendOrderConfirmation(context.Background(), placedOrder(), "5551234567", "Sam", "Tony's Pizza", "6:30 PM", orderedItems())

	assert.True(t, result.Enabled)
	assert.True(t, result.Sent)
	assert.NotEmpty(t, result.MessageID)
	assert.Empty(t, result.Error)

	require.Len(t, pub.published, 1)
	msg, ok := pub.published[0].(models.SMSMessage)
	require.True(t, ok)
	assert.Equal(t, "5551234567", msg.Phone)
	assert.Equal(t, "ORD-rest_001-000007", msg.OrderNumber)
	assert.Contains(t, msg.Body, "Tony's Pizza")
	assert.Contains(t, msg.Body, "Hi Sam")
	assert.Contains(t, msg.Body, "2x Margherita Pizza")
	assert.Contains(t, msg.Body, "1x Garlic Knots")
	assert.Contains(t, msg.Body, "$46.06")
	assert.Contains(t, msg.Body, "6:30 PM")
}

func TestSendOrderConfirmation_Disabled(t *testing.T) {
	pub := &fakePublisher{}
	sender := NewSender(Config{Enabled: false}, pub)

	result := sender.SendOrderConfirmation(context.Background(), placedOrder(), "5551234567", "", "", "", nil)

	assert.False(t, result.Enabled)
	assert.False(t, result.Sent)
	assert.Empty(t, pub.published)
}

func TestSendOrderConfirmation_PublishFailureIsReported(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker unavailable")}
	sender := NewSender(Config{Enabled: true}, pub)

	result := sender.SendOrderConfirmation(context.Background(), placedOrder(), "5551234567", "", "", "", nil)

	assert.True(t, result.Enabled)
	assert.False(t, result.Sent)
	assert.Equal(t, "broker unavailable", result.Error)
}

func TestBuildOrderSummary_FullMessage(t *testing.T) {
	body := BuildOrderSummary(placedOrder(), "Sam", "Tony's Pizza", "6:30 PM", orderedItems())
	want := "Tony's Pizza: Hi Sam, your order ORD-rest_001-000007 is confirmed. " +
		"2x Margherita Pizza, 1x Garlic Knots. Total $46.06. Ready around 6:30 PM."
	assert.Equal(t, want, body)
}

func TestBuildOrderSummary_Minimal(t *testing.T) {
	body := BuildOrderSummary(placedOrder(), "", "", "", nil)
	assert.Equal(t, "your order ORD-rest_001-000007 is confirmed. Total $46.06.", body)
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "***4567", maskPhone("5551234567"))
	assert.Equal(t, "123", maskPhone("123"))
}
