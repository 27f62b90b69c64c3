package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
)

var testCard = models.CardDetails{
	Number:       "4444333322221111",
	Expiration:   "1228",
	SecurityCode: "123",
	ZipCode:      "12345",
}

func testConfig() Config {
	return Config{APIKey: "test-key", APIPin: "test-pin", Environment: "sandbox", Timeout: 5 * time.Second}
}

func stubGateway(t *testing.T, handler http.HandlerFunc) *Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGatewayWithBaseURL(testConfig(), srv.URL, logger.New("payment-test"))
}

func TestCharge_Approved(t *testing.T) {
	var captured gatewayRequest
	g := stubGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/transactions", r.URL.Path)
		user, pin, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "test-key", user)
		assert.Equal(t, "test-pin", pin)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(gatewayResponse{
			ResultCode: "A", Result: "Approved", RefNum: "TX100", AuthCode: "OK42",
		})
	})

	res, err := g.Charge(context.Background(), ChargeRequest{Amount: 25.99, TipAmount: 5.00, Card: testCard})
	require.NoError(t, err)

	assert.True(t, res.Approved)
	assert.Equal(t, "TX100", res.TransactionID)
	assert.Equal(t, "OK42", res.AuthCode)
	assert.InDelta(t, 30.99, res.AmountCharged, 1e-9)

	assert.Equal(t, "sale", captured.Command)
	assert.Equal(t, "30.99", captured.Amount)
	assert.NotEmpty(t, captured.Invoice)
}

func TestCharge_Declined(t *testing.T) {
	g := stubGateway(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(gatewayResponse{
			ResultCode: "D", Result: "Declined", RefNum: "TX101", Error: "insufficient funds",
		})
	})

	res, err := g.Charge(context.Background(), ChargeRequest{Amount: 10, Card: testCard})
	require.NoError(t, err, "a decline is a result, not an error")

	assert.False(t, res.Approved)
	assert.Equal(t, "insufficient funds", res.DeclineReason)
	assert.Empty(t, res.ErrorDetail)
}

func TestCharge_GatewayFault(t *testing.T) {
	g := stubGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(gatewayResponse{ResultCode: "E", Error: "system unavailable"})
	})

	res, err := g.Charge(context.Background(), ChargeRequest{Amount: 10, Card: testCard})
	require.NoError(t, err)

	assert.False(t, res.Approved)
	assert.Equal(t, "system unavailable", res.ErrorDetail)
}

func TestCharge_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // force a connection failure
	g := NewGatewayWithBaseURL(testConfig(), srv.URL, logger.New("payment-test"))

	res, err := g.Charge(context.Background(), ChargeRequest{Amount: 10, Card: testCard})
	require.NoError(t, err)

	assert.False(t, res.Approved)
	assert.Contains(t, res.ErrorDetail, "gateway request failed")
}

func TestCharge_MissingCardFields(t *testing.T) {
	tests := []struct {
		name string
		card models.CardDetails
	}{
		{"missing number", models.CardDetails{Expiration: "1228", SecurityCode: "123"}},
		{"missing expiration", models.CardDetails{Number: "4444333322221111", SecurityCode: "123"}},
		{"missing cvv", models.CardDetails{Number: "4444333322221111", Expiration: "1228"}},
	}

	called := false
	g := stubGateway(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Charge(context.Background(), ChargeRequest{Amount: 10, Card: tt.card})
			require.Error(t, err)

			var verr *models.ValidationError
			assert.True(t, errors.As(err, &verr), "expected ValidationError, got %T", err)
		})
	}
	assert.False(t, called, "validation failures must not reach the gateway")
}

func TestCharge_MissingCredentials(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	cfg := testConfig()
	cfg.APIKey = ""
	g := NewGatewayWithBaseURL(cfg, srv.URL, logger.New("payment-test"))

	_, err := g.Charge(context.Background(), ChargeRequest{Amount: 10, Card: testCard})
	require.Error(t, err)

	var cerr *models.ConfigurationError
	assert.True(t, errors.As(err, &cerr), "expected ConfigurationError, got %T", err)
	assert.False(t, called, "missing credentials must never silently fall through")
}

func TestInvoiceReference(t *testing.T) {
	ref := invoiceReference("4444333322221111")
	assert.Len(t, ref, 10)
	assert.Equal(t, ref, invoiceReference("4444333322221111"), "reference is deterministic")
	assert.NotEqual(t, ref, invoiceReference("4111111111111111"))
}
