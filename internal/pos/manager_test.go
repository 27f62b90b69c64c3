package pos

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-orders/internal/logger"
)

type fakeBackend struct {
	system  SystemType
	submit  func(ctx context.Context, order OrderData) (Response, error)
	pingErr error
}

func (f *fakeBackend) System() SystemType { return f.system }

func (f *fakeBackend) SubmitOrder(ctx context.Context, order OrderData) (Response, error) {
	return f.submit(ctx, order)
}

func (f *fakeBackend) GetStatus(ctx context.Context, posOrderID string) (Response, error) {
	return Response{System: f.system, Success: true, POSOrderID: posOrderID}, nil
}

func (f *fakeBackend) CancelOrder(ctx context.Context, posOrderID string) (Response, error) {
	return Response{System: f.system, Success: true, POSOrderID: posOrderID, Status: StatusCancelled}, nil
}

func (f *fakeBackend) UpdateOrder(ctx context.Context, posOrderID string, updates map[string]interface{}) (Response, error) {
	return Response{System: f.system, Success: true, POSOrderID: posOrderID}, nil
}

func (f *fakeBackend) TestConnection(ctx context.Context) error { return f.pingErr }

func testOrder() OrderData {
	return OrderData{
		OrderID:      "3f2a9c1e-0000-0000-0000-000000000000",
		OrderNumber:  "ORD-rest_001-000042",
		RestaurantID: "rest_001",
		Customer:     CustomerInfo{Name: "Alex", Phone: "5551234567"},
		Items:        []LineItem{{Name: "Margherita Pizza", Quantity: 2, BasePrice: 15.74}},
		OrderType:    "pickup",
		PickupTime:   "6:30 PM",
		Pricing:      Pricing{Subtotal: 31.48, TaxAmount: 1.89, Total: 33.37},
		Payment:      PaymentInfo{Type: "cash", Status: "cash"},
	}
}

func TestSendOrderToAll_OneFailureDoesNotAffectOthers(t *testing.T) {
	log := logger.New("pos-test")
	m := NewManager(log)
	m.Register(&fakeBackend{
		system: SuperMenu,
		submit: func(ctx context.Context, order OrderData) (Response, error) {
			return Response{System: SuperMenu, Success: true, POSOrderID: "SM-1", Status: StatusConfirmed}, nil
		},
	}, nil)
	m.Register(&fakeBackend{
		system: CheersFood,
		submit: func(ctx context.Context, order OrderData) (Response, error) {
			return Response{}, errors.New("connection refused")
		},
	}, nil)

	responses := m.SendOrderToAll(context.Background(), testOrder(), "req-1")
	require.Len(t, responses, 2)

	bySystem := map[SystemType]Response{}
	for _, r := range responses {
		bySystem[r.System] = r
	}
	assert.True(t, bySystem[SuperMenu].Success)
	assert.Equal(t, "SM-1", bySystem[SuperMenu].POSOrderID)
	assert.False(t, bySystem[CheersFood].Success)
	assert.Contains(t, bySystem[CheersFood].ErrorDetails, "connection refused")
}

func TestSendOrderToAll_PanicBecomesFailedResponse(t *testing.T) {
	log := logger.New("pos-test")
	m := NewManager(log)
	m.Register(&fakeBackend{
		system: SuperMenu,
		submit: func(ctx context.Context, order OrderData) (Response, error) {
			panic("nil map write")
		},
	}, nil)

	responses := m.SendOrderToAll(context.Background(), testOrder(), "req-2")
	require.Len(t, responses, 1)
	assert.False(t, responses[0].Success)
	assert.Contains(t, responses[0].ErrorDetails, "nil map write")
}

func TestSendOrderToAll_NoBackendsIsNoOp(t *testing.T) {
	m := NewManager(logger.New("pos-test"))
	responses := m.SendOrderToAll(context.Background(), testOrder(), "req-3")
	assert.Empty(t, responses)
}

func TestSendOrderToAll_RestaurantRouting(t *testing.T) {
	log := logger.New("pos-test")
	m := NewManager(log)
	m.Register(&fakeBackend{
		system: SuperMenu,
		submit: func(ctx context.Context, order OrderData) (Response, error) {
			return Response{System: SuperMenu, Success: true}, nil
		},
	}, []string{"rest_999"})
	m.Register(&fakeBackend{
		system: CheersFood,
		submit: func(ctx context.Context, order OrderData) (Response, error) {
			return Response{System: CheersFood, Success: true}, nil
		},
	}, []string{"rest_001"})

	responses := m.SendOrderToAll(context.Background(), testOrder(), "req-4")
	require.Len(t, responses, 1)
	assert.Equal(t, CheersFood, responses[0].System)
}

func TestUnconfiguredBackendsReturnPlaceholders(t *testing.T) {
	log := logger.New("pos-test")
	sm := NewSuperMenu(BackendConfig{}, log)
	cf := NewCheersFood(BackendConfig{}, log)

	smResp, err := sm.SubmitOrder(context.Background(), testOrder())
	require.NoError(t, err)
	assert.True(t, smResp.Success)
	assert.True(t, strings.HasPrefix(smResp.POSOrderID, "MOCK_SM_"), "got %q", smResp.POSOrderID)
	assert.Equal(t, StatusConfirmed, smResp.Status)
	assert.Equal(t, "6:30 PM", smResp.EstimatedReadyTime)

	cfResp, err := cf.SubmitOrder(context.Background(), testOrder())
	require.NoError(t, err)
	assert.True(t, cfResp.Success)
	assert.True(t, strings.HasPrefix(cfResp.POSOrderID, "MOCK_CF_"), "got %q", cfResp.POSOrderID)
}

func TestTestAllConnections(t *testing.T) {
	log := logger.New("pos-test")
	m := NewManager(log)
	m.Register(&fakeBackend{system: SuperMenu}, nil)
	m.Register(&fakeBackend{system: CheersFood, pingErr: errors.New("401 unauthorized")}, nil)

	results := m.TestAllConnections(context.Background())
	require.Len(t, results, 2)
	assert.NoError(t, results[SuperMenu])
	assert.EqualError(t, results[CheersFood], "401 unauthorized")
}
