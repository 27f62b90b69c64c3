package pos

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"restaurant-orders/internal/logger"
)

// submitTimeout bounds each backend's submit call so one slow system
// cannot stall the whole dispatch.
const submitTimeout = 20 * time.Second

// BackendEnv is the environment-supplied settings for one backend.
// Restaurants limits dispatch to the listed restaurant ids; empty means
// all restaurants.
type BackendEnv struct {
	APIKey      string   `envconfig:"API_KEY"`
	APIURL      string   `envconfig:"API_URL"`
	MerchantID  string   `envconfig:"MERCHANT_ID"`
	WebhookURL  string   `envconfig:"WEBHOOK_URL"`
	Restaurants []string `envconfig:"RESTAURANTS"`
}

func (e BackendEnv) config() BackendConfig {
	return BackendConfig{
		APIKey:     e.APIKey,
		APIURL:     e.APIURL,
		MerchantID: e.MerchantID,
		WebhookURL: e.WebhookURL,
	}
}

// Manager fans orders out to every registered POS backend. It is safe
// for concurrent use after registration is complete.
type Manager struct {
	backends    map[SystemType]Integration
	restaurants map[SystemType][]string
	order       []SystemType
	log         *logger.Logger
}

// NewManager builds an empty manager. Backends are attached with
// Register before the first dispatch.
func NewManager(log *logger.Logger) *Manager {
	return &Manager{
		backends:    make(map[SystemType]Integration),
		restaurants: make(map[SystemType][]string),
		log:         log,
	}
}

// NewManagerFromEnv builds a manager from SUPERMENU_* and CHEERSFOOD_*
// environment variables. Both backends are always registered; ones
// without credentials operate in placeholder mode.
func NewManagerFromEnv(log *logger.Logger) (*Manager, error) {
	var sm, cf BackendEnv
	if err := envconfig.Process("SUPERMENU", &sm); err != nil {
		return nil, fmt.Errorf("load supermenu settings: %w", err)
	}
	if err := envconfig.Process("CHEERSFOOD", &cf); err != nil {
		return nil, fmt.Errorf("load cheersfood settings: %w", err)
	}

	m := NewManager(log)
	m.Register(NewSuperMenu(sm.config(), log), sm.Restaurants)
	m.Register(NewCheersFood(cf.config(), log), cf.Restaurants)
	return m, nil
}

// Register attaches a backend. restaurants limits the backend to the
// listed restaurant ids; nil or empty means every restaurant.
func (m *Manager) Register(backend Integration, restaurants []string) {
	sys := backend.System()
	if _, exists := m.backends[sys]; !exists {
		m.order = append(m.order, sys)
	}
	m.backends[sys] = backend
	m.restaurants[sys] = restaurants
}

// Systems returns the registered backend types in registration order.
func (m *Manager) Systems() []SystemType {
	out := make([]SystemType, len(m.order))
	copy(out, m.order)
	return out
}

func (m *Manager) serves(sys SystemType, restaurantID string) bool {
	allowed := m.restaurants[sys]
	if len(allowed) == 0 {
		return true
	}
	for _, id := range allowed {
		if id == restaurantID {
			return true
		}
	}
	return false
}

// SendOrderToAll submits the order to every backend serving its
// restaurant, concurrently. Every dispatched backend yields exactly one
// Response; a backend error or panic becomes a failed Response rather
// than aborting the others. With no matching backends the result is
// empty and dispatch is a no-op.
func (m *Manager) SendOrderToAll(ctx context.Context, order OrderData, requestID string) []Response {
	targets := make([]SystemType, 0, len(m.order))
	for _, sys := range m.order {
		if m.serves(sys, order.RestaurantID) {
			targets = append(targets, sys)
		}
	}
	if len(targets) == 0 {
		return []Response{}
	}

	responses := make([]Response, len(targets))
	var wg sync.WaitGroup
	for i, sys := range targets {
		wg.Add(1)
		go func(i int, backend Integration) {
			defer wg.Done()
			responses[i] = m.submitOne(ctx, backend, order, requestID)
		}(i, m.backends[sys])
	}
	wg.Wait()
	return responses
}

func (m *Manager) submitOne(ctx context.Context, backend Integration, order OrderData, requestID string) (resp Response) {
	sys := backend.System()
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("pos_submit_panic", "POS backend panicked during submit", requestID,
				fmt.Errorf("panic: %v", r), map[string]interface{}{
					"pos_system":   string(sys),
					"order_number": order.OrderNumber,
				})
			resp = Response{
				System:       sys,
				Success:      false,
				Status:       StatusPending,
				Message:      "Failed to send order to " + string(sys),
				ErrorDetails: fmt.Sprintf("panic: %v", r),
			}
		}
	}()

	callCtx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()

	resp, err := backend.SubmitOrder(callCtx, order)
	if err != nil {
		m.log.Error("pos_submit_failed", "POS backend rejected order", requestID, err,
			map[string]interface{}{
				"pos_system":   string(sys),
				"order_number": order.OrderNumber,
			})
		return Response{
			System:       sys,
			Success:      false,
			Status:       StatusPending,
			Message:      "Failed to send order to " + string(sys),
			ErrorDetails: err.Error(),
		}
	}

	m.log.Info("pos_submit_ok", "Order sent to POS backend", requestID,
		map[string]interface{}{
			"pos_system":   string(sys),
			"order_number": order.OrderNumber,
			"pos_order_id": resp.POSOrderID,
		})
	return resp
}

// TestAllConnections probes every registered backend and reports the
// outcome per system. Used by the diagnostics mode.
func (m *Manager) TestAllConnections(ctx context.Context) map[SystemType]error {
	results := make(map[SystemType]error, len(m.order))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, sys := range m.order {
		wg.Add(1)
		go func(backend Integration) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, submitTimeout)
			defer cancel()
			err := backend.TestConnection(callCtx)
			mu.Lock()
			results[backend.System()] = err
			mu.Unlock()
		}(m.backends[sys])
	}
	wg.Wait()
	return results
}
