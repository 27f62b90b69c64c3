package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
)

// healthChecker reports backing-store liveness for /health.
type healthChecker interface {
	Ping(ctx context.Context) error
}

// Handler handles HTTP requests for the order service
type Handler struct {
	service *Service
	health  healthChecker
	logger  *logger.Logger
}

// NewHandler creates a new order handler
func NewHandler(service *Service, health healthChecker, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		health:  health,
		logger:  log,
	}
}

// PlaceOrder handles POST /orders requests
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodPost {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}
	if r.Header.Get("Content-Type") != "application/json" {
		h.writeErrorResponse(w, http.StatusBadRequest, "Content-Type must be application/json", requestID)
		return
	}

	var req models.PlaceOrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.logger.Error("validation_failed", "Failed to parse request body", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	// Process order with timeout
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	result, err := h.service.PlaceOrder(ctx, &req, requestID)
	status := http.StatusOK
	if err != nil {
		status = h.placementStatus(err)
		h.logger.Error("order_placement_failed", "Order placement failed", requestID, err, map[string]interface{}{
			"restaurant_id": req.RestaurantID,
			"order_type":    req.OrderType,
			"status_code":   status,
		})
	} else {
		h.logger.Debug("order_placed", "Order placed successfully", requestID, map[string]interface{}{
			"order_number": result.OrderNumber,
			"total_amount": result.TotalAmount,
		})
	}

	// Failed placements still carry the structured result so the voice
	// front end can speak the reason.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(result); encErr != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", requestID, encErr, nil)
	}
}

// PriceOrder handles POST /orders/price requests
func (h *Handler) PriceOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodPost {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	var req models.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	breakdown, err := h.service.PriceOrder(ctx, &req)
	if err != nil {
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			h.writeErrorResponse(w, http.StatusBadRequest, vErr.Error(), requestID)
			return
		}
		h.logger.Error("price_preview_failed", "Failed to price order", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(breakdown); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", requestID, err, nil)
	}
}

// HealthCheck handles GET /health requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	healthy := h.health.Ping(ctx) == nil

	response := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "order-service",
		"healthy":   healthy,
	}

	w.Header().Set("Content-Type", "application/json")

	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		response["status"] = "unhealthy"
	}

	json.NewEncoder(w).Encode(response)
}

// placementStatus maps a placement error to an HTTP status.
func (h *Handler) placementStatus(err error) int {
	var vErr *models.ValidationError
	var dErr *models.PaymentDeclinedError
	var cErr *models.ConfigurationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.As(err, &dErr):
		return http.StatusPaymentRequired
	case errors.As(err, &cErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeErrorResponse writes an error response in JSON format
func (h *Handler) writeErrorResponse(w http.ResponseWriter, statusCode int, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := map[string]interface{}{
		"error":      message,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"request_id": requestID,
	}

	json.NewEncoder(w).Encode(errorResponse)
}

// RegisterRoutes attaches the order endpoints to the mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/orders", h.withLogging(h.PlaceOrder))
	mux.HandleFunc("/orders/price", h.withLogging(h.PriceOrder))
	mux.HandleFunc("/health", h.withLogging(h.HealthCheck))
}

// withLogging adds request logging middleware
func (h *Handler) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := logger.GenerateRequestID()

		h.logger.Debug("request_started",
			fmt.Sprintf("%s %s", r.Method, r.URL.Path),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"remote_addr": r.RemoteAddr,
				"user_agent":  r.Header.Get("User-Agent"),
			})

		rw := &responseWriter{ResponseWriter: w, statusCode: 200}

		next(rw, r)

		duration := time.Since(start)
		h.logger.Debug("request_completed",
			fmt.Sprintf("%s %s - %d", r.Method, r.URL.Path, rw.statusCode),
			requestID,
			map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status_code": rw.statusCode,
				"duration_ms": duration.Milliseconds(),
			})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
