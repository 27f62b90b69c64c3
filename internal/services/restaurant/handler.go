package restaurant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"restaurant-orders/internal/hours"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
	"restaurant-orders/internal/services/customer"
)

// customerUpdater is the customer store surface the handler writes to.
type customerUpdater interface {
	UpdateName(ctx context.Context, phone, name string) error
	LookupOrCreate(ctx context.Context, phone, name string) (customer.Customer, error)
}

// hoursStore is the restaurant store surface the hours endpoints use.
type hoursStore interface {
	GetByID(ctx context.Context, id string) (Restaurant, error)
	UpdateStoreHours(ctx context.Context, id string, schedule hours.WeekSchedule) error
}

// Handler handles HTTP requests for restaurant context endpoints
type Handler struct {
	service   *Service
	store     hoursStore
	customers customerUpdater
	logger    *logger.Logger
}

// NewHandler creates a new restaurant handler
func NewHandler(service *Service, store hoursStore, customers customerUpdater, log *logger.Logger) *Handler {
	return &Handler{
		service:   service,
		store:     store,
		customers: customers,
		logger:    log,
	}
}

// GetDynamicVariables handles GET /dynamic-variables requests
func (h *Handler) GetDynamicVariables(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	restaurantID := r.URL.Query().Get("restaurant_id")
	if restaurantID == "" {
		h.writeErrorResponse(w, http.StatusBadRequest, "restaurant_id is required", requestID)
		return
	}
	callerPhone := r.URL.Query().Get("phone_number")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	vars, err := h.service.DynamicVariables(ctx, restaurantID, callerPhone)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.writeErrorResponse(w, http.StatusNotFound, "Restaurant not found", requestID)
			return
		}
		h.logger.Error("dynamic_variables_failed", "Failed to build call context", requestID, err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(vars); err != nil {
		h.logger.Error("response_encoding_failed", "Failed to encode response", requestID, err, nil)
	}
}

// UpdateCustomerName handles POST /customers/name requests
func (h *Handler) UpdateCustomerName(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodPost {
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	var req struct {
		Phone string `json:"customer_phone_number"`
		Name  string `json:"customer_name"`
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	// Upsert so the name capture works mid-call even before any order.
	c, err := h.customers.LookupOrCreate(ctx, req.Phone, req.Name)
	if err == nil && c.Name != req.Name && strings.TrimSpace(req.Name) != "" {
		err = h.customers.UpdateName(ctx, req.Phone, req.Name)
	}
	if err != nil {
		var vErr *models.ValidationError
		if errors.As(err, &vErr) {
			h.writeErrorResponse(w, http.StatusBadRequest, vErr.Error(), requestID)
			return
		}
		h.logger.Error("customer_name_update_failed", "Failed to store customer name", requestID, err, nil)
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	h.logger.Info("customer_name_saved", "Stored customer name", requestID, map[string]interface{}{
		"customer_phone": customer.NormalizePhone(req.Phone),
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
}

// StoreHours handles GET and PUT /store-hours/{restaurant_id} requests
func (h *Handler) StoreHours(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	restaurantID := strings.TrimPrefix(r.URL.Path, "/store-hours/")
	if restaurantID == "" || strings.Contains(restaurantID, "/") {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid restaurant id", requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	switch r.Method {
	case http.MethodGet:
		rest, err := h.store.GetByID(ctx, restaurantID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				h.writeErrorResponse(w, http.StatusNotFound, "Restaurant not found", requestID)
				return
			}
			h.logger.Error("store_hours_read_failed", "Failed to load store hours", requestID, err, nil)
			h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"restaurant_id":  rest.ID,
			"business_hours": rest.BusinessHours,
		})

	case http.MethodPut:
		var schedule hours.WeekSchedule
		if err := json.NewDecoder(r.Body).Decode(&schedule); err != nil {
			h.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON format", requestID)
			return
		}

		if err := h.store.UpdateStoreHours(ctx, restaurantID, schedule); err != nil {
			var vErr *models.ValidationError
			if errors.As(err, &vErr) {
				h.writeErrorResponse(w, http.StatusBadRequest, vErr.Error(), requestID)
				return
			}
			h.logger.Error("store_hours_update_failed", "Failed to update store hours", requestID, err, nil)
			h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", requestID)
			return
		}

		h.logger.Info("store_hours_updated", "Store hours replaced", requestID, map[string]interface{}{
			"restaurant_id": restaurantID,
		})

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})

	default:
		h.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
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

// RegisterRoutes attaches the restaurant endpoints to the mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/dynamic-variables", h.withLogging(h.GetDynamicVariables))
	mux.HandleFunc("/customers/name", h.withLogging(h.UpdateCustomerName))
	mux.HandleFunc("/store-hours/", h.withLogging(h.StoreHours))
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
