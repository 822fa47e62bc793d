package transport

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"boutique-api/internal/domain"
	"boutique-api/internal/middleware"
	"boutique-api/internal/repository"
	"boutique-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for order reads
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/commandes", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
	})
}

// parseDateParam accepts RFC3339 timestamps or plain dates
func parseDateParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// List handles filtered order listing with aggregated totals
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.OrderFilter{}

	if raw := r.URL.Query().Get("client_id"); raw != "" {
		clientID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || clientID < 1 {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid client_id")
			return
		}
		filter.ClientID = &clientID
	}
	if statut := r.URL.Query().Get("statut"); statut != "" {
		filter.Statut = &statut
	}
	if raw := r.URL.Query().Get("date_min"); raw != "" {
		dateMin, err := parseDateParam(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid date_min")
			return
		}
		filter.DateMin = &dateMin
	}
	if raw := r.URL.Query().Get("date_max"); raw != "" {
		dateMax, err := parseDateParam(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid date_max")
			return
		}
		filter.DateMax = &dateMax
	}

	orders, err := h.orderService.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// Get handles fetching one order with its priced lines
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	detail, err := h.orderService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Failed to get order", zap.Error(err), zap.Int64("order_id", id))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, detail)
}
