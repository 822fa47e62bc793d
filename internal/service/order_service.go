package service

import (
	"context"

	"boutique-api/internal/domain"
	"boutique-api/internal/repository"
)

// OrderDetail is an order header together with its priced lines.
type OrderDetail struct {
	Command *domain.Order       `json:"command"`
	Lines   []*domain.OrderLine `json:"lines"`
}

// OrderService defines the interface for order reads. Orders are not
// created or mutated through this service.
type OrderService interface {
	List(ctx context.Context, filter domain.OrderFilter) ([]*domain.OrderSummary, error)
	Get(ctx context.Context, id int64) (*OrderDetail, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{orderRepo: orderRepo}
}

// List retrieves order summaries with live-computed totals
func (s *orderService) List(ctx context.Context, filter domain.OrderFilter) ([]*domain.OrderSummary, error) {
	return s.orderRepo.List(ctx, filter)
}

// Get retrieves one order with its priced lines
func (s *orderService) Get(ctx context.Context, id int64) (*OrderDetail, error) {
	order, lines, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &OrderDetail{Command: order, Lines: lines}, nil
}
