package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"boutique-api/internal/domain"
	"boutique-api/internal/repository"
)

// Mock repository for testing
type mockOrderRepository struct {
	orders map[int64]*domain.Order
	lines  map[int64][]*domain.OrderLine
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{
		orders: make(map[int64]*domain.Order),
		lines:  make(map[int64][]*domain.OrderLine),
	}
}

func (m *mockOrderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]*domain.OrderSummary, error) {
	summaries := []*domain.OrderSummary{}
	for _, order := range m.orders {
		if filter.ClientID != nil && order.ClientID != *filter.ClientID {
			continue
		}
		if filter.Statut != nil && order.Statut != *filter.Statut {
			continue
		}
		var totalHT float64
		for _, line := range m.lines[order.ID] {
			totalHT += float64(line.Qte) * line.Prix
		}
		summaries = append(summaries, &domain.OrderSummary{
			ID:        order.ID,
			ClientID:  order.ClientID,
			ClientNom: order.ClientNom,
			Date:      order.Date,
			Statut:    order.Statut,
			TotalHT:   totalHT,
			TotalTTC:  totalHT * domain.TTCMultiplier,
		})
	}
	return summaries, nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, []*domain.OrderLine, error) {
	order, exists := m.orders[id]
	if !exists {
		return nil, nil, repository.ErrOrderNotFound
	}
	return order, m.lines[id], nil
}

func TestOrderGet_ReturnsHeaderAndLines(t *testing.T) {
	orderRepo := newMockOrderRepository()
	service := NewOrderService(orderRepo)
	ctx := context.Background()

	orderRepo.orders[1] = &domain.Order{
		ID:        1,
		ClientID:  7,
		ClientNom: "Alice Martin",
		Date:      time.Now(),
		Statut:    "payee",
	}
	orderRepo.lines[1] = []*domain.OrderLine{
		{ID: 1, ProduitID: 3, Titre: "Clavier", Qte: 2, Prix: 10.00, LineHT: 20.00, LineTTC: 24.00},
	}

	detail, err := service.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if detail.Command.ID != 1 || detail.Command.ClientNom != "Alice Martin" {
		t.Errorf("unexpected order header: %+v", detail.Command)
	}
	if len(detail.Lines) != 1 || detail.Lines[0].LineTTC != 24.00 {
		t.Errorf("unexpected lines: %+v", detail.Lines)
	}
}

func TestOrderGet_NotFoundPassesThrough(t *testing.T) {
	orderRepo := newMockOrderRepository()
	service := NewOrderService(orderRepo)
	ctx := context.Background()

	_, err := service.Get(ctx, 42)
	if !errors.Is(err, repository.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}
