package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"boutique-api/internal/domain"
	"boutique-api/internal/repository"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Mock repository for testing. AdjustStock serializes on a mutex the
// way the real repository serializes on the row lock.
type mockProductRepository struct {
	mu       sync.Mutex
	products map[int64]*domain.Product
	nextID   int64
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{products: make(map[int64]*domain.Product)}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	product.ID = m.nextID
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	products := []*domain.Product{}
	for _, p := range m.products {
		products = append(products, p)
	}
	return products, nil
}

func (m *mockProductRepository) ListCategories(ctx context.Context) ([]string, error) {
	return []string{}, nil
}

func (m *mockProductRepository) AdjustStock(ctx context.Context, id int64, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, exists := m.products[id]
	if !exists {
		return 0, repository.ErrProductNotFound
	}
	next := product.Stock + delta
	if next < 0 {
		return 0, repository.ErrInsufficientStock
	}
	product.Stock = next
	return next, nil
}

func TestProductCreate_RejectsNegativeValues(t *testing.T) {
	productRepo := newMockProductRepository()
	service := NewProductService(productRepo)
	ctx := context.Background()

	if _, err := service.Create(ctx, "Clavier", "informatique", -1.00, 5); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("expected ErrInvalidPrice, got %v", err)
	}
	if _, err := service.Create(ctx, "Clavier", "informatique", 1.00, -5); !errors.Is(err, ErrInvalidStock) {
		t.Fatalf("expected ErrInvalidStock, got %v", err)
	}
}

func TestAdjustStock_ResultCarriesProductAndStock(t *testing.T) {
	productRepo := newMockProductRepository()
	service := NewProductService(productRepo)
	ctx := context.Background()

	product, err := service.Create(ctx, "Ecran", "informatique", 199.00, 8)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	adjustment, err := service.AdjustStock(ctx, product.ID, -3)
	if err != nil {
		t.Fatalf("adjust failed: %v", err)
	}
	if adjustment.ProduitID != product.ID || adjustment.Stock != 5 {
		t.Errorf("unexpected adjustment result: %+v", adjustment)
	}
}

func TestAdjustStock_ErrorsPassThrough(t *testing.T) {
	productRepo := newMockProductRepository()
	service := NewProductService(productRepo)
	ctx := context.Background()

	if _, err := service.AdjustStock(ctx, 999, 1); !errors.Is(err, repository.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	product, err := service.Create(ctx, "Casque", "audio", 89.00, 2)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := service.AdjustStock(ctx, product.ID, -3); !errors.Is(err, repository.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
}

// Feature: consistency-engine, Property: serialized adjustments conserve stock
func TestProperty_AdjustmentsConserveStock(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("final stock equals initial plus successful deltas", prop.ForAll(
		func(initialStock int, deltas []int) bool {
			productRepo := newMockProductRepository()
			service := NewProductService(productRepo)
			ctx := context.Background()

			product, err := service.Create(ctx, "Stylo", "papeterie", 2.50, initialStock)
			if err != nil {
				t.Logf("FAIL: create failed: %v", err)
				return false
			}

			appliedSum := 0
			for _, delta := range deltas {
				if adjustment, err := service.AdjustStock(ctx, product.ID, delta); err == nil {
					appliedSum += delta
					if adjustment.Stock < 0 {
						t.Logf("FAIL: observed negative stock %d", adjustment.Stock)
						return false
					}
				}
			}

			final, err := service.Get(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: get failed: %v", err)
				return false
			}
			if final.Stock != initialStock+appliedSum {
				t.Logf("FAIL: final stock %d, expected %d", final.Stock, initialStock+appliedSum)
				return false
			}
			return true
		},
		gen.IntRange(0, 50),
		gen.SliceOf(gen.IntRange(-10, 10)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
