package service

import (
	"context"
	"errors"
	"fmt"

	"boutique-api/internal/domain"
	"boutique-api/internal/repository"
)

var (
	ErrInvalidPrice = errors.New("price must be non-negative")
	ErrInvalidStock = errors.New("stock must be non-negative")
)

// StockAdjustment is the result of a successful stock adjustment.
type StockAdjustment struct {
	ProduitID int64 `json:"id"`
	Stock     int   `json:"stock"`
}

// ProductService defines the interface for product business logic
type ProductService interface {
	Create(ctx context.Context, titre, categorie string, prix float64, stock int) (*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	AdjustStock(ctx context.Context, id int64, delta int) (*StockAdjustment, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// Create adds a product to the catalog
func (s *productService) Create(ctx context.Context, titre, categorie string, prix float64, stock int) (*domain.Product, error) {
	if prix < 0 {
		return nil, ErrInvalidPrice
	}
	if stock < 0 {
		return nil, ErrInvalidStock
	}

	product := &domain.Product{
		Titre:     titre,
		Categorie: categorie,
		Prix:      prix,
		Stock:     stock,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// Get retrieves a single product
func (s *productService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// List retrieves products matching the filter
func (s *productService) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	return s.productRepo.List(ctx, filter)
}

// ListCategories retrieves the distinct catalog categories
func (s *productService) ListCategories(ctx context.Context) ([]string, error) {
	return s.productRepo.ListCategories(ctx)
}

// AdjustStock applies a signed delta to a product's stock. A zero
// delta is a valid no-op that returns the current stock. The operation
// is not idempotent; retrying a successful adjustment double-applies
// the delta, so retry policy belongs to the caller.
func (s *productService) AdjustStock(ctx context.Context, id int64, delta int) (*StockAdjustment, error) {
	newStock, err := s.productRepo.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, err
	}

	return &StockAdjustment{ProduitID: id, Stock: newStock}, nil
}
