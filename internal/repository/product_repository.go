package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"boutique-api/internal/database"
	"boutique-api/internal/domain"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStockBusy         = errors.New("stock row locked by a concurrent adjustment")
)

// Sort fields accepted by the product listing.
var productSortWhitelist = map[string]bool{
	"prix":  true,
	"titre": true,
}

// ProductFilter holds the optional, conjunctive filters of the product
// listing. Nil fields impose no constraint.
type ProductFilter struct {
	Categorie *string
	MinPrix   *float64
	MaxPrix   *float64
	Sort      string
}

// ProductRepository defines the interface for product data access.
// Stock is only ever written through AdjustStock.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	AdjustStock(ctx context.Context, id int64, delta int) (int, error)
}

type productRepository struct {
	db          *sql.DB
	lockTimeout time.Duration
}

// NewProductRepository creates a new instance of ProductRepository.
// lockTimeout bounds the FOR UPDATE wait in AdjustStock; zero waits
// indefinitely.
func NewProductRepository(db *sql.DB, lockTimeout time.Duration) ProductRepository {
	return &productRepository{db: db, lockTimeout: lockTimeout}
}

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO produits (titre, categorie, prix, stock)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		product.Titre,
		product.Categorie,
		product.Prix,
		product.Stock,
	).Scan(&product.ID)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, titre, categorie, prix, stock
		FROM produits
		WHERE id = $1
	`

	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Titre,
		&product.Categorie,
		&product.Prix,
		&product.Stock,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves products matching the filter. All supplied filters
// apply conjunctively; omitted filters impose no constraint.
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error) {
	query := `SELECT id, titre, categorie, prix, stock FROM produits WHERE 1=1`
	args := []interface{}{}
	argIndex := 1

	if filter.Categorie != nil {
		query += fmt.Sprintf(" AND categorie = $%d", argIndex)
		args = append(args, *filter.Categorie)
		argIndex++
	}
	if filter.MinPrix != nil {
		query += fmt.Sprintf(" AND prix >= $%d", argIndex)
		args = append(args, *filter.MinPrix)
		argIndex++
	}
	if filter.MaxPrix != nil {
		query += fmt.Sprintf(" AND prix <= $%d", argIndex)
		args = append(args, *filter.MaxPrix)
		argIndex++
	}

	// Whitelisted sort field to prevent SQL injection; unrecognized
	// values fall back to no ordering, as the source behaves.
	if productSortWhitelist[filter.Sort] {
		query += fmt.Sprintf(" ORDER BY %s", filter.Sort)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		err := rows.Scan(
			&product.ID,
			&product.Titre,
			&product.Categorie,
			&product.Prix,
			&product.Stock,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// ListCategories returns the distinct categories currently in the catalog
func (r *productRepository) ListCategories(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT categorie FROM produits ORDER BY categorie`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var categorie string
		if err := rows.Scan(&categorie); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, categorie)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// AdjustStock atomically applies a signed delta to a product's stock
// and returns the new value. The read and the write run in one
// transaction under an exclusive row lock, so concurrent adjustments
// of the same product are serialized (no lost updates) while
// adjustments of different products never contend. The non-negativity
// check runs after the lock is held, never on a stale read.
func (r *productRepository) AdjustStock(ctx context.Context, id int64, delta int) (int, error) {
	var newStock int

	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if r.lockTimeout > 0 {
			timeout := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
			if _, err := tx.ExecContext(ctx, timeout); err != nil {
				return fmt.Errorf("failed to set lock timeout: %w", err)
			}
		}

		var current int
		err := tx.QueryRowContext(ctx,
			`SELECT stock FROM produits WHERE id = $1 FOR UPDATE`, id,
		).Scan(&current)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrProductNotFound
			}
			if isLockNotAvailable(err) {
				return ErrStockBusy
			}
			return fmt.Errorf("failed to lock product row: %w", err)
		}

		next := current + delta
		if next < 0 {
			return ErrInsufficientStock
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE produits SET stock = $1 WHERE id = $2`, next, id,
		); err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}

		newStock = next
		return nil
	})
	if err != nil {
		return 0, err
	}

	return newStock, nil
}
