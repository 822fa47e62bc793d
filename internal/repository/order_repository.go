package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"boutique-api/internal/domain"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order data access. Orders
// are read-only here; totals are always derived from current product
// prices at query time, never stored.
type OrderRepository interface {
	List(ctx context.Context, filter domain.OrderFilter) ([]*domain.OrderSummary, error)
	FindByID(ctx context.Context, id int64) (*domain.Order, []*domain.OrderLine, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// List retrieves order summaries matching the filter, with HT/TTC
// totals aggregated over each order's lines joined against current
// product prices. Grouping covers every non-aggregated header column
// to keep the aggregation unambiguous.
func (r *orderRepository) List(ctx context.Context, filter domain.OrderFilter) ([]*domain.OrderSummary, error) {
	query := `
		SELECT c.id, c.client_id, cl.nom AS client_nom, c.date, c.statut,
		       SUM(l.qte * p.prix) AS total_ht,
		       SUM(l.qte * p.prix) * 1.2 AS total_ttc
		FROM commandes c
		JOIN clients cl ON cl.id = c.client_id
		JOIN commande_ligne l ON l.commande_id = c.id
		JOIN produits p ON p.id = l.produit_id
		WHERE 1=1`
	args := []interface{}{}
	argIndex := 1

	if filter.ClientID != nil {
		query += fmt.Sprintf(" AND c.client_id = $%d", argIndex)
		args = append(args, *filter.ClientID)
		argIndex++
	}
	if filter.Statut != nil {
		query += fmt.Sprintf(" AND c.statut = $%d", argIndex)
		args = append(args, *filter.Statut)
		argIndex++
	}
	if filter.DateMin != nil {
		query += fmt.Sprintf(" AND c.date >= $%d", argIndex)
		args = append(args, *filter.DateMin)
		argIndex++
	}
	if filter.DateMax != nil {
		query += fmt.Sprintf(" AND c.date <= $%d", argIndex)
		args = append(args, *filter.DateMax)
		argIndex++
	}

	query += " GROUP BY c.id, c.client_id, cl.nom, c.date, c.statut ORDER BY c.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.OrderSummary{}
	for rows.Next() {
		order := &domain.OrderSummary{}
		err := rows.Scan(
			&order.ID,
			&order.ClientID,
			&order.ClientNom,
			&order.Date,
			&order.Statut,
			&order.TotalHT,
			&order.TotalTTC,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order summary: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

// FindByID retrieves an order header plus its priced lines. Each line
// carries qte*prix as line_ht and line_ht*1.2 as line_ttc, computed
// against the product's current price.
func (r *orderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, []*domain.OrderLine, error) {
	headerQuery := `
		SELECT c.id, c.client_id, cl.nom AS client_nom, c.date, c.statut
		FROM commandes c
		JOIN clients cl ON cl.id = c.client_id
		WHERE c.id = $1
	`

	order := &domain.Order{}
	err := r.db.QueryRowContext(ctx, headerQuery, id).Scan(
		&order.ID,
		&order.ClientID,
		&order.ClientNom,
		&order.Date,
		&order.Statut,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, ErrOrderNotFound
		}
		return nil, nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	linesQuery := `
		SELECT l.id, l.produit_id, p.titre, l.qte, p.prix,
		       (l.qte * p.prix) AS line_ht,
		       (l.qte * p.prix) * 1.2 AS line_ttc
		FROM commande_ligne l
		JOIN produits p ON p.id = l.produit_id
		WHERE l.commande_id = $1
	`

	rows, err := r.db.QueryContext(ctx, linesQuery, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list order lines: %w", err)
	}
	defer rows.Close()

	lines := []*domain.OrderLine{}
	for rows.Next() {
		line := &domain.OrderLine{}
		err := rows.Scan(
			&line.ID,
			&line.ProduitID,
			&line.Titre,
			&line.Qte,
			&line.Prix,
			&line.LineHT,
			&line.LineTTC,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, line)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating order lines: %w", err)
	}

	return order, lines, nil
}
