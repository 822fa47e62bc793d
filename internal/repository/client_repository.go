package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"boutique-api/internal/database"
	"boutique-api/internal/domain"
)

var (
	ErrClientNotFound   = errors.New("client not found")
	ErrClientHasOrders  = errors.New("cannot delete client with orders")
	ErrEmailAlreadyUsed = errors.New("email already used")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
)

// ClientUpdate carries the optional fields of a partial update. Nil
// fields are left untouched.
type ClientUpdate struct {
	Nom   *string
	Email *string
	VIP   *bool
}

// ClientRepository defines the interface for client data access
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	FindByID(ctx context.Context, id int64) (*domain.Client, error)
	List(ctx context.Context, search string, page, limit int) ([]*domain.Client, error)
	Update(ctx context.Context, id int64, update ClientUpdate) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type clientRepository struct {
	db *sql.DB
}

// NewClientRepository creates a new instance of ClientRepository
func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

// Create inserts a new client. The email-uniqueness pre-check runs in
// the same transaction as the insert so both see one snapshot; the
// UNIQUE constraint on clients.email remains the authoritative guard,
// and a constraint violation from the insert maps to the same error
// as a failed pre-check.
func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var existingID int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM clients WHERE email = $1`, client.Email,
		).Scan(&existingID)
		if err == nil {
			return ErrEmailAlreadyUsed
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("failed to check existing email: %w", err)
		}

		err = tx.QueryRowContext(ctx,
			`INSERT INTO clients (nom, email, vip) VALUES ($1, $2, $3) RETURNING id`,
			client.Nom, client.Email, client.VIP,
		).Scan(&client.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrEmailAlreadyUsed
			}
			return fmt.Errorf("failed to create client: %w", err)
		}

		return nil
	})

	return err
}

// FindByID retrieves a client by ID using parameterized queries
func (r *clientRepository) FindByID(ctx context.Context, id int64) (*domain.Client, error) {
	query := `SELECT id, nom, email, vip FROM clients WHERE id = $1`

	client := &domain.Client{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&client.ID,
		&client.Nom,
		&client.Email,
		&client.VIP,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("failed to find client by ID: %w", err)
	}

	return client, nil
}

// List retrieves clients whose name or email matches the search term,
// paginated. An empty search matches everything.
func (r *clientRepository) List(ctx context.Context, search string, page, limit int) ([]*domain.Client, error) {
	offset := (page - 1) * limit
	like := "%" + search + "%"

	query := `
		SELECT id, nom, email, vip
		FROM clients
		WHERE nom ILIKE $1 OR email ILIKE $1
		ORDER BY id
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, like, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []*domain.Client{}
	for rows.Next() {
		client := &domain.Client{}
		if err := rows.Scan(&client.ID, &client.Nom, &client.Email, &client.VIP); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}

	return clients, nil
}

// Update applies a partial update: only supplied fields change.
// Returns the number of rows affected.
func (r *clientRepository) Update(ctx context.Context, id int64, update ClientUpdate) (int64, error) {
	fields := []string{}
	args := []interface{}{}
	argIndex := 1

	if update.Nom != nil {
		fields = append(fields, fmt.Sprintf("nom = $%d", argIndex))
		args = append(args, *update.Nom)
		argIndex++
	}
	if update.Email != nil {
		fields = append(fields, fmt.Sprintf("email = $%d", argIndex))
		args = append(args, *update.Email)
		argIndex++
	}
	if update.VIP != nil {
		fields = append(fields, fmt.Sprintf("vip = $%d", argIndex))
		args = append(args, *update.VIP)
		argIndex++
	}

	if len(fields) == 0 {
		return 0, ErrNoFieldsToUpdate
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE clients SET %s WHERE id = $%d", strings.Join(fields, ", "), argIndex)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrEmailAlreadyUsed
		}
		return 0, fmt.Errorf("failed to update client: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// Delete removes a client unless orders still reference it. The
// order-existence check and the delete share one transaction, and the
// RESTRICT foreign key on commandes.client_id backs the check: a
// concurrent order insert surfaces as the same conflict rather than
// orphaning the reference.
func (r *clientRepository) Delete(ctx context.Context, id int64) (int64, error) {
	var deleted int64

	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var orderID int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM commandes WHERE client_id = $1 LIMIT 1`, id,
		).Scan(&orderID)
		if err == nil {
			return ErrClientHasOrders
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("failed to check client orders: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
		if err != nil {
			if isForeignKeyViolation(err) {
				return ErrClientHasOrders
			}
			return fmt.Errorf("failed to delete client: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return ErrClientNotFound
		}

		deleted = rowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}
