package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"boutique-api/internal/database"
	"boutique-api/internal/domain"
)

var (
	ErrAdminNotFound = errors.New("admin not found")
)

// AdminRepository defines the interface for admin account data access
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	FindByEmail(ctx context.Context, email string) (*domain.Admin, error)
}

type adminRepository struct {
	db *sql.DB
}

// NewAdminRepository creates a new instance of AdminRepository
func NewAdminRepository(db *sql.DB) AdminRepository {
	return &adminRepository{db: db}
}

// Create inserts a new admin. As with clients, the uniqueness
// pre-check and the insert share one transaction and the UNIQUE
// constraint on admins.email is authoritative.
func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var existingID int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM admins WHERE email = $1`, admin.Email,
		).Scan(&existingID)
		if err == nil {
			return ErrEmailAlreadyUsed
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("failed to check existing email: %w", err)
		}

		err = tx.QueryRowContext(ctx,
			`INSERT INTO admins (email, password_hash) VALUES ($1, $2) RETURNING id`,
			admin.Email, admin.PasswordHash,
		).Scan(&admin.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrEmailAlreadyUsed
			}
			return fmt.Errorf("failed to create admin: %w", err)
		}

		return nil
	})

	return err
}

// FindByEmail retrieves an admin by email using parameterized queries
func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	query := `SELECT id, email, password_hash FROM admins WHERE email = $1`

	admin := &domain.Admin{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&admin.ID,
		&admin.Email,
		&admin.PasswordHash,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to find admin by email: %w", err)
	}

	return admin, nil
}
