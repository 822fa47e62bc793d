package service

import (
	"context"
	"fmt"

	"boutique-api/internal/domain"
	"boutique-api/internal/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ClientPage is one page of the client listing.
type ClientPage struct {
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
	Results []*domain.Client `json:"results"`
}

// ClientService defines the interface for client business logic
type ClientService interface {
	Create(ctx context.Context, nom, email string, vip bool) (*domain.Client, error)
	Get(ctx context.Context, id int64) (*domain.Client, error)
	List(ctx context.Context, search string, page, limit int) (*ClientPage, error)
	Update(ctx context.Context, id int64, update repository.ClientUpdate) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type clientService struct {
	clientRepo repository.ClientRepository
}

// NewClientService creates a new instance of ClientService
func NewClientService(clientRepo repository.ClientRepository) ClientService {
	return &clientService{clientRepo: clientRepo}
}

// Create registers a new client. The email-uniqueness guard lives in
// the repository's insert transaction.
func (s *clientService) Create(ctx context.Context, nom, email string, vip bool) (*domain.Client, error) {
	client := &domain.Client{
		Nom:   nom,
		Email: email,
		VIP:   vip,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

// Get retrieves a single client
func (s *clientService) Get(ctx context.Context, id int64) (*domain.Client, error) {
	return s.clientRepo.FindByID(ctx, id)
}

// List retrieves a page of clients. Page is floored at 1 and limit is
// clamped to [1, 100] so a caller can never request an unbounded scan.
func (s *clientService) List(ctx context.Context, search string, page, limit int) (*ClientPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	clients, err := s.clientRepo.List(ctx, search, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	return &ClientPage{Page: page, Limit: limit, Results: clients}, nil
}

// Update applies a partial update to a client
func (s *clientService) Update(ctx context.Context, id int64, update repository.ClientUpdate) (int64, error) {
	return s.clientRepo.Update(ctx, id, update)
}

// Delete removes a client, blocked while orders still reference it
func (s *clientService) Delete(ctx context.Context, id int64) (int64, error) {
	return s.clientRepo.Delete(ctx, id)
}
