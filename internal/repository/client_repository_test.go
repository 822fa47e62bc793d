package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"boutique-api/internal/domain"
)

func insertClient(t *testing.T, nom, email string, vip bool) int64 {
	t.Helper()
	var id int64
	err := testDB.QueryRow(
		`INSERT INTO clients (nom, email, vip) VALUES ($1, $2, $3) RETURNING id`,
		nom, email, vip,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to insert client: %v", err)
	}
	return id
}

func insertOrder(t *testing.T, clientID int64, statut string) int64 {
	t.Helper()
	var id int64
	err := testDB.QueryRow(
		`INSERT INTO commandes (client_id, statut) VALUES ($1, $2) RETURNING id`,
		clientID, statut,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to insert order: %v", err)
	}
	return id
}

func TestClientCreate_RejectsDuplicateEmail(t *testing.T) {
	resetTables(t)
	repo := NewClientRepository(testDB)
	ctx := context.Background()

	first := &domain.Client{Nom: "Alice Martin", Email: "alice@example.com"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if first.ID == 0 {
		t.Error("expected assigned id on created client")
	}

	dup := &domain.Client{Nom: "Autre Alice", Email: "alice@example.com"}
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrEmailAlreadyUsed) {
		t.Fatalf("expected ErrEmailAlreadyUsed, got %v", err)
	}
}

// Concurrent inserts with the same email must never both land: the
// pre-check can pass twice, but the UNIQUE constraint is authoritative
// and the loser still surfaces the same conflict error.
func TestClientCreate_ConcurrentDuplicates(t *testing.T) {
	resetTables(t)
	repo := NewClientRepository(testDB)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]error, 4)
	for i := 0; i < len(results); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			client := &domain.Client{Nom: "Bob", Email: "bob@example.com"}
			results[i] = repo.Create(ctx, client)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrEmailAlreadyUsed):
		default:
			t.Fatalf("unexpected create error: %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("expected exactly one successful insert, got %d", successes)
	}

	var count int
	if err := testDB.QueryRow(`SELECT COUNT(*) FROM clients WHERE email = 'bob@example.com'`).Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected one row, got %d", count)
	}
}

func TestClientDelete_BlockedByOrders(t *testing.T) {
	resetTables(t)
	repo := NewClientRepository(testDB)
	ctx := context.Background()

	id := insertClient(t, "Chloe Petit", "chloe@example.com", false)
	insertOrder(t, id, "payee")

	if _, err := repo.Delete(ctx, id); !errors.Is(err, ErrClientHasOrders) {
		t.Fatalf("expected ErrClientHasOrders, got %v", err)
	}

	// The client row must be untouched.
	if _, err := repo.FindByID(ctx, id); err != nil {
		t.Errorf("client should still exist after blocked delete: %v", err)
	}
}

func TestClientDelete_WithoutOrders(t *testing.T) {
	resetTables(t)
	repo := NewClientRepository(testDB)
	ctx := context.Background()

	id := insertClient(t, "David Leroy", "david@example.com", true)

	deleted, err := repo.Delete(ctx, id)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected one deleted row, got %d", deleted)
	}

	if _, err := repo.FindByID(ctx, id); !errors.Is(err, ErrClientNotFound) {
		t.Errorf("expected ErrClientNotFound after delete, got %v", err)
	}
}

func TestClientDelete_UnknownClient(t *testing.T) {
	resetTables(t)
	repo := NewClientRepository(testDB)
	ctx := context.Background()

	if _, err := repo.Delete(ctx, 424242); !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestClientUpdate_PartialFields(t *testing.T) {
	resetTables(t)
	repo := NewClientRepository(testDB)
	ctx := context.Background()

	id := insertClient(t, "Emma Roux", "emma@example.com", false)

	vip := true
	changed, err := repo.Update(ctx, id, ClientUpdate{VIP: &vip})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if changed != 1 {
		t.Errorf("expected one changed row, got %d", changed)
	}

	client, err := repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if !client.VIP {
		t.Error("vip flag not updated")
	}
	if client.Nom != "Emma Roux" || client.Email != "emma@example.com" {
		t.Error("untouched fields changed during partial update")
	}
}

func TestClientUpdate_NoFields(t *testing.T) {
	resetTables(t)
	repo := NewClientRepository(testDB)
	ctx := context.Background()

	id := insertClient(t, "Felix Roy", "felix@example.com", false)

	if _, err := repo.Update(ctx, id, ClientUpdate{}); !errors.Is(err, ErrNoFieldsToUpdate) {
		t.Fatalf("expected ErrNoFieldsToUpdate, got %v", err)
	}
}

func TestClientUpdate_DuplicateEmail(t *testing.T) {
	resetTables(t)
	repo := NewClientRepository(testDB)
	ctx := context.Background()

	insertClient(t, "Gabriel", "gabriel@example.com", false)
	id := insertClient(t, "Hugo", "hugo@example.com", false)

	email := "gabriel@example.com"
	if _, err := repo.Update(ctx, id, ClientUpdate{Email: &email}); !errors.Is(err, ErrEmailAlreadyUsed) {
		t.Fatalf("expected ErrEmailAlreadyUsed, got %v", err)
	}
}

func TestClientList_SearchAndPagination(t *testing.T) {
	resetTables(t)
	repo := NewClientRepository(testDB)
	ctx := context.Background()

	insertClient(t, "Alice Martin", "alice@shop.fr", false)
	insertClient(t, "Alicia Bernard", "alicia@shop.fr", false)
	insertClient(t, "Bruno Simon", "bruno@shop.fr", false)

	clients, err := repo.List(ctx, "ali", 1, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(clients) != 2 {
		t.Errorf("expected 2 matches for 'ali', got %d", len(clients))
	}

	page2, err := repo.List(ctx, "", 2, 2)
	if err != nil {
		t.Fatalf("paginated list failed: %v", err)
	}
	if len(page2) != 1 {
		t.Errorf("expected 1 client on page 2 with limit 2, got %d", len(page2))
	}
}
