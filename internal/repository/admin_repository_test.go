package repository

import (
	"context"
	"errors"
	"testing"

	"boutique-api/internal/domain"
)

func TestAdminCreate_RejectsDuplicateEmail(t *testing.T) {
	resetTables(t)
	repo := NewAdminRepository(testDB)
	ctx := context.Background()

	admin := &domain.Admin{Email: "admin@example.com", PasswordHash: "x"}
	if err := repo.Create(ctx, admin); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if admin.ID == 0 {
		t.Error("expected assigned id on created admin")
	}

	dup := &domain.Admin{Email: "admin@example.com", PasswordHash: "y"}
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrEmailAlreadyUsed) {
		t.Fatalf("expected ErrEmailAlreadyUsed, got %v", err)
	}
}

func TestAdminFindByEmail(t *testing.T) {
	resetTables(t)
	repo := NewAdminRepository(testDB)
	ctx := context.Background()

	created := &domain.Admin{Email: "boss@example.com", PasswordHash: "hash"}
	if err := repo.Create(ctx, created); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	found, err := repo.FindByEmail(ctx, "boss@example.com")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found.ID != created.ID || found.PasswordHash != "hash" {
		t.Error("found admin does not match created admin")
	}

	if _, err := repo.FindByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrAdminNotFound) {
		t.Fatalf("expected ErrAdminNotFound, got %v", err)
	}
}
