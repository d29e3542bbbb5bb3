package repository

import (
	"context"
	"errors"
	"testing"
)

func TestAdminVerifyPassword(t *testing.T) {
	db := newTestDB(t)
	repo := NewAdminRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, "admin", "correct horse"); err != nil {
		t.Fatalf("create: %v", err)
	}

	admin, err := repo.VerifyPassword(ctx, "admin", "correct horse")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if admin.Username != "admin" {
		t.Errorf("username = %q", admin.Username)
	}
	if admin.PasswordHash == "correct horse" {
		t.Error("password stored in plaintext")
	}

	if _, err := repo.VerifyPassword(ctx, "admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := repo.VerifyPassword(ctx, "nobody", "correct horse"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: error = %v, want ErrInvalidCredentials", err)
	}
}

func TestAdminUsernameUnique(t *testing.T) {
	db := newTestDB(t)
	repo := NewAdminRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, "admin", "one"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, "admin", "two"); err == nil {
		t.Error("duplicate username accepted")
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
