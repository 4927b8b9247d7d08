package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/saludtech/profiling-api/internal/core/domain"
	"github.com/saludtech/profiling-api/internal/core/ports"
)

func TestUserService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, 4, zerolog.Nop())

	user, err := svc.Register(context.Background(), ports.RegisterUserInput{
		Email:    "alice@example.com",
		FullName: "Alice",
		Password: "pass12345",
		Role:     domain.RoleOperator,
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.PasswordHash == "pass12345" {
		t.Fatalf("expected password to be hashed")
	}
	if !VerifyPassword("pass12345", user.PasswordHash) {
		t.Fatalf("stored hash does not match password")
	}
	if !user.Active {
		t.Fatalf("expected new user to be active")
	}
	if user.Role != domain.RoleOperator {
		t.Fatalf("unexpected role: %s", user.Role)
	}
}

func TestUserService_Register_InvalidRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, 4, zerolog.Nop())

	if _, err := svc.Register(context.Background(), ports.RegisterUserInput{
		Email:    "bob@example.com",
		Password: "pass12345",
		Role:     "superuser",
	}); err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestUserService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, 4, zerolog.Nop())

	in := ports.RegisterUserInput{
		Email:    "bob@example.com",
		Password: "pass12345",
		Role:     domain.RoleOperator,
	}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), in); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_SetActive(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, 4, zerolog.Nop())

	user := seedUser(t, repo, "carol@example.com", "pass12345", domain.RoleOperator, true)

	updated, err := svc.SetActive(context.Background(), user.ID, false)
	if err != nil {
		t.Fatalf("SetActive returned error: %v", err)
	}
	if updated.Active {
		t.Fatalf("expected user to be deactivated")
	}

	if _, err := svc.SetActive(context.Background(), "missing", true); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
