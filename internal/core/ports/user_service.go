package ports

import (
	"context"

	"github.com/saludtech/profiling-api/internal/core/domain"
)

// RegisterUserInput carries the data for an admin-initiated registration.
type RegisterUserInput struct {
	Email    string
	FullName string
	Password string
	Role     string
}

// UserService defines the administrative user management use-cases.
type UserService interface {
	Register(ctx context.Context, in RegisterUserInput) (*domain.User, error)
	List(ctx context.Context, skip, limit int) ([]domain.User, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
}
