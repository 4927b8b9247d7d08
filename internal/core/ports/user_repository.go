package ports

import (
	"context"

	"github.com/saludtech/profiling-api/internal/core/domain"
)

// UserRepository defines the persistence contract for user accounts.
// There is deliberately no delete: accounts are deactivated, never removed.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, skip, limit int) ([]domain.User, error)
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)
}
