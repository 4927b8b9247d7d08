package ports

import (
	"context"

	"github.com/saludtech/profiling-api/internal/core/domain"
)

// AuthService authenticates credentials and mints access tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
