package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/saludtech/profiling-api/internal/core/domain"
	"github.com/saludtech/profiling-api/internal/core/ports"
)

// UserService implements admin-gated user management: registration with an
// explicit role, listing, and activation toggling. Gating happens in the
// transport layer; every call here is assumed to come from an admin.
type UserService struct {
	repo       ports.UserRepository
	bcryptCost int
	log        zerolog.Logger
}

func NewUserService(repo ports.UserRepository, bcryptCost int, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, bcryptCost: bcryptCost, log: log}
}

func (s *UserService) Register(ctx context.Context, in ports.RegisterUserInput) (*domain.User, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !domain.ValidRole(in.Role) {
		return nil, domain.ErrInvalidRole
	}

	hash, err := HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: hash,
		Active:       true,
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("email", created.Email).Str("role", created.Role).Msg("user registered")
	return created, nil
}

func (s *UserService) List(ctx context.Context, skip, limit int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.repo.List(ctx, skip, limit)
}

func (s *UserService) SetActive(ctx context.Context, id string, active bool) (*domain.User, error) {
	user, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", id).Bool("active", active).Msg("user activation updated")
	return user, nil
}
