package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/saludtech/profiling-api/internal/api/metrics"
	"github.com/saludtech/profiling-api/internal/core/domain"
	"github.com/saludtech/profiling-api/internal/core/ports"
)

// AuthService implements credential verification and token issuance.
type AuthService struct {
	repo   ports.UserRepository
	tokens *TokenService
	log    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens *TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, log: log}
}

// Login verifies the email/password pair and returns a signed access token
// alongside the authenticated user. Unknown email and wrong password are
// indistinguishable to the caller: both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !VerifyPassword(password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	if !user.Active {
		s.log.Warn().Str("email", email).Msg("login rejected for inactive account")
		metrics.LoginsTotal.WithLabelValues("inactive").Inc()
		return "", nil, domain.ErrInactiveAccount
	}

	token, err := s.tokens.Issue(user.Email, user.Role)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("email", email).Str("role", user.Role).Msg("login succeeded")
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return token, user, nil
}
