package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/saludtech/profiling-api/internal/core/domain"
	"github.com/saludtech/profiling-api/internal/core/ports"
	"github.com/saludtech/profiling-api/internal/core/service"
)

// Auth validates the bearer token and injects the resolved caller into the
// request context. The caller is re-resolved from the user store on every
// request, so role demotions and deactivations take effect immediately
// rather than when the token expires.
//
// Context keys set on success: "user_id", "email", "role".
func Auth(tokens *service.TokenService, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return unauthorized(c, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return unauthorized(c, "invalid authorization header")
			}

			claims, err := tokens.Validate(parts[1])
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					return unauthorized(c, "token expired")
				}
				return unauthorized(c, "invalid token")
			}

			user, err := users.FindByEmail(c.Request().Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return unauthorized(c, "invalid token")
				}
				return err
			}

			if !user.Active {
				return echo.NewHTTPError(http.StatusBadRequest, "inactive account")
			}

			c.Set("user_id", user.ID)
			c.Set("email", user.Email)
			c.Set("role", user.Role)

			return next(c)
		}
	}
}

// unauthorized renders a 401 with the WWW-Authenticate challenge the bearer
// scheme requires.
func unauthorized(c echo.Context, msg string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}
