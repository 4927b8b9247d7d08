package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/saludtech/profiling-api/internal/core/domain"
)

type stubAuthService struct {
	token string
	user  *domain.User
	err   error

	gotEmail    string
	gotPassword string
}

func (s *stubAuthService) Login(_ context.Context, email, password string) (string, *domain.User, error) {
	s.gotEmail = email
	s.gotPassword = password
	if s.err != nil {
		return "", nil, s.err
	}
	return s.token, s.user, nil
}

func loginContext(form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	svc := &stubAuthService{
		token: "signed-token",
		user:  &domain.User{Email: "alice@example.com", Role: domain.RoleOperator, Active: true},
	}
	h := NewAuthHandler(svc)

	c, rec := loginContext(url.Values{
		"username": {"alice@example.com"},
		"password": {"s3cret123"},
	})
	if err := h.Login(c); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.gotEmail != "alice@example.com" || svc.gotPassword != "s3cret123" {
		t.Fatalf("credentials not forwarded: %q %q", svc.gotEmail, svc.gotPassword)
	}

	var resp tokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.AccessToken != "signed-token" {
		t.Fatalf("unexpected access token: %q", resp.AccessToken)
	}
	if resp.TokenType != "bearer" {
		t.Fatalf("expected token_type bearer, got %q", resp.TokenType)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	svc := &stubAuthService{err: domain.ErrInvalidCredentials}
	h := NewAuthHandler(svc)

	c, rec := loginContext(url.Values{
		"username": {"alice@example.com"},
		"password": {"wrong"},
	})

	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if got := rec.Header().Get(echo.HeaderWWWAuthenticate); got != "Bearer" {
		t.Fatalf("expected WWW-Authenticate: Bearer, got %q", got)
	}
}

func TestAuthHandler_Login_InactiveAccount(t *testing.T) {
	svc := &stubAuthService{err: domain.ErrInactiveAccount}
	h := NewAuthHandler(svc)

	c, rec := loginContext(url.Values{
		"username": {"erin@example.com"},
		"password": {"goodpass"},
	})

	err := h.Login(c)
	if !errors.Is(err, domain.ErrInactiveAccount) {
		t.Fatalf("expected ErrInactiveAccount, got %v", err)
	}
	// No bearer challenge for an inactive account.
	if got := rec.Header().Get(echo.HeaderWWWAuthenticate); got != "" {
		t.Fatalf("unexpected WWW-Authenticate header: %q", got)
	}
}
