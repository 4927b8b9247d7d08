package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/saludtech/profiling-api/internal/core/domain"
	"github.com/saludtech/profiling-api/internal/core/service"
)

type stubUserRepo struct {
	users map[string]*domain.User // keyed by email
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.users[user.Email] = user
	return user, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, skip, limit int) ([]domain.User, error) {
	return nil, nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id string, active bool) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func authRequest(t *testing.T, tokens *service.TokenService, users *stubUserRepo, header string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	next := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
	err := Auth(tokens, users)(next)(c)
	return rec, err
}

func TestAuth_ValidToken(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	users := newStubUserRepo()
	users.users["alice@example.com"] = &domain.User{
		ID:     "u-1",
		Email:  "alice@example.com",
		Role:   domain.RoleOperator,
		Active: true,
	}

	token, err := tokens.Issue("alice@example.com", domain.RoleOperator)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID, gotRole string
	next := func(c echo.Context) error {
		gotID, _ = c.Get("user_id").(string)
		gotRole, _ = c.Get("role").(string)
		return c.NoContent(http.StatusOK)
	}
	if err := Auth(tokens, users)(next)(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}

	if gotID != "u-1" {
		t.Fatalf("expected user_id u-1, got %q", gotID)
	}
	if gotRole != domain.RoleOperator {
		t.Fatalf("expected role operator, got %q", gotRole)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	rec, err := authRequest(t, tokens, newStubUserRepo(), "")

	assertUnauthorized(t, rec, err)
}

func TestAuth_MalformedHeader(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)

	for _, header := range []string{"Token abc", "Bearer", "justonetoken"} {
		rec, err := authRequest(t, tokens, newStubUserRepo(), header)
		assertUnauthorized(t, rec, err)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := issued
	tokens := service.NewTokenService("secret", time.Minute).WithClock(func() time.Time { return clock })

	token, err := tokens.Issue("alice@example.com", domain.RoleOperator)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	clock = issued.Add(2 * time.Minute)

	rec, err := authRequest(t, tokens, newStubUserRepo(), "Bearer "+token)
	assertUnauthorized(t, rec, err)
}

func TestAuth_WrongSecret(t *testing.T) {
	issuer := service.NewTokenService("secret-a", time.Hour)
	verifier := service.NewTokenService("secret-b", time.Hour)

	token, err := issuer.Issue("alice@example.com", domain.RoleOperator)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec, err := authRequest(t, verifier, newStubUserRepo(), "Bearer "+token)
	assertUnauthorized(t, rec, err)
}

func TestAuth_UnknownSubject(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)

	// Valid token but the user no longer exists in the store.
	token, err := tokens.Issue("ghost@example.com", domain.RoleOperator)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec, err := authRequest(t, tokens, newStubUserRepo(), "Bearer "+token)
	assertUnauthorized(t, rec, err)
}

func TestAuth_InactiveUser(t *testing.T) {
	tokens := service.NewTokenService("secret", time.Hour)
	users := newStubUserRepo()
	users.users["bob@example.com"] = &domain.User{
		ID:     "u-2",
		Email:  "bob@example.com",
		Role:   domain.RoleOperator,
		Active: false,
	}

	token, err := tokens.Issue("bob@example.com", domain.RoleOperator)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	// Deactivation takes effect even while the token is still valid.
	_, err = authRequest(t, tokens, users, "Bearer "+token)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected echo.HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for inactive account, got %d", httpErr.Code)
	}
}

func assertUnauthorized(t *testing.T, rec *httptest.ResponseRecorder, err error) {
	t.Helper()

	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected echo.HTTPError, got %v", err)
	}
	if httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", httpErr.Code)
	}
	if got := rec.Header().Get(echo.HeaderWWWAuthenticate); got != "Bearer" {
		t.Fatalf("expected WWW-Authenticate: Bearer, got %q", got)
	}
}
