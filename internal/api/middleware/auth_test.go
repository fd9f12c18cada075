package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cesizen/identity-system/internal/core/domain"
	"github.com/cesizen/identity-system/internal/core/service"
)

// stubRepo resolves exactly one user; everything else is out of scope for
// the middleware tests.
type stubRepo struct {
	user *domain.User
}

func (r *stubRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.user != nil && r.user.Username == username {
		clone := *r.user
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubRepo) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *stubRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	return u, nil
}

func (r *stubRepo) Update(context.Context, string, domain.UserPatch) (bool, error) {
	return false, nil
}

func (r *stubRepo) Delete(context.Context, string) (bool, error) { return false, nil }

func (r *stubRepo) List(context.Context, int64, int64) ([]domain.User, error) { return nil, nil }

func (r *stubRepo) EnsureIndexes(context.Context) error { return nil }

func newMiddlewareGuard(t *testing.T, user *domain.User) (*service.AccessGuard, *service.TokenService) {
	t.Helper()
	tokens, err := service.NewTokenService("secret", "HS256", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return service.NewAccessGuard(tokens, &stubRepo{user: user}), tokens
}

func TestAuthenticate_ValidToken(t *testing.T) {
	e := echo.New()
	guard, tokens := newMiddlewareGuard(t, &domain.User{Username: "alice", Role: domain.RoleAdmin})

	signed, err := tokens.Issue("alice", domain.RoleUser, 0)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Authenticate(guard)(func(c echo.Context) error {
		called = true
		user, ok := c.Get(IdentityKey).(*domain.User)
		if !ok {
			t.Fatalf("identity not set")
		}
		// The stored record wins over the token's role snapshot.
		if user.Role != domain.RoleAdmin {
			t.Fatalf("expected stored role, got %s", user.Role)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	e := echo.New()
	guard, _ := newMiddlewareGuard(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Authenticate(guard)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthenticate_InvalidHeaderFormat(t *testing.T) {
	e := echo.New()
	guard, _ := newMiddlewareGuard(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Token abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Authenticate(guard)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthenticate_BadToken(t *testing.T) {
	e := echo.New()
	guard, _ := newMiddlewareGuard(t, &domain.User{Username: "alice"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Authenticate(guard)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAuthenticate_SubjectDeleted(t *testing.T) {
	e := echo.New()
	guard, tokens := newMiddlewareGuard(t, nil)

	signed, err := tokens.Issue("ghost", domain.RoleUser, 0)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Authenticate(guard)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRequireActive(t *testing.T) {
	e := echo.New()
	guard, _ := newMiddlewareGuard(t, nil)

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set(IdentityKey, &domain.User{Username: "alice"})

	called := false
	handler := RequireActive(guard)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil || !called {
		t.Fatalf("active user rejected: %v", err)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set(IdentityKey, &domain.User{Username: "bob", Disabled: true})

	handler = RequireActive(guard)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if err := handler(c); err != domain.ErrInactiveAccount {
		t.Fatalf("expected ErrInactiveAccount, got %v", err)
	}
}

func TestRequireAdmin(t *testing.T) {
	e := echo.New()
	guard, _ := newMiddlewareGuard(t, nil)

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set(IdentityKey, &domain.User{Username: "root", Role: domain.RoleAdmin})

	called := false
	handler := RequireAdmin(guard)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil || !called {
		t.Fatalf("admin rejected: %v", err)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set(IdentityKey, &domain.User{Username: "alice", Role: domain.RoleUser})

	handler = RequireAdmin(guard)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	if err := handler(c); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
