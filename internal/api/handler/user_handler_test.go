package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/cesizen/identity-system/internal/api/middleware"
	"github.com/cesizen/identity-system/internal/core/domain"
)

type stubUserService struct {
	getFn           func(ctx context.Context, username string) (*domain.User, error)
	updateProfileFn func(ctx context.Context, username string, patch domain.UserPatch) (*domain.User, error)
	adminUpdateFn   func(ctx context.Context, username string, patch domain.UserPatch) (*domain.User, error)
	adminDeleteFn   func(ctx context.Context, actor, username string) error
	listFn          func(ctx context.Context, skip, limit int64) ([]domain.User, error)
}

func (s *stubUserService) Get(ctx context.Context, username string) (*domain.User, error) {
	return s.getFn(ctx, username)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, username string, patch domain.UserPatch) (*domain.User, error) {
	return s.updateProfileFn(ctx, username, patch)
}

func (s *stubUserService) AdminUpdate(ctx context.Context, username string, patch domain.UserPatch) (*domain.User, error) {
	return s.adminUpdateFn(ctx, username, patch)
}

func (s *stubUserService) AdminDelete(ctx context.Context, actor, username string) error {
	return s.adminDeleteFn(ctx, actor, username)
}

func (s *stubUserService) List(ctx context.Context, skip, limit int64) ([]domain.User, error) {
	return s.listFn(ctx, skip, limit)
}

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, user *domain.User) echo.Context {
	c := e.NewContext(req, rec)
	c.Set(middleware.IdentityKey, user)
	return c
}

func TestUserHandler_Me(t *testing.T) {
	e := newEcho()
	handler := NewUserHandler(&stubUserService{})

	req := httptest.NewRequest(http.MethodGet, "/users/me/", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, &domain.User{Username: "alice", Role: domain.RoleUser})

	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["username"] != "alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_Me_NoIdentity(t *testing.T) {
	e := newEcho()
	handler := NewUserHandler(&stubUserService{})

	req := httptest.NewRequest(http.MethodGet, "/users/me/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Me(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 error, got %v", err)
	}
}

func TestUserHandler_UpdateMe_PartialPatch(t *testing.T) {
	e := newEcho()
	svc := &stubUserService{
		updateProfileFn: func(ctx context.Context, username string, patch domain.UserPatch) (*domain.User, error) {
			if username != "alice" {
				t.Fatalf("unexpected username %s", username)
			}
			if patch.FullName == nil || *patch.FullName != "Alice Liddell" {
				t.Fatalf("full_name not in patch: %+v", patch)
			}
			if patch.Email != nil || patch.Password != nil {
				t.Fatalf("absent fields must stay nil: %+v", patch)
			}
			return &domain.User{Username: "alice", FullName: *patch.FullName}, nil
		},
	}
	handler := NewUserHandler(svc)

	body := strings.NewReader(`{"full_name":"Alice Liddell"}`)
	req := httptest.NewRequest(http.MethodPut, "/users/me/", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, &domain.User{Username: "alice"})

	if err := handler.UpdateMe(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_UpdateMe_BadEmail(t *testing.T) {
	e := newEcho()
	handler := NewUserHandler(&stubUserService{
		updateProfileFn: func(context.Context, string, domain.UserPatch) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	})

	body := strings.NewReader(`{"email":"not-an-email"}`)
	req := httptest.NewRequest(http.MethodPut, "/users/me/", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, &domain.User{Username: "alice"})

	err := handler.UpdateMe(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 error, got %v", err)
	}
}

func TestUserHandler_List(t *testing.T) {
	e := newEcho()
	svc := &stubUserService{
		listFn: func(ctx context.Context, skip, limit int64) ([]domain.User, error) {
			if skip != 5 || limit != 2 {
				t.Fatalf("pagination not forwarded: skip=%d limit=%d", skip, limit)
			}
			return []domain.User{{Username: "a"}, {Username: "b"}}, nil
		},
	}
	handler := NewUserHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/admin/users/?skip=5&limit=2", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, &domain.User{Username: "root", Role: domain.RoleAdmin})

	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 users, got %d", len(resp))
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	e := newEcho()
	handler := NewUserHandler(&stubUserService{
		getFn: func(ctx context.Context, username string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/users/ghost", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("username")
	c.SetParamValues("ghost")

	if err := handler.Get(c); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserHandler_Delete_Self(t *testing.T) {
	e := newEcho()
	handler := NewUserHandler(&stubUserService{
		adminDeleteFn: func(ctx context.Context, actor, username string) error {
			if actor != "root" || username != "root" {
				t.Fatalf("unexpected args: %s %s", actor, username)
			}
			return domain.ErrSelfDeletion
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/admin/users/root", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, &domain.User{Username: "root", Role: domain.RoleAdmin})
	c.SetParamNames("username")
	c.SetParamValues("root")

	if err := handler.Delete(c); err != domain.ErrSelfDeletion {
		t.Fatalf("expected ErrSelfDeletion, got %v", err)
	}
}

func TestUserHandler_Delete_Success(t *testing.T) {
	e := newEcho()
	handler := NewUserHandler(&stubUserService{
		adminDeleteFn: func(ctx context.Context, actor, username string) error {
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/admin/users/alice", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, &domain.User{Username: "root", Role: domain.RoleAdmin})
	c.SetParamNames("username")
	c.SetParamValues("alice")

	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
