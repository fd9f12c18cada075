package ports

import (
	"context"

	"github.com/cesizen/identity-system/internal/core/domain"
)

// AuthService owns credential verification and account registration.
type AuthService interface {
	// Login verifies the password and mints an access token. The returned
	// string is the signed token; authentication failures surface as
	// domain.ErrInvalidCredentials regardless of whether the username or
	// the password was wrong.
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// BootstrapAdmin seeds the admin account when it does not exist yet.
	// Idempotent; safe to call on every process start.
	BootstrapAdmin(ctx context.Context, username, password, email string) error
}

// RegisterInput carries the fields accepted at registration time.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	FullName string
	Role     string
}

// UserService covers profile and administrative account management.
type UserService interface {
	Get(ctx context.Context, username string) (*domain.User, error)
	// UpdateProfile applies a self-service patch; role and disabled changes
	// are stripped so a user cannot escalate or lock themselves out.
	UpdateProfile(ctx context.Context, username string, patch domain.UserPatch) (*domain.User, error)
	// AdminUpdate applies any patch to any account.
	AdminUpdate(ctx context.Context, username string, patch domain.UserPatch) (*domain.User, error)
	// AdminDelete removes an account; actor is the admin performing the
	// call and may not delete themselves.
	AdminDelete(ctx context.Context, actor, username string) error
	List(ctx context.Context, skip, limit int64) ([]domain.User, error)
}
