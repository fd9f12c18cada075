package ports

import (
	"context"

	"github.com/cesizen/identity-system/internal/core/domain"
)

// UserRepository is the credential store contract. The production
// implementation lives in internal/infrastructure/db/mongo; tests use an
// in-memory double satisfying the same interface.
//
// Uniqueness of username and email is enforced by the storage layer itself
// (unique indexes), never by a caller-side check-then-insert: Create must
// return domain.ErrUserExists / domain.ErrEmailExists even when two creates
// race on the same value.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Update applies only the non-nil fields of patch and reports whether a
	// record was modified. Password is expected to be hashed already.
	Update(ctx context.Context, username string, patch domain.UserPatch) (bool, error)
	Delete(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, skip, limit int64) ([]domain.User, error)
	// EnsureIndexes establishes the unique indexes. Idempotent; called once
	// at startup before the server accepts traffic.
	EnsureIndexes(ctx context.Context) error
}
