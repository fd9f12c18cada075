package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cesizen/identity-system/internal/core/domain"
	"github.com/cesizen/identity-system/internal/core/ports"
)

// UserService implements profile self-service and the admin account CRUD.
type UserService struct {
	repo  ports.UserRepository
	audit ports.AuditSink
}

func NewUserService(repo ports.UserRepository, audit ports.AuditSink) *UserService {
	return &UserService{repo: repo, audit: audit}
}

func (s *UserService) Get(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

// UpdateProfile applies a self-service patch. Role and disabled changes are
// stripped before the patch reaches storage so an account can neither
// escalate its own role nor disable itself by accident.
func (s *UserService) UpdateProfile(ctx context.Context, username string, patch domain.UserPatch) (*domain.User, error) {
	patch.Role = nil
	patch.Disabled = nil
	return s.apply(ctx, username, patch)
}

// AdminUpdate applies any patch to any account, including role and
// disabled flips.
func (s *UserService) AdminUpdate(ctx context.Context, username string, patch domain.UserPatch) (*domain.User, error) {
	if patch.Role != nil && !domain.ValidRole(*patch.Role) {
		return nil, domain.ErrInvalidRole
	}
	if _, err := s.repo.FindByUsername(ctx, username); err != nil {
		return nil, err
	}
	return s.apply(ctx, username, patch)
}

// AdminDelete removes an account. Admins cannot delete themselves; the
// check compares usernames, not roles, so it holds even if the actor's
// role changed since their token was issued.
func (s *UserService) AdminDelete(ctx context.Context, actor, username string) error {
	if actor == username {
		return domain.ErrSelfDeletion
	}
	deleted, err := s.repo.Delete(ctx, username)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrUserNotFound
	}
	if s.audit != nil {
		s.audit.Enqueue(domain.AuditEvent{
			Username: username,
			Action:   domain.AuditUserDeleted,
			Reason:   "deleted by " + actor,
			UnixTime: time.Now().Unix(),
		})
	}
	return nil
}

func (s *UserService) List(ctx context.Context, skip, limit int64) ([]domain.User, error) {
	return s.repo.List(ctx, skip, limit)
}

// apply hashes a password change, pre-checks email uniqueness for a clear
// error, and writes the patch. The unique index remains the authority on
// races; a duplicate key on write still comes back as ErrEmailExists.
func (s *UserService) apply(ctx context.Context, username string, patch domain.UserPatch) (*domain.User, error) {
	if patch.Empty() {
		return s.repo.FindByUsername(ctx, username)
	}

	if patch.Email != nil && *patch.Email != "" {
		existing, err := s.repo.FindByEmail(ctx, *patch.Email)
		switch {
		case err == nil && existing.Username != username:
			return nil, domain.ErrEmailExists
		case err != nil && !errors.Is(err, domain.ErrUserNotFound):
			return nil, err
		}
	}

	if patch.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hashed := string(hash)
		patch.Password = &hashed
	}

	modified, err := s.repo.Update(ctx, username, patch)
	if err != nil {
		return nil, err
	}
	if !modified {
		// No-op write: the record may match the patch already, but it must exist.
		if _, err := s.repo.FindByUsername(ctx, username); err != nil {
			return nil, err
		}
	}
	return s.repo.FindByUsername(ctx, username)
}
