package service

import (
	"context"
	"errors"

	"github.com/cesizen/identity-system/internal/core/domain"
	"github.com/cesizen/identity-system/internal/core/ports"
)

// AccessGuard is the authorization pipeline shared by every protected
// endpoint: decode the token, resolve the live account, then layer the
// active and role checks on top. Each step is an explicit function the
// caller composes; there is no hidden framework chaining.
//
// The storage-resolved role is authoritative: RequireAdmin inspects the
// user record fetched during Authenticate, not the role snapshot embedded
// in the token, so a demotion takes effect on the next request rather than
// at token expiry.
type AccessGuard struct {
	validator ports.TokenValidator
	repo      ports.UserRepository
}

func NewAccessGuard(validator ports.TokenValidator, repo ports.UserRepository) *AccessGuard {
	return &AccessGuard{validator: validator, repo: repo}
}

// Authenticate validates the raw token and resolves its subject against the
// credential store. Invalid tokens and vanished subjects both collapse into
// ErrInvalidCredentials so the response does not reveal which one happened.
func (g *AccessGuard) Authenticate(ctx context.Context, rawToken string) (*domain.User, error) {
	claims, err := g.validator.Validate(rawToken)
	if err != nil {
		return nil, err
	}
	user, err := g.repo.FindByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	return user, nil
}

// RequireActive rejects disabled accounts.
func (g *AccessGuard) RequireActive(user *domain.User) (*domain.User, error) {
	if user.Disabled {
		return nil, domain.ErrInactiveAccount
	}
	return user, nil
}

// RequireAdmin rejects accounts whose stored role is not admin.
func (g *AccessGuard) RequireAdmin(user *domain.User) (*domain.User, error) {
	if user.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return user, nil
}
