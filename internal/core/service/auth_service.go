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

// AuthService implements login, registration and admin bootstrap on top of
// the credential store and the token issuer.
type AuthService struct {
	repo    ports.UserRepository
	issuer  ports.TokenIssuer
	limiter ports.LoginLimiter
	audit   ports.AuditSink
}

func NewAuthService(repo ports.UserRepository, issuer ports.TokenIssuer, limiter ports.LoginLimiter, audit ports.AuditSink) *AuthService {
	return &AuthService{repo: repo, issuer: issuer, limiter: limiter, audit: audit}
}

// Login verifies the password against the stored bcrypt hash and mints a
// token carrying the account's current role. An unknown username and a
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.Enforce(ctx, username); err != nil {
			return "", nil, err
		}
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.record(username, domain.AuditLoginFailed, "unknown user")
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.record(username, domain.AuditLoginFailed, "wrong password")
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.Username, user.Role, 0)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, username); err != nil {
			return "", nil, err
		}
	}
	s.record(username, domain.AuditLoginSucceeded, "")

	return token, user, nil
}

// Register hashes the password and creates the account. Role defaults to
// "user" when unset; duplicate username or email surfaces as the matching
// sentinel from the storage layer.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Username == "" || input.Password == "" {
		return nil, domain.ErrInvalidInput
	}
	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: string(hash),
		Role:         role,
		Disabled:     false,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.record(created.Username, domain.AuditUserRegistered, "")
	return created, nil
}

// BootstrapAdmin creates the admin account unless a record with that
// username already exists. Losing a concurrent create race with an
// identical bootstrap on another instance is treated as success.
func (s *AuthService) BootstrapAdmin(ctx context.Context, username, password, email string) error {
	_, err := s.repo.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	_, err = s.repo.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		FullName:     "Admin User",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	})
	if errors.Is(err, domain.ErrUserExists) || errors.Is(err, domain.ErrEmailExists) {
		return nil
	}
	return err
}

func (s *AuthService) record(username string, action domain.AuditAction, reason string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(domain.AuditEvent{
		Username: username,
		Action:   action,
		Reason:   reason,
		UnixTime: time.Now().Unix(),
	})
}
