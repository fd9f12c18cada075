package service

import (
	"context"
	"sync"

	"github.com/cesizen/identity-system/internal/core/domain"
)

// stubUserRepo is an in-memory credential store double. The mutex makes
// Create atomic so concurrent duplicate inserts behave like the unique
// index in the real store.
type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[username]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	if user.Email != "" {
		for _, u := range r.users {
			if u.Email == user.Email {
				return nil, domain.ErrEmailExists
			}
		}
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = user.Username
	}
	r.users[copy.Username] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) Update(_ context.Context, username string, patch domain.UserPatch) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return false, nil
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.FullName != nil {
		u.FullName = *patch.FullName
	}
	if patch.Password != nil {
		u.PasswordHash = *patch.Password
	}
	if patch.Disabled != nil {
		u.Disabled = *patch.Disabled
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	return true, nil
}

func (r *stubUserRepo) Delete(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[username]; !ok {
		return false, nil
	}
	delete(r.users, username)
	return true, nil
}

func (r *stubUserRepo) List(_ context.Context, skip, limit int64) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	if skip > int64(len(out)) {
		skip = int64(len(out))
	}
	out = out[skip:]
	if limit > 0 && limit < int64(len(out)) {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubUserRepo) EnsureIndexes(_ context.Context) error { return nil }

// stubAuditSink collects enqueued events synchronously.
type stubAuditSink struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (s *stubAuditSink) Enqueue(event domain.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *stubAuditSink) actions() []domain.AuditAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Action)
	}
	return out
}
