package ports

import (
	"context"

	"github.com/cesizen/identity-system/internal/core/domain"
)

// AuditRecorder persists authentication audit events.
type AuditRecorder interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}

// AuditSink accepts audit events for asynchronous persistence. Implemented
// by the queue dispatcher; Enqueue never blocks the request path beyond the
// worker channel buffer.
type AuditSink interface {
	Enqueue(event domain.AuditEvent)
}

// LoginLimiter throttles repeated authentication attempts per account.
type LoginLimiter interface {
	// Enforce counts one attempt for username and returns
	// domain.ErrTooManyAttempts once the window budget is exhausted.
	Enforce(ctx context.Context, username string) error
	// Reset clears the attempt counter after a successful login.
	Reset(ctx context.Context, username string) error
}
