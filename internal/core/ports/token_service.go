package ports

import (
	"time"

	"github.com/cesizen/identity-system/internal/core/domain"
)

// TokenIssuer mints signed, time-bounded access tokens. Issuing performs no
// authentication; the login flow must verify the subject first.
type TokenIssuer interface {
	// Issue signs a claim set {sub, role, exp} for the subject. A ttl <= 0
	// falls back to the configured default.
	Issue(subject, role string, ttl time.Duration) (string, error)
}

// TokenValidator verifies a raw token offline. It needs only the shared
// secret, which is what lets every downstream service validate without
// calling back to the issuer.
type TokenValidator interface {
	Validate(raw string) (domain.Claims, error)
}
