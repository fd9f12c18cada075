package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/cesizen/identity-system/internal/core/domain"
)

const defaultTokenTTL = 30 * time.Minute

// TokenService signs and verifies access tokens with a process-wide
// symmetric secret. Both halves are pure: no storage or network access,
// which is what allows every downstream service to validate independently
// of the issuer.
type TokenService struct {
	secret []byte
	alg    jwt.SigningMethod
	ttl    time.Duration
}

// NewTokenService builds a TokenService for the given HMAC algorithm
// (HS256, HS384 or HS512). defaultTTL <= 0 falls back to 30 minutes.
func NewTokenService(secret, algorithm string, defaultTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret must not be empty")
	}
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("token: unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("token: algorithm %q is not a symmetric HMAC method", algorithm)
	}
	if defaultTTL <= 0 {
		defaultTTL = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), alg: method, ttl: defaultTTL}, nil
}

// Issue mints a signed token for subject with the role snapshot embedded.
// ttl <= 0 uses the configured default.
func (s *TokenService) Issue(subject, role string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
		"jti":  uuid.NewString(),
	}
	return jwt.NewWithClaims(s.alg, claims).SignedString(s.secret)
}

// Validate verifies signature, algorithm and expiry, then extracts the
// subject and role. A structurally valid token without a sub claim is
// domain.ErrTokenMalformed; every other failure is domain.ErrTokenInvalid.
func (s *TokenService) Validate(raw string) (domain.Claims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != s.alg.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid {
		return domain.Claims{}, domain.ErrTokenInvalid
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return domain.Claims{}, domain.ErrTokenMalformed
	}
	role, _ := claims["role"].(string)
	if role == "" {
		role = domain.RoleUser
	}
	return domain.Claims{Username: sub, Role: role}, nil
}
