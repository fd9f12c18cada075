package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cesizen/identity-system/internal/api/metrics"
	"github.com/cesizen/identity-system/internal/core/domain"
	"github.com/cesizen/identity-system/internal/core/service"
)

// IdentityKey is the echo context key under which Authenticate stores the
// resolved *domain.User.
const IdentityKey = "identity"

// Authenticate extracts the bearer token, validates it, and resolves the
// live account through the access guard. Failures surface as domain errors
// for the central error handler to translate; the guard's storage-resolved
// user is what every later check sees.
func Authenticate(guard *service.AccessGuard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c)
			if err != nil {
				return err
			}

			user, err := guard.Authenticate(c.Request().Context(), raw)
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrTokenMalformed):
					metrics.TokenRejectionsTotal.WithLabelValues("malformed").Inc()
				case errors.Is(err, domain.ErrTokenInvalid):
					metrics.TokenRejectionsTotal.WithLabelValues("invalid").Inc()
				case errors.Is(err, domain.ErrInvalidCredentials):
					metrics.TokenRejectionsTotal.WithLabelValues("unknown_subject").Inc()
				}
				return err
			}

			c.Set(IdentityKey, user)
			return next(c)
		}
	}
}

// RequireActive rejects requests from disabled accounts. Must run after
// Authenticate.
func RequireActive(guard *service.AccessGuard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(IdentityKey).(*domain.User)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if _, err := guard.RequireActive(user); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// RequireAdmin rejects non-admin accounts. Must run after Authenticate.
func RequireAdmin(guard *service.AccessGuard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get(IdentityKey).(*domain.User)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if _, err := guard.RequireAdmin(user); err != nil {
				return err
			}
			return next(c)
		}
	}
}

// bearerToken pulls the raw token out of the Authorization header.
func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}
