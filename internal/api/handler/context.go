package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cesizen/identity-system/internal/api/middleware"
	"github.com/cesizen/identity-system/internal/core/domain"
)

// currentUser extracts the identity resolved by the Authenticate middleware.
// Its presence proves the middleware ran; a handler reached without it is a
// routing mistake and fails closed with 401.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(middleware.IdentityKey).(*domain.User)
	if !ok || user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}
