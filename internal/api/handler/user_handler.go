package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cesizen/identity-system/internal/api/metrics"
	"github.com/cesizen/identity-system/internal/core/domain"
	"github.com/cesizen/identity-system/internal/core/ports"
)

const defaultListLimit = 100

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the authenticated user's own record.
//
// @Summary      Get current user
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /users/me/ [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe applies a partial self-service update and returns the fresh record.
//
// @Summary      Update current user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      profileUpdateRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Router       /users/me/ [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req profileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.userService.UpdateProfile(c.Request().Context(), user.Username, req.patch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// List returns a page of accounts. Admin only.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Param        skip   query     int  false  "Records to skip"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {array}   domain.User
// @Failure      403    {object}  map[string]string
// @Router       /admin/users/ [get]
func (h *UserHandler) List(c echo.Context) error {
	skip := queryInt(c, "skip", 0)
	limit := queryInt(c, "limit", defaultListLimit)

	users, err := h.userService.List(c.Request().Context(), skip, limit)
	if err != nil {
		return err
	}
	if users == nil {
		users = []domain.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// Get returns one account by username. Admin only.
//
// @Summary      Get a user
// @Tags         admin
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  domain.User
// @Failure      404       {object}  map[string]string
// @Router       /admin/users/{username} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.userService.Get(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update applies an administrative patch to any account.
//
// @Summary      Update a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        username  path      string              true  "Username"
// @Param        body      body      adminUpdateRequest  true  "Fields to change"
// @Success      200       {object}  domain.User
// @Failure      404       {object}  map[string]string
// @Router       /admin/users/{username} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req adminUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.userService.AdminUpdate(c.Request().Context(), c.Param("username"), req.patch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes an account. Admin only; self-deletion is rejected.
//
// @Summary      Delete a user
// @Tags         admin
// @Param        username  path  string  true  "Username"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{username} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.userService.AdminDelete(c.Request().Context(), actor.Username, c.Param("username")); err != nil {
		return err
	}

	metrics.UsersDeletedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

func queryInt(c echo.Context, name string, fallback int64) int64 {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
