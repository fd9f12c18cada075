package domain

import "errors"

// Sentinel errors shared by every layer. The HTTP boundary translates them
// into status codes in internal/api/error_handler.go; nothing below that
// layer knows about HTTP.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username already registered")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInvalidRole        = errors.New("unrecognised role")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInactiveAccount    = errors.New("inactive user")
	ErrForbidden          = errors.New("not enough permissions")
	ErrSelfDeletion       = errors.New("cannot delete your own account")
	ErrTokenInvalid       = errors.New("invalid or expired token")
	ErrTokenMalformed     = errors.New("token missing required claims")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)
